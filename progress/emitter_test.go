package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestEmitterWritesOneFrameProLine(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	if err := e.FlowStart("login", "enbu-abc", 3); err != nil {
		t.Fatalf("FlowStart: %v", err)
	}
	if err := e.StepStart(0, 3, "open"); err != nil {
		t.Fatalf("StepStart: %v", err)
	}
	if err := e.StepComplete(0, 3, "open", true, "", 10*time.Millisecond); err != nil {
		t.Fatalf("StepComplete: %v", err)
	}
	if err := e.FlowComplete("login", true, 50*time.Millisecond); err != nil {
		t.Fatalf("FlowComplete: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4", len(lines))
	}
}

func TestDecodeFrames(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	_ = e.FlowStart("login", "enbu-abc", 1)
	_ = e.StepStart(0, 1, "open")
	_ = e.StepComplete(0, 1, "open", true, "", time.Millisecond)
	_ = e.FlowComplete("login", true, time.Millisecond)

	var types []Type
	err := DecodeFrames(&buf, func(f Frame) error {
		types = append(types, f.Type)
		return nil
	})
	if err != nil {
		t.Fatalf("DecodeFrames: %v", err)
	}
	want := []Type{TypeFlowStart, TypeStepStart, TypeStepComplete, TypeFlowComplete}
	if len(types) != len(want) {
		t.Fatalf("got %d frames, want %d", len(types), len(want))
	}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("frame[%d].Type = %q, want %q", i, types[i], w)
		}
	}
}

func TestStepIndexZeroIsSerialized(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	if err := e.StepStart(0, 2, "open"); err != nil {
		t.Fatalf("StepStart: %v", err)
	}
	if !strings.Contains(buf.String(), `"stepIndex":0`) {
		t.Errorf("step:start frame dropped stepIndex 0: %s", buf.String())
	}
}

func TestEmitterConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(i int) {
			_ = e.StepStart(i, 10, "click")
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("len(lines) = %d, want 10 (no interleaved partial lines)", len(lines))
	}
}
