package supervisor

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/9wick/enbu/progress"
)

func TestSupervisorReassemblesFramesAcrossChunks(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	// Emit two frames, cutting the second one mid-line across two writes
	// with a delay between them, so it reaches the reader in separate reads.
	script := `printf '{"type":"flow:start","flowName":"f","stepTotal":1}\n{"type":"flow:com'; sleep 0.05; printf 'plete","flowName":"f","status":"passed","duration":50}\n'`
	sup := New("sh", "-c", script)

	var frames []progress.Frame
	var flowStarts, flowCompletes int
	done := make(chan struct{})
	sup.OnFrame(func(f progress.Frame) { frames = append(frames, f) })
	sup.OnFlowStart(func(f progress.Frame) { flowStarts++ })
	sup.OnFlowComplete(func(f progress.Frame) { flowCompletes++ })
	sup.OnClose(func(err error) { close(done) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sup.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for supervisor to close")
	}

	if len(frames) != 2 {
		t.Fatalf("len(frames) = %d, want 2", len(frames))
	}
	if frames[0].Type != progress.TypeFlowStart {
		t.Errorf("frames[0].Type = %q, want flow:start", frames[0].Type)
	}
	if frames[1].Type != progress.TypeFlowComplete {
		t.Errorf("frames[1].Type = %q, want flow:complete", frames[1].Type)
	}
	if flowStarts != 1 {
		t.Errorf("flowStarts = %d, want 1", flowStarts)
	}
	if flowCompletes != 1 {
		t.Errorf("flowCompletes = %d, want 1", flowCompletes)
	}
}

func TestSupervisorCancellationKillsChild(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	sup := New("sleep", "30")
	done := make(chan error, 1)
	sup.OnClose(func(err error) { done <- err })

	ctx, cancel := context.WithCancel(context.Background())
	if err := sup.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected a non-nil wait error after cancellation killed the child")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for cancellation to close the supervisor")
	}
}

func TestSupervisorDoubleStartRejected(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	sup := New("true")
	ctx := context.Background()
	if err := sup.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := sup.Start(ctx); err == nil {
		t.Error("expected the second Start call to be rejected")
	}
}
