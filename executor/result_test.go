package executor

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestStepResultMarshalJSONIncludesErrorText(t *testing.T) {
	sr := StepResult{
		Index:      1,
		Tag:        "click",
		Status:     StatusFailed,
		Err:        errors.New("boom"),
		Duration:   5 * time.Millisecond,
		Screenshot: ScreenshotFailed("disk full"),
	}
	data, err := json.Marshal(sr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["error"] != "boom" {
		t.Errorf("error = %v, want boom", decoded["error"])
	}
	screenshot := decoded["screenshot"].(map[string]any)
	if screenshot["state"] != "failed" || screenshot["reason"] != "disk full" {
		t.Errorf("screenshot = %v, want failed/disk full", screenshot)
	}
}

func TestScreenshotResultStates(t *testing.T) {
	if !ScreenshotDisabled().IsDisabled() {
		t.Error("ScreenshotDisabled should report IsDisabled")
	}
	if !ScreenshotCaptured("out.png").IsCaptured() {
		t.Error("ScreenshotCaptured should report IsCaptured")
	}
	if !ScreenshotFailed("x").IsFailed() {
		t.Error("ScreenshotFailed should report IsFailed")
	}
}
