package progress

import "time"

// Type identifies a progress frame's shape on the wire.
type Type string

const (
	TypeFlowStart    Type = "flow:start"
	TypeStepStart    Type = "step:start"
	TypeStepComplete Type = "step:complete"
	TypeFlowComplete Type = "flow:complete"
)

// Status is the pass/fail outcome carried by step:complete and
// flow:complete frames.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Frame is the envelope common to every progress message: one JSON object
// per line, Type discriminating which of the payload fields are set.
//
// StepIndex is a pointer because index 0 must still appear on the wire;
// a plain int with `omitempty` would drop it.
type Frame struct {
	Type Type `json:"type"`

	// flow:start / flow:complete (FlowName); flow:start (SessionName)
	FlowName    string `json:"flowName,omitempty"`
	SessionName string `json:"sessionName,omitempty"`

	// flow:start / step:start / step:complete
	StepTotal *int `json:"stepTotal,omitempty"`

	// step:start / step:complete
	StepIndex *int   `json:"stepIndex,omitempty"`
	Tag       string `json:"tag,omitempty"`

	// step:complete / flow:complete
	Status Status `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`

	// step:complete: duration in ms of the single step.
	// flow:complete: duration in ms of the whole run.
	// Pointer so a genuinely instantaneous (0ms) step or run still
	// serializes its duration field instead of it vanishing under
	// omitempty.
	Duration *int64 `json:"duration,omitempty"`
}

func intPtr(i int) *int     { return &i }
func int64Ptr(i int64) *int64 { return &i }
func durationMS(d time.Duration) *int64 { return int64Ptr(d.Milliseconds()) }
