// Package executor implements C6: it walks a validated *flow.Flow and
// drives the adapter one command at a time, applying the auto-wait policy,
// recording a StepResult per command, and emitting progress frames as it
// goes.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/9wick/enbu/adapter"
	"github.com/9wick/enbu/flow"
	"github.com/9wick/enbu/progress"
)

// Config configures a Run. Bail, if true, stops the run at the first
// failed step; otherwise every step runs regardless of prior failures.
// DefaultWaitTimeout bounds the auto-wait preceding each interaction.
// ScreenshotOnError, if true, makes a failed step synchronously attempt a
// screenshot to the platform temp directory (§4.6 step 5); it has no
// effect on an explicit `screenshot` command, which always captures.
type Config struct {
	Adapter            adapter.Adapter
	Emitter            *progress.Emitter // optional; nil disables C7 frames
	Metrics            *Metrics          // optional
	Bail               bool
	DefaultWaitTimeout time.Duration
	SessionName        string
	SessionPrefix      string
	ScreenshotOnError  bool
}

// Executor runs a single validated flow.
type Executor struct {
	cfg Config
}

// New returns an Executor configured by cfg.
func New(cfg Config) *Executor {
	if cfg.DefaultWaitTimeout <= 0 {
		cfg.DefaultWaitTimeout = 5 * time.Second
	}
	return &Executor{cfg: cfg}
}

// Run drives f's steps to completion (or to the first failure, if
// cfg.Bail) and returns the aggregate result. A not_installed adapter
// error always aborts the remaining steps regardless of Bail: there is no
// adapter left to run them against.
func (e *Executor) Run(ctx context.Context, f *flow.Flow) (*FlowResult, error) {
	session := SessionName(e.cfg.SessionName, e.cfg.SessionPrefix)
	steps := f.Steps()

	ctx, span := startFlowSpan(ctx, f.Name())
	defer span.End()

	if e.cfg.Emitter != nil {
		if err := e.cfg.Emitter.FlowStart(f.Name(), session, len(steps)); err != nil {
			return nil, fmt.Errorf("emitting flow:start: %w", err)
		}
	}

	start := time.Now()
	result := &FlowResult{FlowName: f.Name(), SessionName: session, Status: StatusPassed}
	stepTotal := len(steps)

	for i, cmd := range steps {
		stepResult := e.runStep(ctx, i, stepTotal, cmd)
		result.Steps = append(result.Steps, stepResult)

		if e.cfg.Metrics != nil {
			e.cfg.Metrics.observeStep(string(cmd.Tag), stepResult.Status)
		}
		if e.cfg.Emitter != nil {
			if err := e.cfg.Emitter.StepComplete(i, stepTotal, string(cmd.Tag), stepResult.Status == StatusPassed, errString(stepResult.Err), stepResult.Duration); err != nil {
				return nil, fmt.Errorf("emitting step:complete: %w", err)
			}
		}

		if stepResult.Status == StatusFailed {
			result.Status = StatusFailed
			if isFatalAdapterError(stepResult.Err) || e.cfg.Bail {
				// Mark remaining steps skipped rather than silently
				// omitting them from the result.
				for j := i + 1; j < len(steps); j++ {
					result.Steps = append(result.Steps, StepResult{Index: j, Tag: string(steps[j].Tag), Status: StatusSkipped})
				}
				break
			}
		}
	}

	result.Duration = time.Since(start)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.observeFlow(result.Duration)
	}
	if e.cfg.Emitter != nil {
		if err := e.cfg.Emitter.FlowComplete(f.Name(), result.Status == StatusPassed, result.Duration); err != nil {
			return nil, fmt.Errorf("emitting flow:complete: %w", err)
		}
	}

	return result, nil
}

func (e *Executor) runStep(ctx context.Context, index, stepTotal int, cmd flow.Command) StepResult {
	ctx, span := startStepSpan(ctx, index, string(cmd.Tag))
	defer span.End()

	if e.cfg.Emitter != nil {
		_ = e.cfg.Emitter.StepStart(index, stepTotal, string(cmd.Tag))
	}

	start := time.Now()
	screenshot, err := e.dispatch(ctx, cmd)
	duration := time.Since(start)

	status := StatusPassed
	if err != nil {
		status = StatusFailed
		span.RecordError(err)
		if e.cfg.ScreenshotOnError {
			screenshot = e.errorScreenshot(ctx)
		}
	}

	return StepResult{Index: index, Tag: string(cmd.Tag), Status: status, Err: err, Duration: duration, Screenshot: screenshot}
}

// errorScreenshot implements the §4.6 step 5 / §6 error-screenshot
// policy: synchronously attempt a screenshot to
// ${tmpdir}/flow-error-<unixMillis>.png, recording the outcome as a
// three-state ScreenshotResult rather than letting a capture failure
// mask the step's own error.
func (e *Executor) errorScreenshot(ctx context.Context) ScreenshotResult {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("flow-error-%d.png", time.Now().UnixMilli()))
	if err := e.cfg.Adapter.Screenshot(ctx, path, false); err != nil {
		return ScreenshotFailed(err.Error())
	}
	return ScreenshotCaptured(path)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// isFatalAdapterError reports whether err is severe enough to abort the
// remaining steps regardless of Bail (currently: the driver binary could
// not be located at all).
func isFatalAdapterError(err error) bool {
	type kinder interface{ Kind() adapter.Kind }
	k, ok := err.(kinder)
	return ok && k.Kind() == adapter.KindNotInstalled
}
