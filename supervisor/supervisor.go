// Package supervisor implements C8: it spawns the engine binary (cmd/enbu)
// as a child process, reassembles its stdout into discrete progress
// frames, and dispatches them to typed subscribers. A Supervisor is
// single-use: one Start call, one child process, one terminal OnClose.
package supervisor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/9wick/enbu/progress"
)

func decodeLine(line []byte, frame *progress.Frame) error {
	return json.Unmarshal(line, frame)
}

// FrameHandler is invoked once per progress frame, in the order the child
// process emitted them, regardless of its type. Prefer the per-kind
// OnFlowStart/OnStepStart/OnStepComplete/OnFlowComplete subscriptions
// when a consumer only cares about one message shape; FrameHandler remains
// for consumers (like Broadcaster) that fan every frame out uniformly.
type FrameHandler func(progress.Frame)

// FlowStartHandler, StepStartHandler, StepCompleteHandler, and
// FlowCompleteHandler are each invoked only for their matching frame
// type, per §4.8's typed-subscription requirement.
type (
	FlowStartHandler    func(progress.Frame)
	StepStartHandler    func(progress.Frame)
	StepCompleteHandler func(progress.Frame)
	FlowCompleteHandler func(progress.Frame)
)

// ErrorHandler is invoked if a line of the child process's stdout cannot
// be parsed as a progress frame, a frame carries an unknown type, or the
// process itself cannot be started.
type ErrorHandler func(error)

// CloseHandler is invoked exactly once, when the child process exits
// (cleanly or not) or Stop is called.
type CloseHandler func(exitErr error)

// Supervisor spawns and supervises one child engine process.
type Supervisor struct {
	binary string
	args   []string

	mu             sync.Mutex
	started        bool
	cmd            *exec.Cmd
	handlers       []FrameHandler
	onFlowStart    []FlowStartHandler
	onStepStart    []StepStartHandler
	onStepComplete []StepCompleteHandler
	onFlowComplete []FlowCompleteHandler
	onError        ErrorHandler
	onClose        CloseHandler
}

// New prepares a Supervisor for binary invoked with args. Nothing is
// spawned until Start is called.
func New(binary string, args ...string) *Supervisor {
	return &Supervisor{binary: binary, args: args}
}

// OnFrame registers a handler invoked for every decoded progress frame,
// regardless of type. Must be called before Start.
func (s *Supervisor) OnFrame(h FrameHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// OnFlowStart registers a handler invoked for every flow:start frame.
// Must be called before Start.
func (s *Supervisor) OnFlowStart(h FlowStartHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFlowStart = append(s.onFlowStart, h)
}

// OnStepStart registers a handler invoked for every step:start frame.
// Must be called before Start.
func (s *Supervisor) OnStepStart(h StepStartHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStepStart = append(s.onStepStart, h)
}

// OnStepComplete registers a handler invoked for every step:complete
// frame. Must be called before Start.
func (s *Supervisor) OnStepComplete(h StepCompleteHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStepComplete = append(s.onStepComplete, h)
}

// OnFlowComplete registers a handler invoked for every flow:complete
// frame. Must be called before Start.
func (s *Supervisor) OnFlowComplete(h FlowCompleteHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFlowComplete = append(s.onFlowComplete, h)
}

// OnError registers the handler invoked on a frame-decode or spawn
// failure. Must be called before Start.
func (s *Supervisor) OnError(h ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = h
}

// OnClose registers the handler invoked exactly once when the child exits.
// Must be called before Start.
func (s *Supervisor) OnClose(h CloseHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = h
}

// Start spawns the child process and begins reading its stdout in a
// background goroutine. Cancelling ctx kills the child process. Start may
// only be called once per Supervisor.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("supervisor: Start called more than once")
	}
	s.started = true
	cmd := exec.CommandContext(ctx, s.binary, s.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("supervisor: stdout pipe: %w", err)
	}
	s.cmd = cmd
	s.mu.Unlock()

	if err := cmd.Start(); err != nil {
		startErr := fmt.Errorf("supervisor: starting %s: %w", s.binary, err)
		s.dispatchError(startErr)
		s.dispatchClose(err)
		return startErr
	}

	go s.readLoop(stdout)
	return nil
}

// readLoop reassembles stdout into lines (buffering partial lines across
// reads) and decodes each as a progress.Frame.
func (s *Supervisor) readLoop(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var frame progress.Frame
		if err := decodeLine(line, &frame); err != nil {
			s.dispatchError(fmt.Errorf("supervisor: decoding frame: %w", err))
			continue
		}
		s.dispatchFrame(frame)
	}
	if err := scanner.Err(); err != nil {
		s.dispatchError(fmt.Errorf("supervisor: reading child stdout: %w", err))
	}

	waitErr := s.cmd.Wait()
	s.dispatchClose(waitErr)
}

// dispatchFrame fans f out to every registered generic FrameHandler, then
// to whichever typed slice matches f.Type. A type that parses but matches
// none of the four known kinds is reported to the ErrorHandler: no typed
// handler fires for it, but generic FrameHandlers (Broadcaster included)
// still see it.
func (s *Supervisor) dispatchFrame(f progress.Frame) {
	s.mu.Lock()
	handlers := append([]FrameHandler(nil), s.handlers...)
	var typed []func(progress.Frame)
	unknown := false
	switch f.Type {
	case progress.TypeFlowStart:
		for _, h := range s.onFlowStart {
			typed = append(typed, h)
		}
	case progress.TypeStepStart:
		for _, h := range s.onStepStart {
			typed = append(typed, h)
		}
	case progress.TypeStepComplete:
		for _, h := range s.onStepComplete {
			typed = append(typed, h)
		}
	case progress.TypeFlowComplete:
		for _, h := range s.onFlowComplete {
			typed = append(typed, h)
		}
	default:
		unknown = true
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(f)
	}
	for _, h := range typed {
		h(f)
	}
	if unknown {
		s.dispatchError(fmt.Errorf("supervisor: unknown frame type %q", f.Type))
	}
}

func (s *Supervisor) dispatchError(err error) {
	s.mu.Lock()
	h := s.onError
	s.mu.Unlock()
	if h != nil {
		h(err)
	}
}

func (s *Supervisor) dispatchClose(err error) {
	s.mu.Lock()
	h := s.onClose
	s.mu.Unlock()
	if h != nil {
		h(err)
	}
}

// Stop kills the child process if it is still running.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
