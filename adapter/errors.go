package adapter

import "fmt"

// Kind identifies an adapter failure's position in the error taxonomy.
type Kind string

const (
	KindNotInstalled           Kind = "not_installed"
	KindCommandFailed          Kind = "command_failed"
	KindCommandExecutionFailed Kind = "command_execution_failed"
	KindOutputParseError       Kind = "agent_browser_output_parse_error"
	KindTimeout                Kind = "timeout"
)

// NotInstalledError reports that the external driver binary could not be
// located via the custom-path / ENBU_DRIVER_PATH / PATH cascade.
type NotInstalledError struct {
	Searched []string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("driver binary not found (searched: %v)", e.Searched)
}

func (e *NotInstalledError) Kind() Kind { return KindNotInstalled }

// CommandFailedError reports that the driver process exited with a
// non-zero status: the process itself rejected the invocation before it
// could even produce a success/failure envelope.
type CommandFailedError struct {
	Op       string
	ExitCode int
	Stderr   string
	Args     []string
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("%s: driver exited %d: %s (args: %v)", e.Op, e.ExitCode, e.Stderr, e.Args)
}

func (e *CommandFailedError) Kind() Kind { return KindCommandFailed }

// CommandExecutionError reports that the driver process exited zero but
// either could not be started at all, or replied with a well-formed
// envelope carrying success=false.
type CommandExecutionError struct {
	Op      string
	Message string // inner message from an envelope's success=false
	Cause   error  // set instead of Message when the process never started
}

func (e *CommandExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: failed to execute driver: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *CommandExecutionError) Unwrap() error { return e.Cause }

func (e *CommandExecutionError) Kind() Kind { return KindCommandExecutionFailed }

// OutputParseError reports that the driver's stdout could not be parsed as
// the expected JSON envelope.
type OutputParseError struct {
	Op     string
	Output string
	Cause  error
}

func (e *OutputParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse driver output %q: %v", e.Op, e.Output, e.Cause)
}

func (e *OutputParseError) Unwrap() error { return e.Cause }

func (e *OutputParseError) Kind() Kind { return KindOutputParseError }

// TimeoutError reports that an operation exceeded its per-call deadline.
type TimeoutError struct {
	Op      string
	Timeout int64 // milliseconds
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %dms", e.Op, e.Timeout)
}

func (e *TimeoutError) Kind() Kind { return KindTimeout }
