package adapter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// resolveBinary implements the §4.1/§6 cascade: an explicit path wins,
// then ENBU_DRIVER_PATH, then the binary's name resolved against PATH.
// Deliberately narrower than a cache-directory download cascade — this
// adapter never installs the driver, it only locates one already present.
func resolveBinary(explicitPath string) (string, error) {
	searched := make([]string, 0, 3)

	if explicitPath != "" {
		searched = append(searched, explicitPath)
		if _, err := os.Stat(explicitPath); err == nil {
			return explicitPath, nil
		}
	}

	if envPath := os.Getenv("ENBU_DRIVER_PATH"); envPath != "" {
		searched = append(searched, envPath)
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	searched = append(searched, driverBinaryName)
	if found, err := exec.LookPath(driverBinaryName); err == nil {
		return found, nil
	}

	return "", &NotInstalledError{Searched: searched}
}

// driverBinaryName is the external headless-browser CLI's executable
// name as resolved from PATH when no explicit path or env override is
// given.
const driverBinaryName = "agent-browser"

// jsonFlag is always appended to the driver invocation to request the
// envelope output format.
const jsonFlag = "--json"

// runDriver spawns the driver binary with args plus --json, enforcing
// ctx's deadline, and returns its parsed envelope.
//
//   - non-zero exit: CommandFailedError, carrying exit code, stderr, args.
//   - exit zero but the process never started at all: CommandExecutionError
//     wrapping the spawn error.
//   - exit zero, well-formed envelope, success=false: CommandExecutionError
//     carrying the envelope's inner message.
//   - killed by ctx's deadline: TimeoutError.
func runDriver(ctx context.Context, op, binary string, args []string, timeoutMS int64) (*envelope, error) {
	args = append(append([]string(nil), args...), jsonFlag)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	debugLog(ctx, "driver invocation", "op", op, "binary", binary, "args", args)

	err := cmd.Run()
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &TimeoutError{Op: op, Timeout: timeoutMS}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CommandFailedError{
				Op:       op,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
				Args:     args,
			}
		}
		return nil, &CommandExecutionError{Op: op, Cause: err}
	}

	env, perr := decodeEnvelope(op, stdout.Bytes())
	if perr != nil {
		return nil, perr
	}
	if !env.Success {
		return nil, &CommandExecutionError{Op: op, Message: env.Error}
	}
	return env, nil
}
