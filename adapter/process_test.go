package adapter

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveBinaryExplicitPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "my-driver")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := resolveBinary(bin)
	if err != nil {
		t.Fatalf("resolveBinary: %v", err)
	}
	if got != bin {
		t.Errorf("resolveBinary() = %q, want %q", got, bin)
	}
}

func TestResolveBinaryEnvOverride(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "env-driver")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("ENBU_DRIVER_PATH", bin)

	got, err := resolveBinary("")
	if err != nil {
		t.Fatalf("resolveBinary: %v", err)
	}
	if got != bin {
		t.Errorf("resolveBinary() = %q, want %q", got, bin)
	}
}

func TestResolveBinaryNotFound(t *testing.T) {
	t.Setenv("ENBU_DRIVER_PATH", "")
	t.Setenv("PATH", t.TempDir())

	_, err := resolveBinary("/nonexistent/explicit/path")
	if err == nil {
		t.Fatal("expected a NotInstalledError")
	}
	if _, ok := err.(*NotInstalledError); !ok {
		t.Errorf("error type = %T, want *NotInstalledError", err)
	}
}

func TestRunDriverNonZeroExitIsCommandFailed(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := runDriver(context.Background(), "open", "sh", []string{"-c", "echo boom >&2; exit 3"}, 1000)
	cfe, ok := err.(*CommandFailedError)
	if !ok {
		t.Fatalf("error type = %T, want *CommandFailedError", err)
	}
	if cfe.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", cfe.ExitCode)
	}
	if !strings.Contains(cfe.Stderr, "boom") {
		t.Errorf("Stderr = %q, want it to contain boom", cfe.Stderr)
	}
	if cfe.Kind() != KindCommandFailed {
		t.Errorf("Kind() = %q, want %q", cfe.Kind(), KindCommandFailed)
	}
}

func TestRunDriverEnvelopeSuccessFalseIsCommandExecutionError(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := runDriver(context.Background(), "open", "sh", []string{"-c", `printf '{"success":false,"error":"nope"}'`}, 1000)
	cee, ok := err.(*CommandExecutionError)
	if !ok {
		t.Fatalf("error type = %T, want *CommandExecutionError", err)
	}
	if cee.Message != "nope" {
		t.Errorf("Message = %q, want nope", cee.Message)
	}
	if cee.Kind() != KindCommandExecutionFailed {
		t.Errorf("Kind() = %q, want %q", cee.Kind(), KindCommandExecutionFailed)
	}
}

func TestRunDriverAppendsJSONFlag(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	// Echo argv back as the envelope's error message so we can assert
	// --json was appended without the driver needing to understand it.
	script := `printf '{"success":false,"error":"%s"}' "$*"`
	_, err := runDriver(context.Background(), "open", "sh", []string{"-c", script, "_", "https://example.com"}, 1000)
	cee, ok := err.(*CommandExecutionError)
	if !ok {
		t.Fatalf("error type = %T, want *CommandExecutionError", err)
	}
	if !strings.Contains(cee.Message, "--json") {
		t.Errorf("driver args = %q, want them to contain --json", cee.Message)
	}
}
