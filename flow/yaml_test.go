package flow

import "testing"

func TestLoadBytesSingleDocument(t *testing.T) {
	src := []byte(`
- open: https://example.com
- click:
    css: "#submit"
`)
	env, steps, err := LoadBytes(src)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if env != nil {
		t.Errorf("env = %v, want nil for a single-document source", env)
	}
	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(steps))
	}
}

func TestLoadBytesEnvAndSteps(t *testing.T) {
	src := []byte(`
HOST: example.com
---
- open: "https://${HOST}/"
`)
	env, steps, err := LoadBytes(src)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if env["HOST"] != "example.com" {
		t.Errorf("env[HOST] = %q, want example.com", env["HOST"])
	}
	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d, want 1", len(steps))
	}
}

func TestLoadBytesMiddleDocumentsIgnored(t *testing.T) {
	src := []byte(`
HOST: example.com
---
ignored: true
---
- open: "https://${HOST}/"
`)
	env, steps, err := LoadBytes(src)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if env["HOST"] != "example.com" {
		t.Errorf("env[HOST] = %q, want example.com", env["HOST"])
	}
	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d, want 1", len(steps))
	}
}

func TestLoadBytesEmptyStepsRejected(t *testing.T) {
	_, _, err := LoadBytes([]byte(`[]`))
	if err == nil {
		t.Fatal("expected an error for an empty step list")
	}
	if _, ok := err.(*InvalidFlowStructureError); !ok {
		t.Errorf("error type = %T, want *InvalidFlowStructureError", err)
	}
}

func TestLoadBytesNonListStepsRejected(t *testing.T) {
	_, _, err := LoadBytes([]byte(`just: a mapping`))
	if err == nil {
		t.Fatal("expected an error for a non-list step document")
	}
	if _, ok := err.(*InvalidFlowStructureError); !ok {
		t.Errorf("error type = %T, want *InvalidFlowStructureError", err)
	}
}

func TestLoadBytesSyntaxError(t *testing.T) {
	_, _, err := LoadBytes([]byte("- open: [unterminated"))
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if _, ok := err.(*YAMLSyntaxError); !ok {
		t.Errorf("error type = %T, want *YAMLSyntaxError", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, _, err := LoadFile("/nonexistent/path/to/flow.yaml")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, ok := err.(*FileReadError); !ok {
		t.Errorf("error type = %T, want *FileReadError", err)
	}
}
