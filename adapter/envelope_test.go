package adapter

import "testing"

func TestDecodeEnvelopeSuccess(t *testing.T) {
	env, err := decodeEnvelope("click", []byte(`{"success": true}`))
	if err != nil {
		t.Fatalf("decodeEnvelope: %v", err)
	}
	if !env.Success {
		t.Error("Success = false, want true")
	}
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := decodeEnvelope("click", []byte(`not json`))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	perr, ok := err.(*OutputParseError)
	if !ok {
		t.Fatalf("error type = %T, want *OutputParseError", err)
	}
	if perr.Op != "click" {
		t.Errorf("Op = %q, want click", perr.Op)
	}
}

func TestDecodeDataBool(t *testing.T) {
	env, err := decodeEnvelope("isVisible", []byte(`{"success": true, "data": true}`))
	if err != nil {
		t.Fatalf("decodeEnvelope: %v", err)
	}
	var visible bool
	if err := decodeData("isVisible", env, &visible); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if !visible {
		t.Error("visible = false, want true")
	}
}

func TestDecodeDataEmpty(t *testing.T) {
	env, err := decodeEnvelope("click", []byte(`{"success": true}`))
	if err != nil {
		t.Fatalf("decodeEnvelope: %v", err)
	}
	var dest string
	if err := decodeData("click", env, &dest); err != nil {
		t.Fatalf("decodeData on empty data should be a no-op: %v", err)
	}
}
