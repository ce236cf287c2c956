package flow

import "testing"

func TestValidateBytesFullFlow(t *testing.T) {
	src := []byte(`
HOST: example.com
---
- open: "https://${HOST}/login"
- click:
    css: "#submit"
- type:
    selector:
      interactableText: "Username"
    value: "alice"
- wait:
    loadState: networkidle
- assertVisible:
    anyText: "Welcome"
- screenshot: out.png
`)
	f, err := ValidateBytes("login", src, nil)
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	if f.Name() != "login" {
		t.Errorf("Name() = %q, want login", f.Name())
	}
	if f.StepCount() != 6 {
		t.Fatalf("StepCount() = %d, want 6", f.StepCount())
	}
	steps := f.Steps()
	if steps[0].Tag != TagOpen {
		t.Errorf("steps[0].Tag = %q, want open", steps[0].Tag)
	}
	open := steps[0].Payload.(OpenPayload)
	if open.URL.String() != "https://example.com/login" {
		t.Errorf("open URL = %q, want substituted host", open.URL.String())
	}
	if steps[1].Tag != TagClick {
		t.Errorf("steps[1].Tag = %q, want click", steps[1].Tag)
	}
}

func TestValidateBytesUnrecognisedCommand(t *testing.T) {
	src := []byte(`- teleport: "#here"`)
	_, err := ValidateBytes("f", src, nil)
	if err == nil {
		t.Fatal("expected an error for an unrecognised command")
	}
	cerr, ok := err.(*InvalidCommandError)
	if !ok {
		t.Fatalf("error type = %T, want *InvalidCommandError", err)
	}
	if cerr.Index != 0 {
		t.Errorf("Index = %d, want 0", cerr.Index)
	}
}

func TestValidateBytesMultiKeyStepRejected(t *testing.T) {
	src := []byte(`- {click: {css: "#a"}, hover: {css: "#b"}}`)
	_, err := ValidateBytes("f", src, nil)
	if err == nil {
		t.Fatal("expected an error for a two-key step")
	}
	if _, ok := err.(*InvalidCommandError); !ok {
		t.Errorf("error type = %T, want *InvalidCommandError", err)
	}
}

func TestValidateBytesBadURLBrandRejected(t *testing.T) {
	src := []byte(`- open: "not-a-url"`)
	_, err := ValidateBytes("f", src, nil)
	if err == nil {
		t.Fatal("expected an error for a malformed URL")
	}
	cerr, ok := err.(*InvalidCommandError)
	if !ok {
		t.Fatalf("error type = %T, want *InvalidCommandError", err)
	}
	if _, ok := cerr.Cause.(*BrandValidationError); !ok {
		t.Errorf("cause type = %T, want *BrandValidationError", cerr.Cause)
	}
}

func TestValidateBytesWaitExactlyOneOf(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"none", `{}`, false},
		{"one", `{ms: 500}`, true},
		{"two", `{ms: 500, loadState: load}`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := []byte("- wait: " + c.body)
			_, err := ValidateBytes("f", src, nil)
			if c.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !c.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidateBytesScrollRejectsNegativeAmount(t *testing.T) {
	src := []byte(`- scroll: {direction: down, amount: -1}`)
	_, err := ValidateBytes("f", src, nil)
	if err == nil {
		t.Fatal("expected an error for a negative scroll amount")
	}
}

func TestValidateBytesAssertCheckedShorthand(t *testing.T) {
	src := []byte(`- assertChecked: {css: "#opt-in"}`)
	f, err := ValidateBytes("f", src, nil)
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	payload := f.Steps()[0].Payload.(AssertCheckedPayload)
	if !payload.Expected.IsSet() || !payload.Expected.Value() {
		t.Error("shorthand assertChecked should default Expected to Set(true)")
	}
}

func TestValidateBytesDotenvPrecedence(t *testing.T) {
	src := []byte(`
HOST: flow-value
---
- open: "https://${HOST}/"
`)
	f, err := ValidateBytes("f", src, map[string]string{"HOST": "dotenv-value"})
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	open := f.Steps()[0].Payload.(OpenPayload)
	if open.URL.String() != "https://dotenv-value/" {
		t.Errorf("URL = %q, want dotenv value to win over flow env", open.URL.String())
	}
}
