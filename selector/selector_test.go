package selector

import "testing"

func TestCLITokenMapping(t *testing.T) {
	cases := []struct {
		name string
		sel  interface{ CLIToken() string }
		want string
	}{
		{"css", NewInteractableCSS("#submit"), "#submit"},
		{"xpath", NewInteractableXPath("//button"), "xpath=//button"},
		{"interactableText", NewInteractableText("Login"), "text=Login"},
		{"anyText", NewAnyText("Dashboard"), "text=Dashboard"},
		{"ref", NewInteractableRef("@e1"), "@e1"},
		{"anyCSS", NewAnyCSS("#missing"), "#missing"},
		{"anyXPath", NewAnyXPath("//div"), "xpath=//div"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.sel.CLIToken(); got != c.want {
				t.Errorf("CLIToken() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestIsCSSOrRefSelector(t *testing.T) {
	cases := map[string]bool{
		"@e1":        true,
		"#submit":    true,
		".btn":       true,
		"[name=foo]": true,
		"div":        true,
		"text=Login": false,
		"":           false,
		"this is long text that is definitely not a tag": false,
	}
	for in, want := range cases {
		if got := IsCSSOrRefSelector(in); got != want {
			t.Errorf("IsCSSOrRefSelector(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZeroValue(t *testing.T) {
	var i Interactable
	if !i.IsZero() {
		t.Error("expected zero-value Interactable to report IsZero")
	}
	var a Any
	if !a.IsZero() {
		t.Error("expected zero-value Any to report IsZero")
	}
}
