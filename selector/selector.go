// Package selector provides the closed selector families the flow engine
// uses to address DOM targets: Interactable (actionable elements) and Any
// (any text node qualifies). Both are nominal, struct-wrapped types so a
// function accepting an Interactable can never be handed an AnyText value
// by mistake.
package selector

import "fmt"

// Kind identifies which selector variant a value holds.
type Kind string

const (
	KindCSS              Kind = "css"
	KindXPath            Kind = "xpath"
	KindInteractableText Kind = "interactableText"
	KindAnyText          Kind = "anyText"
	KindRef              Kind = "ref"
)

// Interactable addresses an element that must be actionable: clickable,
// focusable, fillable. Exactly one of its kinds is populated.
type Interactable struct {
	kind  Kind
	value string
}

// NewInteractableCSS builds a CSS-kind interactable selector.
func NewInteractableCSS(v string) Interactable { return Interactable{kind: KindCSS, value: v} }

// NewInteractableXPath builds an XPath-kind interactable selector.
func NewInteractableXPath(v string) Interactable { return Interactable{kind: KindXPath, value: v} }

// NewInteractableText builds an interactableText-kind selector.
func NewInteractableText(v string) Interactable {
	return Interactable{kind: KindInteractableText, value: v}
}

// NewInteractableRef builds a ref-kind selector from an opaque driver token
// (e.g. "@e1"), used internally by the executor's scrollIntoView to focus
// a ref-kind target — never produced directly from YAML input.
func NewInteractableRef(v string) Interactable { return Interactable{kind: KindRef, value: v} }

// Kind reports which selector variant this value holds.
func (s Interactable) Kind() Kind { return s.kind }

// Value returns the raw selector string (without any CLI-token framing).
func (s Interactable) Value() string { return s.value }

// IsZero reports whether this selector was never constructed.
func (s Interactable) IsZero() bool { return s.kind == "" }

// CLIToken renders the selector as the external driver CLI expects it.
func (s Interactable) CLIToken() string { return token(s.kind, s.value) }

func (s Interactable) String() string {
	return fmt.Sprintf("%s:%s", s.kind, s.value)
}

// Any addresses any DOM text node, not just actionable elements. Used for
// visibility assertions, scroll-into-view, and waits.
type Any struct {
	kind  Kind
	value string
}

// NewAnyCSS builds a CSS-kind any-selector.
func NewAnyCSS(v string) Any { return Any{kind: KindCSS, value: v} }

// NewAnyXPath builds an XPath-kind any-selector.
func NewAnyXPath(v string) Any { return Any{kind: KindXPath, value: v} }

// NewAnyText builds an anyText-kind any-selector.
func NewAnyText(v string) Any { return Any{kind: KindAnyText, value: v} }

// Kind reports which selector variant this value holds.
func (s Any) Kind() Kind { return s.kind }

// Value returns the raw selector string (without any CLI-token framing).
func (s Any) Value() string { return s.value }

// IsZero reports whether this selector was never constructed.
func (s Any) IsZero() bool { return s.kind == "" }

// CLIToken renders the selector as the external driver CLI expects it.
func (s Any) CLIToken() string { return token(s.kind, s.value) }

func (s Any) String() string {
	return fmt.Sprintf("%s:%s", s.kind, s.value)
}

// token implements the §4.2 adapter-facing conversion:
//
//	{css: s}              -> s verbatim
//	{xpath: s}            -> "xpath=" + s
//	{interactableText: s} -> "text=" + s
//	{anyText: s}          -> "text=" + s
//	{ref: s}              -> s verbatim (opaque to the adapter)
func token(kind Kind, value string) string {
	switch kind {
	case KindCSS, KindRef:
		return value
	case KindXPath:
		return "xpath=" + value
	case KindInteractableText, KindAnyText:
		return "text=" + value
	default:
		return value
	}
}

// IsCSSOrRefSelector classifies a raw string by prefix (@, #, ., [, or
// text=) or by being a short alphabetic tag name (<=20 chars). Nothing in
// this module calls it: the executor picks between waitForSelector and
// waitForText from a selector's Kind instead.
func IsCSSOrRefSelector(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case '@', '#', '.', '[':
		return true
	}
	if len(s) >= 5 && s[:5] == "text=" {
		return false
	}
	if len(s) <= 20 && isAlpha(s) {
		return true
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return len(s) > 0
}
