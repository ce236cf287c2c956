// Package flow turns raw YAML into a validated, branded command sequence:
// the YAML loader (C3), the variable resolver (C4), and the command
// validator (C5) of the engine's parser/validator pipeline.
package flow

import (
	"fmt"
	"net/url"

	"github.com/9wick/enbu/selector"
)

// Tag uniquely identifies a command variant.
type Tag string

const (
	TagOpen              Tag = "open"
	TagClick             Tag = "click"
	TagDblClick          Tag = "dblclick"
	TagHover             Tag = "hover"
	TagFocus             Tag = "focus"
	TagCheck             Tag = "check"
	TagUncheck           Tag = "uncheck"
	TagType              Tag = "type"
	TagFill              Tag = "fill"
	TagSelect            Tag = "select"
	TagPress             Tag = "press"
	TagKeyDown           Tag = "keydown"
	TagKeyUp             Tag = "keyup"
	TagScroll            Tag = "scroll"
	TagScrollIntoView    Tag = "scrollIntoView"
	TagWait              Tag = "wait"
	TagScreenshot        Tag = "screenshot"
	TagEval              Tag = "eval"
	TagAssertVisible     Tag = "assertVisible"
	TagAssertNotVisible  Tag = "assertNotVisible"
	TagAssertEnabled     Tag = "assertEnabled"
	TagAssertChecked     Tag = "assertChecked"
)

// Payload is the marker interface every command variant's payload struct
// implements. Exactly one concrete type exists per Tag; dispatch is a type
// switch, never reflection.
type Payload interface{ isCommandPayload() }

// URL is a branded, validated absolute URL. The only way to construct one
// is ParseURL, called from the command validator.
type URL struct{ value string }

// String returns the URL's textual form.
func (u URL) String() string { return u.value }

// ParseURL validates that s is an absolute URL (scheme + host present).
func ParseURL(s string) (URL, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return URL{}, fmt.Errorf("invalid URL %q: %w", s, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return URL{}, fmt.Errorf("invalid URL %q: must be absolute", s)
	}
	return URL{value: s}, nil
}

// FilePath is a branded, non-empty file path.
type FilePath struct{ value string }

// String returns the path's textual form.
func (p FilePath) String() string { return p.value }

// ParseFilePath validates that s is non-empty.
func ParseFilePath(s string) (FilePath, error) {
	if s == "" {
		return FilePath{}, fmt.Errorf("file path must not be empty")
	}
	return FilePath{value: s}, nil
}

// JSExpr is a branded, non-empty JavaScript expression.
type JSExpr struct{ value string }

// String returns the expression's textual form.
func (e JSExpr) String() string { return e.value }

// ParseJSExpr validates that s is non-empty.
func ParseJSExpr(s string) (JSExpr, error) {
	if s == "" {
		return JSExpr{}, fmt.Errorf("JS expression must not be empty")
	}
	return JSExpr{value: s}, nil
}

// Key is a branded keyboard-key identifier (e.g. "Enter", "ArrowDown").
type Key struct{ value string }

// String returns the key's textual form.
func (k Key) String() string { return k.value }

// ParseKey validates that s is non-empty.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("key identifier must not be empty")
	}
	return Key{value: s}, nil
}

// Optional represents the "use default" marker: a value either Set(T) or
// Unset, distinguishing "not supplied" from "supplied as the zero value".
type Optional[T any] struct {
	set   bool
	value T
}

// Set wraps v as an explicitly-supplied optional value.
func Set[T any](v T) Optional[T] { return Optional[T]{set: true, value: v} }

// Unset returns the not-supplied marker for T.
func Unset[T any]() Optional[T] { return Optional[T]{} }

// IsSet reports whether a value was explicitly supplied.
func (o Optional[T]) IsSet() bool { return o.set }

// Value returns the wrapped value; callers should check IsSet first.
func (o Optional[T]) Value() T { return o.value }

// ValueOr returns the wrapped value if set, otherwise def.
func (o Optional[T]) ValueOr(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// OpenPayload is the payload for TagOpen.
type OpenPayload struct{ URL URL }

func (OpenPayload) isCommandPayload() {}

// InteractionPayload is the payload for click, dblclick, hover, focus,
// check, and uncheck.
type InteractionPayload struct{ Selector selector.Interactable }

func (InteractionPayload) isCommandPayload() {}

// TypePayload is the payload for type and fill.
type TypePayload struct {
	Selector selector.Interactable
	Value    string
}

func (TypePayload) isCommandPayload() {}

// SelectPayload is the payload for select.
type SelectPayload struct {
	Selector selector.Interactable
	Option   string
}

func (SelectPayload) isCommandPayload() {}

// KeyPayload is the payload for press, keydown, and keyup.
type KeyPayload struct{ Key Key }

func (KeyPayload) isCommandPayload() {}

// ScrollDirection enumerates the scroll command's direction.
type ScrollDirection string

const (
	ScrollUp    ScrollDirection = "up"
	ScrollDown  ScrollDirection = "down"
	ScrollLeft  ScrollDirection = "left"
	ScrollRight ScrollDirection = "right"
)

// ScrollPayload is the payload for scroll.
type ScrollPayload struct {
	Direction ScrollDirection
	Amount    int
}

func (ScrollPayload) isCommandPayload() {}

// ScrollIntoViewPayload is the payload for scrollIntoView.
type ScrollIntoViewPayload struct{ Selector selector.Any }

func (ScrollIntoViewPayload) isCommandPayload() {}

// LoadState enumerates the load states wait can block on.
type LoadState string

const (
	LoadStateLoad              LoadState = "load"
	LoadStateDOMContentLoaded  LoadState = "domcontentloaded"
	LoadStateNetworkIdle       LoadState = "networkidle"
)

// WaitPayload is the payload for wait. Exactly one field is non-nil.
type WaitPayload struct {
	MS         *int
	CSS        *string
	XPath      *string
	AnyText    *string
	LoadState  *LoadState
	URLPattern *string
	JSExpr     *JSExpr
}

func (WaitPayload) isCommandPayload() {}

// ScreenshotPayload is the payload for screenshot.
type ScreenshotPayload struct {
	Path     FilePath
	FullPage Optional[bool]
}

func (ScreenshotPayload) isCommandPayload() {}

// EvalPayload is the payload for eval.
type EvalPayload struct{ Expr JSExpr }

func (EvalPayload) isCommandPayload() {}

// AssertVisiblePayload is the payload for assertVisible and
// assertNotVisible.
type AssertVisiblePayload struct{ Selector selector.Any }

func (AssertVisiblePayload) isCommandPayload() {}

// AssertEnabledPayload is the payload for assertEnabled.
type AssertEnabledPayload struct{ Selector selector.Interactable }

func (AssertEnabledPayload) isCommandPayload() {}

// AssertCheckedPayload is the payload for assertChecked.
type AssertCheckedPayload struct {
	Selector selector.Interactable
	Expected Optional[bool]
}

func (AssertCheckedPayload) isCommandPayload() {}

// Command is a tagged command variant: Tag identifies the kind, Payload
// carries its data. Exactly one Payload concrete type is valid per Tag;
// the validator (schema.go) is the only producer of Command values.
type Command struct {
	Tag     Tag
	Payload Payload
}

// Flow is an ordered, validated, immutable command sequence plus a name
// and a read-only environment map. The only constructors are ValidateFile /
// ValidateBytes in validate.go.
type Flow struct {
	name  string
	env   map[string]string
	steps []Command
}

// Name returns the flow's name (derived from the source file's stem).
func (f *Flow) Name() string { return f.name }

// Env returns a copy of the flow's environment map.
func (f *Flow) Env() map[string]string {
	out := make(map[string]string, len(f.env))
	for k, v := range f.env {
		out[k] = v
	}
	return out
}

// Steps returns a copy of the flow's validated command sequence.
func (f *Flow) Steps() []Command {
	out := make([]Command, len(f.steps))
	copy(out, f.steps)
	return out
}

// StepCount returns the number of steps in the flow.
func (f *Flow) StepCount() int { return len(f.steps) }
