package flow

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/9wick/enbu/selector"
)

// Selector payloads are the one shape in the command registry irregular
// enough (an exactly-one-of across three alternative keys) to
// be worth a compiled schema rather than a handful of if-statements; every
// other command's shape check is plain Go in the parse* functions below.
const interactableSelectorSchemaJSON = `{
	"type": "object",
	"properties": {
		"css": {"type": "string"},
		"xpath": {"type": "string"},
		"interactableText": {"type": "string"}
	},
	"oneOf": [
		{"required": ["css"]},
		{"required": ["xpath"]},
		{"required": ["interactableText"]}
	],
	"additionalProperties": false
}`

const anySelectorSchemaJSON = `{
	"type": "object",
	"properties": {
		"css": {"type": "string"},
		"xpath": {"type": "string"},
		"anyText": {"type": "string"}
	},
	"oneOf": [
		{"required": ["css"]},
		{"required": ["xpath"]},
		{"required": ["anyText"]}
	],
	"additionalProperties": false
}`

var (
	interactableSelectorSchema = mustCompileSchema("interactable-selector.json", interactableSelectorSchemaJSON)
	anySelectorSchema          = mustCompileSchema("any-selector.json", anySelectorSchemaJSON)
)

func mustCompileSchema(name, schemaJSON string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("flow: failed to register %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// parseInteractableSelector validates and converts a decoded selector
// mapping into a selector.Interactable.
func parseInteractableSelector(raw any) (selector.Interactable, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return selector.Interactable{}, fmt.Errorf("selector must be a mapping, got %T", raw)
	}
	if err := interactableSelectorSchema.Validate(m); err != nil {
		return selector.Interactable{}, fmt.Errorf("selector shape: %w", err)
	}
	switch {
	case m["css"] != nil:
		return selector.NewInteractableCSS(m["css"].(string)), nil
	case m["xpath"] != nil:
		return selector.NewInteractableXPath(m["xpath"].(string)), nil
	default:
		return selector.NewInteractableText(m["interactableText"].(string)), nil
	}
}

// parseAnySelector validates and converts a decoded selector mapping into a
// selector.Any.
func parseAnySelector(raw any) (selector.Any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return selector.Any{}, fmt.Errorf("selector must be a mapping, got %T", raw)
	}
	if err := anySelectorSchema.Validate(m); err != nil {
		return selector.Any{}, fmt.Errorf("selector shape: %w", err)
	}
	switch {
	case m["css"] != nil:
		return selector.NewAnyCSS(m["css"].(string)), nil
	case m["xpath"] != nil:
		return selector.NewAnyXPath(m["xpath"].(string)), nil
	default:
		return selector.NewAnyText(m["anyText"].(string)), nil
	}
}

// parseFunc parses a single step's raw body (the value under the step's
// one recognised tag key) into a Command. There is no separate shorthand
// normalisation pass: each parse function accepts only the body forms it
// handles itself. Selector commands and wait take a mapping body only, so
// a bare string (`click: "Go"`) or bare number (`wait: 1500`) is rejected.
type parseFunc func(body any) (Command, error)

// registry maps every recognised tag to its body parser. Built once at
// package init via newRegistry, never mutated afterwards.
var registry = newRegistry()

func newRegistry() map[Tag]parseFunc {
	return map[Tag]parseFunc{
		TagOpen:             parseOpen,
		TagClick:            parseInteraction,
		TagDblClick:         parseInteraction,
		TagHover:            parseInteraction,
		TagFocus:            parseInteraction,
		TagCheck:            parseInteraction,
		TagUncheck:          parseInteraction,
		TagType:             parseTypeOrFill,
		TagFill:             parseTypeOrFill,
		TagSelect:           parseSelect,
		TagPress:            parseKeyCommand,
		TagKeyDown:          parseKeyCommand,
		TagKeyUp:            parseKeyCommand,
		TagScroll:           parseScroll,
		TagScrollIntoView:   parseScrollIntoView,
		TagWait:             parseWait,
		TagScreenshot:       parseScreenshot,
		TagEval:             parseEval,
		TagAssertVisible:    parseAssertAnyVisible,
		TagAssertNotVisible: parseAssertAnyVisible,
		TagAssertEnabled:    parseAssertEnabled,
		TagAssertChecked:    parseAssertChecked,
	}
}

func requireMapping(body any, tag Tag) (map[string]any, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s requires a mapping body, got %T", tag, body)
	}
	return m, nil
}

func requireStringField(m map[string]any, field string, tag Tag) (string, error) {
	raw, ok := m[field]
	if !ok {
		return "", fmt.Errorf("%s requires %q", tag, field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s field %q must be a string, got %T", tag, field, raw)
	}
	return s, nil
}

func parseOpen(body any) (Command, error) {
	s, ok := body.(string)
	if !ok {
		return Command{}, fmt.Errorf("open requires a string URL body, got %T", body)
	}
	u, err := ParseURL(s)
	if err != nil {
		return Command{}, &BrandValidationError{Brand: "URL", Value: s, Cause: err}
	}
	return Command{Tag: TagOpen, Payload: OpenPayload{URL: u}}, nil
}

func parseInteraction(body any) (Command, error) {
	sel, err := parseInteractableSelector(body)
	if err != nil {
		return Command{}, err
	}
	return Command{Payload: InteractionPayload{Selector: sel}}, nil
}

func parseTypeOrFill(body any) (Command, error) {
	m, err := requireMapping(body, TagType)
	if err != nil {
		return Command{}, err
	}
	selRaw, ok := m["selector"]
	if !ok {
		return Command{}, fmt.Errorf("type/fill requires \"selector\"")
	}
	sel, err := parseInteractableSelector(selRaw)
	if err != nil {
		return Command{}, err
	}
	value, err := requireStringField(m, "value", TagType)
	if err != nil {
		return Command{}, err
	}
	return Command{Payload: TypePayload{Selector: sel, Value: value}}, nil
}

func parseSelect(body any) (Command, error) {
	m, err := requireMapping(body, TagSelect)
	if err != nil {
		return Command{}, err
	}
	selRaw, ok := m["selector"]
	if !ok {
		return Command{}, fmt.Errorf("select requires \"selector\"")
	}
	sel, err := parseInteractableSelector(selRaw)
	if err != nil {
		return Command{}, err
	}
	option, err := requireStringField(m, "option", TagSelect)
	if err != nil {
		return Command{}, err
	}
	return Command{Tag: TagSelect, Payload: SelectPayload{Selector: sel, Option: option}}, nil
}

func parseKeyCommand(body any) (Command, error) {
	s, ok := body.(string)
	if !ok {
		return Command{}, fmt.Errorf("key commands require a string key body, got %T", body)
	}
	k, err := ParseKey(s)
	if err != nil {
		return Command{}, &BrandValidationError{Brand: "Key", Value: s, Cause: err}
	}
	return Command{Payload: KeyPayload{Key: k}}, nil
}

func parseScroll(body any) (Command, error) {
	m, err := requireMapping(body, TagScroll)
	if err != nil {
		return Command{}, err
	}
	dirRaw, err := requireStringField(m, "direction", TagScroll)
	if err != nil {
		return Command{}, err
	}
	dir := ScrollDirection(dirRaw)
	switch dir {
	case ScrollUp, ScrollDown, ScrollLeft, ScrollRight:
	default:
		return Command{}, fmt.Errorf("scroll direction must be one of up/down/left/right, got %q", dirRaw)
	}
	amount := 0
	if raw, ok := m["amount"]; ok {
		n, ok := raw.(int)
		if !ok {
			if f, ok := raw.(float64); ok {
				n = int(f)
			} else {
				return Command{}, fmt.Errorf("scroll amount must be a number, got %T", raw)
			}
		}
		if n < 0 {
			return Command{}, fmt.Errorf("scroll amount must not be negative, got %d", n)
		}
		amount = n
	}
	return Command{Tag: TagScroll, Payload: ScrollPayload{Direction: dir, Amount: amount}}, nil
}

func parseScrollIntoView(body any) (Command, error) {
	sel, err := parseAnySelector(body)
	if err != nil {
		return Command{}, err
	}
	return Command{Tag: TagScrollIntoView, Payload: ScrollIntoViewPayload{Selector: sel}}, nil
}

// parseWait enforces the exactly-one-of across the wait command's seven
// mutually exclusive modes; this fan-out is plain Go rather than a schema
// because each branch also needs its own type coercion (duration vs. load
// state enum vs. JSExpr brand), not just presence checking.
func parseWait(body any) (Command, error) {
	m, err := requireMapping(body, TagWait)
	if err != nil {
		return Command{}, err
	}

	present := 0
	var payload WaitPayload

	if raw, ok := m["ms"]; ok {
		present++
		n, ok := raw.(int)
		if !ok {
			if f, ok := raw.(float64); ok {
				n = int(f)
			} else {
				return Command{}, fmt.Errorf("wait.ms must be a number, got %T", raw)
			}
		}
		payload.MS = &n
	}
	if raw, ok := m["css"]; ok {
		present++
		s, ok := raw.(string)
		if !ok {
			return Command{}, fmt.Errorf("wait.css must be a string, got %T", raw)
		}
		payload.CSS = &s
	}
	if raw, ok := m["xpath"]; ok {
		present++
		s, ok := raw.(string)
		if !ok {
			return Command{}, fmt.Errorf("wait.xpath must be a string, got %T", raw)
		}
		payload.XPath = &s
	}
	if raw, ok := m["anyText"]; ok {
		present++
		s, ok := raw.(string)
		if !ok {
			return Command{}, fmt.Errorf("wait.anyText must be a string, got %T", raw)
		}
		payload.AnyText = &s
	}
	if raw, ok := m["loadState"]; ok {
		present++
		s, ok := raw.(string)
		if !ok {
			return Command{}, fmt.Errorf("wait.loadState must be a string, got %T", raw)
		}
		ls := LoadState(s)
		switch ls {
		case LoadStateLoad, LoadStateDOMContentLoaded, LoadStateNetworkIdle:
		default:
			return Command{}, fmt.Errorf("wait.loadState must be one of load/domcontentloaded/networkidle, got %q", s)
		}
		payload.LoadState = &ls
	}
	if raw, ok := m["url"]; ok {
		present++
		s, ok := raw.(string)
		if !ok {
			return Command{}, fmt.Errorf("wait.url must be a string, got %T", raw)
		}
		payload.URLPattern = &s
	}
	if raw, ok := m["js"]; ok {
		present++
		s, ok := raw.(string)
		if !ok {
			return Command{}, fmt.Errorf("wait.js must be a string, got %T", raw)
		}
		expr, err := ParseJSExpr(s)
		if err != nil {
			return Command{}, &BrandValidationError{Brand: "JSExpr", Value: s, Cause: err}
		}
		payload.JSExpr = &expr
	}

	if present != 1 {
		return Command{}, fmt.Errorf("wait requires exactly one of ms/css/xpath/anyText/loadState/url/js, got %d", present)
	}
	return Command{Tag: TagWait, Payload: payload}, nil
}

func parseScreenshot(body any) (Command, error) {
	// Shorthand: a bare string is the path with FullPage left unset.
	if s, ok := body.(string); ok {
		p, err := ParseFilePath(s)
		if err != nil {
			return Command{}, &BrandValidationError{Brand: "FilePath", Value: s, Cause: err}
		}
		return Command{Tag: TagScreenshot, Payload: ScreenshotPayload{Path: p, FullPage: Unset[bool]()}}, nil
	}
	m, err := requireMapping(body, TagScreenshot)
	if err != nil {
		return Command{}, err
	}
	pathStr, err := requireStringField(m, "path", TagScreenshot)
	if err != nil {
		return Command{}, err
	}
	p, err := ParseFilePath(pathStr)
	if err != nil {
		return Command{}, &BrandValidationError{Brand: "FilePath", Value: pathStr, Cause: err}
	}
	fullPage := Unset[bool]()
	if raw, ok := m["fullPage"]; ok {
		b, ok := raw.(bool)
		if !ok {
			return Command{}, fmt.Errorf("screenshot.fullPage must be a boolean, got %T", raw)
		}
		fullPage = Set(b)
	}
	return Command{Tag: TagScreenshot, Payload: ScreenshotPayload{Path: p, FullPage: fullPage}}, nil
}

func parseEval(body any) (Command, error) {
	s, ok := body.(string)
	if !ok {
		return Command{}, fmt.Errorf("eval requires a string JS expression body, got %T", body)
	}
	expr, err := ParseJSExpr(s)
	if err != nil {
		return Command{}, &BrandValidationError{Brand: "JSExpr", Value: s, Cause: err}
	}
	return Command{Tag: TagEval, Payload: EvalPayload{Expr: expr}}, nil
}

func parseAssertAnyVisible(body any) (Command, error) {
	sel, err := parseAnySelector(body)
	if err != nil {
		return Command{}, err
	}
	return Command{Payload: AssertVisiblePayload{Selector: sel}}, nil
}

func parseAssertEnabled(body any) (Command, error) {
	sel, err := parseInteractableSelector(body)
	if err != nil {
		return Command{}, err
	}
	return Command{Tag: TagAssertEnabled, Payload: AssertEnabledPayload{Selector: sel}}, nil
}

func parseAssertChecked(body any) (Command, error) {
	// Shorthand: a bare selector mapping asserts checked==true.
	if _, isMapping := body.(map[string]any); isMapping {
		if m, ok := body.(map[string]any); ok {
			if selRaw, hasSelectorField := m["selector"]; hasSelectorField {
				sel, err := parseInteractableSelector(selRaw)
				if err != nil {
					return Command{}, err
				}
				expected := Set(true)
				if raw, ok := m["expected"]; ok {
					b, ok := raw.(bool)
					if !ok {
						return Command{}, fmt.Errorf("assertChecked.expected must be a boolean, got %T", raw)
					}
					expected = Set(b)
				}
				return Command{Tag: TagAssertChecked, Payload: AssertCheckedPayload{Selector: sel, Expected: expected}}, nil
			}
		}
	}
	sel, err := parseInteractableSelector(body)
	if err != nil {
		return Command{}, err
	}
	return Command{Tag: TagAssertChecked, Payload: AssertCheckedPayload{Selector: sel, Expected: Set(true)}}, nil
}
