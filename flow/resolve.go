package flow

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// VarSource resolves a variable name against the three layered sources,
// highest precedence first: process environment, dotenv map, flow env map.
type VarSource struct {
	processEnv map[string]string
	dotenv     map[string]string
	flowEnv    map[string]string
}

// NewVarSource snapshots os.Environ() once, then layers dotenv and the
// flow's own env map beneath it per §4.4's precedence.
func NewVarSource(dotenv, flowEnv map[string]string) *VarSource {
	return &VarSource{
		processEnv: snapshotEnviron(),
		dotenv:     dotenv,
		flowEnv:    flowEnv,
	}
}

// newVarSourceWithProcessEnv is the test seam: it lets tests inject a
// process-environment snapshot instead of depending on os.Environ().
func newVarSourceWithProcessEnv(processEnv, dotenv, flowEnv map[string]string) *VarSource {
	return &VarSource{processEnv: processEnv, dotenv: dotenv, flowEnv: flowEnv}
}

func snapshotEnviron() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			out[kv[:idx]] = kv[idx+1:]
		}
	}
	return out
}

// Lookup resolves name against process env, then dotenv, then flow env,
// first-defined-wins.
func (v *VarSource) Lookup(name string) (string, bool) {
	if val, ok := v.processEnv[name]; ok {
		return val, true
	}
	if val, ok := v.dotenv[name]; ok {
		return val, true
	}
	if val, ok := v.flowEnv[name]; ok {
		return val, true
	}
	return "", false
}

// varPattern matches ${NAME} where NAME is [A-Za-z_][A-Za-z0-9_]*.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ResolveSteps deep-clones rawSteps, substituting every ${NAME} occurrence
// in every string leaf. It never mutates its argument. An unresolved name
// aborts with an UndefinedVariableError naming the step[i].<path> location.
func ResolveSteps(rawSteps []any, src *VarSource) ([]any, error) {
	out := make([]any, len(rawSteps))
	for i, step := range rawSteps {
		resolved, err := resolveValue(step, src, fmt.Sprintf("step[%d]", i))
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// shorthandFieldName maps a single-key step's raw YAML key to the semantic
// payload field name used in locations, for the one command whose body is
// a bare scalar rather than a selector variant: `open: <url>` parses into
// OpenPayload.URL, so its location should read step[i].url, not
// step[i].open.
func shorthandFieldName(key string) string {
	if key == string(TagOpen) {
		return "url"
	}
	return key
}

func resolveValue(value any, src *VarSource, path string) (any, error) {
	switch v := value.(type) {
	case string:
		return resolveString(v, src, path)
	case map[string]any:
		out := make(map[string]any, len(v))
		topLevelStep := strings.HasSuffix(path, "]") && !strings.Contains(path, ".")
		for k, val := range v {
			fieldName := k
			if topLevelStep && len(v) == 1 {
				fieldName = shorthandFieldName(k)
			}
			childPath := path + "." + fieldName
			resolved, err := resolveValue(val, src, childPath)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for idx, val := range v {
			childPath := fmt.Sprintf("%s[%d]", path, idx)
			resolved, err := resolveValue(val, src, childPath)
			if err != nil {
				return nil, err
			}
			out[idx] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}

// resolveString substitutes every ${NAME} occurrence in s, failing closed
// on the first name that resolves in none of the three sources.
func resolveString(s string, src *VarSource, path string) (string, error) {
	matches := varPattern.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		nameStart, nameEnd := m[2], m[3]
		name := s[nameStart:nameEnd]

		val, ok := src.Lookup(name)
		if !ok {
			return "", &UndefinedVariableError{VariableName: name, Location: path}
		}
		b.WriteString(s[last:start])
		b.WriteString(val)
		last = end
	}
	b.WriteString(s[last:])
	return b.String(), nil
}
