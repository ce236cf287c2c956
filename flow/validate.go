package flow

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseCommand validates and converts one decoded step (a single-key
// mapping naming a recognised tag) into a Command.
func ParseCommand(index int, rawStep any) (Command, error) {
	m, ok := rawStep.(map[string]any)
	if !ok {
		return Command{}, &InvalidCommandError{Index: index, Raw: rawStep, Reason: fmt.Sprintf("step must be a mapping, got %T", rawStep)}
	}
	if len(m) != 1 {
		return Command{}, &InvalidCommandError{Index: index, Raw: rawStep, Reason: fmt.Sprintf("step must have exactly one key, got %d", len(m))}
	}

	var tagName string
	var body any
	for k, v := range m {
		tagName, body = k, v
	}

	tag := Tag(tagName)
	parse, ok := registry[tag]
	if !ok {
		return Command{}, &InvalidCommandError{Index: index, Raw: rawStep, Reason: fmt.Sprintf("unrecognised command %q", tagName)}
	}

	cmd, err := parse(body)
	if err != nil {
		return Command{}, &InvalidCommandError{Index: index, Raw: rawStep, Reason: "payload validation failed", Cause: err}
	}
	cmd.Tag = tag
	return cmd, nil
}

// ValidateFile loads, resolves, and validates a flow source file end to
// end, producing an immutable *Flow. dotenv supplies the second-precedence
// variable layer (see VarSource); pass nil if the caller has none.
func ValidateFile(path string, dotenv map[string]string) (*Flow, error) {
	env, rawSteps, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	name := flowNameFromPath(path)
	return validate(name, env, rawSteps, dotenv)
}

// ValidateBytes is ValidateFile's in-memory counterpart, used by tests and
// by any caller that already has the source bytes (e.g. a supervisor
// receiving a flow over the wire). name is used as the resulting Flow's
// Name().
func ValidateBytes(name string, data []byte, dotenv map[string]string) (*Flow, error) {
	env, rawSteps, err := LoadBytes(data)
	if err != nil {
		return nil, err
	}
	return validate(name, env, rawSteps, dotenv)
}

func validate(name string, flowEnv map[string]string, rawSteps []any, dotenv map[string]string) (*Flow, error) {
	if flowEnv == nil {
		flowEnv = map[string]string{}
	}

	src := NewVarSource(dotenv, flowEnv)
	resolvedSteps, err := ResolveSteps(rawSteps, src)
	if err != nil {
		return nil, err
	}

	steps := make([]Command, len(resolvedSteps))
	for i, raw := range resolvedSteps {
		cmd, err := ParseCommand(i, raw)
		if err != nil {
			return nil, err
		}
		steps[i] = cmd
	}

	return &Flow{name: name, env: flowEnv, steps: steps}, nil
}

func flowNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
