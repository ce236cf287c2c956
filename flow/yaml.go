package flow

import (
	"bytes"
	"errors"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses a flow source file, returning the resolved
// environment map (nil if the source had a single document) and the
// untyped step list. Neither is validated against the command registry
// yet — that's C5's job.
func LoadFile(path string) (env map[string]string, steps []any, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &FileReadError{Path: path, Cause: err}
	}
	return LoadBytes(data)
}

// LoadBytes parses flow source bytes per §4.3: a single document is the
// step list; two or more documents are env (first) + steps (last), with
// any middle documents ignored.
func LoadBytes(data []byte) (env map[string]string, steps []any, err error) {
	docs, err := decodeAllDocuments(data)
	if err != nil {
		return nil, nil, err
	}

	var stepsRaw any
	switch len(docs) {
	case 0:
		return nil, nil, &InvalidFlowStructureError{Reason: "no documents found"}
	case 1:
		stepsRaw = docs[0]
	default:
		envRaw := docs[0]
		stepsRaw = docs[len(docs)-1]
		env, err = toStringMap(envRaw)
		if err != nil {
			return nil, nil, &InvalidFlowStructureError{Reason: "env document must be a mapping: " + err.Error()}
		}
	}

	list, ok := stepsRaw.([]any)
	if !ok {
		return nil, nil, &InvalidFlowStructureError{Reason: "step document must be a list"}
	}
	if len(list) == 0 {
		return nil, nil, &InvalidFlowStructureError{Reason: "step list must not be empty"}
	}

	return env, list, nil
}

// decodeAllDocuments decodes every YAML document in data into `any`,
// converting syntax errors into a YAMLSyntaxError with a best-effort
// line/column recovered from the underlying error text.
func decodeAllDocuments(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var doc any
		derr := dec.Decode(&doc)
		if errors.Is(derr, io.EOF) {
			break
		}
		if derr != nil {
			line, col := extractPosition(derr)
			return nil, &YAMLSyntaxError{Line: line, Column: col, Cause: derr}
		}
		if doc == nil {
			// An empty document (e.g. a stray "---") contributes nothing.
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

var (
	lineRe   = regexp.MustCompile(`line (\d+)`)
	columnRe = regexp.MustCompile(`column (\d+)`)
)

// extractPosition is best-effort: yaml.v3 embeds "line N" in many but not
// all error messages, and rarely embeds a column. Absent a match we return
// 0 rather than guess.
func extractPosition(err error) (line, column int) {
	msg := err.Error()
	if m := lineRe.FindStringSubmatch(msg); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	if m := columnRe.FindStringSubmatch(msg); m != nil {
		column, _ = strconv.Atoi(m[1])
	}
	return line, column
}

// toStringMap converts an untyped decoded mapping into a map[string]string,
// used for the env document. Non-string values are rejected.
func toStringMap(raw any) (map[string]string, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("not a mapping")
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("env values must be strings")
		}
		out[k] = s
	}
	return out, nil
}
