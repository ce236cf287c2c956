package flow

import "fmt"

// Kind identifies a parse/validation error's position in the §7 error
// taxonomy, so callers can switch on it instead of string-matching.
type Kind string

const (
	KindYAMLSyntaxError        Kind = "yaml_syntax_error"
	KindInvalidFlowStructure   Kind = "invalid_flow_structure"
	KindInvalidCommand         Kind = "invalid_command"
	KindUndefinedVariable      Kind = "undefined_variable"
	KindBrandValidationError   Kind = "brand_validation_error"
	KindFileReadError          Kind = "file_read_error"
)

// YAMLSyntaxError reports a YAML parse failure with a best-effort
// line/column (yaml.v3 does not expose a structured position on every
// error path; 0 means "not recovered from the underlying error text").
type YAMLSyntaxError struct {
	Line   int
	Column int
	Cause  error
}

func (e *YAMLSyntaxError) Error() string {
	return fmt.Sprintf("yaml syntax error at line %d, column %d: %v", e.Line, e.Column, e.Cause)
}

func (e *YAMLSyntaxError) Unwrap() error { return e.Cause }

// Kind implements the typed-error convention used across the engine.
func (e *YAMLSyntaxError) Kind() Kind { return KindYAMLSyntaxError }

// InvalidFlowStructureError reports a missing or empty step list.
type InvalidFlowStructureError struct {
	Reason string
}

func (e *InvalidFlowStructureError) Error() string {
	return fmt.Sprintf("invalid flow structure: %s", e.Reason)
}

// Kind implements the typed-error convention used across the engine.
func (e *InvalidFlowStructureError) Kind() Kind { return KindInvalidFlowStructure }

// InvalidCommandError reports a step that is not a recognised single-key
// mapping, or whose payload failed its command schema.
type InvalidCommandError struct {
	Index  int
	Raw    any
	Reason string
	Cause  error
}

func (e *InvalidCommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("step[%d]: invalid command: %s: %v", e.Index, e.Reason, e.Cause)
	}
	return fmt.Sprintf("step[%d]: invalid command: %s", e.Index, e.Reason)
}

func (e *InvalidCommandError) Unwrap() error { return e.Cause }

// Kind implements the typed-error convention used across the engine.
func (e *InvalidCommandError) Kind() Kind { return KindInvalidCommand }

// UndefinedVariableError reports a ${NAME} reference that resolved in
// neither the process environment, the dotenv map, nor the flow's own env.
type UndefinedVariableError struct {
	VariableName string
	Location     string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q at %s", e.VariableName, e.Location)
}

// Kind implements the typed-error convention used across the engine.
func (e *UndefinedVariableError) Kind() Kind { return KindUndefinedVariable }

// BrandValidationError reports a branded string (URL, path, key, JS
// expression) that failed its format predicate.
type BrandValidationError struct {
	Brand string
	Value string
	Cause error
}

func (e *BrandValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Brand, e.Value, e.Cause)
}

func (e *BrandValidationError) Unwrap() error { return e.Cause }

// Kind implements the typed-error convention used across the engine.
func (e *BrandValidationError) Kind() Kind { return KindBrandValidationError }

// FileReadError reports a failure to read the YAML source file.
type FileReadError struct {
	Path  string
	Cause error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}

func (e *FileReadError) Unwrap() error { return e.Cause }

// Kind implements the typed-error convention used across the engine.
func (e *FileReadError) Kind() Kind { return KindFileReadError }
