package tool

import "fmt"

// Error codes used by the contract layer itself. Adapters may define their
// own codes alongside these.
const (
	// CodeMissingParameter is returned when a required parameter is absent.
	CodeMissingParameter = "MISSING_PARAMETER"
	// CodeInvalidParameterType is returned when a parameter has the wrong type.
	CodeInvalidParameterType = "INVALID_PARAMETER_TYPE"
	// CodeEmptyParameter is returned when a string parameter is blank.
	CodeEmptyParameter = "EMPTY_PARAMETER"
	// CodeExecutionError is the wrapper code for unanticipated tool faults.
	CodeExecutionError = "EXECUTION_ERROR"
)

// Error is a structured tool fault carrying a stable machine-readable code.
// ToolName is empty for faults raised outside any particular tool; Run fills
// it in when a tool's Execute returns one without it.
type Error struct {
	ToolName string
	Code     string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.ToolName != "" {
		return fmt.Sprintf("%s: %s: %s", e.ToolName, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// NewError creates a tool fault with a code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorWithCause creates a tool fault wrapping an underlying error.
func NewErrorWithCause(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// DuplicateToolError reports a Register call for a name that is already
// present in the registry.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}
