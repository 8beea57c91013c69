package tool

import (
	"errors"
	"fmt"
)

// Run invokes a tool through the uniform contract envelope. Whatever happens
// inside Execute, the caller always gets a Result: a deliberate *Error keeps
// its code (with ToolName injected when unset), any other error and any
// panic become an EXECUTION_ERROR failure. No exceptional channel crosses
// this boundary, which lets the protocol layer treat every invocation as a
// total function from parameters to outcome.
func Run(t Tool, params map[string]any) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = FailureResult(CodeExecutionError,
				fmt.Sprintf("panic in tool %q: %v", t.Name(), r))
		}
	}()

	res, err := t.Execute(params)
	if err != nil {
		var toolErr *Error
		if errors.As(err, &toolErr) {
			if toolErr.ToolName == "" {
				toolErr.ToolName = t.Name()
			}
			return FailureResult(toolErr.Code, toolErr.Message)
		}
		return FailureResult(CodeExecutionError, err.Error())
	}
	if res == nil {
		return FailureResult(CodeExecutionError,
			fmt.Sprintf("tool %q returned no result", t.Name()))
	}
	return res
}
