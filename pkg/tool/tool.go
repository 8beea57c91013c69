// Package tool defines the uniform contract for dispatchable tools: the
// Tool interface, the Result/Error value types, parameter extraction
// helpers, and the Registry that catalogs tools by name, category, and
// supported operation.
//
// The registry and protocol layers depend on this contract only; they never
// inspect concrete tool types.
package tool

// Tool is the capability set every dispatchable tool implements.
type Tool interface {
	// Name returns the unique, stable tool name used as the registry key.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Category returns the grouping label used by category queries.
	Category() string

	// InputSchema returns the JSON-Schema-shaped description of the tool's
	// recognized parameters.
	InputSchema() map[string]any

	// SupportsOperation reports whether the tool handles the named operation.
	SupportsOperation(op string) bool

	// Execute runs the tool with the given parameters. Deliberate failures
	// are signaled with *Error; anything else that escapes is wrapped by Run.
	Execute(params map[string]any) (*Result, error)
}

// BaseTool provides the metadata half of the Tool contract.
// Embed it in a tool struct and implement Execute, plus SupportsOperation
// when the tool answers operation queries.
type BaseTool struct {
	ToolName        string
	ToolDescription string
	ToolCategory    string
	ToolSchema      map[string]any
}

func (t *BaseTool) Name() string                { return t.ToolName }
func (t *BaseTool) Description() string         { return t.ToolDescription }
func (t *BaseTool) Category() string            { return t.ToolCategory }
func (t *BaseTool) InputSchema() map[string]any { return t.ToolSchema }

// SupportsOperation reports no supported operations unless overridden.
func (t *BaseTool) SupportsOperation(string) bool { return false }

// ObjectSchema builds a JSON-Schema object schema from a property map and
// the names of the required properties.
func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
