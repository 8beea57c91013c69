// Package codegen provides the code-generation tool adapters: Go
// declaration generation backed by go/format and template rendering backed
// by text/template.
package codegen

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phodal/gomodern/pkg/tool"
)

// AstCodeGenTool generates Go declarations (structs, interfaces, functions,
// const blocks) from structured parameters.
type AstCodeGenTool struct {
	tool.BaseTool
	outputDir string
}

// NewAstCodeGenTool creates the ast-code-gen tool. Relative output paths
// are resolved against outputDir.
func NewAstCodeGenTool(outputDir string) *AstCodeGenTool {
	return &AstCodeGenTool{
		BaseTool: tool.BaseTool{
			ToolName:        "ast-code-gen",
			ToolDescription: "Generates Go declarations (structs, interfaces, functions, const blocks) and formats them with go/format",
			ToolCategory:    "codegen",
			ToolSchema: tool.ObjectSchema(map[string]any{
				"type": map[string]any{
					"type":        "string",
					"description": "Declaration kind to generate",
					"enum":        []string{"struct", "interface", "function", "const"},
				},
				"name": map[string]any{
					"type":        "string",
					"description": "Name of the generated declaration",
				},
				"package": map[string]any{
					"type":        "string",
					"description": "Package clause for the generated file",
					"default":     "main",
				},
				"fields": map[string]any{
					"type":        "object",
					"description": "Struct fields: field name to Go type",
				},
				"methods": map[string]any{
					"type":        "array",
					"description": "Interface method signatures, e.g. \"Close() error\"",
				},
				"signature": map[string]any{
					"type":        "string",
					"description": "Function signature, e.g. \"(ctx context.Context) error\"",
				},
				"values": map[string]any{
					"type":        "object",
					"description": "Const block: constant name to value",
				},
				"output_path": map[string]any{
					"type":        "string",
					"description": "Optional file path to write the generated source to",
				},
			}, "type", "name"),
		},
		outputDir: outputDir,
	}
}

func (t *AstCodeGenTool) SupportsOperation(op string) bool {
	switch op {
	case "generate-struct", "generate-interface", "generate-function",
		"generate-const", "code-generation":
		return true
	}
	return false
}

func (t *AstCodeGenTool) Execute(params map[string]any) (*tool.Result, error) {
	kind, err := tool.Require[string](params, "type")
	if err != nil {
		return nil, err
	}
	name, err := tool.Require[string](params, "name")
	if err != nil {
		return nil, err
	}
	if err := tool.RequireNonEmpty(name, "name"); err != nil {
		return nil, err
	}
	pkg, err := tool.Optional[string](params, "package", "main")
	if err != nil {
		return nil, err
	}

	var decl string
	switch kind {
	case "struct":
		decl, err = t.structDecl(name, params)
	case "interface":
		decl, err = t.interfaceDecl(name, params)
	case "function":
		decl, err = t.functionDecl(name, params)
	case "const":
		decl, err = t.constDecl(name, params)
	default:
		return nil, tool.NewError("UNSUPPORTED_KIND",
			fmt.Sprintf("unsupported declaration kind %q", kind))
	}
	if err != nil {
		return nil, err
	}

	src := fmt.Sprintf("package %s\n\n%s\n", pkg, decl)
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return nil, tool.NewErrorWithCause("GENERATION_ERROR",
			"generated source failed to format", err)
	}

	result := tool.SuccessResult(string(formatted)).
		AddMetadata("kind", kind).
		AddMetadata("name", name).
		AddMetadata("package", pkg)

	outputPath, err := tool.Optional[string](params, "output_path", "")
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		written, err := t.writeOutput(outputPath, formatted)
		if err != nil {
			return nil, err
		}
		result.AddMetadata("output_path", written)
	}
	return result, nil
}

func (t *AstCodeGenTool) structDecl(name string, params map[string]any) (string, error) {
	fields, err := tool.Optional[map[string]any](params, "fields", map[string]any{})
	if err != nil {
		return "", err
	}
	names := sortedKeys(fields)

	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, fieldName := range names {
		fieldType, ok := fields[fieldName].(string)
		if !ok {
			return "", tool.NewError(tool.CodeInvalidParameterType,
				fmt.Sprintf("field %q must map to a Go type string", fieldName))
		}
		fmt.Fprintf(&b, "\t%s %s\n", fieldName, fieldType)
	}
	b.WriteString("}")
	return b.String(), nil
}

func (t *AstCodeGenTool) interfaceDecl(name string, params map[string]any) (string, error) {
	methods, err := tool.Optional[[]any](params, "methods", nil)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "type %s interface {\n", name)
	for _, m := range methods {
		sig, ok := m.(string)
		if !ok {
			return "", tool.NewError(tool.CodeInvalidParameterType,
				"interface methods must be signature strings")
		}
		fmt.Fprintf(&b, "\t%s\n", sig)
	}
	b.WriteString("}")
	return b.String(), nil
}

func (t *AstCodeGenTool) functionDecl(name string, params map[string]any) (string, error) {
	signature, err := tool.Optional[string](params, "signature", "()")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("func %s%s {\n\tpanic(\"not implemented\")\n}", name, signature), nil
}

func (t *AstCodeGenTool) constDecl(name string, params map[string]any) (string, error) {
	values, err := tool.Require[map[string]any](params, "values")
	if err != nil {
		return "", err
	}
	names := sortedKeys(values)

	var b strings.Builder
	fmt.Fprintf(&b, "// %s constants.\nconst (\n", name)
	for _, constName := range names {
		fmt.Fprintf(&b, "\t%s = %s\n", constName, constLiteral(values[constName]))
	}
	b.WriteString(")")
	return b.String(), nil
}

func (t *AstCodeGenTool) writeOutput(path string, data []byte) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(t.outputDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", tool.NewErrorWithCause("GENERATION_ERROR",
			fmt.Sprintf("create output directory for %s", path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", tool.NewErrorWithCause("GENERATION_ERROR",
			fmt.Sprintf("write generated source to %s", path), err)
	}
	return path, nil
}

func constLiteral(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
