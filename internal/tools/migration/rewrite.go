// Package migration provides the rewrite-tool adapter: recipe-driven
// rewrites of Go source through go/ast transformation.
package migration

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/phodal/gomodern/pkg/tool"
)

// RewriteTool applies a named rewrite recipe to Go source and returns the
// rewritten, formatted source.
type RewriteTool struct {
	tool.BaseTool
}

// NewRewriteTool creates the rewrite-tool.
func NewRewriteTool() *RewriteTool {
	return &RewriteTool{
		BaseTool: tool.BaseTool{
			ToolName:        "rewrite-tool",
			ToolDescription: "Applies rewrite recipes (rename-identifier, rename-package, interface-to-any) to Go source",
			ToolCategory:    "migration",
			ToolSchema: tool.ObjectSchema(map[string]any{
				"recipe": map[string]any{
					"type":        "string",
					"description": "Rewrite recipe to apply",
					"enum":        []string{"rename-identifier", "rename-package", "interface-to-any"},
				},
				"source": map[string]any{
					"type":        "string",
					"description": "Inline Go source to rewrite",
				},
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to a Go source file (used when no inline source is given)",
				},
				"from": map[string]any{
					"type":        "string",
					"description": "Identifier to rename (rename-identifier)",
				},
				"to": map[string]any{
					"type":        "string",
					"description": "Replacement name (rename-identifier, rename-package)",
				},
				"output_path": map[string]any{
					"type":        "string",
					"description": "Optional file path to write the rewritten source to",
				},
			}, "recipe"),
		},
	}
}

func (t *RewriteTool) SupportsOperation(op string) bool {
	switch op {
	case "recipe", "refactor", "migrate", "code-transformation":
		return true
	}
	return false
}

func (t *RewriteTool) Execute(params map[string]any) (*tool.Result, error) {
	recipe, err := tool.Require[string](params, "recipe")
	if err != nil {
		return nil, err
	}
	source, filename, err := loadSource(params)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return nil, tool.NewErrorWithCause("PARSE_ERROR", "parse Go source", err)
	}

	var replacements int
	switch recipe {
	case "rename-identifier":
		replacements, err = t.renameIdentifier(file, params)
	case "rename-package":
		replacements, err = t.renamePackage(file, params)
	case "interface-to-any":
		replacements = interfaceToAny(file)
	default:
		return nil, tool.NewError("UNSUPPORTED_RECIPE",
			fmt.Sprintf("unsupported recipe %q", recipe))
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, tool.NewErrorWithCause("REWRITE_ERROR",
			"format rewritten source", err)
	}

	result := tool.SuccessResult(buf.String()).
		AddMetadata("recipe", recipe).
		AddMetadata("replacements", replacements)

	outputPath, err := tool.Optional[string](params, "output_path", "")
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
			return nil, tool.NewErrorWithCause("REWRITE_ERROR",
				fmt.Sprintf("write rewritten source to %s", outputPath), err)
		}
		result.AddMetadata("output_path", outputPath)
	}
	return result, nil
}

func (t *RewriteTool) renameIdentifier(file *ast.File, params map[string]any) (int, error) {
	from, err := tool.Require[string](params, "from")
	if err != nil {
		return 0, err
	}
	to, err := tool.Require[string](params, "to")
	if err != nil {
		return 0, err
	}
	if err := tool.RequireNonEmpty(to, "to"); err != nil {
		return 0, err
	}

	count := 0
	ast.Inspect(file, func(n ast.Node) bool {
		if ident, ok := n.(*ast.Ident); ok && ident.Name == from {
			ident.Name = to
			count++
		}
		return true
	})
	return count, nil
}

func (t *RewriteTool) renamePackage(file *ast.File, params map[string]any) (int, error) {
	to, err := tool.Require[string](params, "to")
	if err != nil {
		return 0, err
	}
	if err := tool.RequireNonEmpty(to, "to"); err != nil {
		return 0, err
	}
	if file.Name.Name == to {
		return 0, nil
	}
	file.Name.Name = to
	return 1, nil
}

// interfaceToAny replaces every empty interface{} type with the any alias.
func interfaceToAny(file *ast.File) int {
	count := 0
	astutil.Apply(file, nil, func(c *astutil.Cursor) bool {
		iface, ok := c.Node().(*ast.InterfaceType)
		if !ok {
			return true
		}
		if iface.Methods == nil || len(iface.Methods.List) == 0 {
			c.Replace(ast.NewIdent("any"))
			count++
		}
		return true
	})
	return count
}

func loadSource(params map[string]any) (src, filename string, err error) {
	inline, err := tool.Optional[string](params, "source", "")
	if err != nil {
		return "", "", err
	}
	if inline != "" {
		return inline, "inline", nil
	}

	path, err := tool.Optional[string](params, "file_path", "")
	if err != nil {
		return "", "", err
	}
	if path == "" {
		return "", "", tool.NewError(tool.CodeMissingParameter,
			`either "source" or "file_path" is required`)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", tool.NewErrorWithCause("PARSE_ERROR",
			fmt.Sprintf("read source file %s", path), err)
	}
	return string(raw), path, nil
}
