// Package parsing provides the source-analysis tool adapters: Go source
// parsing through go/parser and markup parsing through golang.org/x/net/html.
package parsing

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"

	"github.com/phodal/gomodern/pkg/tool"
)

// GoParseTool parses Go source and reports its structure.
type GoParseTool struct {
	tool.BaseTool
}

// NewGoParseTool creates the go-parse-tool.
func NewGoParseTool() *GoParseTool {
	return &GoParseTool{
		BaseTool: tool.BaseTool{
			ToolName:        "go-parse-tool",
			ToolDescription: "Parses Go source with go/parser and reports package structure, functions, types, and imports",
			ToolCategory:    "parsing",
			ToolSchema: tool.ObjectSchema(map[string]any{
				"source": map[string]any{
					"type":        "string",
					"description": "Inline Go source to parse",
				},
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to a Go source file (used when no inline source is given)",
				},
				"mode": map[string]any{
					"type":        "string",
					"description": "Analysis mode",
					"enum":        []string{"full", "structure", "functions", "imports"},
					"default":     "structure",
				},
			}),
		},
	}
}

func (t *GoParseTool) SupportsOperation(op string) bool {
	switch op {
	case "go-parse", "source-analysis", "ast-analysis", "go-structure":
		return true
	}
	return false
}

func (t *GoParseTool) Execute(params map[string]any) (*tool.Result, error) {
	source, filename, err := sourceParam(params, "source", "file_path")
	if err != nil {
		return nil, err
	}
	mode, err := tool.Optional[string](params, "mode", "structure")
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return nil, tool.NewErrorWithCause("PARSE_ERROR", "parse Go source", err)
	}

	content := map[string]any{"package": file.Name.Name}
	switch mode {
	case "structure":
		content["types"] = typeDecls(file)
		content["functions"] = len(functionDecls(fset, file))
		content["imports"] = len(file.Imports)
	case "functions":
		content["functions"] = functionDecls(fset, file)
	case "imports":
		content["imports"] = importPaths(file)
	case "full":
		content["types"] = typeDecls(file)
		content["functions"] = functionDecls(fset, file)
		content["imports"] = importPaths(file)
	default:
		return nil, tool.NewError("UNSUPPORTED_MODE",
			fmt.Sprintf("unsupported analysis mode %q", mode))
	}

	return tool.SuccessResult(content).
		AddMetadata("mode", mode).
		AddMetadata("file", filename), nil
}

func typeDecls(file *ast.File) []map[string]any {
	types := []map[string]any{}
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			types = append(types, map[string]any{
				"name":     ts.Name.Name,
				"kind":     typeKind(ts.Type),
				"exported": ts.Name.IsExported(),
			})
		}
	}
	return types
}

func typeKind(expr ast.Expr) string {
	switch expr.(type) {
	case *ast.StructType:
		return "struct"
	case *ast.InterfaceType:
		return "interface"
	case *ast.FuncType:
		return "func"
	case *ast.MapType:
		return "map"
	case *ast.ArrayType:
		return "array"
	case *ast.ChanType:
		return "chan"
	default:
		return "other"
	}
}

func functionDecls(fset *token.FileSet, file *ast.File) []map[string]any {
	funcs := []map[string]any{}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		entry := map[string]any{
			"name":     fn.Name.Name,
			"exported": fn.Name.IsExported(),
			"line":     fset.Position(fn.Pos()).Line,
		}
		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			entry["receiver"] = receiverName(fn.Recv.List[0].Type)
		}
		funcs = append(funcs, entry)
	}
	return funcs
}

func receiverName(expr ast.Expr) string {
	switch r := expr.(type) {
	case *ast.Ident:
		return r.Name
	case *ast.StarExpr:
		return "*" + receiverName(r.X)
	default:
		return "?"
	}
}

func importPaths(file *ast.File) []string {
	paths := []string{}
	for _, imp := range file.Imports {
		paths = append(paths, imp.Path.Value)
	}
	return paths
}

// sourceParam resolves the inline-or-file source convention shared by the
// parsing tools: inline wins, otherwise the file is read.
func sourceParam(params map[string]any, inlineKey, pathKey string) (src, filename string, err error) {
	inline, err := tool.Optional[string](params, inlineKey, "")
	if err != nil {
		return "", "", err
	}
	if inline != "" {
		return inline, "inline", nil
	}

	path, err := tool.Optional[string](params, pathKey, "")
	if err != nil {
		return "", "", err
	}
	if path == "" {
		return "", "", tool.NewError(tool.CodeMissingParameter,
			fmt.Sprintf("either %q or %q is required", inlineKey, pathKey))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", tool.NewErrorWithCause("PARSE_ERROR",
			fmt.Sprintf("read source file %s", path), err)
	}
	return string(raw), path, nil
}
