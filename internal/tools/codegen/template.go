package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/phodal/gomodern/pkg/tool"
)

// TemplateCodeGenTool renders text/template templates, supplied inline or
// from a file, against a data map.
type TemplateCodeGenTool struct {
	tool.BaseTool
	outputDir string
}

// NewTemplateCodeGenTool creates the template-code-gen tool.
func NewTemplateCodeGenTool(outputDir string) *TemplateCodeGenTool {
	return &TemplateCodeGenTool{
		BaseTool: tool.BaseTool{
			ToolName:        "template-code-gen",
			ToolDescription: "Renders Go text/template templates with a data map, from an inline template or a template file",
			ToolCategory:    "codegen",
			ToolSchema: tool.ObjectSchema(map[string]any{
				"template": map[string]any{
					"type":        "string",
					"description": "Inline template body",
				},
				"template_path": map[string]any{
					"type":        "string",
					"description": "Path to a template file (used when no inline template is given)",
				},
				"data": map[string]any{
					"type":        "object",
					"description": "Data map available to the template",
				},
				"output_path": map[string]any{
					"type":        "string",
					"description": "Optional file path to write the rendered output to",
				},
			}),
		},
		outputDir: outputDir,
	}
}

func (t *TemplateCodeGenTool) SupportsOperation(op string) bool {
	switch op {
	case "template-generation", "code-generation":
		return true
	}
	return false
}

func (t *TemplateCodeGenTool) Execute(params map[string]any) (*tool.Result, error) {
	body, err := tool.Optional[string](params, "template", "")
	if err != nil {
		return nil, err
	}
	templatePath, err := tool.Optional[string](params, "template_path", "")
	if err != nil {
		return nil, err
	}
	source := "inline"
	if body == "" {
		if templatePath == "" {
			return nil, tool.NewError(tool.CodeMissingParameter,
				`either "template" or "template_path" is required`)
		}
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, tool.NewErrorWithCause("TEMPLATE_ERROR",
				fmt.Sprintf("read template file %s", templatePath), err)
		}
		body = string(raw)
		source = templatePath
	}

	data, err := tool.Optional[map[string]any](params, "data", map[string]any{})
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("codegen").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, tool.NewErrorWithCause("TEMPLATE_ERROR", "parse template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, tool.NewErrorWithCause("TEMPLATE_ERROR", "render template", err)
	}

	result := tool.SuccessResult(buf.String()).
		AddMetadata("template_source", source).
		AddMetadata("rendered_bytes", buf.Len())

	outputPath, err := tool.Optional[string](params, "output_path", "")
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		if !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(t.outputDir, outputPath)
		}
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return nil, tool.NewErrorWithCause("TEMPLATE_ERROR",
				fmt.Sprintf("create output directory for %s", outputPath), err)
		}
		if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
			return nil, tool.NewErrorWithCause("TEMPLATE_ERROR",
				fmt.Sprintf("write rendered output to %s", outputPath), err)
		}
		result.AddMetadata("output_path", outputPath)
	}
	return result, nil
}
