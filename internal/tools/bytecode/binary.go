// Package bytecode provides the binary-tool adapter, which inspects
// compiled Go binaries through debug/buildinfo and debug/elf.
package bytecode

import (
	"debug/buildinfo"
	"debug/elf"
	"errors"
	"fmt"

	"github.com/phodal/gomodern/pkg/tool"
)

// maxSymbols caps the symbol listing so stripped-down summaries stay
// wire-friendly for large binaries.
const maxSymbols = 500

// BinaryTool inspects compiled Go binaries: build info, module
// dependencies, ELF symbols, and sections.
type BinaryTool struct {
	tool.BaseTool
}

// NewBinaryTool creates the binary-tool.
func NewBinaryTool() *BinaryTool {
	return &BinaryTool{
		BaseTool: tool.BaseTool{
			ToolName:        "binary-tool",
			ToolDescription: "Inspects compiled Go binaries: build info, module dependencies, ELF symbols and sections",
			ToolCategory:    "bytecode",
			ToolSchema: tool.ObjectSchema(map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to the compiled binary",
				},
				"mode": map[string]any{
					"type":        "string",
					"description": "Analysis mode",
					"enum":        []string{"info", "dependencies", "symbols", "sections"},
					"default":     "info",
				},
			}, "file_path"),
		},
	}
}

func (t *BinaryTool) SupportsOperation(op string) bool {
	switch op {
	case "binary-analysis", "bytecode-analysis", "artifact-analysis":
		return true
	}
	return false
}

func (t *BinaryTool) Execute(params map[string]any) (*tool.Result, error) {
	path, err := tool.Require[string](params, "file_path")
	if err != nil {
		return nil, err
	}
	if err := tool.RequireNonEmpty(path, "file_path"); err != nil {
		return nil, err
	}
	mode, err := tool.Optional[string](params, "mode", "info")
	if err != nil {
		return nil, err
	}

	var content any
	switch mode {
	case "info":
		content, err = t.info(path)
	case "dependencies":
		content, err = t.dependencies(path)
	case "symbols":
		content, err = t.symbols(path)
	case "sections":
		content, err = t.sections(path)
	default:
		return nil, tool.NewError("UNSUPPORTED_MODE",
			fmt.Sprintf("unsupported analysis mode %q", mode))
	}
	if err != nil {
		return nil, err
	}

	return tool.SuccessResult(content).
		AddMetadata("mode", mode).
		AddMetadata("file", path), nil
}

func (t *BinaryTool) info(path string) (any, error) {
	bi, err := buildinfo.ReadFile(path)
	if err != nil {
		return nil, tool.NewErrorWithCause("ANALYSIS_ERROR",
			fmt.Sprintf("read build info from %s", path), err)
	}
	settings := map[string]string{}
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	return map[string]any{
		"go_version":   bi.GoVersion,
		"path":         bi.Path,
		"main_module":  bi.Main.Path,
		"main_version": bi.Main.Version,
		"dependencies": len(bi.Deps),
		"settings":     settings,
	}, nil
}

func (t *BinaryTool) dependencies(path string) (any, error) {
	bi, err := buildinfo.ReadFile(path)
	if err != nil {
		return nil, tool.NewErrorWithCause("ANALYSIS_ERROR",
			fmt.Sprintf("read build info from %s", path), err)
	}
	deps := []map[string]string{}
	for _, dep := range bi.Deps {
		entry := map[string]string{
			"path":    dep.Path,
			"version": dep.Version,
		}
		if dep.Replace != nil {
			entry["replaced_by"] = dep.Replace.Path
		}
		deps = append(deps, entry)
	}
	return deps, nil
}

func (t *BinaryTool) symbols(path string) (any, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, tool.NewErrorWithCause("ANALYSIS_ERROR",
			fmt.Sprintf("open ELF binary %s", path), err)
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, tool.NewErrorWithCause("ANALYSIS_ERROR",
			fmt.Sprintf("read symbol table of %s", path), err)
	}

	listed := []map[string]any{}
	for _, sym := range syms {
		if sym.Name == "" {
			continue
		}
		if len(listed) >= maxSymbols {
			break
		}
		listed = append(listed, map[string]any{
			"name": sym.Name,
			"size": sym.Size,
		})
	}
	return map[string]any{
		"total":   len(syms),
		"listed":  len(listed),
		"symbols": listed,
	}, nil
}

func (t *BinaryTool) sections(path string) (any, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, tool.NewErrorWithCause("ANALYSIS_ERROR",
			fmt.Sprintf("open ELF binary %s", path), err)
	}
	defer f.Close()

	sections := []map[string]any{}
	for _, s := range f.Sections {
		if s.Name == "" {
			continue
		}
		sections = append(sections, map[string]any{
			"name": s.Name,
			"type": s.Type.String(),
			"size": s.Size,
		})
	}
	return sections, nil
}
