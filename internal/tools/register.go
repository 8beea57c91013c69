// Package tools wires the concrete tool adapters into a registry at server
// bootstrap.
package tools

import (
	"fmt"

	"github.com/phodal/gomodern/internal/config"
	"github.com/phodal/gomodern/internal/tools/bytecode"
	"github.com/phodal/gomodern/internal/tools/codegen"
	"github.com/phodal/gomodern/internal/tools/migration"
	"github.com/phodal/gomodern/internal/tools/parsing"
	"github.com/phodal/gomodern/pkg/tool"
)

// RegisterAll registers every built-in tool adapter.
func RegisterAll(registry *tool.Registry, cfg *config.Config) error {
	all := []tool.Tool{
		codegen.NewAstCodeGenTool(cfg.Codegen.OutputDir),
		codegen.NewTemplateCodeGenTool(cfg.Codegen.OutputDir),
		parsing.NewGoParseTool(),
		parsing.NewMarkupParseTool(),
		bytecode.NewBinaryTool(),
		migration.NewRewriteTool(),
	}
	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("register tool %s: %w", t.Name(), err)
		}
	}
	return nil
}
