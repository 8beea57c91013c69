// gomodern — code modernization tool server
//
// Usage:
//
//	gomodern serve          # run the stdio JSON-RPC server
//	gomodern tools          # list registered tools
//	gomodern call <tool>    # invoke one tool directly
//	gomodern version        # show version
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phodal/gomodern/internal/config"
	"github.com/phodal/gomodern/internal/tools"
	"github.com/phodal/gomodern/pkg/mcpserver"
	"github.com/phodal/gomodern/pkg/tool"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "gomodern",
		Short: "Code modernization tool server",
		Long:  "gomodern exposes code generation, source parsing, binary inspection, and rewrite tools over a stdio JSON-RPC protocol, and as one-shot CLI calls.",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "gomodern.yaml", "path to config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(toolsCmd(&configPath))
	rootCmd.AddCommand(callCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the stdio JSON-RPC tool server",
		Long:  "Reads line-delimited JSON-RPC 2.0 requests from stdin and writes responses to stdout. Logs go to stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, registry, logger, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			server := mcpserver.New(cfg.Server.Name, cfg.Server.Version, registry)
			server.SetLogger(logger)
			server.Use(mcpserver.RecoveryMiddleware(logger))
			server.Use(mcpserver.LoggingMiddleware(logger))

			return server.Serve(context.Background(), os.Stdin, os.Stdout)
		},
	}
}

func toolsCmd(configPath *string) *cobra.Command {
	var category string
	var operation string
	var output string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, _, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			var listed []tool.Tool
			switch {
			case category != "":
				listed = registry.ByCategory(category)
			case operation != "":
				listed = registry.SupportingOperation(operation)
			default:
				for _, name := range registry.Names() {
					listed = append(listed, registry.Get(name))
				}
			}

			entries := make([]map[string]any, 0, len(listed))
			for _, t := range listed {
				entries = append(entries, map[string]any{
					"name":        t.Name(),
					"category":    t.Category(),
					"description": t.Description(),
				})
			}
			return render(os.Stdout, output, entries)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&operation, "operation", "", "filter by supported operation")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: json, yaml or text")
	return cmd
}

func callCmd(configPath *string) *cobra.Command {
	var paramFlags []string
	var argsJSON string
	var output string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool directly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, _, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			name := args[0]
			t := registry.Get(name)
			if t == nil {
				return fmt.Errorf("tool not found: %s", name)
			}

			params, err := buildParams(paramFlags, argsJSON)
			if err != nil {
				return err
			}

			result := tool.Run(t, params)
			if err := render(os.Stdout, output, result); err != nil {
				return err
			}
			if !result.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "tool parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&argsJSON, "args-json", "", "tool parameters as a JSON object")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: json, yaml or text")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gomodern %s\n", version)
		},
	}
}

// bootstrap loads configuration, builds the stderr logger, and populates a
// fresh registry with the built-in adapters.
func bootstrap(configPath string) (*config.Config, *tool.Registry, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := cfg.Logger(os.Stderr)

	registry := tool.NewRegistry()
	registry.SetLogger(logger)
	if err := tools.RegisterAll(registry, cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("bootstrap tools: %w", err)
	}
	return cfg, registry, logger, nil
}

// buildParams merges --args-json with repeated --param key=value flags;
// explicit flags win.
func buildParams(paramFlags []string, argsJSON string) (map[string]any, error) {
	params := map[string]any{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &params); err != nil {
			return nil, fmt.Errorf("parse --args-json: %w", err)
		}
	}
	for _, p := range paramFlags {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", p)
		}
		params[key] = value
	}
	return params, nil
}

// render writes value in the requested output format, mirroring the
// json/yaml/text choices of the protocol clients.
func render(w *os.File, format string, value any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "text":
		return renderText(w, value)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w *os.File, value any) error {
	switch v := value.(type) {
	case *tool.Result:
		if v.Success {
			fmt.Fprintf(w, "success (%s)\n", v.Timestamp.Format("15:04:05"))
			fmt.Fprintln(w, stringify(v.Content))
		} else {
			fmt.Fprintf(w, "failed: %s", v.Err)
			if v.Code != "" {
				fmt.Fprintf(w, " [%s]", v.Code)
			}
			fmt.Fprintln(w)
		}
		for key, meta := range v.Metadata {
			fmt.Fprintf(w, "  %s: %v\n", key, meta)
		}
		return nil
	case []map[string]any:
		for _, entry := range v {
			fmt.Fprintf(w, "%-20v %-12v %v\n", entry["name"], entry["category"], entry["description"])
		}
		return nil
	default:
		fmt.Fprintln(w, stringify(value))
		return nil
	}
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}
