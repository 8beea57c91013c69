package parsing_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phodal/gomodern/internal/tools/parsing"
	"github.com/phodal/gomodern/pkg/tool"
)

const sampleSource = `package sample

import (
	"fmt"
	"strings"
)

type Widget struct {
	Name string
}

type Store interface {
	Get(key string) (string, error)
}

func New(name string) *Widget {
	return &Widget{Name: strings.TrimSpace(name)}
}

func (w *Widget) String() string {
	return fmt.Sprintf("widget %s", w.Name)
}
`

func TestGoParse_Structure(t *testing.T) {
	p := parsing.NewGoParseTool()

	res, err := p.Execute(map[string]any{"source": sampleSource})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := res.Content.(map[string]any)
	if content["package"] != "sample" {
		t.Fatalf("expected package sample, got %v", content["package"])
	}
	types := content["types"].([]map[string]any)
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %v", types)
	}
	if types[0]["name"] != "Widget" || types[0]["kind"] != "struct" {
		t.Fatalf("unexpected first type: %v", types[0])
	}
	if types[1]["name"] != "Store" || types[1]["kind"] != "interface" {
		t.Fatalf("unexpected second type: %v", types[1])
	}
	if content["functions"] != 2 {
		t.Fatalf("expected 2 functions, got %v", content["functions"])
	}
	if content["imports"] != 2 {
		t.Fatalf("expected 2 imports, got %v", content["imports"])
	}
}

func TestGoParse_Functions(t *testing.T) {
	p := parsing.NewGoParseTool()

	res, err := p.Execute(map[string]any{"source": sampleSource, "mode": "functions"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	funcs := res.Content.(map[string]any)["functions"].([]map[string]any)
	if len(funcs) != 2 {
		t.Fatalf("expected 2 functions, got %v", funcs)
	}
	if funcs[0]["name"] != "New" || funcs[0]["exported"] != true {
		t.Fatalf("unexpected first function: %v", funcs[0])
	}
	if funcs[1]["receiver"] != "*Widget" {
		t.Fatalf("expected receiver on String, got %v", funcs[1])
	}
}

func TestGoParse_ImportsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.go")
	if err := os.WriteFile(path, []byte(sampleSource), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	p := parsing.NewGoParseTool()
	res, err := p.Execute(map[string]any{"file_path": path, "mode": "imports"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	imports := res.Content.(map[string]any)["imports"].([]string)
	if len(imports) != 2 || imports[0] != `"fmt"` {
		t.Fatalf("unexpected imports: %v", imports)
	}
	if res.Metadata["file"] != path {
		t.Fatalf("expected file metadata, got %v", res.Metadata)
	}
}

func TestGoParse_Errors(t *testing.T) {
	p := parsing.NewGoParseTool()

	var toolErr *tool.Error
	_, err := p.Execute(map[string]any{})
	if !errors.As(err, &toolErr) || toolErr.Code != tool.CodeMissingParameter {
		t.Fatalf("expected MISSING_PARAMETER, got %v", err)
	}

	_, err = p.Execute(map[string]any{"source": "package {{{"})
	if !errors.As(err, &toolErr) || toolErr.Code != "PARSE_ERROR" {
		t.Fatalf("expected PARSE_ERROR, got %v", err)
	}

	_, err = p.Execute(map[string]any{"source": sampleSource, "mode": "bogus"})
	if !errors.As(err, &toolErr) || toolErr.Code != "UNSUPPORTED_MODE" {
		t.Fatalf("expected UNSUPPORTED_MODE, got %v", err)
	}
}
