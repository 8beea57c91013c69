package bytecode_test

import (
	"debug/buildinfo"
	"errors"
	"os"
	"testing"

	"github.com/phodal/gomodern/internal/tools/bytecode"
	"github.com/phodal/gomodern/pkg/tool"
)

func TestBinaryTool_ParameterErrors(t *testing.T) {
	b := bytecode.NewBinaryTool()

	var toolErr *tool.Error
	_, err := b.Execute(map[string]any{})
	if !errors.As(err, &toolErr) || toolErr.Code != tool.CodeMissingParameter {
		t.Fatalf("expected MISSING_PARAMETER, got %v", err)
	}

	_, err = b.Execute(map[string]any{"file_path": "   "})
	if !errors.As(err, &toolErr) || toolErr.Code != tool.CodeEmptyParameter {
		t.Fatalf("expected EMPTY_PARAMETER, got %v", err)
	}

	_, err = b.Execute(map[string]any{"file_path": "/does/not/exist"})
	if !errors.As(err, &toolErr) || toolErr.Code != "ANALYSIS_ERROR" {
		t.Fatalf("expected ANALYSIS_ERROR, got %v", err)
	}

	_, err = b.Execute(map[string]any{"file_path": "/does/not/exist", "mode": "bogus"})
	if !errors.As(err, &toolErr) || toolErr.Code != "UNSUPPORTED_MODE" {
		t.Fatalf("expected UNSUPPORTED_MODE, got %v", err)
	}
}

// TestBinaryTool_Info inspects the test binary itself, which is a compiled
// Go binary with embedded build info.
func TestBinaryTool_Info(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Skipf("cannot locate test binary: %v", err)
	}
	if _, err := buildinfo.ReadFile(exe); err != nil {
		t.Skipf("test binary has no build info: %v", err)
	}

	b := bytecode.NewBinaryTool()
	res, execErr := b.Execute(map[string]any{"file_path": exe})
	if execErr != nil {
		t.Fatalf("unexpected error: %v", execErr)
	}

	content := res.Content.(map[string]any)
	if content["go_version"] == "" {
		t.Fatalf("expected a Go version, got %v", content)
	}
	if res.Metadata["mode"] != "info" {
		t.Fatalf("expected info default, got %v", res.Metadata)
	}
}

func TestBinaryTool_SupportsOperation(t *testing.T) {
	b := bytecode.NewBinaryTool()
	if !b.SupportsOperation("binary-analysis") || !b.SupportsOperation("bytecode-analysis") {
		t.Fatal("expected binary operations to be supported")
	}
	if b.SupportsOperation("code-generation") {
		t.Fatal("unexpected operation support")
	}
}
