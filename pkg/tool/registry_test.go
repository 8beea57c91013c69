package tool_test

import (
	"errors"
	"testing"

	"github.com/phodal/gomodern/pkg/tool"
)

// fakeTool is a minimal Tool implementation for registry and contract tests.
type fakeTool struct {
	tool.BaseTool
	ops     map[string]bool
	execute func(params map[string]any) (*tool.Result, error)
}

func newFakeTool(name, category string, ops ...string) *fakeTool {
	supported := make(map[string]bool, len(ops))
	for _, op := range ops {
		supported[op] = true
	}
	return &fakeTool{
		BaseTool: tool.BaseTool{
			ToolName:        name,
			ToolDescription: "fake tool " + name,
			ToolCategory:    category,
			ToolSchema:      tool.ObjectSchema(nil),
		},
		ops: supported,
	}
}

func (f *fakeTool) SupportsOperation(op string) bool { return f.ops[op] }

func (f *fakeTool) Execute(params map[string]any) (*tool.Result, error) {
	if f.execute != nil {
		return f.execute(params)
	}
	return tool.SuccessResult("ok"), nil
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := tool.NewRegistry()
	first := newFakeTool("alpha", "codegen")

	if err := reg.Register(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := reg.Register(newFakeTool("alpha", "parsing"))
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	var dup *tool.DuplicateToolError
	if !errors.As(err, &dup) || dup.Name != "alpha" {
		t.Fatalf("expected DuplicateToolError for alpha, got %v", err)
	}

	if reg.Count() != 1 {
		t.Fatalf("expected count 1, got %d", reg.Count())
	}
	if got := reg.Get("alpha"); got != tool.Tool(first) {
		t.Fatal("expected the first registration to survive")
	}
	if categories := reg.Categories(); len(categories) != 1 || categories[0] != "codegen" {
		t.Fatalf("expected only category codegen, got %v", categories)
	}
}

func TestRegistry_UnregisterUnknown(t *testing.T) {
	reg := tool.NewRegistry()
	if err := reg.Register(newFakeTool("alpha", "codegen")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reg.Unregister("missing") {
		t.Fatal("expected false for unknown name")
	}
	if reg.Count() != 1 {
		t.Fatalf("expected count unchanged, got %d", reg.Count())
	}
	if len(reg.Categories()) != 1 {
		t.Fatalf("expected categories unchanged, got %v", reg.Categories())
	}
}

func TestRegistry_CategoryInvariant(t *testing.T) {
	reg := tool.NewRegistry()
	for _, spec := range []struct{ name, category string }{
		{"alpha", "codegen"},
		{"beta", "codegen"},
		{"gamma", "parsing"},
	} {
		if err := reg.Register(newFakeTool(spec.name, spec.category)); err != nil {
			t.Fatalf("register %s: %v", spec.name, err)
		}
	}

	// Removing the sole tool of a category removes the category.
	if !reg.Unregister("gamma") {
		t.Fatal("expected gamma to be removed")
	}
	for _, category := range reg.Categories() {
		if category == "parsing" {
			t.Fatal("expected parsing category to be gone")
		}
	}

	// Removing one of several leaves the category with the remainder.
	if !reg.Unregister("alpha") {
		t.Fatal("expected alpha to be removed")
	}
	remaining := reg.ByCategory("codegen")
	if len(remaining) != 1 || remaining[0].Name() != "beta" {
		t.Fatalf("expected codegen to keep beta, got %v", remaining)
	}
}

func TestRegistry_EmptyQueries(t *testing.T) {
	reg := tool.NewRegistry()

	if got := reg.ByCategory("nonexistent"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
	if got := reg.SupportingOperation("nonexistent"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestRegistry_Counts(t *testing.T) {
	reg := tool.NewRegistry()
	names := []string{"alpha", "beta", "gamma"}
	for _, name := range names {
		if err := reg.Register(newFakeTool(name, "misc")); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if reg.Count() != len(names) {
		t.Fatalf("expected count %d, got %d", len(names), reg.Count())
	}
	if got := len(reg.All()); got != reg.Count() {
		t.Fatalf("All size %d != Count %d", got, reg.Count())
	}
	if got := len(reg.Names()); got != reg.Count() {
		t.Fatalf("Names size %d != Count %d", got, reg.Count())
	}
}

func TestRegistry_SupportingOperation(t *testing.T) {
	reg := tool.NewRegistry()
	if err := reg.Register(newFakeTool("beta", "parsing", "analyze")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Register(newFakeTool("alpha", "codegen", "analyze", "generate")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matched := reg.SupportingOperation("analyze")
	if len(matched) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(matched))
	}
	if matched[0].Name() != "alpha" || matched[1].Name() != "beta" {
		t.Fatalf("expected name-sorted result, got %s, %s", matched[0].Name(), matched[1].Name())
	}

	if got := reg.SupportingOperation("generate"); len(got) != 1 || got[0].Name() != "alpha" {
		t.Fatalf("expected only alpha for generate, got %v", got)
	}
}

func TestRegistry_Clear(t *testing.T) {
	reg := tool.NewRegistry()
	if err := reg.Register(newFakeTool("alpha", "codegen")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reg.Clear()
	if reg.Count() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Count())
	}
	if len(reg.Categories()) != 0 {
		t.Fatalf("expected no categories, got %v", reg.Categories())
	}
	if reg.IsRegistered("alpha") {
		t.Fatal("expected alpha to be gone")
	}
}
