package parsing_test

import (
	"errors"
	"testing"

	"github.com/phodal/gomodern/internal/tools/parsing"
	"github.com/phodal/gomodern/pkg/tool"
)

const sampleMarkup = `<html>
<head>
  <title>Index</title>
  <link href="style.css" rel="stylesheet">
  <script src="app.js"></script>
</head>
<body id="main">
  <div class="row">
    <a href="/docs">Docs</a>
    <a href="/about">About</a>
    <img src="logo.png">
  </div>
  <div class="row"></div>
</body>
</html>`

func TestMarkupParse_Tags(t *testing.T) {
	p := parsing.NewMarkupParseTool()

	res, err := p.Execute(map[string]any{"markup": sampleMarkup, "mode": "tags"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := res.Content.(map[string]int)
	if counts["div"] != 2 {
		t.Fatalf("expected 2 divs, got %d", counts["div"])
	}
	if counts["a"] != 2 {
		t.Fatalf("expected 2 anchors, got %d", counts["a"])
	}
	if counts["title"] != 1 {
		t.Fatalf("expected 1 title, got %d", counts["title"])
	}
}

func TestMarkupParse_Links(t *testing.T) {
	p := parsing.NewMarkupParseTool()

	res, err := p.Execute(map[string]any{"markup": sampleMarkup, "mode": "links"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	links := res.Content.([]map[string]string)
	targets := map[string]bool{}
	for _, link := range links {
		targets[link["target"]] = true
	}
	for _, want := range []string{"style.css", "app.js", "/docs", "/about", "logo.png"} {
		if !targets[want] {
			t.Fatalf("expected link target %q in %v", want, links)
		}
	}
}

func TestMarkupParse_Structure(t *testing.T) {
	p := parsing.NewMarkupParseTool()

	res, err := p.Execute(map[string]any{"markup": sampleMarkup})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Metadata["mode"] != "structure" {
		t.Fatalf("expected structure default, got %v", res.Metadata)
	}

	// html.Parse always roots the tree at an html element.
	nodes := res.Content.([]map[string]any)
	if len(nodes) != 1 || nodes[0]["tag"] != "html" {
		t.Fatalf("expected html root, got %v", nodes)
	}
}

func TestMarkupParse_Errors(t *testing.T) {
	p := parsing.NewMarkupParseTool()

	var toolErr *tool.Error
	_, err := p.Execute(map[string]any{})
	if !errors.As(err, &toolErr) || toolErr.Code != tool.CodeMissingParameter {
		t.Fatalf("expected MISSING_PARAMETER, got %v", err)
	}

	_, err = p.Execute(map[string]any{"markup": sampleMarkup, "mode": "bogus"})
	if !errors.As(err, &toolErr) || toolErr.Code != "UNSUPPORTED_MODE" {
		t.Fatalf("expected UNSUPPORTED_MODE, got %v", err)
	}
}
