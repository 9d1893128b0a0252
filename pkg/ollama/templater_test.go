package ollama_test

import (
	"testing"

	"github.com/garnizeh/nova/pkg/ollama"
)

func TestRenderTemplate(t *testing.T) {
	out, err := ollama.RenderTemplate("Problem: {{.Title}} ({{.Count}} answers)", map[string]any{"Title": "cache design", "Count": 3})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Problem: cache design (3 answers)" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderTemplate_ParseError(t *testing.T) {
	if _, err := ollama.RenderTemplate("{{.Broken", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}
