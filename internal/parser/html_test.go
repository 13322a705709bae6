package parser

import (
	"strings"
	"testing"
)

const sampleHTML = `<!doctype html>
<html><head><title>Release Guide</title><style>p{}</style></head>
<body>
<nav><p>Skip me</p></nav>
<h1 id="top">Releasing</h1>
<p>Cut a <a href="/tags">tag</a>.</p>
<h2>Checks</h2>
<ul><li>CI green</li><li>Changelog</li></ul>
</body></html>`

func TestHTMLParser_Structure(t *testing.T) {
	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(sampleHTML), "release.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "Release Guide" {
		t.Errorf("expected title from <title>, got %q", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(tree.Children))
	}
	h1 := tree.Children[0]
	if h1.ID != "top" {
		t.Errorf("expected source id %q, got %q", "top", h1.ID)
	}
	if h1.Text != "Cut a tag." {
		t.Errorf("expected %q, got %q", "Cut a tag.", h1.Text)
	}
	checks := h1.Children[0]
	if got := checks.Paragraphs(); len(got) != 2 || got[0] != "CI green" {
		t.Errorf("expected list items as paragraphs, got %q", got)
	}

	out := tree.Outline()
	if len(out) != 2 || out[0].ID != "top" || out[1].ID != "checks" {
		t.Errorf("unexpected outline: %+v", out)
	}
}

func TestExtractBody(t *testing.T) {
	body, err := ExtractBody(strings.NewReader(sampleHTML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(body, "<title>") || strings.Contains(body, "<body>") {
		t.Errorf("expected body contents only, got %q", body)
	}
	if !strings.HasPrefix(body, "<nav>") {
		t.Errorf("expected body to start at first child, got %q", body)
	}
	if !strings.Contains(body, `<h1 id="top">Releasing</h1>`) {
		t.Errorf("expected heading preserved, got %q", body)
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.md":       FormatMarkdown,
		"b.MARKDOWN": FormatMarkdown,
		"dir/c.htm":  FormatHTML,
		"d.txt":      FormatText,
		"e.docx":     FormatDOCX,
		"f.PDF":      FormatPDF,
	}
	for name, want := range tests {
		got, err := FormatOf(name)
		if err != nil || got != want {
			t.Errorf("FormatOf(%q): expected %q, got %q (%v)", name, want, got, err)
		}
	}
	if _, err := FormatOf("f.xlsx"); err == nil {
		t.Error("expected xlsx to be unsupported")
	}
	if !FormatPDF.Binary() || !FormatDOCX.Binary() || FormatMarkdown.Binary() {
		t.Error("expected only docx and pdf to be binary")
	}
	if IsSupportedExtension("g.csv") {
		t.Error("expected csv to be unsupported")
	}
}
