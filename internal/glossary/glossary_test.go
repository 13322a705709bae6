package glossary

import (
	"strings"
	"testing"
)

const sampleYAML = `
categories:
  - name: Tooling
    terms:
      - term: Continuous Integration (CI)
        definition: "Merging work **frequently** into a shared <em>mainline</em>."
        source: Wikipedia
        url: https://en.wikipedia.org/wiki/Continuous_integration
        page: ci-basics
  - name: Storage
    terms:
      - term: cache
        definition: temporary storage
        source: MDN
        url: https://developer.mozilla.org/en-US/docs/Glossary/Cache
`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(d.Categories))
	}
	terms := d.Terms()
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[0].Page != "ci-basics" {
		t.Errorf("expected page %q, got %q", "ci-basics", terms[0].Page)
	}
	if terms[1].Term != "cache" {
		t.Errorf("expected second term %q, got %q", "cache", terms[1].Term)
	}
}

func TestParse_Empty(t *testing.T) {
	d, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Terms()) != 0 {
		t.Errorf("expected no terms, got %d", len(d.Terms()))
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse(strings.NewReader("categories: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestPlainDefinition(t *testing.T) {
	d, err := Parse(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := d.Terms()[0].PlainDefinition()
	want := "Merging work frequently into a shared mainline."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"<b>bold</b>  text", "bold text"},
		{"<p>one</p><p>two</p>", "one two"},
		{"<em>in</em>line", "inline"},
		{"a &amp; b", "a & b"},
		{"", ""},
		{"<p></p>", ""},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
