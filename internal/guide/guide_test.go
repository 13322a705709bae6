package guide

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
)

const ciGuide = `---
id: ci
title: Continuous Integration
footnotes:
  - label: Fowler on CI
    url: https://martinfowler.com/articles/continuousIntegration.html
    source: martinfowler.com
  - label: Trunk based development
    url: https://trunkbaseddevelopment.com
    source: trunkbaseddevelopment.com
    note: Background reading
---
# Why CI

Integrate daily.[^1]
`

func sampleFS() fstest.MapFS {
	return fstest.MapFS{
		"guides/ci.md":         {Data: []byte(ciGuide)},
		"guides/ops/deploy.md": {Data: []byte("# Deploying\n\nShip it.\n")},
		"guides/notes.txt":     {Data: []byte("Plain notes.\n")},
		"guides/page.html":     {Data: []byte("<html><head><title>Page</title></head><body><h2>Part</h2><p>x</p></body></html>")},
		"glossary.yaml":        {Data: []byte("categories: []\n")},
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(sampleFS(), "guides/**/*.{md,html,txt,docx,pdf}", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("expected 4 guides, got %d", c.Len())
	}

	g, err := c.Get("ci")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.Title != "Continuous Integration" {
		t.Errorf("expected front matter title, got %q", g.Title)
	}
	if len(g.Footnotes) != 2 || g.Footnotes[1].Note != "Background reading" {
		t.Errorf("unexpected footnotes: %+v", g.Footnotes)
	}
	if strings.Contains(string(g.Source), "footnotes:") {
		t.Errorf("expected front matter stripped, got %q", g.Source)
	}
	if !strings.HasPrefix(string(g.Source), "# Why CI") {
		t.Errorf("expected body to start at heading, got %q", g.Source)
	}

	deploy, err := c.Get("guides-ops-deploy")
	if err != nil {
		t.Fatalf("expected id derived from path: %v", err)
	}
	if deploy.Title != "Deploying" {
		t.Errorf("expected title from first heading, got %q", deploy.Title)
	}

	notes, _ := c.Get("guides-notes")
	if notes == nil || notes.Title != "notes" {
		t.Errorf("expected filename title for plain text, got %+v", notes)
	}

	page, _ := c.Get("guides-page")
	if page == nil || page.Title != "Page" {
		t.Errorf("expected <title> for html, got %+v", page)
	}
}

func TestCatalog_List(t *testing.T) {
	c, err := Load(sampleFS(), "guides/**/*.md", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	list := c.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].ID != "ci" || list[0].Footnotes != 2 {
		t.Errorf("unexpected first summary: %+v", list[0])
	}
	if len(list[0].Outline) != 1 || list[0].Outline[0].ID != "why-ci" {
		t.Errorf("unexpected outline: %+v", list[0].Outline)
	}
}

func TestCatalog_GetMissing(t *testing.T) {
	c, err := Load(sampleFS(), "guides/*.md", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = c.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if c.Has("nope") {
		t.Fatal("expected Has to be false")
	}
}

func TestLoad_DuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("---\nid: same\n---\nA\n")},
		"b.md": {Data: []byte("---\nid: same\n---\nB\n")},
	}
	if _, err := Load(fsys, "*.md", nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		id      string
		body    string
		wantErr bool
	}{
		{"none", "# Title\n", "", "# Title\n", false},
		{"basic", "---\nid: x\n---\nbody\n", "x", "body\n", false},
		{"crlf", "---\r\nid: y\r\n---\r\nbody", "y", "body", false},
		{"empty block", "---\n---\nbody", "", "body", false},
		{"unterminated", "---\nid: x\nbody", "", "", true},
		{"bad yaml", "---\nid: [\n---\n", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := SplitFrontMatter([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if meta.ID != tt.id {
				t.Errorf("expected id %q, got %q", tt.id, meta.ID)
			}
			if string(body) != tt.body {
				t.Errorf("expected body %q, got %q", tt.body, body)
			}
		})
	}
}

func TestCatalog_AllAndLoadFile(t *testing.T) {
	fsys := sampleFS()
	c, err := Load(fsys, "guides/**/*.{md,html,txt,docx,pdf}", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	all := c.All()
	if len(all) != c.Len() {
		t.Fatalf("expected %d guides, got %d", c.Len(), len(all))
	}
	for i, s := range c.List() {
		if all[i].ID != s.ID {
			t.Errorf("expected All and List in the same order, got %q and %q at %d", all[i].ID, s.ID, i)
		}
	}

	g, err := LoadFile(fsys, "guides/ci.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if g.ID != "ci" || len(g.Footnotes) != 2 {
		t.Errorf("expected ci guide with 2 footnotes, got %q with %d", g.ID, len(g.Footnotes))
	}
	if _, err := LoadFile(fsys, "glossary.yaml"); err == nil {
		t.Error("expected unsupported extension error")
	}
}

// onePagePDF is a single-page PDF showing text in Helvetica.
func onePagePDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestLoad_PDFWithSidecar(t *testing.T) {
	fsys := fstest.MapFS{
		"guides/release.pdf":  {Data: onePagePDF("Ship small changes.[^1]")},
		"guides/release.yaml": {Data: []byte("id: releasing\ntitle: Releasing\nfootnotes:\n  - {label: Trunk, url: https://trunkbaseddevelopment.com, source: tbd}\n")},
		"guides/bare.pdf":     {Data: onePagePDF("No metadata.")},
	}
	c, err := Load(fsys, "guides/*.pdf", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	g, err := c.Get("releasing")
	if err != nil {
		t.Fatalf("expected id from sidecar: %v", err)
	}
	if g.Title != "Releasing" || len(g.Footnotes) != 1 {
		t.Errorf("expected sidecar title and footnotes, got %q with %d", g.Title, len(g.Footnotes))
	}
	if len(g.Tree.Children) != 1 || g.Tree.Children[0].Title != "Page 1" {
		t.Errorf("expected one page section, got %+v", g.Tree.Children)
	}

	bare, err := c.Get("guides-bare")
	if err != nil {
		t.Fatalf("expected path id without sidecar: %v", err)
	}
	if bare.Title != "bare" {
		t.Errorf("expected filename title, got %q", bare.Title)
	}
}
