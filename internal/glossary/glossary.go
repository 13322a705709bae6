package glossary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

// Term is a single glossary entry. Definition is rich text (inline markdown
// or HTML); Page is the id of the guide that explains the term in depth.
type Term struct {
	Term       string `yaml:"term" json:"term"`
	Definition string `yaml:"definition" json:"definition"`
	Source     string `yaml:"source" json:"source"`
	URL        string `yaml:"url" json:"url"`
	Page       string `yaml:"page,omitempty" json:"page,omitempty"`
}

// Category groups terms for display. Matching ignores categories.
type Category struct {
	Name  string `yaml:"name" json:"name"`
	Terms []Term `yaml:"terms" json:"terms"`
}

// Dictionary is the full authored glossary, in authored order.
type Dictionary struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// Load reads a YAML dictionary file.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open glossary: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML dictionary.
func Parse(r io.Reader) (*Dictionary, error) {
	var d Dictionary
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		if err == io.EOF {
			return &d, nil
		}
		return nil, fmt.Errorf("parse glossary: %w", err)
	}
	return &d, nil
}

// Terms flattens all categories into one slice, preserving authored order.
func (d *Dictionary) Terms() []Term {
	if d == nil {
		return nil
	}
	var out []Term
	for _, c := range d.Categories {
		out = append(out, c.Terms...)
	}
	return out
}

// PlainDefinition renders the rich-text definition and returns its text
// content with whitespace collapsed.
func (t Term) PlainDefinition() string {
	if strings.TrimSpace(t.Definition) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := definitionMarkdown.Convert([]byte(t.Definition), &buf); err != nil {
		return PlainText(t.Definition)
	}
	return PlainText(buf.String())
}

var definitionMarkdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// PlainText strips markup from s, unescapes entities and collapses runs of
// whitespace to single spaces.
func PlainText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var buf strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(buf.String()), " ")
		case html.TextToken:
			buf.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockBoundary[atom.Lookup(name)] {
				buf.WriteByte(' ')
			}
		}
	}
}

// blockBoundary lists elements whose edges separate words.
var blockBoundary = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Tr: true, atom.Td: true,
	atom.Th: true, atom.Table: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Hr: true, atom.Section: true,
}
