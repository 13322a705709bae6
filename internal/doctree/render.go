package doctree

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render converts a tree into guide body HTML: a heading element per
// section, carrying the Outline id, and a paragraph per text block with
// single newlines kept as line breaks. The tree title is not rendered.
func Render(t *DocTree) string {
	var b strings.Builder
	ids := NewSlugger()
	var walk func([]*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" {
				writeHeading(&b, n, ids.For(n))
			}
			for _, p := range n.Paragraphs() {
				writeParagraph(&b, p)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return b.String()
}

func writeHeading(b *strings.Builder, n *DocNode, id string) {
	level := min(max(n.Level, 1), 6)
	tag := "h" + strconv.Itoa(level)
	h := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag)),
		Attr: []html.Attribute{{Key: "id", Val: id}}}
	h.AppendChild(&html.Node{Type: html.TextNode, Data: n.Title})
	_ = html.Render(b, h)
	b.WriteByte('\n')
}

func writeParagraph(b *strings.Builder, text string) {
	b.WriteString("<p>")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<br>\n")
		}
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString("</p>\n")
}
