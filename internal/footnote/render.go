package footnote

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderCited renders cited entries as a numbered list. Each item carries the
// id in-content markers link to and a back-link to the first marker.
func RenderCited(cited []Citation) string {
	if len(cited) == 0 {
		return ""
	}
	ol := element(atom.Ol, html.Attribute{Key: "class", Val: "footnotes"})
	for _, c := range cited {
		li := element(atom.Li,
			html.Attribute{Key: "id", Val: c.AnchorID()},
			html.Attribute{Key: "value", Val: strconv.Itoa(c.Number)},
		)
		appendLinkBody(li, c.Link)
		li.AppendChild(textNode(" "))
		back := element(atom.A,
			html.Attribute{Key: "class", Val: "fn-back"},
			html.Attribute{Key: "href", Val: "#" + c.RefID()},
			html.Attribute{Key: "aria-label", Val: "Back to content"},
		)
		back.AppendChild(textNode("↩"))
		li.AppendChild(back)
		ol.AppendChild(li)
	}
	return render(ol)
}

// RenderUncited renders further reading as a plain bibliography.
func RenderUncited(links []Link) string {
	if len(links) == 0 {
		return ""
	}
	ul := element(atom.Ul, html.Attribute{Key: "class", Val: "further-reading"})
	for _, l := range links {
		li := element(atom.Li)
		appendLinkBody(li, l)
		ul.AppendChild(li)
	}
	return render(ul)
}

func appendLinkBody(li *html.Node, l Link) {
	a := element(atom.A,
		html.Attribute{Key: "href", Val: l.URL},
		html.Attribute{Key: "rel", Val: "noopener noreferrer"},
		html.Attribute{Key: "target", Val: "_blank"},
	)
	label := l.Label
	if strings.TrimSpace(label) == "" {
		label = l.URL
	}
	a.AppendChild(textNode(label))
	li.AppendChild(a)

	if l.Source != "" {
		li.AppendChild(textNode(" "))
		src := element(atom.Span, html.Attribute{Key: "class", Val: "fn-source"})
		src.AppendChild(textNode(l.Source))
		li.AppendChild(src)
	}
	if l.Note != "" {
		li.AppendChild(textNode(" "))
		note := element(atom.Span, html.Attribute{Key: "class", Val: "fn-note"})
		note.AppendChild(textNode(l.Note))
		li.AppendChild(note)
	}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
