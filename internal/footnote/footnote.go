// Package footnote handles numbered citations: it turns [^N] shortcodes in
// rendered content into citation markers and partitions a page's link list
// into cited footnotes and further reading.
package footnote

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerClass is the class carried by every citation marker.
const MarkerClass = "fn-ref"

// Link is one entry of a page's link list. Its 1-based position in the
// list is its citation number.
type Link struct {
	Label  string `yaml:"label" json:"label"`
	URL    string `yaml:"url" json:"url"`
	Source string `yaml:"source" json:"source"`
	Note   string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Set is an ordered link list.
type Set []Link

// Lookup returns the link cited as number n.
func (s Set) Lookup(n int) (Link, bool) {
	if n < 1 || n > len(s) {
		return Link{}, false
	}
	return s[n-1], true
}

// Citation is a link tagged with its citation number.
type Citation struct {
	Number int `json:"number"`
	Link
}

// AnchorID is the id of the footnote list entry.
func (c Citation) AnchorID() string { return "fn-" + strconv.Itoa(c.Number) }

// RefID is the id of the first in-content marker for the citation.
func (c Citation) RefID() string { return "fnref-" + strconv.Itoa(c.Number) }

// Node builds the in-content marker. withID controls whether the marker
// carries the back-link target id; only the first marker per number does.
func (c Citation) Node(withID bool) *html.Node {
	num := strconv.Itoa(c.Number)
	var attrs []html.Attribute
	attrs = append(attrs, html.Attribute{Key: "class", Val: MarkerClass})
	if withID {
		attrs = append(attrs, html.Attribute{Key: "id", Val: c.RefID()})
	}
	attrs = append(attrs,
		html.Attribute{Key: "data-fn", Val: num},
		html.Attribute{Key: "data-url", Val: c.URL},
		html.Attribute{Key: "data-label", Val: c.Label},
		html.Attribute{Key: "data-source", Val: c.Source},
	)
	if c.Note != "" {
		attrs = append(attrs, html.Attribute{Key: "data-note", Val: c.Note})
	}

	sup := &html.Node{Type: html.ElementNode, Data: "sup", DataAtom: atom.Sup, Attr: attrs}
	a := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A,
		Attr: []html.Attribute{{Key: "href", Val: "#" + c.AnchorID()}}}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: num})
	sup.AppendChild(a)
	return sup
}

// DecodeCitation reads a citation marker back from an element's attributes.
func DecodeCitation(attrs map[string]string) (Citation, bool) {
	if !slices.Contains(strings.Fields(attrs["class"]), MarkerClass) {
		return Citation{}, false
	}
	n, err := strconv.Atoi(attrs["data-fn"])
	if err != nil || n < 1 {
		return Citation{}, false
	}
	return Citation{
		Number: n,
		Link: Link{
			Label:  attrs["data-label"],
			URL:    attrs["data-url"],
			Source: attrs["data-source"],
			Note:   attrs["data-note"],
		},
	}, true
}

func render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return fmt.Sprintf("<!-- render: %s -->", html.EscapeString(err.Error()))
	}
	return b.String()
}
