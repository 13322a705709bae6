package annotate

import (
	"slices"
	"strings"

	"github.com/dgallion1/docgloss/internal/glossary"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerClass is the class carried by every glossary marker element.
const MarkerClass = "glossary-term"

// Annotation records one marker placed during a render.
type Annotation struct {
	MatchedText            string        `json:"matched_text"`
	Term                   glossary.Term `json:"term"`
	SuppressCrossReference bool          `json:"suppress_cross_reference"`
}

// Marker is the payload a glossary marker carries, enough to render its
// popover without a dictionary lookup.
type Marker struct {
	Text       string `json:"text"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Source     string `json:"source"`
	URL        string `json:"url"`
	CrossRef   string `json:"crossRef,omitempty"`
}

func newMarker(text string, e *glossary.Entry, pageID string) (Marker, Annotation) {
	suppress := e.Term.Page != "" && e.Term.Page == pageID
	mk := Marker{
		Text:       text,
		Term:       e.Term.Term,
		Definition: e.PlainDefinition,
		Source:     e.Term.Source,
		URL:        e.Term.URL,
	}
	if !suppress {
		mk.CrossRef = e.Term.Page
	}
	return mk, Annotation{MatchedText: text, Term: e.Term, SuppressCrossReference: suppress}
}

// Node builds the marker element.
func (mk Marker) Node() *html.Node {
	attrs := []html.Attribute{
		{Key: "class", Val: MarkerClass},
		{Key: "tabindex", Val: "0"},
		{Key: "data-term", Val: mk.Term},
		{Key: "data-definition", Val: mk.Definition},
		{Key: "data-source", Val: mk.Source},
		{Key: "data-url", Val: mk.URL},
	}
	if mk.CrossRef != "" {
		attrs = append(attrs, html.Attribute{Key: "data-xref", Val: mk.CrossRef})
	}
	span := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span, Attr: attrs}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: mk.Text})
	return span
}

// HTML renders the marker element.
func (mk Marker) HTML() string {
	var b strings.Builder
	// Rendering a freshly built span cannot fail on a strings.Builder.
	_ = html.Render(&b, mk.Node())
	return b.String()
}

// DecodeMarker reads a marker back from an element's attributes and text.
// ok is false when the attributes do not describe a glossary marker.
func DecodeMarker(attrs map[string]string, text string) (Marker, bool) {
	if !hasClass(attrs["class"], MarkerClass) || attrs["data-term"] == "" {
		return Marker{}, false
	}
	return Marker{
		Text:       text,
		Term:       attrs["data-term"],
		Definition: attrs["data-definition"],
		Source:     attrs["data-source"],
		URL:        attrs["data-url"],
		CrossRef:   attrs["data-xref"],
	}, true
}

func hasClass(classAttr, class string) bool {
	return slices.Contains(strings.Fields(classAttr), class)
}

// excluded lists elements whose text is never annotated.
var excluded = map[atom.Atom]bool{
	atom.A:        true,
	atom.Code:     true,
	atom.Pre:      true,
	atom.Button:   true,
	atom.H1:       true,
	atom.H2:       true,
	atom.H3:       true,
	atom.H4:       true,
	atom.H5:       true,
	atom.H6:       true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Textarea: true,
	atom.Title:    true,
}

