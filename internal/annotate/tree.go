package annotate

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docgloss/internal/glossary"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tree annotates a parsed node tree in place. Text nodes under an excluded
// element or an existing glossary marker are skipped, so running Tree over
// already annotated content adds nothing. Matched text nodes are split into
// sibling text and marker nodes; element nodes are never split or moved.
//
// The caller must hold exclusive access to root for the duration of the call.
func Tree(root *html.Node, ix *glossary.Index, pageID string) []Annotation {
	var texts []*html.Node
	var collect func(n *html.Node, blocked bool)
	collect = func(n *html.Node, blocked bool) {
		switch n.Type {
		case html.ElementNode:
			if excluded[n.DataAtom] || isMarkerNode(n) {
				blocked = true
			}
		case html.TextNode:
			if !blocked && n.Parent != nil {
				texts = append(texts, n)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c, blocked)
		}
	}
	collect(root, false)

	m := NewMatcher(ix)
	var annotations []Annotation
	for _, n := range texts {
		if m.Done() {
			break
		}
		matches := m.Match(n.Data)
		if len(matches) == 0 {
			continue
		}

		parent := n.Parent
		text := n.Data
		prev := 0
		for _, mt := range matches {
			if mt.Start > prev {
				parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[prev:mt.Start]}, n)
			}
			mk, ann := newMarker(text[mt.Start:mt.End], mt.Pattern.Entry, pageID)
			parent.InsertBefore(mk.Node(), n)
			annotations = append(annotations, ann)
			prev = mt.End
		}
		if prev < len(text) {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[prev:]}, n)
		}
		parent.RemoveChild(n)
	}
	return annotations
}

// Fragment parses markup as body content, annotates it with Tree and renders
// it back to a string.
func Fragment(markup string, ix *glossary.Index, pageID string) (Result, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return Result{}, fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	res := Result{Annotations: Tree(body, ix, pageID)}

	var out strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&out, c); err != nil {
			return Result{}, fmt.Errorf("render fragment: %w", err)
		}
	}
	res.HTML = out.String()
	return res, nil
}

func isMarkerNode(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			return hasClass(a.Val, MarkerClass)
		}
	}
	return false
}
