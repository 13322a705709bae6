package annotate

import (
	"strings"

	"github.com/dgallion1/docgloss/internal/glossary"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is the output of one annotation pass.
type Result struct {
	HTML        string       `json:"html"`
	Annotations []Annotation `json:"annotations"`
}

// HTML annotates a markup string. Tags and untouched text are copied through
// byte for byte; only text tokens that receive a marker are re-escaped.
//
// HTML must run exactly once per render. It does not recognize markers it
// produced earlier, so a second pass over its own output wraps terms again.
func HTML(markup string, ix *glossary.Index, pageID string) Result {
	m := NewMatcher(ix)
	var out strings.Builder
	out.Grow(len(markup) + len(markup)/4)

	var res Result
	var stack []atom.Atom

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		// Text() unescapes in place, so take the raw bytes first.
		raw := string(z.Raw())

		switch tt {
		// The self-closing flag is ignored on non-void elements, so <a/>
		// still opens a link.
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); excluded[a] {
				stack = append(stack, a)
			}
			out.WriteString(raw)

		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); excluded[a] {
				stack = popTo(stack, a)
			}
			out.WriteString(raw)

		case html.TextToken:
			if len(stack) > 0 || m.Done() {
				out.WriteString(raw)
				continue
			}
			text := string(z.Text())
			matches := m.Match(text)
			if len(matches) == 0 {
				out.WriteString(raw)
				continue
			}
			prev := 0
			for _, mt := range matches {
				out.WriteString(html.EscapeString(text[prev:mt.Start]))
				mk, ann := newMarker(text[mt.Start:mt.End], mt.Pattern.Entry, pageID)
				out.WriteString(mk.HTML())
				res.Annotations = append(res.Annotations, ann)
				prev = mt.End
			}
			out.WriteString(html.EscapeString(text[prev:]))

		default:
			out.WriteString(raw)
		}
	}

	res.HTML = out.String()
	return res
}

// popTo removes the innermost open a and everything opened after it. A close
// tag with no matching open element leaves the stack alone.
func popTo(stack []atom.Atom, a atom.Atom) []atom.Atom {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == a {
			return stack[:i]
		}
	}
	return stack
}
