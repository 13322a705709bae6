package footnote

import (
	"strings"

	"golang.org/x/net/html"
)

// Partition splits a link list by whether its citation number appears in
// content. Cited is ordered by number; Uncited keeps list order.
type Partition struct {
	Cited   []Citation `json:"cited"`
	Uncited []Link     `json:"uncited"`
}

// Resolve partitions set against the citation markers found in content.
// It must run on the final content, after every stage that injects markers.
func Resolve(set Set, content string) Partition {
	found := CitedNumbers(content)

	p := Partition{Cited: []Citation{}, Uncited: []Link{}}
	for i, link := range set {
		n := i + 1
		if found[n] {
			p.Cited = append(p.Cited, Citation{Number: n, Link: link})
		} else {
			p.Uncited = append(p.Uncited, link)
		}
	}
	return p
}

// CitedNumbers returns the citation numbers of every marker in content,
// whether or not they are in range of any list.
func CitedNumbers(content string) map[int]bool {
	found := make(map[int]bool)
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return found
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		_, hasAttr := z.TagName()
		if !hasAttr {
			continue
		}
		attrs := make(map[string]string, 4)
		for more := true; more; {
			var k, v []byte
			k, v, more = z.TagAttr()
			attrs[string(k)] = string(v)
		}
		if c, ok := DecodeCitation(attrs); ok {
			found[c.Number] = true
		}
	}
}
