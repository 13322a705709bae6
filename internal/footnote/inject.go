package footnote

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var shortcode = regexp.MustCompile(`\[\^(\d+)\]`)

// Code and link text keep their shortcodes literally.
var literalRegions = map[atom.Atom]bool{
	atom.A:        true,
	atom.Code:     true,
	atom.Pre:      true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Textarea: true,
}

// Inject replaces [^N] shortcodes in content text with citation markers for
// set. Shortcodes whose N is outside [1, len(set)] stay as literal text.
// It returns the new content and the number of markers placed.
func Inject(content string, set Set) (string, int) {
	var out strings.Builder
	out.Grow(len(content))

	var depth []atom.Atom
	withID := make(map[int]bool)
	placed := 0

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); literalRegions[a] {
				depth = append(depth, a)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); literalRegions[a] {
				for i := len(depth) - 1; i >= 0; i-- {
					if depth[i] == a {
						depth = depth[:i]
						break
					}
				}
			}
		case html.TextToken:
			if len(depth) > 0 || !strings.Contains(raw, "[^") {
				break
			}
			text := string(z.Text())
			locs := shortcode.FindAllStringSubmatchIndex(text, -1)
			var rewritten strings.Builder
			prev := 0
			for _, loc := range locs {
				n, err := strconv.Atoi(text[loc[2]:loc[3]])
				link, ok := set.Lookup(n)
				if err != nil || !ok {
					continue
				}
				rewritten.WriteString(html.EscapeString(text[prev:loc[0]]))
				rewritten.WriteString(render(Citation{Number: n, Link: link}.Node(!withID[n])))
				withID[n] = true
				placed++
				prev = loc[1]
			}
			if prev == 0 {
				break
			}
			rewritten.WriteString(html.EscapeString(text[prev:]))
			raw = rewritten.String()
		}
		out.WriteString(raw)
	}
	return out.String(), placed
}
