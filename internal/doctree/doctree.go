package doctree

import (
	"regexp"
	"strconv"
	"strings"
)

// DocTree is the root of a parsed guide.
type DocTree struct {
	Title    string     // Guide title (from metadata, first heading or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Level    int        // Heading level 1-6 (0 for leaf text)
	ID       string     // Anchor id given by the source, if any
	Text     string     // Paragraphs of this node, separated by blank lines
	Children []*DocNode // Subsections
}

// Paragraphs splits the node text on blank lines.
func (n *DocNode) Paragraphs() []string {
	if n.Text == "" {
		return nil
	}
	return strings.Split(n.Text, "\n\n")
}

// Builder assembles a DocTree from a flat stream of headings and text
// blocks, nesting each heading under the nearest preceding heading of a
// lower level.
type Builder struct {
	root  *DocNode
	stack []stackEntry
	text  strings.Builder
}

type stackEntry struct {
	node  *DocNode
	level int
}

func NewBuilder(title string) *Builder {
	root := &DocNode{Title: title}
	return &Builder{root: root, stack: []stackEntry{{node: root, level: 0}}}
}

// Heading opens a new section at level.
func (b *Builder) Heading(level int, title string) {
	b.HeadingWithID(level, title, "")
}

// HeadingWithID opens a new section whose anchor id is fixed by the source.
func (b *Builder) HeadingWithID(level int, title, id string) {
	b.flush()
	node := &DocNode{Title: title, Level: level, ID: id}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, stackEntry{node: node, level: level})
}

// Text appends a paragraph to the current section. Blank text is dropped.
func (b *Builder) Text(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

func (b *Builder) flush() {
	t := b.text.String()
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// Tree finishes the build. Text before the first heading becomes a leading
// leaf child.
func (b *Builder) Tree() *DocTree {
	b.flush()
	tree := &DocTree{Title: b.root.Title}
	if b.root.Text != "" {
		tree.Children = append(tree.Children, &DocNode{Text: b.root.Text})
	}
	tree.Children = append(tree.Children, b.root.Children...)
	return tree
}

// Heading is one entry of a guide outline.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	ID    string `json:"id"`
}

// Outline lists the headings of t in document order, with the same anchor
// ids Render assigns.
func (t *DocTree) Outline() []Heading {
	var out []Heading
	ids := NewSlugger()
	var walk func([]*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Title != "" {
				out = append(out, Heading{Level: n.Level, Title: n.Title, ID: ids.For(n)})
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return out
}

var (
	nonSlug  = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns = regexp.MustCompile(`-+`)
)

// Slug converts a heading to an anchor-safe id.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	if s == "" {
		s = "section"
	}
	return s
}

// Slugger hands out unique heading ids, suffixing repeats with -1, -2, ...
type Slugger struct {
	taken map[string]bool
}

func NewSlugger() *Slugger { return &Slugger{taken: map[string]bool{}} }

// Next returns a fresh id for title.
func (s *Slugger) Next(title string) string {
	base := Slug(title)
	id := base
	for i := 1; s.taken[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.taken[id] = true
	return id
}

// Reserve marks id as taken.
func (s *Slugger) Reserve(id string) {
	s.taken[id] = true
}

// For returns the node's own id, reserving it, or a fresh one from its title.
func (s *Slugger) For(n *DocNode) string {
	if n.ID != "" {
		s.Reserve(n.ID)
		return n.ID
	}
	return s.Next(n.Title)
}
