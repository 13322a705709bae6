// Package guide loads the authored guides a site serves: each guide is a
// source file in a content directory with optional YAML front matter naming
// its id, title and footnote list.
package guide

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docgloss/internal/doctree"
	"github.com/dgallion1/docgloss/internal/footnote"
	"github.com/dgallion1/docgloss/internal/parser"
)

var ErrNotFound = errors.New("guide not found")

// Meta is the front matter of a guide. Guides in binary formats (docx, pdf)
// carry it in a sidecar file next to the source with the extension replaced
// by .yaml.
type Meta struct {
	ID        string       `yaml:"id"`
	Title     string       `yaml:"title"`
	Footnotes footnote.Set `yaml:"footnotes"`
}

// Guide is one loaded guide.
type Guide struct {
	ID        string
	Title     string
	Path      string
	Format    parser.Format
	Source    []byte // guide body with front matter removed
	Footnotes footnote.Set
	Tree      *doctree.DocTree
}

// Summary is the listing view of a guide.
type Summary struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Path      string            `json:"path"`
	Format    parser.Format     `json:"format"`
	Footnotes int               `json:"footnotes"`
	Outline   []doctree.Heading `json:"outline"`
}

func (g *Guide) Summary() Summary {
	return Summary{
		ID:        g.ID,
		Title:     g.Title,
		Path:      g.Path,
		Format:    g.Format,
		Footnotes: len(g.Footnotes),
		Outline:   g.Tree.Outline(),
	}
}

// Catalog is an immutable set of guides keyed by id.
type Catalog struct {
	guides map[string]*Guide
	ids    []string
}

// Load reads every file in fsys matching pattern. A guide that fails to
// parse fails the load; two guides with the same id are an error.
func Load(fsys fs.FS, pattern string, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	slices.Sort(matches)

	c := &Catalog{guides: make(map[string]*Guide, len(matches))}
	for _, p := range matches {
		if !parser.IsSupportedExtension(p) {
			continue
		}
		g, err := loadGuide(fsys, p)
		if err != nil {
			return nil, err
		}
		if prev, ok := c.guides[g.ID]; ok {
			return nil, fmt.Errorf("duplicate guide id %q: %s and %s", g.ID, prev.Path, g.Path)
		}
		c.guides[g.ID] = g
		c.ids = append(c.ids, g.ID)
		log.Debug("loaded guide", "id", g.ID, "path", p, "format", g.Format, "footnotes", len(g.Footnotes))
	}
	log.Info("guide catalog loaded", "guides", len(c.ids))
	return c, nil
}

// LoadFile reads a single guide.
func LoadFile(fsys fs.FS, p string) (*Guide, error) {
	return loadGuide(fsys, p)
}

func loadGuide(fsys fs.FS, p string) (*Guide, error) {
	format, err := parser.FormatOf(p)
	if err != nil {
		return nil, err
	}
	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("read guide %s: %w", p, err)
	}

	var meta Meta
	body := raw
	if format.Binary() {
		meta, err = readSidecar(fsys, p)
	} else {
		meta, body, err = SplitFrontMatter(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("guide %s: %w", p, err)
	}

	tree, err := parser.ForFormat(format).Parse(bytes.NewReader(body), path.Base(p))
	if err != nil {
		return nil, fmt.Errorf("guide %s: %w", p, err)
	}

	g := &Guide{
		ID:        meta.ID,
		Title:     meta.Title,
		Path:      p,
		Format:    format,
		Source:    body,
		Footnotes: meta.Footnotes,
		Tree:      tree,
	}
	if g.ID == "" {
		g.ID = doctree.Slug(strings.TrimSuffix(p, path.Ext(p)))
	}
	if g.Title == "" {
		g.Title = titleOf(tree)
	}
	return g, nil
}

// titleOf prefers the first top-level heading over the parser's fallback.
func titleOf(tree *doctree.DocTree) string {
	for _, n := range tree.Children {
		if n.Level == 1 && n.Title != "" {
			return n.Title
		}
	}
	return tree.Title
}

func readSidecar(fsys fs.FS, p string) (Meta, error) {
	var meta Meta
	data, err := fs.ReadFile(fsys, strings.TrimSuffix(p, path.Ext(p))+".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("read sidecar: %w", err)
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse sidecar: %w", err)
	}
	return meta, nil
}

var fence = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// body. Sources without one return an empty Meta and the input unchanged.
func SplitFrontMatter(src []byte) (Meta, []byte, error) {
	var meta Meta
	line, i := nextLine(src, 0)
	if !isFence(line) {
		return meta, src, nil
	}
	start := i
	for i < len(src) {
		line, next := nextLine(src, i)
		if isFence(line) {
			if err := yaml.Unmarshal(src[start:i], &meta); err != nil {
				return meta, nil, fmt.Errorf("parse front matter: %w", err)
			}
			return meta, src[next:], nil
		}
		i = next
	}
	return meta, nil, errors.New("unterminated front matter")
}

func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r"), fence)
}

// nextLine returns the line starting at i, without its newline, and the
// offset of the following line.
func nextLine(b []byte, i int) ([]byte, int) {
	j := bytes.IndexByte(b[i:], '\n')
	if j < 0 {
		return b[i:], len(b)
	}
	return b[i : i+j], i + j + 1
}

// Get returns the guide with id.
func (c *Catalog) Get(id string) (*Guide, error) {
	g, ok := c.guides[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return g, nil
}

// List summarises every guide, in path order.
func (c *Catalog) List() []Summary {
	out := make([]Summary, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.guides[id].Summary())
	}
	return out
}

// All returns every guide, in path order.
func (c *Catalog) All() []*Guide {
	out := make([]*Guide, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.guides[id])
	}
	return out
}

// Has reports whether a guide with id exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.guides[id]
	return ok
}

func (c *Catalog) Len() int { return len(c.ids) }
