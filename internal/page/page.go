// Package page renders guides into annotated pages: the guide source is
// converted to HTML, citation shortcodes become markers, glossary terms are
// annotated, and the footnote list is partitioned by what the final body
// cites.
package page

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dgallion1/docgloss/internal/annotate"
	"github.com/dgallion1/docgloss/internal/doctree"
	"github.com/dgallion1/docgloss/internal/footnote"
	"github.com/dgallion1/docgloss/internal/glossary"
	"github.com/dgallion1/docgloss/internal/guide"
	guideparser "github.com/dgallion1/docgloss/internal/parser"
)

// Mode selects the annotator.
type Mode string

const (
	// ModeString annotates the serialized body with the tokenizer.
	ModeString Mode = "string"
	// ModeTree parses the body and annotates the node tree in place.
	ModeTree Mode = "tree"
)

// Page is a rendered guide.
type Page struct {
	GuideID     string                `json:"guide_id"`
	Title       string                `json:"title"`
	Body        string                `json:"body"`
	Outline     []doctree.Heading     `json:"outline"`
	Annotations []annotate.Annotation `json:"annotations"`
	Citations   int                   `json:"citations"`
	Cited       []footnote.Citation   `json:"cited"`
	Uncited     []footnote.Link       `json:"uncited"`
}

// CitedHTML renders the numbered footnote list.
func (p *Page) CitedHTML() string { return footnote.RenderCited(p.Cited) }

// UncitedHTML renders the further-reading list.
func (p *Page) UncitedHTML() string { return footnote.RenderUncited(p.Uncited) }

// Renderer turns guides into pages against one glossary index. Guides and
// the index are immutable, so each page is rendered once and cached.
type Renderer struct {
	index *glossary.Index
	mode  Mode
	md    goldmark.Markdown
	stats *Stats
	log   *slog.Logger

	mu    sync.Mutex
	cache map[string]*Page
}

func NewRenderer(ix *glossary.Index, mode Mode, stats *Stats, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if stats == nil {
		stats = NewStats(0)
	}
	return &Renderer{
		index: ix,
		mode:  mode,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		stats: stats,
		log:   log,
		cache: make(map[string]*Page),
	}
}

func (r *Renderer) Stats() *Stats { return r.stats }

func (r *Renderer) Mode() Mode { return r.mode }

// Render returns the page for g, rendering it on first use.
func (r *Renderer) Render(g *guide.Guide) (*Page, error) {
	r.mu.Lock()
	if p, ok := r.cache[g.ID]; ok {
		r.mu.Unlock()
		return p, nil
	}
	r.mu.Unlock()

	start := time.Now()
	p, err := r.render(g)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	r.stats.Record(elapsed)

	log := r.log.With("page_id", g.ID)
	log.Info("page rendered",
		"annotations", len(p.Annotations),
		"citations", p.Citations,
		"cited", len(p.Cited),
		"uncited", len(p.Uncited),
		"duration_ms", elapsed.Milliseconds(),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[g.ID]; ok {
		return cached, nil
	}
	r.cache[g.ID] = p
	return p, nil
}

func (r *Renderer) render(g *guide.Guide) (*Page, error) {
	body, err := r.Body(g)
	if err != nil {
		return nil, err
	}

	body, citations := footnote.Inject(body, g.Footnotes)

	res, err := r.Annotate(body, g.ID)
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", g.ID, err)
	}

	// The partition runs on the final body so it sees exactly the markers
	// that will be displayed.
	part := footnote.Resolve(g.Footnotes, res.HTML)

	return &Page{
		GuideID:     g.ID,
		Title:       g.Title,
		Body:        res.HTML,
		Outline:     g.Tree.Outline(),
		Annotations: res.Annotations,
		Citations:   citations,
		Cited:       part.Cited,
		Uncited:     part.Uncited,
	}, nil
}

// Body converts the guide source to HTML, before citations and annotation.
func (r *Renderer) Body(g *guide.Guide) (string, error) {
	switch g.Format {
	case guideparser.FormatMarkdown:
		var buf bytes.Buffer
		ctx := parser.NewContext(parser.WithIDs(headingIDs{doctree.NewSlugger()}))
		if err := r.md.Convert(g.Source, &buf, parser.WithContext(ctx)); err != nil {
			return "", fmt.Errorf("converting markdown %s: %w", g.Path, err)
		}
		return buf.String(), nil
	case guideparser.FormatHTML:
		body, err := guideparser.ExtractBody(bytes.NewReader(g.Source))
		if err != nil {
			return "", fmt.Errorf("guide %s: %w", g.Path, err)
		}
		return body, nil
	default:
		return doctree.Render(g.Tree), nil
	}
}

// Annotate runs the configured annotator over markup for pageID. Each call
// is an independent render: first-occurrence state does not carry over.
func (r *Renderer) Annotate(markup, pageID string) (annotate.Result, error) {
	if r.mode == ModeTree {
		return annotate.Fragment(markup, r.index, pageID)
	}
	return annotate.HTML(markup, r.index, pageID), nil
}

// headingIDs makes goldmark assign the same heading ids as the guide outline.
type headingIDs struct {
	s *doctree.Slugger
}

func (h headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(h.s.Next(string(value)))
}

func (h headingIDs) Put(value []byte) {
	h.s.Reserve(string(value))
}
