package page

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dgallion1/docgloss/internal/glossary"
	"github.com/dgallion1/docgloss/internal/guide"
)

const ciSource = "---\n" +
	"id: ci\n" +
	"title: CI\n" +
	"footnotes:\n" +
	"  - {label: Fowler, url: https://a.example, source: a}\n" +
	"  - {label: Trunk, url: https://b.example, source: b}\n" +
	"---\n" +
	"# Continuous Integration\n\n" +
	"Teams practise continuous integration daily.[^1] CI keeps main green.\n\n" +
	"```go\n// continuous integration in code\n```\n\n" +
	"Unknown ref [^7] stays.\n"

func testIndex() *glossary.Index {
	return glossary.Build(&glossary.Dictionary{Categories: []glossary.Category{{
		Name: "Build",
		Terms: []glossary.Term{
			{Term: "Continuous Integration (CI)", Definition: "Merging often.", Source: "x", URL: "https://x.example", Page: "ci"},
			{Term: "rocks", Definition: "Is good.", Source: "y", URL: "https://y.example", Page: "ci"},
		},
	}}}, nil)
}

func testCatalog(t *testing.T) *guide.Catalog {
	t.Helper()
	c, err := guide.Load(fstest.MapFS{
		"ci.md":     {Data: []byte(ciSource)},
		"notes.txt": {Data: []byte("Notes\n=====\n\nContinuous integration rocks.\n")},
	}, "*.{md,txt}", nil)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func renderGuide(t *testing.T, mode Mode, id string) (*Renderer, *Page) {
	t.Helper()
	g, err := testCatalog(t).Get(id)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(testIndex(), mode, nil, nil)
	p, err := r.Render(g)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return r, p
}

func TestRender_MarkdownPipeline(t *testing.T) {
	for _, mode := range []Mode{ModeString, ModeTree} {
		t.Run(string(mode), func(t *testing.T) {
			_, p := renderGuide(t, mode, "ci")

			if len(p.Annotations) != 1 {
				t.Fatalf("expected 1 annotation, got %d: %+v", len(p.Annotations), p.Annotations)
			}
			a := p.Annotations[0]
			if a.MatchedText != "continuous integration" {
				t.Errorf("expected first body occurrence, got %q", a.MatchedText)
			}
			if !a.SuppressCrossReference {
				t.Error("expected self cross-reference to be suppressed on the term's own page")
			}
			if strings.Contains(p.Body, "data-xref") {
				t.Errorf("expected no cross-reference attribute, got %s", p.Body)
			}
			if !strings.Contains(p.Body, `<h1 id="continuous-integration">Continuous Integration</h1>`) {
				t.Errorf("expected heading untouched with outline id, got %s", p.Body)
			}
			if p.Outline[0].ID != "continuous-integration" {
				t.Errorf("expected outline id to match, got %q", p.Outline[0].ID)
			}
			if strings.Count(p.Body, `class="glossary-term"`) != 1 {
				t.Errorf("expected exactly one glossary marker, got %s", p.Body)
			}

			if p.Citations != 1 {
				t.Errorf("expected 1 injected citation, got %d", p.Citations)
			}
			if !strings.Contains(p.Body, `id="fnref-1"`) {
				t.Errorf("expected citation marker in body, got %s", p.Body)
			}
			if !strings.Contains(p.Body, "[^7]") {
				t.Errorf("expected out-of-range shortcode left literal, got %s", p.Body)
			}
			if len(p.Cited) != 1 || p.Cited[0].Number != 1 || p.Cited[0].Label != "Fowler" {
				t.Errorf("unexpected cited: %+v", p.Cited)
			}
			if len(p.Uncited) != 1 || p.Uncited[0].Label != "Trunk" {
				t.Errorf("unexpected uncited: %+v", p.Uncited)
			}
			if !strings.Contains(p.CitedHTML(), `<li id="fn-1" value="1">`) {
				t.Errorf("unexpected cited html: %s", p.CitedHTML())
			}
			if !strings.Contains(p.UncitedHTML(), `class="further-reading"`) {
				t.Errorf("unexpected uncited html: %s", p.UncitedHTML())
			}
		})
	}
}

func TestRender_TextGuide(t *testing.T) {
	_, p := renderGuide(t, ModeString, "notes")

	if !strings.Contains(p.Body, `<h1 id="notes">Notes</h1>`) {
		t.Errorf("expected rendered heading, got %s", p.Body)
	}
	if len(p.Annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %+v", p.Annotations)
	}
	if p.Annotations[0].SuppressCrossReference {
		t.Error("expected cross-reference kept on another guide's page")
	}
	if !strings.Contains(p.Body, `data-xref="ci"`) {
		t.Errorf("expected cross-reference to ci, got %s", p.Body)
	}
	if p.Cited == nil || p.Uncited == nil {
		t.Error("expected empty, non-nil partitions")
	}
}

func TestRender_CachesAndRecordsStats(t *testing.T) {
	c := testCatalog(t)
	g, _ := c.Get("ci")
	r := NewRenderer(testIndex(), ModeString, NewStats(0), nil)

	first, err := r.Render(g)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(g)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected cached page on second render")
	}
	if n := r.Stats().Snapshot().Count; n != 1 {
		t.Errorf("expected 1 recorded render, got %d", n)
	}
}

func TestAnnotate_IndependentCalls(t *testing.T) {
	r := NewRenderer(testIndex(), ModeString, nil, nil)
	for i := 0; i < 2; i++ {
		res, err := r.Annotate("<p>CI rocks</p>", "other")
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Annotations) != 2 {
			t.Fatalf("call %d: expected 2 annotations, got %d", i, len(res.Annotations))
		}
	}
}
