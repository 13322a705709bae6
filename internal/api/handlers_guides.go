package api

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docgloss/internal/chrome"
	"github.com/dgallion1/docgloss/internal/doctree"
	"github.com/dgallion1/docgloss/internal/guide"
	"github.com/dgallion1/docgloss/internal/page"
)

func (s *Server) handleListGuides(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"guides": s.catalog.List()})
}

func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	p, ok := s.renderGuide(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGuidePage(w http.ResponseWriter, r *http.Request) {
	p, ok := s.renderGuide(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	data := pageData{
		Title:    p.Title,
		Outline:  p.Outline,
		Body:     template.HTML(p.Body),
		Cited:    template.HTML(p.CitedHTML()),
		Uncited:  template.HTML(p.UncitedHTML()),
		Settings: s.popovers.Settings(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.log.Error("render page template", "page_id", p.GuideID, "error", err)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.popovers.Settings())
}

// renderGuide looks up and renders a guide, writing the error response
// itself when it cannot.
func (s *Server) renderGuide(w http.ResponseWriter, id string) (*page.Page, bool) {
	g, err := s.catalog.Get(id)
	if errors.Is(err, guide.ErrNotFound) {
		jsonError(w, "guide not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	p, err := s.renderer.Render(g)
	if err != nil {
		s.log.Error("render guide", "page_id", id, "error", err)
		jsonError(w, "failed to render guide", http.StatusInternalServerError)
		return nil, false
	}
	return p, true
}

type pageData struct {
	Title    string
	Outline  []doctree.Heading
	Body     template.HTML
	Cited    template.HTML
	Uncited  template.HTML
	Settings chrome.Settings
}

// Body and footnote lists are render pipeline output and are inserted as is.
var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<nav class="outline">
<ul>{{range .Outline}}
<li class="level-{{.Level}}"><a href="#{{.ID}}">{{.Title}}</a></li>{{end}}
</ul>
</nav>
<main>
<article>
{{.Body}}
</article>
{{if .Cited}}<section class="references">
<h2>References</h2>
{{.Cited}}
</section>{{end}}
{{if .Uncited}}<section class="further">
<h2>Further reading</h2>
{{.Uncited}}
</section>{{end}}
</main>
<script type="application/json" id="popover-settings">{{.Settings}}</script>
</body>
</html>
`))
