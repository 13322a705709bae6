package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/docgloss/internal/chrome"
	"github.com/dgallion1/docgloss/internal/config"
	"github.com/dgallion1/docgloss/internal/glossary"
	"github.com/dgallion1/docgloss/internal/guide"
	"github.com/dgallion1/docgloss/internal/page"
)

// Server is the HTTP host for rendered guides and the glossary API.
type Server struct {
	router   chi.Router
	catalog  *guide.Catalog
	dict     *glossary.Dictionary
	index    *glossary.Index
	renderer *page.Renderer
	popovers chrome.Options
	log      *slog.Logger
	cfg      config.ServerConfig
}

// Deps are the long-lived collaborators a Server serves from.
type Deps struct {
	Catalog    *guide.Catalog
	Dictionary *glossary.Dictionary
	Index      *glossary.Index
	Renderer   *page.Renderer
	Popovers   chrome.Options
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.ServerConfig) *Server {
	s := &Server{
		catalog:  deps.Catalog,
		dict:     deps.Dictionary,
		index:    deps.Index,
		renderer: deps.Renderer,
		popovers: deps.Popovers,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/guides/{id}", s.handleGuidePage)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/guides", s.handleListGuides)
		r.Get("/guides/{id}", s.handleGetGuide)
		r.Get("/glossary", s.handleGlossary)
		r.Get("/settings", s.handleSettings)
		r.Get("/stats/render", s.handleRenderStats)

		// Without an admin key the annotate endpoint is not served.
		if s.cfg.AdminAPIKey != "" {
			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(s.cfg.AdminAPIKey, s.log))
				r.Post("/annotate", s.handleAnnotate)
			})
		}
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"guides":         s.catalog.Len(),
		"glossary_terms": s.index.Len(),
	})
}
