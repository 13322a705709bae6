package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docgloss/internal/api"
	"github.com/dgallion1/docgloss/internal/config"
	"github.com/dgallion1/docgloss/internal/glossary"
	"github.com/dgallion1/docgloss/internal/guide"
	"github.com/dgallion1/docgloss/internal/page"
)

func main() {
	configPath := flag.String("config", "docgloss.yaml", "path to YAML config file")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.Log.Level)
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	// The index is built once and shared read-only by every render.
	dict, err := glossary.Load(cfg.Content.Glossary)
	if err != nil {
		log.Error("loading glossary", "error", err)
		os.Exit(1)
	}
	index := glossary.Build(dict, log.With("component", "glossary"))

	catalog, err := guide.Load(os.DirFS(cfg.Content.Dir), cfg.Content.Glob, log.With("component", "guide"))
	if err != nil {
		log.Error("loading guides", "error", err)
		os.Exit(1)
	}
	for _, e := range index.Entries() {
		if e.Term.Page != "" && !catalog.Has(e.Term.Page) {
			log.Warn("glossary term links to unknown guide", "term", e.Term.Term, "page", e.Term.Page)
		}
	}

	renderer := page.NewRenderer(index, page.Mode(cfg.Annotate.Mode), page.NewStats(cfg.Stats.Window), log.With("component", "page"))

	if cfg.Annotate.WarmWorkers > 0 {
		warm := renderer.Warm(context.Background(), catalog.All(), cfg.Annotate.WarmWorkers)
		if len(warm.Errors) > 0 {
			log.Warn("some guides failed to render", "failed", len(warm.Errors))
		}
	}

	srv := api.NewServer(api.Deps{
		Catalog:    catalog,
		Dictionary: dict,
		Index:      index,
		Renderer:   renderer,
		Popovers:   cfg.Tooltip,
	}, log, cfg.Server)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	log.Info("starting docgloss",
		"port", cfg.Server.Port,
		"guides", catalog.Len(),
		"terms", index.Len(),
		"mode", cfg.Annotate.Mode,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
