package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docgloss/internal/config"
	"github.com/dgallion1/docgloss/internal/glossary"
	"github.com/dgallion1/docgloss/internal/guide"
)

var (
	cfgFile      string
	glossaryPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "docgloss",
	Short: "Glossary annotation and footnote tooling for guides",
	Long: `docgloss renders authored guides with glossary terms annotated and
citations resolved into footnotes. These commands run the same pipeline as
the server against local files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "docgloss.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&glossaryPath, "glossary", "", "glossary file (overrides content.glossary)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	if glossaryPath != "" {
		cfg.Content.Glossary = glossaryPath
	}
	return cfg, cfg.Validate()
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func loadIndex(cfg config.Config) (*glossary.Index, error) {
	dict, err := glossary.Load(cfg.Content.Glossary)
	if err != nil {
		return nil, err
	}
	return glossary.Build(dict, logger()), nil
}

// loadGuideFile reads one guide from disk, outside any catalog.
func loadGuideFile(path string) (*guide.Guide, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return guide.LoadFile(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
}
