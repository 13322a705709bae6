package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docgloss/internal/page"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate FILE",
	Short: "Render a guide with glossary annotations and footnotes",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotate,
}

func init() {
	annotateCmd.Flags().String("page", "", "page id for cross-reference suppression (defaults to the guide id)")
	annotateCmd.Flags().String("mode", "", "annotator: string or tree (overrides annotate.mode)")
	annotateCmd.Flags().Bool("json", false, "print the full render result as JSON")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Annotate.Mode = mode
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ix, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	g, err := loadGuideFile(args[0])
	if err != nil {
		return err
	}
	if id, _ := cmd.Flags().GetString("page"); id != "" {
		g.ID = id
	}

	p, err := page.NewRenderer(ix, page.Mode(cfg.Annotate.Mode), nil, logger()).Render(g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	fmt.Fprintln(out, p.Body)
	if s := p.CitedHTML(); s != "" {
		fmt.Fprintln(out, s)
	}
	if s := p.UncitedHTML(); s != "" {
		fmt.Fprintln(out, s)
	}
	return nil
}
