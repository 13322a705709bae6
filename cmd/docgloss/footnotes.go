package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docgloss/internal/page"
)

var footnotesCmd = &cobra.Command{
	Use:   "footnotes FILE",
	Short: "Show which of a guide's links are cited and which are further reading",
	Args:  cobra.ExactArgs(1),
	RunE:  runFootnotes,
}

func init() {
	rootCmd.AddCommand(footnotesCmd)
}

func runFootnotes(cmd *cobra.Command, args []string) error {
	g, err := loadGuideFile(args[0])
	if err != nil {
		return err
	}

	// Annotation does not affect which citations appear, so render with an
	// empty index.
	p, err := page.NewRenderer(nil, page.ModeString, nil, logger()).Render(g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d links, %d shortcodes replaced\n", g.ID, len(g.Footnotes), p.Citations)
	fmt.Fprintln(out, "cited:")
	for _, c := range p.Cited {
		fmt.Fprintf(out, "  [%d] %s <%s>\n", c.Number, c.Label, c.URL)
	}
	fmt.Fprintln(out, "further reading:")
	for _, l := range p.Uncited {
		fmt.Fprintf(out, "  %s <%s>\n", l.Label, l.URL)
	}
	return nil
}
