package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List compiled glossary patterns in match order",
	Args:  cobra.NoArgs,
	RunE:  runPatterns,
}

func init() {
	patternsCmd.Flags().Bool("regex", false, "show the compiled expression")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ix, err := loadIndex(cfg)
	if err != nil {
		return err
	}
	showRegex, _ := cmd.Flags().GetBool("regex")

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	header := "#\tLITERAL\tTERM\tKIND"
	if showRegex {
		header += "\tREGEX"
	}
	fmt.Fprintln(tw, header)
	for i, p := range ix.Patterns() {
		kind := "phrase"
		if p.Abbreviation {
			kind = "abbreviation"
		}
		line := fmt.Sprintf("%d\t%s\t%s\t%s", i+1, p.Literal, p.Entry.Term.Term, kind)
		if showRegex {
			line += "\t" + p.String()
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}
