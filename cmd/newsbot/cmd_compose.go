package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go-newsbot/compose"
)

var composeShowCandidates bool

var composeCmd = &cobra.Command{
	Use:   "compose <headline>",
	Short: "Preview the post a headline would become",
	Long: `Compose normalizes the headline and renders it through every template,
printing the post that would be published. Nothing is sent.

Examples:
  newsbot compose --category currency "BREAKING: Rupee slips past 84 - Reuters"
  newsbot compose --candidates --seed 7 "Markets rally: stocks up"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().BoolVar(&composeShowCandidates, "candidates", false, "Show every template with its length and score")
}

func runCompose(cmd *cobra.Command, args []string) error {
	_, tbl, err := styleTable()
	if err != nil {
		return err
	}

	title := compose.Normalize(strings.Join(args, " "))
	c := compose.New(tbl)
	cands, err := c.Candidates(title, compose.Category(category), newRand())
	if errors.Is(err, compose.ErrNoContent) {
		return fmt.Errorf("headline is empty after normalization")
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if composeShowCandidates {
		for _, cd := range cands {
			fit := "ok"
			if !cd.Fits() {
				fit = "too long"
			}
			fmt.Fprintf(w, "%-10s len=%3d score=%3d %-8s %s\n", cd.Template, cd.Length, cd.Score, fit, cd.Text)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, compose.Select(cands))
	return nil
}
