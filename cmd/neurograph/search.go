package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the graph for matching entities",
	Long: `Runs a ranked context search: full-text over incident titles and
descriptions plus exact and prefix matches on entity names, services,
categories, users, and resources.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := rt.service.SearchGraphContext(cmd.Context(), strings.Join(args, " "), searchLimit)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0,
		"Maximum number of matches (default 5)")
}
