package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	proposeSearchContext string
	proposeContextLimit  int
)

var proposeCmd = &cobra.Command{
	Use:   "propose <incident report text>",
	Short: "Propose an incident from a free-text report",
	Long: `Runs the incident proposal pipeline: retrieves related graph context,
asks the configured language model for a structured extraction, resolves
the extracted references against the graph, and either commits a new
Incident with its relationships or returns a draft naming the fields
that could not be resolved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPropose,
}

func runPropose(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := rt.service.ProposeIncidentWithLLM(cmd.Context(),
		strings.Join(args, " "), proposeSearchContext, proposeContextLimit)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func init() {
	proposeCmd.Flags().StringVarP(&proposeSearchContext, "search-context", "s", "",
		"Override the retrieval query (defaults to the report text)")
	proposeCmd.Flags().IntVarP(&proposeContextLimit, "context-limit", "n", 0,
		"Maximum retrieval matches in the model context (default 5)")
}
