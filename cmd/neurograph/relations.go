package main

import (
	"github.com/spf13/cobra"
)

var relationsCmd = &cobra.Command{
	Use:   "relations <node-id>",
	Short: "List the relationships adjacent to a node",
	Long: `Expands one hop around a node identified by its canonical
"<label>:<key>" id, e.g. "incident:INC-2041" or "businessservice:1".`,
	Args: cobra.ExactArgs(1),
	RunE: runRelations,
}

func runRelations(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := rt.service.GetNodeRelationships(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}
