package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ravou/Neurograph/internal/service"
)

var (
	saveProps     string
	saveRelations []string
)

var saveCmd = &cobra.Command{
	Use:   "save <type>",
	Short: "Upsert an entity and its relationships",
	Long: `Upserts one entity from JSON properties, then creates the requested
relationships. Relations use the form TYPE:TargetLabel:target-key, e.g.

  neurograph save Incident \
    --props '{"id":"INC-2041","title":"db down","status":"open"}' \
    --relation AFFECTS:CloudResource:r1 \
    --relation RELATES_TO_SERVICE:BusinessService:1

The node persists even when individual relations fail; failures are
reported per relation.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	var props map[string]any
	if err := json.Unmarshal([]byte(saveProps), &props); err != nil {
		return fmt.Errorf("invalid --props JSON: %w", err)
	}

	relations := make([]service.RelationInput, 0, len(saveRelations))
	for _, raw := range saveRelations {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return fmt.Errorf("invalid --relation %q, want TYPE:TargetLabel:target-key", raw)
		}
		relations = append(relations, service.RelationInput{
			Type:        parts[0],
			TargetLabel: parts[1],
			TargetKey:   parts[2],
		})
	}

	rt, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := rt.service.SaveGraphContext(cmd.Context(), args[0], props, relations)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func init() {
	saveCmd.Flags().StringVarP(&saveProps, "props", "p", "{}",
		"Entity properties as a JSON object, including the unique key")
	saveCmd.Flags().StringArrayVarP(&saveRelations, "relation", "r", nil,
		"Relationship to create, TYPE:TargetLabel:target-key (repeatable)")
}
