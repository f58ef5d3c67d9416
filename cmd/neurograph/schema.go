package main

import (
	"github.com/spf13/cobra"

	"github.com/Ravou/Neurograph/internal/store"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Apply uniqueness constraints and indexes to the graph",
	Long: `Applies the declared uniqueness constraints, property indexes, and
full-text indexes. The operation is idempotent; rerunning it on an
already-initialized graph is a no-op.`,
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	guard := store.NewSchemaGuard(rt.client, cfg.Logging.NewLogger())
	if err := guard.Apply(cmd.Context()); err != nil {
		return err
	}

	cmd.Println("Schema applied.")
	return nil
}
