package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/types"
)

// SchemaGuard applies the uniqueness constraints and indexes every write
// path depends on. Apply is idempotent: declarations use IF NOT EXISTS, so
// re-applying against an already prepared store is a no-op. A store-side
// rejection (for example duplicate existing keys) is fatal and the caller
// must not proceed to serve traffic.
type SchemaGuard struct {
	client graph.GraphClient
	logger *slog.Logger
}

// NewSchemaGuard creates a guard over the given graph client.
func NewSchemaGuard(client graph.GraphClient, logger *slog.Logger) *SchemaGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaGuard{
		client: client,
		logger: logger,
	}
}

// Apply declares all constraints, secondary indexes, and full-text indexes.
func (g *SchemaGuard) Apply(ctx context.Context) error {
	for _, decl := range schema.Constraints() {
		stmt := fmt.Sprintf(
			"CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:`%s`) REQUIRE n.`%s` IS UNIQUE",
			decl.Name, decl.Label, decl.Property)
		if _, err := g.client.Write(ctx, stmt, nil); err != nil {
			return types.WrapError(ErrCodeSchemaSetupFailed,
				fmt.Sprintf("failed to apply constraint %s", decl.Name), err)
		}
		g.logger.Debug("constraint applied", "name", decl.Name, "label", decl.Label.String())
	}

	for _, decl := range schema.Indexes() {
		stmt := fmt.Sprintf(
			"CREATE INDEX %s IF NOT EXISTS FOR (n:`%s`) ON (n.`%s`)",
			decl.Name, decl.Label, decl.Property)
		if _, err := g.client.Write(ctx, stmt, nil); err != nil {
			return types.WrapError(ErrCodeSchemaSetupFailed,
				fmt.Sprintf("failed to apply index %s", decl.Name), err)
		}
		g.logger.Debug("index applied", "name", decl.Name, "label", decl.Label.String())
	}

	for _, decl := range schema.FullTextIndexes() {
		props := make([]string, 0, len(decl.Properties))
		for _, p := range decl.Properties {
			props = append(props, fmt.Sprintf("n.`%s`", p))
		}
		stmt := fmt.Sprintf(
			"CREATE FULLTEXT INDEX %s IF NOT EXISTS FOR (n:`%s`) ON EACH [%s]",
			decl.Name, decl.Label, strings.Join(props, ", "))
		if _, err := g.client.Write(ctx, stmt, nil); err != nil {
			return types.WrapError(ErrCodeSchemaSetupFailed,
				fmt.Sprintf("failed to apply full-text index %s", decl.Name), err)
		}
		g.logger.Debug("full-text index applied", "name", decl.Name, "label", decl.Label.String())
	}

	g.logger.Info("schema declarations applied",
		"constraints", len(schema.Constraints()),
		"indexes", len(schema.Indexes()),
		"fulltext_indexes", len(schema.FullTextIndexes()))

	return nil
}
