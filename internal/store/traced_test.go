package store

import (
	"context"
	"testing"

	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestTracedStore_Delegates(t *testing.T) {
	inner, _ := newTestStore(t)
	traced := NewTracedStore(inner, noop.NewTracerProvider().Tracer("test"))
	ctx := context.Background()

	node, err := traced.UpsertNode(ctx, schema.LabelIncident, "INC-1", map[string]any{
		"title":       "database outage",
		"description": "primary down",
		"status":      "open",
		"created_at":  "2026-08-20T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "incident:INC-1", node.ID)

	_, err = traced.UpsertNode(ctx, schema.LabelUrgency, "1", nil)
	require.NoError(t, err)
	require.NoError(t, traced.UpsertRelationship(ctx, "incident:INC-1", schema.RelationHasUrgency, "urgency:1"))

	got, err := traced.GetNode(ctx, schema.LabelIncident, "INC-1")
	require.NoError(t, err)
	assert.Equal(t, node.ID, got.ID)

	got, err = traced.GetNodeByID(ctx, "incident:INC-1")
	require.NoError(t, err)
	assert.Equal(t, node.ID, got.ID)

	rels, err := traced.GetRelationships(ctx, "incident:INC-1")
	require.NoError(t, err)
	assert.Len(t, rels, 1)

	hits, err := traced.SearchIncidents(ctx, "database", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	nodes, err := traced.MatchByProperty(ctx, schema.LabelIncident, "status", "open", false)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)

	recent, err := traced.RecentIncidents(ctx, schema.IncidentStatusOpen, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestTracedStore_PropagatesErrors(t *testing.T) {
	inner, _ := newTestStore(t)
	traced := NewTracedStore(inner, noop.NewTracerProvider().Tracer("test"))

	_, err := traced.GetNodeByID(context.Background(), "incident:ghost")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.NOT_FOUND))
}
