package store

import (
	"context"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracedStore wraps a Store with OpenTelemetry tracing. Every operation gets
// a span named "neurograph.store.<op>" carrying the node id / label / key
// attributes of the call.
//
// Thread-safety: safe for concurrent access (delegates to the inner store).
type TracedStore struct {
	inner  Store
	tracer trace.Tracer
}

// NewTracedStore wraps the inner store with tracing spans.
func NewTracedStore(inner Store, tracer trace.Tracer) *TracedStore {
	return &TracedStore{
		inner:  inner,
		tracer: tracer,
	}
}

func (t *TracedStore) end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// GetNode fetches a node by label and key.
func (t *TracedStore) GetNode(ctx context.Context, label schema.Label, key string) (graph.Node, error) {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.get_node",
		trace.WithAttributes(
			attribute.String("neurograph.label", label.String()),
			attribute.String("neurograph.key", key),
		))
	node, err := t.inner.GetNode(ctx, label, key)
	t.end(span, err)
	return node, err
}

// GetNodeByID fetches a node by canonical id.
func (t *TracedStore) GetNodeByID(ctx context.Context, nodeID string) (graph.Node, error) {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.get_node",
		trace.WithAttributes(attribute.String("neurograph.node_id", nodeID)))
	node, err := t.inner.GetNodeByID(ctx, nodeID)
	t.end(span, err)
	return node, err
}

// GetRelationships lists the edges adjacent to a node.
func (t *TracedStore) GetRelationships(ctx context.Context, nodeID string) ([]graph.Relationship, error) {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.get_relationships",
		trace.WithAttributes(attribute.String("neurograph.node_id", nodeID)))
	rels, err := t.inner.GetRelationships(ctx, nodeID)
	if err == nil {
		span.SetAttributes(attribute.Int("neurograph.relationship_count", len(rels)))
	}
	t.end(span, err)
	return rels, err
}

// UpsertNode merges a node by label and key.
func (t *TracedStore) UpsertNode(ctx context.Context, label schema.Label, key string, props map[string]any) (graph.Node, error) {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.upsert_node",
		trace.WithAttributes(
			attribute.String("neurograph.label", label.String()),
			attribute.String("neurograph.key", key),
		))
	node, err := t.inner.UpsertNode(ctx, label, key, props)
	t.end(span, err)
	return node, err
}

// UpsertRelationship merges a directed edge between existing nodes.
func (t *TracedStore) UpsertRelationship(ctx context.Context, fromID string, relType schema.RelationType, toID string) error {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.upsert_relationship",
		trace.WithAttributes(
			attribute.String("neurograph.from", fromID),
			attribute.String("neurograph.relation_type", relType.String()),
			attribute.String("neurograph.to", toID),
		))
	err := t.inner.UpsertRelationship(ctx, fromID, relType, toID)
	t.end(span, err)
	return err
}

// SearchIncidents runs a full-text query over incident titles and descriptions.
func (t *TracedStore) SearchIncidents(ctx context.Context, query string, limit int) ([]graph.SearchHit, error) {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.search_incidents",
		trace.WithAttributes(attribute.Int("neurograph.limit", limit)))
	hits, err := t.inner.SearchIncidents(ctx, query, limit)
	if err == nil {
		span.SetAttributes(attribute.Int("neurograph.hit_count", len(hits)))
	}
	t.end(span, err)
	return hits, err
}

// MatchByProperty finds nodes of a label by string property match.
func (t *TracedStore) MatchByProperty(ctx context.Context, label schema.Label, property, value string, prefix bool) ([]graph.Node, error) {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.match_by_property",
		trace.WithAttributes(
			attribute.String("neurograph.label", label.String()),
			attribute.String("neurograph.property", property),
			attribute.Bool("neurograph.prefix", prefix),
		))
	nodes, err := t.inner.MatchByProperty(ctx, label, property, value, prefix)
	t.end(span, err)
	return nodes, err
}

// RecentIncidents lists incidents in a status, newest first.
func (t *TracedStore) RecentIncidents(ctx context.Context, status schema.IncidentStatus, limit int) ([]graph.Node, error) {
	ctx, span := t.tracer.Start(ctx, "neurograph.store.recent_incidents",
		trace.WithAttributes(
			attribute.String("neurograph.status", status.String()),
			attribute.Int("neurograph.limit", limit),
		))
	nodes, err := t.inner.RecentIncidents(ctx, status, limit)
	t.end(span, err)
	return nodes, err
}
