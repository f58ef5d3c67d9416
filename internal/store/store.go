package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/types"
)

// relationshipLimit bounds one-hop expansions.
const relationshipLimit = 50

// Store is the typed operation layer over the property-graph engine.
// All writes are idempotent upserts keyed on canonical node ids; every
// successful write is visible to subsequent reads.
type Store interface {
	// GetNode fetches a node by label and key.
	GetNode(ctx context.Context, label schema.Label, key string) (graph.Node, error)

	// GetNodeByID fetches a node by its canonical "<label>:<key>" id.
	GetNodeByID(ctx context.Context, nodeID string) (graph.Node, error)

	// GetRelationships lists the edges adjacent to a node, both directions,
	// ordered by relationship type and bounded.
	GetRelationships(ctx context.Context, nodeID string) ([]graph.Relationship, error)

	// UpsertNode creates the node if absent and merges the supplied non-nil
	// properties if present, last-writer-wins per field. Existing properties
	// are never erased by nulls.
	UpsertNode(ctx context.Context, label schema.Label, key string, props map[string]any) (graph.Node, error)

	// UpsertRelationship creates the edge if absent; duplicate edges of the
	// same type between the same pair collapse to one. Fails with
	// DANGLING_REFERENCE when either endpoint does not exist.
	UpsertRelationship(ctx context.Context, fromID string, relType schema.RelationType, toID string) error

	// SearchIncidents runs a full-text query over incident titles and
	// descriptions, ranked by the store's native relevance score.
	SearchIncidents(ctx context.Context, query string, limit int) ([]graph.SearchHit, error)

	// MatchByProperty finds nodes of a label by case-insensitive exact or
	// prefix match on a string property.
	MatchByProperty(ctx context.Context, label schema.Label, property, value string, prefix bool) ([]graph.Node, error)

	// RecentIncidents lists incidents in the given status, most recently
	// created first, bounded by limit.
	RecentIncidents(ctx context.Context, status schema.IncidentStatus, limit int) ([]graph.Node, error)
}

// ContextStore implements Store over a GraphClient.
type ContextStore struct {
	client graph.GraphClient
	logger *slog.Logger
}

// NewContextStore creates a store over the given graph client.
func NewContextStore(client graph.GraphClient, logger *slog.Logger) *ContextStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextStore{
		client: client,
		logger: logger,
	}
}

// GetNode fetches a node by label and key.
func (s *ContextStore) GetNode(ctx context.Context, label schema.Label, key string) (graph.Node, error) {
	if !label.IsValid() {
		return graph.Node{}, types.NewError(ErrCodeInvalidLabel,
			fmt.Sprintf("unknown entity label: %s", label))
	}
	return s.GetNodeByID(ctx, schema.NodeID(label, key))
}

// GetNodeByID fetches a node by canonical id.
func (s *ContextStore) GetNodeByID(ctx context.Context, nodeID string) (graph.Node, error) {
	node, err := s.client.GetNode(ctx, nodeID)
	if err != nil {
		if types.IsCode(err, graph.ErrCodeGraphNodeNotFound) {
			return graph.Node{}, types.WrapError(types.NOT_FOUND,
				fmt.Sprintf("node not found: %s", nodeID), err)
		}
		return graph.Node{}, err
	}
	return node, nil
}

// GetRelationships lists the edges adjacent to a node.
func (s *ContextStore) GetRelationships(ctx context.Context, nodeID string) ([]graph.Relationship, error) {
	rels, err := s.client.GetRelationships(ctx, nodeID, relationshipLimit)
	if err != nil {
		if types.IsCode(err, graph.ErrCodeGraphNodeNotFound) {
			return nil, types.WrapError(types.NOT_FOUND,
				fmt.Sprintf("node not found: %s", nodeID), err)
		}
		return nil, err
	}
	return rels, nil
}

// UpsertNode merges a node by label and key, set-on-create semantics.
func (s *ContextStore) UpsertNode(ctx context.Context, label schema.Label, key string, props map[string]any) (graph.Node, error) {
	if !label.IsValid() {
		return graph.Node{}, types.NewError(ErrCodeInvalidLabel,
			fmt.Sprintf("unknown entity label: %s", label))
	}
	if key == "" {
		return graph.Node{}, types.NewError(types.CONSTRAINT_VIOLATION,
			fmt.Sprintf("missing unique key for label %s", label))
	}

	nodeID := schema.NodeID(label, key)
	filtered := filterNilProps(props)
	// The id property carries the canonical "<label>:<key>" identifier and
	// is managed by the graph client; the bare key lives under "key".
	delete(filtered, "id")
	filtered["key"] = key
	if label.KeyProperty() == "level" {
		if _, ok := filtered["level"]; !ok {
			if level, err := strconv.Atoi(key); err == nil {
				filtered["level"] = level
			}
		}
	}

	node, err := s.client.UpsertNode(ctx, label.String(), nodeID, filtered)
	if err != nil {
		if types.IsCode(err, graph.ErrCodeGraphConstraintViolation) {
			return graph.Node{}, types.WrapError(types.CONSTRAINT_VIOLATION,
				fmt.Sprintf("upsert of %s violated a uniqueness constraint", nodeID), err)
		}
		return graph.Node{}, err
	}

	s.logger.Debug("node upserted", "node_id", nodeID, "label", label.String())
	return node, nil
}

// UpsertRelationship merges a single directed edge between existing nodes.
func (s *ContextStore) UpsertRelationship(ctx context.Context, fromID string, relType schema.RelationType, toID string) error {
	if !relType.IsValid() {
		return types.NewError(ErrCodeInvalidInput,
			fmt.Sprintf("unknown relationship type: %s", relType))
	}
	if relType == schema.RelationBlockedBy && fromID == toID {
		return types.NewError(types.CONSTRAINT_VIOLATION,
			fmt.Sprintf("%s must not be reflexive: %s", relType, fromID))
	}

	err := s.client.UpsertRelationship(ctx, fromID, relType.String(), toID, nil)
	if err != nil {
		if types.IsCode(err, graph.ErrCodeGraphEndpointNotFound) {
			return types.WrapError(types.DANGLING_REFERENCE,
				fmt.Sprintf("relationship %s-[%s]->%s references a missing node", fromID, relType, toID), err)
		}
		return err
	}

	s.logger.Debug("relationship upserted",
		"from", fromID, "type", relType.String(), "to", toID)
	return nil
}

// SearchIncidents runs a full-text query over the incident search index.
func (s *ContextStore) SearchIncidents(ctx context.Context, query string, limit int) ([]graph.SearchHit, error) {
	return s.client.FullTextSearch(ctx, schema.IncidentSearchIndex, query, limit)
}

// MatchByProperty finds nodes of a label by string property match.
func (s *ContextStore) MatchByProperty(ctx context.Context, label schema.Label, property, value string, prefix bool) ([]graph.Node, error) {
	if !label.IsValid() {
		return nil, types.NewError(ErrCodeInvalidLabel,
			fmt.Sprintf("unknown entity label: %s", label))
	}
	return s.client.MatchByProperty(ctx, label.String(), property, value, prefix)
}

// RecentIncidents lists incidents in a status, newest first. Incidents store
// created_at as an RFC 3339 string, so lexicographic order is creation order.
func (s *ContextStore) RecentIncidents(ctx context.Context, status schema.IncidentStatus, limit int) ([]graph.Node, error) {
	if err := status.Validate(); err != nil {
		return nil, types.WrapError(ErrCodeInvalidInput, "invalid incident status", err)
	}

	nodes, err := s.client.MatchByProperty(ctx, schema.LabelIncident.String(), "status", status.String(), false)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		ci, _ := nodes[i].Props["created_at"].(string)
		cj, _ := nodes[j].Props["created_at"].(string)
		if ci != cj {
			return ci > cj
		}
		return nodes[i].ID < nodes[j].ID
	})
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}

	return nodes, nil
}

// filterNilProps drops nil values so an upsert never erases an existing
// property with a null.
func filterNilProps(props map[string]any) map[string]any {
	filtered := make(map[string]any, len(props))
	for k, v := range props {
		if v == nil {
			continue
		}
		filtered[k] = v
	}
	return filtered
}
