// Package service exposes the engine's external operations as a plain Go
// API: context search, one-hop relationship expansion, graph-context save,
// and the LLM incident proposal.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Ravou/Neurograph/internal/proposal"
	"github.com/Ravou/Neurograph/internal/retrieval"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/store"
	"github.com/Ravou/Neurograph/internal/types"
)

// Service wires the store, the retrieval engine, and the proposal pipeline
// behind the four external operations. Safe for concurrent use.
type Service struct {
	store    store.Store
	engine   *retrieval.Engine
	pipeline *proposal.Pipeline
	logger   *slog.Logger
}

// New creates a Service.
func New(s store.Store, engine *retrieval.Engine, pipeline *proposal.Pipeline, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    s,
		engine:   engine,
		pipeline: pipeline,
		logger:   logger,
	}
}

// SearchResponse is the result of a context search.
type SearchResponse struct {
	Matches []retrieval.Match `json:"matches"`
}

// SearchGraphContext searches the graph for entities matching the query.
// An empty query yields an empty match list.
func (s *Service) SearchGraphContext(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	matches, err := s.engine.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []retrieval.Match{}
	}
	return &SearchResponse{Matches: matches}, nil
}

// NeighborRef identifies the far end of a relationship.
type NeighborRef struct {
	Label string `json:"label"`
	Key   string `json:"key"`
}

// RelationshipEntry is one edge adjacent to the queried node.
type RelationshipEntry struct {
	Type      string         `json:"type"`
	Direction string         `json:"direction"`
	Neighbor  NeighborRef    `json:"neighbor"`
	Props     map[string]any `json:"props,omitempty"`
}

// RelationshipsResponse lists a node's adjacent edges.
type RelationshipsResponse struct {
	NodeID        string              `json:"node_id"`
	Relationships []RelationshipEntry `json:"relationships"`
}

// GetNodeRelationships expands one hop around a node. Fails with NOT_FOUND
// when the node id is unknown.
func (s *Service) GetNodeRelationships(ctx context.Context, nodeID string) (*RelationshipsResponse, error) {
	rels, err := s.store.GetRelationships(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	entries := make([]RelationshipEntry, 0, len(rels))
	for _, rel := range rels {
		neighbor := NeighborRef{Key: nodeKey(rel.Neighbor.ID, rel.Neighbor.Props)}
		if len(rel.Neighbor.Labels) > 0 {
			neighbor.Label = rel.Neighbor.Labels[0]
		}
		entries = append(entries, RelationshipEntry{
			Type:      rel.Type,
			Direction: string(rel.Direction),
			Neighbor:  neighbor,
			Props:     rel.Props,
		})
	}

	return &RelationshipsResponse{NodeID: nodeID, Relationships: entries}, nil
}

// RelationInput declares one relationship to create from the saved node.
type RelationInput struct {
	Type        string `json:"type"`
	TargetLabel string `json:"target_label"`
	TargetKey   string `json:"target_key"`
}

// RelationResult reports the outcome of one requested relationship.
type RelationResult struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
	Error    string `json:"error,omitempty"`
}

// SaveResponse reports a saved node and its per-relation outcomes. The node
// persists even when some relations fail; failures are named, never hidden.
type SaveResponse struct {
	NodeID           string           `json:"node_id"`
	CreatedRelations []RelationResult `json:"created_relations,omitempty"`
	FailedRelations  []RelationResult `json:"failed_relations,omitempty"`
}

// SaveGraphContext upserts one entity and its outgoing relationships.
// Fails with CONSTRAINT_VIOLATION when the properties carry no unique key
// for the entity type, and reports DANGLING_REFERENCE per relation whose
// target does not exist.
func (s *Service) SaveGraphContext(ctx context.Context, entityType string, properties map[string]any, relations []RelationInput) (*SaveResponse, error) {
	label, err := schema.ParseLabel(entityType)
	if err != nil {
		return nil, types.WrapError(store.ErrCodeInvalidLabel,
			fmt.Sprintf("cannot save entity of type %q", entityType), err)
	}

	key, err := keyFromProperties(label, properties)
	if err != nil {
		return nil, err
	}

	node, err := s.store.UpsertNode(ctx, label, key, properties)
	if err != nil {
		return nil, err
	}

	resp := &SaveResponse{NodeID: node.ID}
	for _, rel := range relations {
		targetLabel, err := schema.ParseLabel(rel.TargetLabel)
		if err != nil {
			resp.FailedRelations = append(resp.FailedRelations, RelationResult{
				Type:  rel.Type,
				Error: err.Error(),
			})
			continue
		}
		targetID := schema.NodeID(targetLabel, rel.TargetKey)
		result := RelationResult{Type: rel.Type, TargetID: targetID}

		if err := s.store.UpsertRelationship(ctx, node.ID, schema.RelationType(rel.Type), targetID); err != nil {
			result.Error = err.Error()
			resp.FailedRelations = append(resp.FailedRelations, result)
			s.logger.Warn("relation save failed",
				"from", node.ID, "type", rel.Type, "to", targetID, "error", err)
			continue
		}
		resp.CreatedRelations = append(resp.CreatedRelations, result)
	}

	return resp, nil
}

// ProposeIncidentWithLLM runs one incident proposal. The result is either a
// committed incident, a draft with named unresolved fields, or a typed error.
func (s *Service) ProposeIncidentWithLLM(ctx context.Context, userText, searchContext string, contextLimit int) (*proposal.Result, error) {
	return s.pipeline.Run(ctx, proposal.Request{
		UserText:      userText,
		SearchContext: searchContext,
		ContextLimit:  contextLimit,
	})
}

// keyFromProperties pulls the label's unique key out of the property map.
// Severity levels may arrive as numbers; everything else must be a
// non-empty string.
func keyFromProperties(label schema.Label, properties map[string]any) (string, error) {
	keyProp := label.KeyProperty()
	raw, ok := properties[keyProp]
	if !ok {
		return "", types.NewError(types.CONSTRAINT_VIOLATION,
			fmt.Sprintf("properties for %s must include the unique key %q", label, keyProp))
	}

	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", types.NewError(types.CONSTRAINT_VIOLATION,
				fmt.Sprintf("unique key %q for %s cannot be empty", keyProp, label))
		}
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.Itoa(int(v)), nil
	default:
		return "", types.NewError(types.CONSTRAINT_VIOLATION,
			fmt.Sprintf("unique key %q for %s has unsupported type %T", keyProp, label, raw))
	}
}

// nodeKey extracts a node's bare key, falling back to parsing the canonical
// "<label>:<key>" id.
func nodeKey(nodeID string, props map[string]any) string {
	if key, ok := props["key"].(string); ok && key != "" {
		return key
	}
	if _, after, found := strings.Cut(nodeID, ":"); found {
		return after
	}
	return nodeID
}
