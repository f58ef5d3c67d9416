// Package retrieval ranks and bounds candidate graph entities for a text
// query, merging full-text incident matches with structured property matches
// over services, resources, taxonomy, and users.
package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/store"
)

// DefaultLimit bounds a search when the caller does not supply a limit.
const DefaultLimit = 5

// Match scores for structured hits. Full-text hits carry the store's native
// relevance score; exact and prefix property matches get fixed scores so
// resolver thresholds can compare across both kinds.
const (
	ExactMatchScore  = 1.0
	PrefixMatchScore = 0.8
)

// Match is one ranked retrieval candidate.
type Match struct {
	Label string  `json:"label"`
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`

	// NodeID is the canonical graph identifier of the matched node.
	NodeID string `json:"node_id"`
}

// structuredTarget is one label/property pair probed by structured matching.
type structuredTarget struct {
	label    schema.Label
	property string
}

// structuredTargets lists the property matches run alongside the incident
// full-text query, in append order.
var structuredTargets = []structuredTarget{
	{schema.LabelBusinessService, "name"},
	{schema.LabelCloudResource, "name"},
	{schema.LabelCategory, "name"},
	{schema.LabelSubCategory, "name"},
	{schema.LabelUser, "name"},
	{schema.LabelUser, "email"},
}

// Engine is the retrieval engine. It never mutates graph state.
type Engine struct {
	store  store.Store
	logger *slog.Logger
}

// NewEngine creates a retrieval engine over the given store.
func NewEngine(s store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  s,
		logger: logger,
	}
}

// Search returns ranked candidates for a text query. Full-text incident hits
// come first in non-increasing score order; structured hits follow in probe
// order. An empty query returns an empty sequence. limit values below one
// fall back to DefaultLimit.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Match{}, nil
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	matches := make([]Match, 0, limit)
	seen := make(map[string]bool)

	hits, err := e.store.SearchIncidents(ctx, sanitizeFullTextQuery(query), limit)
	if err != nil {
		return nil, err
	}
	for _, hit := range hits {
		appendMatch(&matches, seen, matchFromNode(hit.Node, hit.Score))
	}

	for _, target := range structuredTargets {
		if len(matches) >= limit {
			break
		}
		structured, err := e.matchStructured(ctx, target, query)
		if err != nil {
			return nil, err
		}
		for _, m := range structured {
			appendMatch(&matches, seen, m)
		}
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}

	e.logger.Debug("search completed", "query", query, "matches", len(matches))
	return matches, nil
}

// SearchLabel restricts retrieval to a single label, for resolver fallback.
// Incidents go through the full-text index; every other label is matched by
// exact then prefix on its display property.
func (e *Engine) SearchLabel(ctx context.Context, label schema.Label, query string, limit int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Match{}, nil
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	if label == schema.LabelIncident {
		hits, err := e.store.SearchIncidents(ctx, sanitizeFullTextQuery(query), limit)
		if err != nil {
			return nil, err
		}
		matches := make([]Match, 0, len(hits))
		for _, hit := range hits {
			matches = append(matches, matchFromNode(hit.Node, hit.Score))
		}
		return matches, nil
	}

	matches := make([]Match, 0, limit)
	seen := make(map[string]bool)
	for _, target := range targetsForLabel(label) {
		structured, err := e.matchStructured(ctx, target, query)
		if err != nil {
			return nil, err
		}
		for _, m := range structured {
			appendMatch(&matches, seen, m)
		}
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// matchStructured probes one label/property pair, exact first, then prefix.
func (e *Engine) matchStructured(ctx context.Context, target structuredTarget, query string) ([]Match, error) {
	matches := make([]Match, 0)

	exact, err := e.store.MatchByProperty(ctx, target.label, target.property, query, false)
	if err != nil {
		return nil, err
	}
	for _, node := range exact {
		matches = append(matches, matchFromNode(node, ExactMatchScore))
	}

	prefixed, err := e.store.MatchByProperty(ctx, target.label, target.property, query, true)
	if err != nil {
		return nil, err
	}
	for _, node := range prefixed {
		matches = append(matches, matchFromNode(node, PrefixMatchScore))
	}

	return matches, nil
}

func targetsForLabel(label schema.Label) []structuredTarget {
	targets := make([]structuredTarget, 0, 2)
	for _, t := range structuredTargets {
		if t.label == label {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		targets = append(targets, structuredTarget{label, "name"})
	}
	return targets
}

// appendMatch appends m unless its node was already collected. Exact hits
// probe before prefix hits, so the first score for a node is its best.
func appendMatch(matches *[]Match, seen map[string]bool, m Match) {
	if seen[m.NodeID] {
		return
	}
	seen[m.NodeID] = true
	*matches = append(*matches, m)
}

func matchFromNode(node graph.Node, score float64) Match {
	m := Match{
		NodeID: node.ID,
		Score:  score,
	}

	if len(node.Labels) > 0 {
		m.Label = node.Labels[0]
	}

	if key, ok := node.Props["key"].(string); ok {
		m.Key = key
	} else if _, after, found := strings.Cut(node.ID, ":"); found {
		m.Key = after
	}

	if name, ok := node.Props["name"].(string); ok {
		m.Name = name
	} else if title, ok := node.Props["title"].(string); ok {
		m.Name = title
	}

	return m
}

// sanitizeFullTextQuery strips Lucene operator characters so raw user text
// cannot break the full-text query syntax.
func sanitizeFullTextQuery(query string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '+', '-', '&', '|', '!', '(', ')', '{', '}', '[', ']', '^', '"', '~', '*', '?', ':', '\\', '/':
			return ' '
		default:
			return r
		}
	}, query)
}
