// Package resolver maps free-text or model-proposed references onto concrete
// graph entities, or decides that a new entity is needed. Closed
// enumerations (Category, SubCategory, Urgency, Impact) are never fabricated;
// open labels may yield a new-node proposal whose creation is deferred to an
// explicit confirmation step.
package resolver

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Ravou/Neurograph/internal/retrieval"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/store"
	"github.com/Ravou/Neurograph/internal/types"
)

// DefaultThreshold is the retrieval score a fallback candidate must reach to
// be accepted. Exact matches score 1.0 and prefix matches 0.8, so both clear
// it; weak full-text hits do not.
const DefaultThreshold = 0.6

// ResolutionStatus classifies the outcome of resolving one reference.
type ResolutionStatus string

const (
	// StatusResolved means the reference maps to an existing node.
	StatusResolved ResolutionStatus = "resolved"

	// StatusUnresolved means no candidate cleared the threshold and the
	// label forbids fabrication.
	StatusUnresolved ResolutionStatus = "unresolved"

	// StatusProposedNew means no candidate matched and the label permits
	// proposing a new node, pending explicit confirmation.
	StatusProposedNew ResolutionStatus = "proposed_new"
)

// Reference is one symbolic mention to resolve against a label.
type Reference struct {
	Label schema.Label
	Text  string
}

// Proposal describes a new node the resolver suggests for an open label.
type Proposal struct {
	Label schema.Label   `json:"label"`
	Key   string         `json:"key"`
	Props map[string]any `json:"props"`
}

// Resolution is the outcome of resolving one reference.
type Resolution struct {
	Status   ResolutionStatus `json:"status"`
	NodeID   string           `json:"node_id,omitempty"`
	Key      string           `json:"key,omitempty"`
	Name     string           `json:"name,omitempty"`
	Score    float64          `json:"score,omitempty"`
	Proposal *Proposal        `json:"proposal,omitempty"`
}

// Resolved reports whether the reference mapped to an existing node.
func (r Resolution) Resolved() bool {
	return r.Status == StatusResolved
}

// Resolver maps references onto graph entities via exact lookup first, then
// bounded retrieval with an acceptance threshold.
type Resolver struct {
	store     store.Store
	engine    *retrieval.Engine
	lexicon   *severityLexicon
	threshold float64
	logger    *slog.Logger
}

// NewResolver creates a resolver. A threshold of zero or below falls back to
// DefaultThreshold.
func NewResolver(s store.Store, engine *retrieval.Engine, threshold float64, logger *slog.Logger) (*Resolver, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}

	lexicon, err := loadSeverityLexicon()
	if err != nil {
		return nil, types.WrapError(types.UNRESOLVED, "failed to load severity lexicon", err)
	}

	return &Resolver{
		store:     s,
		engine:    engine,
		lexicon:   lexicon,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// Resolve maps one reference onto a graph entity.
func (r *Resolver) Resolve(ctx context.Context, ref Reference) (Resolution, error) {
	text := strings.TrimSpace(ref.Text)
	if text == "" || !ref.Label.IsValid() {
		return Resolution{Status: StatusUnresolved}, nil
	}

	// Severity labels resolve through the fixed lexical table only;
	// ambiguous words stay unresolved rather than guessed.
	if ref.Label == schema.LabelUrgency || ref.Label == schema.LabelImpact {
		return r.resolveSeverity(ctx, ref.Label, text)
	}

	// Exact key lookup first.
	node, err := r.store.GetNode(ctx, ref.Label, text)
	if err == nil {
		return resolutionFromMatch(retrieval.Match{
			NodeID: node.ID,
			Key:    stringProp(node.Props, "key"),
			Name:   stringProp(node.Props, "name"),
			Score:  retrieval.ExactMatchScore,
		}), nil
	}
	if !types.IsCode(err, types.NOT_FOUND) {
		return Resolution{}, err
	}

	// Retrieval fallback restricted to the label; the top candidate must
	// clear the acceptance threshold.
	matches, err := r.engine.SearchLabel(ctx, ref.Label, text, 1)
	if err != nil {
		return Resolution{}, err
	}
	if len(matches) > 0 && matches[0].Score >= r.threshold {
		return resolutionFromMatch(matches[0]), nil
	}

	if ref.Label.Closed() {
		r.logger.Debug("reference unresolved",
			"label", ref.Label.String(), "text", text)
		return Resolution{Status: StatusUnresolved}, nil
	}

	return Resolution{
		Status: StatusProposedNew,
		Proposal: &Proposal{
			Label: ref.Label,
			Key:   proposalKey(text),
			Props: map[string]any{"name": text},
		},
	}, nil
}

func (r *Resolver) resolveSeverity(ctx context.Context, label schema.Label, text string) (Resolution, error) {
	level, ok := r.lexicon.LevelFor(label, text)
	if !ok {
		r.logger.Debug("severity word unresolved",
			"label", label.String(), "text", text)
		return Resolution{Status: StatusUnresolved}, nil
	}

	key := strconv.Itoa(level)
	node, err := r.store.GetNode(ctx, label, key)
	if err != nil {
		if types.IsCode(err, types.NOT_FOUND) {
			return Resolution{Status: StatusUnresolved}, nil
		}
		return Resolution{}, err
	}

	return Resolution{
		Status: StatusResolved,
		NodeID: node.ID,
		Key:    key,
		Name:   stringProp(node.Props, "name"),
		Score:  retrieval.ExactMatchScore,
	}, nil
}

func resolutionFromMatch(m retrieval.Match) Resolution {
	return Resolution{
		Status: StatusResolved,
		NodeID: m.NodeID,
		Key:    m.Key,
		Name:   m.Name,
		Score:  m.Score,
	}
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

// proposalKey derives a stable key suggestion from the mention text.
func proposalKey(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
