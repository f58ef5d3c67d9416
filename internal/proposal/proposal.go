// Package proposal orchestrates the incident proposal pipeline:
// Retrieve, Invoke-Model, Resolve, then Draft or Commit. One run per
// invocation, terminal on the first error or on a successful commit.
package proposal

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/Ravou/Neurograph/internal/resolver"
	"github.com/Ravou/Neurograph/internal/retrieval"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/store"
	"github.com/Ravou/Neurograph/internal/types"
)

// DefaultContextLimit bounds the retrieval context bundle.
const DefaultContextLimit = 5

// Status is the terminal state of a pipeline run.
type Status string

const (
	// StatusDraft means required fields were missing or unresolved; the
	// proposed incident was returned for review and nothing was written.
	StatusDraft Status = "draft"

	// StatusCommitted means the incident node was created. Individual
	// relation writes may still have failed; see FailedRelations.
	StatusCommitted Status = "committed"
)

// Request is one proposal invocation.
type Request struct {
	// UserText is the free-text incident report.
	UserText string

	// SearchContext optionally overrides the retrieval query; empty falls
	// back to UserText.
	SearchContext string

	// ContextLimit bounds the context bundle; values below one fall back
	// to DefaultContextLimit.
	ContextLimit int
}

// IncidentExtraction is the structured output requested from the model.
type IncidentExtraction struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subcategory"`
	Urgency     string   `json:"urgency"`
	Impact      string   `json:"impact"`
	Service     string   `json:"service"`
	Resources   []string `json:"resources"`
	Assignee    string   `json:"assignee"`
}

// RelationOutcome reports one relationship write attempted during commit.
type RelationOutcome struct {
	FromID string              `json:"from_id"`
	Type   schema.RelationType `json:"type"`
	ToID   string              `json:"to_id"`
	Error  string              `json:"error,omitempty"`
}

// SubgraphEdge is one edge of the renderable result subgraph.
type SubgraphEdge struct {
	FromID string `json:"from_id"`
	Type   string `json:"type"`
	ToID   string `json:"to_id"`
}

// Subgraph is a small renderable view of the committed incident and its
// resolved relations.
type Subgraph struct {
	Nodes []graph.Node   `json:"nodes"`
	Edges []SubgraphEdge `json:"edges"`
}

// Result is the outcome of a pipeline run.
type Result struct {
	Status Status `json:"status"`

	// IncidentID is the canonical node id of the committed incident.
	IncidentID string `json:"incident_id,omitempty"`

	// IncidentKey is the committed incident's key (e.g. "INC-1a2b3c4d").
	IncidentKey string `json:"incident_key,omitempty"`

	// UnresolvedFields names the required fields that kept the run a draft.
	UnresolvedFields []string `json:"unresolved_fields,omitempty"`

	// Extraction is the model's structured output, returned on drafts so
	// the caller can review what was proposed.
	Extraction *IncidentExtraction `json:"extraction,omitempty"`

	// CreatedRelations and FailedRelations report the per-relation commit
	// outcomes. A failed relation never hides: the incident node persists
	// and the caller can retry the named relations.
	CreatedRelations []RelationOutcome `json:"created_relations,omitempty"`
	FailedRelations  []RelationOutcome `json:"failed_relations,omitempty"`

	// NewEntityProposals lists open-label entities the resolver suggested
	// creating; creation is deferred to an explicit confirmation step.
	NewEntityProposals []resolver.Proposal `json:"new_entity_proposals,omitempty"`

	// Subgraph is a renderable view of the committed incident.
	Subgraph *Subgraph `json:"subgraph,omitempty"`
}

// Pipeline runs proposals. Safe for concurrent use; all shared state lives
// in the graph store.
type Pipeline struct {
	store    store.Store
	engine   *retrieval.Engine
	resolver *resolver.Resolver
	provider llm.Provider
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time

	// newKey is swappable for tests.
	newKey func() string
}

// NewPipeline creates a proposal pipeline.
func NewPipeline(s store.Store, engine *retrieval.Engine, res *resolver.Resolver, provider llm.Provider, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:    s,
		engine:   engine,
		resolver: res,
		provider: provider,
		logger:   logger,
		now:      time.Now,
		newKey:   types.NewIncidentKey,
	}
}

// Run executes one proposal. The run is cancellable at the retrieve and
// model-invocation boundaries before any write occurs; a commit, once
// started, runs to completion.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.UserText) == "" {
		return nil, types.NewError(types.MODEL_INVOCATION_FAILED,
			"user text cannot be empty")
	}
	limit := req.ContextLimit
	if limit < 1 {
		limit = DefaultContextLimit
	}

	// Retrieve.
	query := req.SearchContext
	if strings.TrimSpace(query) == "" {
		query = req.UserText
	}
	matches, err := p.engine.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	recent, err := p.store.RecentIncidents(ctx, schema.IncidentStatusOpen, limit)
	if err != nil {
		return nil, err
	}

	// Invoke-Model: a single request-response. A failed or malformed
	// response terminates the run; it is never substituted with defaults.
	extraction, err := p.invokeModel(ctx, req.UserText, matches, recent)
	if err != nil {
		return nil, err
	}

	// Resolve.
	resolutions, proposals, err := p.resolveReferences(ctx, extraction)
	if err != nil {
		return nil, err
	}

	unresolved := requiredFieldGaps(extraction, resolutions)
	if len(unresolved) > 0 {
		p.logger.Info("proposal degraded to draft", "unresolved_fields", unresolved)
		return &Result{
			Status:             StatusDraft,
			UnresolvedFields:   unresolved,
			Extraction:         &extraction,
			NewEntityProposals: proposals,
		}, nil
	}

	return p.commit(ctx, extraction, resolutions, proposals)
}

func (p *Pipeline) invokeModel(ctx context.Context, userText string, matches []retrieval.Match, recent []graph.Node) (IncidentExtraction, error) {
	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			llm.NewSystemMessage(systemPrompt),
			llm.NewUserMessage(buildUserPrompt(userText, matches, recent)),
		},
	})
	if err != nil {
		if types.IsCode(err, types.MODEL_INVOCATION_FAILED) {
			return IncidentExtraction{}, err
		}
		return IncidentExtraction{}, types.WrapError(types.MODEL_INVOCATION_FAILED,
			"model invocation failed", err)
	}

	extraction, err := llm.ExtractJSONAs[IncidentExtraction](resp.Message.Content)
	if err != nil {
		return IncidentExtraction{}, types.WrapError(types.MODEL_INVOCATION_FAILED,
			"model returned unparseable extraction", err)
	}

	return extraction, nil
}

// fieldResolutions carries the per-field resolver outcomes.
type fieldResolutions struct {
	Urgency     resolver.Resolution
	Impact      resolver.Resolution
	Category    resolver.Resolution
	SubCategory resolver.Resolution
	Service     resolver.Resolution
	Assignee    resolver.Resolution
	Resources   []resolver.Resolution
}

func (p *Pipeline) resolveReferences(ctx context.Context, ex IncidentExtraction) (fieldResolutions, []resolver.Proposal, error) {
	var out fieldResolutions
	var proposals []resolver.Proposal

	resolve := func(label schema.Label, text string) (resolver.Resolution, error) {
		if strings.TrimSpace(text) == "" {
			return resolver.Resolution{Status: resolver.StatusUnresolved}, nil
		}
		res, err := p.resolver.Resolve(ctx, resolver.Reference{Label: label, Text: text})
		if err != nil {
			return resolver.Resolution{}, err
		}
		if res.Proposal != nil {
			proposals = append(proposals, *res.Proposal)
		}
		return res, nil
	}

	var err error
	if out.Urgency, err = resolve(schema.LabelUrgency, ex.Urgency); err != nil {
		return out, nil, err
	}
	if out.Impact, err = resolve(schema.LabelImpact, ex.Impact); err != nil {
		return out, nil, err
	}
	if out.Category, err = resolve(schema.LabelCategory, ex.Category); err != nil {
		return out, nil, err
	}
	if out.SubCategory, err = resolve(schema.LabelSubCategory, ex.SubCategory); err != nil {
		return out, nil, err
	}
	if out.Service, err = resolve(schema.LabelBusinessService, ex.Service); err != nil {
		return out, nil, err
	}
	if out.Assignee, err = resolve(schema.LabelUser, ex.Assignee); err != nil {
		return out, nil, err
	}
	for _, resource := range ex.Resources {
		res, err := resolve(schema.LabelCloudResource, resource)
		if err != nil {
			return out, nil, err
		}
		out.Resources = append(out.Resources, res)
	}

	return out, proposals, nil
}

// requiredFieldGaps names the required fields that are missing or
// unresolved: title, description, urgency, impact.
func requiredFieldGaps(ex IncidentExtraction, res fieldResolutions) []string {
	var gaps []string
	if strings.TrimSpace(ex.Title) == "" {
		gaps = append(gaps, "title")
	}
	if strings.TrimSpace(ex.Description) == "" {
		gaps = append(gaps, "description")
	}
	if !res.Urgency.Resolved() {
		gaps = append(gaps, "urgency")
	}
	if !res.Impact.Resolved() {
		gaps = append(gaps, "impact")
	}
	return gaps
}

func (p *Pipeline) commit(ctx context.Context, ex IncidentExtraction, res fieldResolutions, proposals []resolver.Proposal) (*Result, error) {
	urgencyLevel, err := strconv.Atoi(res.Urgency.Key)
	if err != nil {
		return nil, types.WrapError(types.UNRESOLVED,
			"resolved urgency carries a non-numeric level", err)
	}
	priority, err := schema.PriorityForUrgency(urgencyLevel)
	if err != nil {
		return nil, types.WrapError(types.UNRESOLVED, "urgency level out of range", err)
	}

	key := p.newKey()
	incident, err := p.store.UpsertNode(ctx, schema.LabelIncident, key, map[string]any{
		"title":       ex.Title,
		"description": ex.Description,
		"status":      schema.IncidentStatusOpen.String(),
		"priority":    priority.String(),
		"created_at":  p.now().UTC().Format(time.RFC3339),
		"source":      schema.SourceLLMProposal,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Status:             StatusCommitted,
		IncidentID:         incident.ID,
		IncidentKey:        key,
		NewEntityProposals: proposals,
	}

	type plannedRelation struct {
		relType schema.RelationType
		from    string
		to      string
	}
	planned := make([]plannedRelation, 0, 8)
	addOutgoing := func(relType schema.RelationType, target resolver.Resolution) {
		if target.Resolved() {
			planned = append(planned, plannedRelation{relType, incident.ID, target.NodeID})
		}
	}
	addOutgoing(schema.RelationRelatesToService, res.Service)
	for _, r := range res.Resources {
		addOutgoing(schema.RelationAffects, r)
	}
	addOutgoing(schema.RelationHasCategory, res.Category)
	addOutgoing(schema.RelationHasSubCategory, res.SubCategory)
	addOutgoing(schema.RelationHasUrgency, res.Urgency)
	addOutgoing(schema.RelationHasImpact, res.Impact)
	if res.Assignee.Resolved() {
		planned = append(planned, plannedRelation{schema.RelationAssignedTo, res.Assignee.NodeID, incident.ID})
	}

	subgraph := &Subgraph{Nodes: []graph.Node{incident}}
	seenNodes := map[string]bool{incident.ID: true}

	for _, rel := range planned {
		outcome := RelationOutcome{FromID: rel.from, Type: rel.relType, ToID: rel.to}
		if err := p.store.UpsertRelationship(ctx, rel.from, rel.relType, rel.to); err != nil {
			outcome.Error = err.Error()
			result.FailedRelations = append(result.FailedRelations, outcome)
			p.logger.Warn("relation write failed",
				"from", rel.from, "type", rel.relType.String(), "to", rel.to, "error", err)
			continue
		}
		result.CreatedRelations = append(result.CreatedRelations, outcome)
		subgraph.Edges = append(subgraph.Edges, SubgraphEdge{
			FromID: rel.from, Type: rel.relType.String(), ToID: rel.to,
		})

		for _, id := range []string{rel.from, rel.to} {
			if seenNodes[id] {
				continue
			}
			seenNodes[id] = true
			if node, err := p.store.GetNodeByID(ctx, id); err == nil {
				subgraph.Nodes = append(subgraph.Nodes, node)
			}
		}
	}

	result.Subgraph = subgraph
	p.logger.Info("incident committed",
		"incident_id", incident.ID,
		"created_relations", len(result.CreatedRelations),
		"failed_relations", len(result.FailedRelations))

	return result, nil
}
