package proposal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/llm/providers"
	"github.com/Ravou/Neurograph/internal/resolver"
	"github.com/Ravou/Neurograph/internal/retrieval"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/store"
	"github.com/Ravou/Neurograph/internal/types"
)

type pipelineFixture struct {
	pipeline *Pipeline
	provider *providers.MockProvider
	client   *graph.MockGraphClient
	store    store.Store
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	ctx := context.Background()

	client := graph.NewMockGraphClient()
	require.NoError(t, client.Connect(ctx))
	for _, decl := range schema.FullTextIndexes() {
		client.RegisterFullTextIndex(decl.Name, decl.Label.String(), decl.Properties)
	}

	s := store.NewContextStore(client, nil)
	seed := []struct {
		label schema.Label
		key   string
		props map[string]any
	}{
		{schema.LabelBusinessService, "1", map[string]any{"name": "RSE-Platform"}},
		{schema.LabelCloudResource, "r1", map[string]any{"name": "rse-app-prod"}},
		{schema.LabelCategory, "c1", map[string]any{"name": "Infrastructure"}},
		{schema.LabelUser, "u1", map[string]any{"name": "Sam Carter", "email": "sam@example.com"}},
		{schema.LabelUrgency, "1", map[string]any{"name": "Critical"}},
		{schema.LabelUrgency, "2", map[string]any{"name": "High"}},
		{schema.LabelImpact, "1", map[string]any{"name": "Widespread"}},
		{schema.LabelImpact, "2", map[string]any{"name": "Significant"}},
	}
	for _, n := range seed {
		_, err := s.UpsertNode(ctx, n.label, n.key, n.props)
		require.NoError(t, err)
	}

	engine := retrieval.NewEngine(s, nil)
	res, err := resolver.NewResolver(s, engine, resolver.DefaultThreshold, nil)
	require.NoError(t, err)

	provider := providers.NewMockProvider(nil)
	p := NewPipeline(s, engine, res, provider, nil)
	p.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	p.newKey = func() string { return "INC-fixed001" }

	return &pipelineFixture{pipeline: p, provider: provider, client: client, store: s}
}

func TestPipeline_Run_CommitsIncidentWithRelations(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.EnqueueResponse(`{
		"title": "RSE-Platform outage",
		"description": "Primary database for RSE-Platform is unreachable.",
		"urgency": "critical",
		"impact": "customers blocked",
		"service": "RSE-Platform",
		"resources": ["rse-app-prod"],
		"assignee": "sam@example.com"
	}`)

	result, err := fx.pipeline.Run(context.Background(), Request{
		UserText: "RSE-Platform is down, customers cannot log in at all",
	})
	require.NoError(t, err)
	require.Equal(t, StatusCommitted, result.Status)
	assert.Equal(t, "incident:INC-fixed001", result.IncidentID)
	assert.Equal(t, "INC-fixed001", result.IncidentKey)
	assert.Empty(t, result.UnresolvedFields)
	assert.Empty(t, result.FailedRelations)

	node, err := fx.store.GetNodeByID(context.Background(), result.IncidentID)
	require.NoError(t, err)
	assert.Equal(t, "RSE-Platform outage", node.Props["title"])
	assert.Equal(t, "open", node.Props["status"])
	assert.Equal(t, "P1", node.Props["priority"])
	assert.Equal(t, "2026-03-14T09:30:00Z", node.Props["created_at"])
	assert.Equal(t, schema.SourceLLMProposal, node.Props["source"])

	// Severity words map through the lexicon to level nodes.
	assert.Equal(t, 1, fx.client.EdgeCount(result.IncidentID, "HAS_URGENCY", "urgency:1"))
	assert.Equal(t, 1, fx.client.EdgeCount(result.IncidentID, "HAS_IMPACT", "impact:1"))
	assert.Equal(t, 1, fx.client.EdgeCount(result.IncidentID, "RELATES_TO_SERVICE", "businessservice:1"))
	assert.Equal(t, 1, fx.client.EdgeCount(result.IncidentID, "AFFECTS", "cloudresource:r1"))
	assert.Equal(t, 1, fx.client.EdgeCount("user:u1", "ASSIGNED_TO", result.IncidentID))

	require.NotNil(t, result.Subgraph)
	assert.Len(t, result.Subgraph.Edges, len(result.CreatedRelations))
	assert.GreaterOrEqual(t, len(result.Subgraph.Nodes), 5)
}

func TestPipeline_Run_AmbiguousSeverityDegradesToDraft(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.EnqueueResponse(`{
		"title": "Something feels off",
		"description": "Users report the app is pretty bad today.",
		"urgency": "pretty bad",
		"impact": "",
		"service": "RSE-Platform"
	}`)

	result, err := fx.pipeline.Run(context.Background(), Request{
		UserText: "the app feels pretty bad today",
	})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, result.Status)
	assert.ElementsMatch(t, []string{"urgency", "impact"}, result.UnresolvedFields)
	require.NotNil(t, result.Extraction)
	assert.Equal(t, "Something feels off", result.Extraction.Title)

	// A draft writes nothing.
	_, err = fx.store.GetNode(context.Background(), schema.LabelIncident, "INC-fixed001")
	assert.True(t, types.IsCode(err, types.NOT_FOUND))
	assert.Empty(t, fx.client.GetCallsByMethod("UpsertRelationship"))
}

func TestPipeline_Run_MissingTitleDegradesToDraft(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.EnqueueResponse(`{
		"title": "",
		"description": "desc",
		"urgency": "critical",
		"impact": "widespread"
	}`)

	result, err := fx.pipeline.Run(context.Background(), Request{UserText: "vague report"})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, result.Status)
	assert.Equal(t, []string{"title"}, result.UnresolvedFields)
}

func TestPipeline_Run_ModelFailureWritesNothing(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.SetError(errors.New("rate limit exceeded"))
	upserts := len(fx.client.GetCallsByMethod("UpsertNode"))

	result, err := fx.pipeline.Run(context.Background(), Request{UserText: "anything"})
	require.Error(t, err)
	assert.Nil(t, result)

	assert.Len(t, fx.client.GetCallsByMethod("UpsertNode"), upserts)
	assert.Empty(t, fx.client.GetCallsByMethod("UpsertRelationship"))
}

func TestPipeline_Run_MalformedResponseIsInvocationFailure(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.EnqueueResponse("I could not produce structured output, sorry.")
	upserts := len(fx.client.GetCallsByMethod("UpsertNode"))

	result, err := fx.pipeline.Run(context.Background(), Request{UserText: "anything"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, types.IsCode(err, types.MODEL_INVOCATION_FAILED))

	assert.Len(t, fx.client.GetCallsByMethod("UpsertNode"), upserts)
}

func TestPipeline_Run_UnknownServiceBecomesProposal(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.EnqueueResponse(`{
		"title": "Payments Gateway errors",
		"description": "5xx spike on checkout.",
		"urgency": "high",
		"impact": "customers affected",
		"service": "Payments Gateway"
	}`)

	result, err := fx.pipeline.Run(context.Background(), Request{
		UserText: "checkout is throwing errors",
	})
	require.NoError(t, err)
	require.Equal(t, StatusCommitted, result.Status)

	// An unmatched open-label entity is proposed, never silently created.
	require.Len(t, result.NewEntityProposals, 1)
	assert.Equal(t, schema.LabelBusinessService, result.NewEntityProposals[0].Label)
	assert.Equal(t, "payments-gateway", result.NewEntityProposals[0].Key)

	for _, rel := range result.CreatedRelations {
		assert.NotEqual(t, schema.RelationRelatesToService, rel.Type)
	}
	assert.Equal(t, "P2", mustNodeProp(t, fx.store, result.IncidentID, "priority"))
}

func TestPipeline_Run_RelationFailureKeepsIncident(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.EnqueueResponse(`{
		"title": "RSE-Platform outage",
		"description": "down",
		"urgency": "critical",
		"impact": "widespread",
		"service": "RSE-Platform"
	}`)
	fx.client.SetError("UpsertRelationship", errors.New("write conflict"))

	result, err := fx.pipeline.Run(context.Background(), Request{
		UserText: "RSE-Platform is down",
	})
	require.NoError(t, err)
	require.Equal(t, StatusCommitted, result.Status)
	assert.Empty(t, result.CreatedRelations)
	assert.NotEmpty(t, result.FailedRelations)
	for _, rel := range result.FailedRelations {
		assert.Contains(t, rel.Error, "write conflict")
	}

	// The incident node survives partial relation failure.
	_, err = fx.store.GetNodeByID(context.Background(), result.IncidentID)
	assert.NoError(t, err)
}

func TestPipeline_Run_EmptyUserText(t *testing.T) {
	fx := newPipelineFixture(t)

	_, err := fx.pipeline.Run(context.Background(), Request{UserText: "   "})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.MODEL_INVOCATION_FAILED))
	assert.Empty(t, fx.provider.Calls())
}

func TestPipeline_Run_ContextIncludedInPrompt(t *testing.T) {
	fx := newPipelineFixture(t)
	fx.provider.EnqueueResponse(`{"title":"t","description":"d","urgency":"critical","impact":"widespread"}`)

	_, err := fx.pipeline.Run(context.Background(), Request{
		UserText:      "report text",
		SearchContext: "rse-platform",
	})
	require.NoError(t, err)

	calls := fx.provider.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Request.Messages, 2)
	assert.Contains(t, calls[0].Request.Messages[1].Content, "report text")
	assert.Contains(t, calls[0].Request.Messages[1].Content, "RSE-Platform")
}

func mustNodeProp(t *testing.T, s store.Store, nodeID, prop string) string {
	t.Helper()
	node, err := s.GetNodeByID(context.Background(), nodeID)
	require.NoError(t, err)
	v, _ := node.Props[prop].(string)
	return v
}
