package resolver

import (
	"context"
	"testing"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/retrieval"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededResolver(t *testing.T) *Resolver {
	t.Helper()
	ctx := context.Background()

	mock := graph.NewMockGraphClient()
	require.NoError(t, mock.Connect(ctx))
	for _, decl := range schema.FullTextIndexes() {
		mock.RegisterFullTextIndex(decl.Name, decl.Label.String(), decl.Properties)
	}

	s := store.NewContextStore(mock, nil)
	seed := []struct {
		label schema.Label
		key   string
		props map[string]any
	}{
		{schema.LabelBusinessService, "1", map[string]any{"name": "RSE-Platform"}},
		{schema.LabelCloudResource, "r1", map[string]any{"name": "rse-app-prod"}},
		{schema.LabelCategory, "c1", map[string]any{"name": "Infrastructure"}},
		{schema.LabelSubCategory, "sc1", map[string]any{"name": "Database"}},
		{schema.LabelUrgency, "1", map[string]any{"name": "Critical"}},
		{schema.LabelUrgency, "2", map[string]any{"name": "High"}},
		{schema.LabelImpact, "1", map[string]any{"name": "Widespread"}},
		{schema.LabelUser, "u1", map[string]any{"name": "Sam Carter", "email": "sam@example.com"}},
	}
	for _, n := range seed {
		_, err := s.UpsertNode(ctx, n.label, n.key, n.props)
		require.NoError(t, err)
	}

	engine := retrieval.NewEngine(s, nil)
	r, err := NewResolver(s, engine, 0, nil)
	require.NoError(t, err)
	return r
}

func TestResolver_ExactKey(t *testing.T) {
	r := seededResolver(t)

	res, err := r.Resolve(context.Background(), Reference{schema.LabelCloudResource, "r1"})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, res.Status)
	assert.Equal(t, "cloudresource:r1", res.NodeID)
	assert.Equal(t, retrieval.ExactMatchScore, res.Score)
}

func TestResolver_NameEquality(t *testing.T) {
	r := seededResolver(t)

	res, err := r.Resolve(context.Background(), Reference{schema.LabelBusinessService, "rse-platform"})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, res.Status)
	assert.Equal(t, "businessservice:1", res.NodeID)
	assert.Equal(t, "RSE-Platform", res.Name)
}

func TestResolver_PrefixAboveThreshold(t *testing.T) {
	r := seededResolver(t)

	res, err := r.Resolve(context.Background(), Reference{schema.LabelCloudResource, "rse-app"})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, res.Status)
	assert.Equal(t, "cloudresource:r1", res.NodeID)
	assert.Equal(t, retrieval.PrefixMatchScore, res.Score)
}

func TestResolver_ClosedLabelNeverFabricated(t *testing.T) {
	r := seededResolver(t)

	res, err := r.Resolve(context.Background(), Reference{schema.LabelCategory, "Networking"})
	require.NoError(t, err)
	assert.Equal(t, StatusUnresolved, res.Status)
	assert.Nil(t, res.Proposal)
}

func TestResolver_OpenLabelProposesNew(t *testing.T) {
	r := seededResolver(t)

	res, err := r.Resolve(context.Background(), Reference{schema.LabelBusinessService, "Payments Gateway"})
	require.NoError(t, err)
	assert.Equal(t, StatusProposedNew, res.Status)
	require.NotNil(t, res.Proposal)
	assert.Equal(t, schema.LabelBusinessService, res.Proposal.Label)
	assert.Equal(t, "payments-gateway", res.Proposal.Key)
	assert.Equal(t, "Payments Gateway", res.Proposal.Props["name"])
}

func TestResolver_Severity(t *testing.T) {
	r := seededResolver(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		ref        Reference
		wantStatus ResolutionStatus
		wantNodeID string
	}{
		{
			name:       "critical maps to urgency level 1",
			ref:        Reference{schema.LabelUrgency, "critical"},
			wantStatus: StatusResolved,
			wantNodeID: "urgency:1",
		},
		{
			name:       "P1 maps to urgency level 1",
			ref:        Reference{schema.LabelUrgency, "P1"},
			wantStatus: StatusResolved,
			wantNodeID: "urgency:1",
		},
		{
			name:       "bare digit passes through",
			ref:        Reference{schema.LabelUrgency, "2"},
			wantStatus: StatusResolved,
			wantNodeID: "urgency:2",
		},
		{
			name:       "customers blocked maps to impact level 1",
			ref:        Reference{schema.LabelImpact, "customers blocked"},
			wantStatus: StatusResolved,
			wantNodeID: "impact:1",
		},
		{
			name:       "ambiguous word stays unresolved",
			ref:        Reference{schema.LabelUrgency, "pretty bad"},
			wantStatus: StatusUnresolved,
		},
		{
			name:       "known word with unseeded level stays unresolved",
			ref:        Reference{schema.LabelImpact, "cosmetic"},
			wantStatus: StatusUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantNodeID, res.NodeID)
		})
	}
}

func TestResolver_EmptyText(t *testing.T) {
	r := seededResolver(t)

	res, err := r.Resolve(context.Background(), Reference{schema.LabelUser, "  "})
	require.NoError(t, err)
	assert.Equal(t, StatusUnresolved, res.Status)
}

func TestProposalKey(t *testing.T) {
	assert.Equal(t, "payments-gateway", proposalKey("Payments Gateway"))
	assert.Equal(t, "rse-db-prod", proposalKey("rse-db-prod"))
	assert.Equal(t, "a-b", proposalKey("  a  &  b  "))
}

func TestSeverityLexicon_Load(t *testing.T) {
	lexicon, err := loadSeverityLexicon()
	require.NoError(t, err)

	level, ok := lexicon.LevelFor(schema.LabelUrgency, " Critical ")
	assert.True(t, ok)
	assert.Equal(t, 1, level)

	_, ok = lexicon.LevelFor(schema.LabelUrgency, "5")
	assert.False(t, ok)

	_, ok = lexicon.LevelFor(schema.LabelIncident, "critical")
	assert.False(t, ok)
}
