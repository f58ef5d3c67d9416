package store

import (
	"context"
	"strings"
	"testing"

	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/schema"
	"github.com/Ravou/Neurograph/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaGuard_Apply(t *testing.T) {
	mock := graph.NewMockGraphClient()
	require.NoError(t, mock.Connect(context.Background()))

	guard := NewSchemaGuard(mock, nil)
	require.NoError(t, guard.Apply(context.Background()))

	writes := mock.GetCallsByMethod("Write")
	wantStatements := len(schema.Constraints()) + len(schema.Indexes()) + len(schema.FullTextIndexes())
	require.Len(t, writes, wantStatements)

	// Every declaration is idempotent.
	for _, call := range writes {
		stmt := call.Args[0].(string)
		assert.Contains(t, stmt, "IF NOT EXISTS", stmt)
	}

	// The full-text index covers incident title and description.
	last := writes[len(writes)-1].Args[0].(string)
	assert.True(t, strings.HasPrefix(last, "CREATE FULLTEXT INDEX incident_search"))
	assert.Contains(t, last, "n.`title`")
	assert.Contains(t, last, "n.`description`")
}

func TestSchemaGuard_Apply_Reapply(t *testing.T) {
	mock := graph.NewMockGraphClient()
	require.NoError(t, mock.Connect(context.Background()))

	guard := NewSchemaGuard(mock, nil)
	require.NoError(t, guard.Apply(context.Background()))
	require.NoError(t, guard.Apply(context.Background()))
}

func TestSchemaGuard_Apply_FatalOnRejection(t *testing.T) {
	mock := graph.NewMockGraphClient()
	require.NoError(t, mock.Connect(context.Background()))
	mock.SetError("Write", types.NewError(graph.ErrCodeGraphQueryFailed, "existing duplicate keys"))

	guard := NewSchemaGuard(mock, nil)
	err := guard.Apply(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsCode(err, ErrCodeSchemaSetupFailed))
}
