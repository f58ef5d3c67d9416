package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ravou/Neurograph/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  GraphClientConfig
		wantErr bool
		errCode types.ErrorCode
	}{
		{
			name: "valid config",
			config: GraphClientConfig{
				URI:                     "bolt://localhost:7687",
				Username:                "neo4j",
				Password:                "password",
				ConnectionTimeout:       30 * time.Second,
				MaxTransactionRetryTime: 30 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "empty URI",
			config: GraphClientConfig{
				URI:                     "",
				Username:                "neo4j",
				Password:                "password",
				ConnectionTimeout:       30 * time.Second,
				MaxTransactionRetryTime: 30 * time.Second,
			},
			wantErr: true,
			errCode: ErrCodeGraphInvalidConfig,
		},
		{
			name: "empty username",
			config: GraphClientConfig{
				URI:                     "bolt://localhost:7687",
				Username:                "",
				Password:                "password",
				ConnectionTimeout:       30 * time.Second,
				MaxTransactionRetryTime: 30 * time.Second,
			},
			wantErr: true,
			errCode: ErrCodeGraphInvalidConfig,
		},
		{
			name: "empty password",
			config: GraphClientConfig{
				URI:                     "bolt://localhost:7687",
				Username:                "neo4j",
				Password:                "",
				ConnectionTimeout:       30 * time.Second,
				MaxTransactionRetryTime: 30 * time.Second,
			},
			wantErr: true,
			errCode: ErrCodeGraphInvalidConfig,
		},
		{
			name: "invalid connection timeout",
			config: GraphClientConfig{
				URI:                     "bolt://localhost:7687",
				Username:                "neo4j",
				Password:                "password",
				ConnectionTimeout:       0,
				MaxTransactionRetryTime: 30 * time.Second,
			},
			wantErr: true,
			errCode: ErrCodeGraphInvalidConfig,
		},
		{
			name: "invalid retry timeout",
			config: GraphClientConfig{
				URI:                     "bolt://localhost:7687",
				Username:                "neo4j",
				Password:                "password",
				ConnectionTimeout:       30 * time.Second,
				MaxTransactionRetryTime: -1 * time.Second,
			},
			wantErr: true,
			errCode: ErrCodeGraphInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err)
				var graphErr *types.GraphError
				if errors.As(err, &graphErr) {
					assert.Equal(t, tt.errCode, graphErr.Code)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "bolt://localhost:7687", config.URI)
	assert.Equal(t, "neo4j", config.Username)
	assert.Equal(t, "password", config.Password)
	assert.Equal(t, "", config.Database)
	assert.Equal(t, 50, config.MaxConnectionPoolSize)
	assert.Equal(t, 30*time.Second, config.ConnectionTimeout)
	assert.Equal(t, 30*time.Second, config.MaxTransactionRetryTime)

	require.NoError(t, config.Validate())
}

func TestNewNeo4jClient_InvalidConfig(t *testing.T) {
	_, err := NewNeo4jClient(GraphClientConfig{})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, ErrCodeGraphInvalidConfig))
}

func TestNeo4jClient_NotConnected(t *testing.T) {
	client, err := NewNeo4jClient(DefaultConfig())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = client.Query(ctx, "RETURN 1", nil)
	assert.True(t, types.IsCode(err, ErrCodeGraphConnectionClosed))

	_, err = client.UpsertNode(ctx, "Incident", "incident:INC-1", nil)
	assert.True(t, types.IsCode(err, ErrCodeGraphConnectionClosed))

	err = client.UpsertRelationship(ctx, "a", "AFFECTS", "b", nil)
	assert.True(t, types.IsCode(err, ErrCodeGraphConnectionClosed))

	status := client.Health(ctx)
	assert.True(t, status.IsUnhealthy())

	// Close on a never-connected client is a no-op.
	require.NoError(t, client.Close(ctx))
}

func TestNodeFromValues(t *testing.T) {
	node := nodeFromValues(
		[]any{"Incident"},
		map[string]any{"id": "incident:INC-7", "title": "db outage"},
	)

	assert.Equal(t, "incident:INC-7", node.ID)
	assert.Equal(t, []string{"Incident"}, node.Labels)
	assert.Equal(t, "db outage", node.Props["title"])
}

func TestNodeFromValues_MalformedRecord(t *testing.T) {
	node := nodeFromValues(nil, nil)

	assert.Empty(t, node.ID)
	assert.Empty(t, node.Labels)
	assert.NotNil(t, node.Props)
}
