package providers

import (
	"context"
	"testing"

	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/Ravou/Neurograph/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Complete(t *testing.T) {
	mock := NewMockProvider([]string{`{"a": 1}`, `{"b": 2}`})
	ctx := context.Background()

	req := llm.CompletionRequest{
		Messages: []llm.Message{llm.NewUserMessage("extract")},
	}

	first, err := mock.Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, first.Message.Content)
	assert.Equal(t, llm.RoleAssistant, first.Message.Role)

	second, err := mock.Complete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, `{"b": 2}`, second.Message.Content)

	// Exhausted queue fails the invocation.
	_, err = mock.Complete(ctx, req)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.MODEL_INVOCATION_FAILED))

	assert.Len(t, mock.Calls(), 3)
}

func TestMockProvider_SetError(t *testing.T) {
	mock := NewMockProvider([]string{"unused"})
	injected := types.NewError(types.MODEL_INVOCATION_FAILED, "model exploded")
	mock.SetError(injected)

	_, err := mock.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{llm.NewUserMessage("extract")},
	})
	assert.ErrorIs(t, err, injected)
	assert.True(t, mock.Health(context.Background()).IsUnhealthy())

	mock.SetError(nil)
	assert.True(t, mock.Health(context.Background()).IsHealthy())
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(llm.ProviderConfig{Type: llm.ProviderMock})
	require.NoError(t, err)
	assert.Equal(t, "mock", provider.Name())

	_, err = NewProvider(llm.ProviderConfig{Type: "unknown"})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, llm.ErrCodeInvalidConfig))

	_, err = NewProvider(llm.ProviderConfig{Type: llm.ProviderOllama})
	require.Error(t, err)
}
