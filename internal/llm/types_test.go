package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Validate(t *testing.T) {
	assert.NoError(t, NewSystemMessage("extract incidents").Validate())
	assert.NoError(t, NewUserMessage("the db is down").Validate())
	assert.NoError(t, NewAssistantMessage("{}").Validate())

	assert.Error(t, Message{Role: "tool", Content: "x"}.Validate())
	assert.Error(t, Message{Role: RoleUser}.Validate())
}

func TestCompletionRequest_Validate(t *testing.T) {
	valid := CompletionRequest{
		Messages: []Message{
			NewSystemMessage("extract"),
			NewUserMessage("db down"),
		},
		Temperature: 0.2,
		MaxTokens:   512,
	}
	require.NoError(t, valid.Validate())

	assert.Error(t, CompletionRequest{}.Validate())

	bad := valid
	bad.Temperature = 3
	assert.Error(t, bad.Validate())

	bad = valid
	bad.MaxTokens = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Messages = []Message{{Role: RoleUser}}
	assert.Error(t, bad.Validate())
}

func TestProviderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ProviderConfig
		wantErr bool
	}{
		{
			name:   "openai",
			config: ProviderConfig{Type: ProviderOpenAI, Model: "gpt-4o", Temperature: 0.2},
		},
		{
			name:   "ollama with base url",
			config: ProviderConfig{Type: ProviderOllama, BaseURL: "http://localhost:11434"},
		},
		{
			name:    "ollama without base url",
			config:  ProviderConfig{Type: ProviderOllama},
			wantErr: true,
		},
		{
			name:    "empty type",
			config:  ProviderConfig{},
			wantErr: true,
		},
		{
			name:    "unknown type",
			config:  ProviderConfig{Type: "perplexity9000"},
			wantErr: true,
		},
		{
			name:    "temperature out of range",
			config:  ProviderConfig{Type: ProviderMock, Temperature: 2.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
