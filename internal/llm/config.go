package llm

import (
	"fmt"

	"github.com/Ravou/Neurograph/internal/types"
)

// Provider type identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

// ProviderConfig configures a single completion provider.
type ProviderConfig struct {
	// Type selects the provider implementation.
	Type string `yaml:"type" mapstructure:"type"`

	// APIKey authenticates against the provider. Empty falls back to the
	// provider's conventional environment variable.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (required for ollama).
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Model is the default model for completions.
	Model string `yaml:"model" mapstructure:"model"`

	// Temperature for completions, 0 to 2.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the completion length. Zero uses the provider default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// Validate checks the provider configuration.
func (c ProviderConfig) Validate() error {
	switch c.Type {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama, ProviderMock:
	case "":
		return types.NewError(ErrCodeInvalidConfig, "provider type cannot be empty")
	default:
		return types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("unknown provider type: %s", c.Type))
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("temperature must be in [0, 2], got %v", c.Temperature))
	}
	if c.MaxTokens < 0 {
		return types.NewError(ErrCodeInvalidConfig, "max_tokens must not be negative")
	}
	if c.Type == ProviderOllama && c.BaseURL == "" {
		return types.NewError(ErrCodeInvalidConfig, "ollama provider requires base_url")
	}

	return nil
}
