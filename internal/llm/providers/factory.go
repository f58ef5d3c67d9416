package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/Ravou/Neurograph/internal/types"
)

// NewProvider creates a completion provider from its configuration.
func NewProvider(cfg llm.ProviderConfig) (llm.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case llm.ProviderAnthropic:
		return NewAnthropicProvider(cfg)
	case llm.ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case llm.ProviderOllama:
		return NewOllamaProvider(cfg)
	case llm.ProviderMock:
		return NewMockProvider(nil), nil
	default:
		return nil, types.NewError(llm.ErrCodeUnknownProvider,
			fmt.Sprintf("unknown provider type: %s", cfg.Type))
	}
}

// probeHealth issues a minimal completion to verify connectivity.
func probeHealth(ctx context.Context, p llm.Provider, name string) types.HealthStatus {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := p.Complete(probeCtx, llm.CompletionRequest{
		Messages:  []llm.Message{llm.NewUserMessage("ping")},
		MaxTokens: 1,
	})
	if err != nil {
		return types.Unhealthy(fmt.Sprintf("%s probe failed: %v", name, err))
	}

	return types.Healthy(fmt.Sprintf("%s reachable", name))
}
