package providers

import (
	"context"
	"os"

	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/Ravou/Neurograph/internal/types"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// AnthropicProvider implements llm.Provider for Anthropic models.
type AnthropicProvider struct {
	client *anthropic.LLM
	config llm.ProviderConfig
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg llm.ProviderConfig) (*AnthropicProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("anthropic")
	}

	opts := []anthropic.Option{
		anthropic.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}

	return &AnthropicProvider{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Complete sends a completion request.
func (p *AnthropicProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, types.WrapError(llm.ErrCodeInvalidConfig, "invalid completion request", err)
	}

	resp, err := p.client.GenerateContent(ctx, toLangchainMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}

	return fromLangchainResponse(resp, req.Model), nil
}

// Health checks provider connectivity with a minimal completion.
func (p *AnthropicProvider) Health(ctx context.Context) types.HealthStatus {
	return probeHealth(ctx, p, "anthropic")
}
