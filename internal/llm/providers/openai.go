package providers

import (
	"context"
	"os"

	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/Ravou/Neurograph/internal/types"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider implements llm.Provider for OpenAI models.
type OpenAIProvider struct {
	client *openai.LLM
	config llm.ProviderConfig
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("openai")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}

	return &OpenAIProvider{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete sends a completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, types.WrapError(llm.ErrCodeInvalidConfig, "invalid completion request", err)
	}

	resp, err := p.client.GenerateContent(ctx, toLangchainMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}

	return fromLangchainResponse(resp, req.Model), nil
}

// Health checks provider connectivity with a minimal completion.
func (p *OpenAIProvider) Health(ctx context.Context) types.HealthStatus {
	return probeHealth(ctx, p, "openai")
}
