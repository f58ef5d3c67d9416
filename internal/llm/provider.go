// Package llm provides the text-completion boundary used by the incident
// proposal pipeline. A Provider is an opaque single request-response
// service; structured-output parsing and validation live with the callers.
package llm

import (
	"context"

	"github.com/Ravou/Neurograph/internal/types"
)

// Provider defines the interface that all completion providers implement.
type Provider interface {
	// Name returns the provider name (e.g., "anthropic", "openai", "ollama").
	Name() string

	// Complete sends a completion request and blocks for the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health checks connectivity to the provider.
	Health(ctx context.Context) types.HealthStatus
}
