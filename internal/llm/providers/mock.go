package providers

import (
	"context"
	"sync"

	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/Ravou/Neurograph/internal/types"
	"github.com/google/uuid"
)

// MockCall records one completion request made against the mock.
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements llm.Provider for testing. Responses are served
// from a FIFO queue; an empty queue is a model-invocation failure.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     []MockCall
}

// NewMockProvider creates a mock with the given response queue.
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{
		responses: append([]string{}, responses...),
		calls:     make([]MockCall, 0),
	}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete pops the next queued response.
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, MockCall{Request: req})

	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return nil, types.NewError(types.MODEL_INVOCATION_FAILED,
			"mock provider has no responses configured")
	}

	response := p.responses[0]
	p.responses = p.responses[1:]

	return &llm.CompletionResponse{
		ID:           uuid.New().String(),
		Model:        req.Model,
		Message:      llm.NewAssistantMessage(response),
		FinishReason: llm.FinishReasonStop,
		Usage: llm.TokenUsage{
			PromptTokens:     10,
			CompletionTokens: len(response) / 4,
			TotalTokens:      10 + len(response)/4,
		},
	}, nil
}

// Health reports healthy unless an error is configured.
func (p *MockProvider) Health(ctx context.Context) types.HealthStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return types.Unhealthy("mock provider error configured")
	}
	return types.Healthy("mock provider")
}

// EnqueueResponse appends a response to the queue.
func (p *MockProvider) EnqueueResponse(response string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, response)
}

// SetError configures Complete to fail. Pass nil to clear.
func (p *MockProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Calls returns all recorded requests.
func (p *MockProvider) Calls() []MockCall {
	p.mu.Lock()
	defer p.mu.Unlock()

	calls := make([]MockCall, len(p.calls))
	copy(calls, p.calls)
	return calls
}
