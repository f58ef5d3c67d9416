package providers

import (
	"github.com/Ravou/Neurograph/internal/llm"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
)

// toLangchainMessages converts our messages to langchaingo MessageContent.
func toLangchainMessages(messages []llm.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))

	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		}

		result = append(result, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	return result
}

// fromLangchainResponse converts a langchaingo response to our response type.
func fromLangchainResponse(resp *llms.ContentResponse, model string) *llm.CompletionResponse {
	out := &llm.CompletionResponse{
		ID:           uuid.New().String(),
		Model:        model,
		FinishReason: llm.FinishReasonStop,
	}

	if resp == nil || len(resp.Choices) == 0 {
		out.FinishReason = llm.FinishReasonError
		return out
	}

	choice := resp.Choices[0]
	out.Message = llm.NewAssistantMessage(choice.Content)
	if choice.StopReason == "length" || choice.StopReason == "max_tokens" {
		out.FinishReason = llm.FinishReasonLength
	}

	if usage, ok := choice.GenerationInfo["CompletionTokens"].(int); ok {
		out.Usage.CompletionTokens = usage
	}
	if usage, ok := choice.GenerationInfo["PromptTokens"].(int); ok {
		out.Usage.PromptTokens = usage
	}
	if usage, ok := choice.GenerationInfo["TotalTokens"].(int); ok {
		out.Usage.TotalTokens = usage
	}

	return out
}

// buildCallOptions converts a request to langchaingo call options.
func buildCallOptions(req llm.CompletionRequest) []llms.CallOption {
	opts := make([]llms.CallOption, 0, 3)

	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	return opts
}
