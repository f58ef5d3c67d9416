package llm

import (
	"fmt"
	"strings"

	"github.com/Ravou/Neurograph/internal/types"
)

// Error codes for provider operations.
const (
	ErrCodeProviderAuth        types.ErrorCode = "LLM_PROVIDER_AUTH"
	ErrCodeProviderUnavailable types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrCodeProviderRateLimited types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"
	ErrCodeInvalidResponse     types.ErrorCode = "LLM_INVALID_RESPONSE"
	ErrCodeInvalidConfig       types.ErrorCode = "LLM_INVALID_CONFIG"
	ErrCodeUnknownProvider     types.ErrorCode = "LLM_UNKNOWN_PROVIDER"
)

// NewAuthError reports a missing or rejected credential for a provider.
func NewAuthError(provider string) error {
	return types.NewError(ErrCodeProviderAuth,
		fmt.Sprintf("missing or invalid credentials for provider %s", provider))
}

// TranslateError maps a provider SDK error onto a structured error.
// Rate limits and timeouts are marked retryable.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		e := types.NewRetryableError(ErrCodeProviderRateLimited,
			fmt.Sprintf("provider %s rate limited", provider))
		e.Cause = err
		return e
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "connection refused"):
		e := types.NewRetryableError(ErrCodeProviderUnavailable,
			fmt.Sprintf("provider %s unavailable", provider))
		e.Cause = err
		return e
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "401"),
		strings.Contains(msg, "invalid api key"), strings.Contains(msg, "authentication"):
		return types.WrapError(ErrCodeProviderAuth,
			fmt.Sprintf("provider %s rejected credentials", provider), err)
	default:
		return types.WrapError(types.MODEL_INVOCATION_FAILED,
			fmt.Sprintf("provider %s completion failed", provider), err)
	}
}
