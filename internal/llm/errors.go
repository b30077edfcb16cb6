package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rampart-ai/rampart/internal/types"
)

// LLM error codes follow the Rampart error pattern
const (
	// Provider errors
	ErrProviderNotFound     types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed   types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnavailable  types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"

	// Request errors
	ErrInvalidRequest types.ErrorCode = "LLM_INVALID_REQUEST"

	// Completion errors
	ErrCompletionFailed    types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrStreamingFailed     types.ErrorCode = "LLM_STREAMING_FAILED"
	ErrResponseParseFailed types.ErrorCode = "LLM_RESPONSE_PARSE_FAILED"
	ErrTimeoutExceeded     types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"

	// Network errors
	ErrNetworkFailed types.ErrorCode = "LLM_NETWORK_FAILED"
)

// IsRetryable determines if an error is transient and may succeed on retry.
func IsRetryable(err error) bool {
	var rErr *types.RampartError
	if !errors.As(err, &rErr) {
		return false
	}

	if rErr.Retryable {
		return true
	}

	switch rErr.Code {
	case ErrNetworkFailed, ErrProviderRateLimited, ErrProviderUnavailable, ErrTimeoutExceeded:
		return true
	default:
		return false
	}
}

// NewProviderNotFoundError creates an error for when a provider is not found
func NewProviderNotFoundError(providerName string) *types.RampartError {
	return types.NewError(ErrProviderNotFound, "provider not found: "+providerName)
}

// NewProviderUnavailableError creates a retryable error for when a provider
// is temporarily unavailable
func NewProviderUnavailableError(providerName string, cause error) *types.RampartError {
	return types.WrapRetryableError(ErrProviderUnavailable,
		"provider temporarily unavailable: "+providerName, cause)
}

// NewProviderUnauthorizedError creates an unauthorized provider error
func NewProviderUnauthorizedError(providerName string, cause error) *types.RampartError {
	return types.WrapError(ErrProviderUnauthorized,
		fmt.Sprintf("provider '%s' authentication failed", providerName), cause)
}

// NewRateLimitError creates a retryable error for rate limiting
func NewRateLimitError(providerName string) *types.RampartError {
	return types.NewRetryableError(ErrProviderRateLimited,
		"rate limit exceeded for provider: "+providerName)
}

// NewInvalidRequestError creates an error for invalid requests
func NewInvalidRequestError(message string) *types.RampartError {
	return types.NewError(ErrInvalidRequest, message)
}

// NewTimeoutError creates a retryable error for timeout failures
func NewTimeoutError(message string) *types.RampartError {
	return types.NewRetryableError(ErrTimeoutExceeded, message)
}

// NewNetworkError creates a retryable error for network failures
func NewNetworkError(message string, cause error) *types.RampartError {
	return types.WrapRetryableError(ErrNetworkFailed, message, cause)
}

// NewAuthError creates an authentication error for provider integration
func NewAuthError(provider string, err error) error {
	return NewProviderUnauthorizedError(provider, err)
}

// NewProviderError creates a generic provider error
func NewProviderError(provider string, err error) error {
	if err == nil {
		return NewProviderUnavailableError(provider, fmt.Errorf("unknown error"))
	}
	return NewProviderUnavailableError(provider, err)
}

// TranslateError translates generic errors into Rampart errors based on
// error message content. Errors that are already RampartErrors pass through.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var rErr *types.RampartError
	if errors.As(err, &rErr) {
		return err
	}

	lowerMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return NewProviderUnauthorizedError(provider, err)
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests"):
		return NewRateLimitError(provider)
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return NewTimeoutError(err.Error())
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return NewNetworkError(err.Error(), err)
	default:
		return NewProviderUnavailableError(provider, err)
	}
}
