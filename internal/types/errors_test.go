package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestRampartError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RampartError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewError(CONFIG_LOAD_FAILED, "could not read config"),
			expected: "[CONFIG_LOAD_FAILED] could not read config",
		},
		{
			name:     "with cause",
			err:      WrapError(RETRIEVAL_BACKEND_FAILED, "search failed", errors.New("connection refused")),
			expected: "[RETRIEVAL_BACKEND_FAILED] search failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestRampartError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(RETRIEVAL_TIMEOUT, "timed out", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestRampartError_Is_MatchesByCode(t *testing.T) {
	a := NewError(STREAM_TERMINAL, "stream is done")
	b := NewError(STREAM_TERMINAL, "different message, same code")
	c := NewError(STREAM_CANCELED, "other code")

	if !errors.Is(a, b) {
		t.Error("expected errors with the same code to match")
	}
	if errors.Is(a, c) {
		t.Error("expected errors with different codes not to match")
	}
}

func TestRampartError_Is_WrappedChain(t *testing.T) {
	inner := NewError(RETRIEVAL_BACKEND_FAILED, "backend down")
	outer := fmt.Errorf("evaluating input: %w", inner)

	if !errors.Is(outer, NewError(RETRIEVAL_BACKEND_FAILED, "")) {
		t.Error("expected code match through a wrapped chain")
	}
}

func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(RETRIEVAL_TIMEOUT, "transient")
	if !err.Retryable {
		t.Error("expected Retryable to be true")
	}

	err = NewError(CONFIG_PARSE_FAILED, "bad yaml")
	if err.Retryable {
		t.Error("expected Retryable to be false")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "rampart error",
			err:      NewError(CONFIG_VALIDATION_FAILED, "bad config"),
			expected: CONFIG_VALIDATION_FAILED,
		},
		{
			name:     "wrapped rampart error",
			err:      fmt.Errorf("outer: %w", NewError(STREAM_CANCELED, "canceled")),
			expected: STREAM_CANCELED,
		},
		{
			name:     "foreign error",
			err:      errors.New("plain"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.expected {
				t.Errorf("CodeOf() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
