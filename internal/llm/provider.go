package llm

import (
	"context"

	"github.com/rampart-ai/rampart/internal/types"
)

// Provider defines the interface that all LLM providers must implement.
// It provides a unified abstraction for interacting with different LLM
// services (OpenAI, local Ollama models, test doubles).
type Provider interface {
	// Name returns the provider name (e.g., "openai", "ollama", "mock")
	Name() string

	// Complete sends a completion request and returns the full response.
	// This is a blocking call that waits for the entire response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Stream sends a completion request and streams the response as it is
	// generated. The returned channel emits StreamChunk items until
	// completion or error, then closes. Canceling ctx terminates the stream.
	Stream(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error)

	// Health checks the health status of the provider and its connectivity
	Health(ctx context.Context) types.HealthStatus
}
