package providers

import (
	"fmt"

	"github.com/rampart-ai/rampart/internal/llm"
)

// Config holds provider construction parameters. Sensitive values (API keys)
// come from the environment when left empty.
type Config struct {
	// Provider selects the implementation: "openai", "ollama", or "mock"
	Provider string

	// Model is the default model identifier
	Model string

	// APIKey authenticates against the provider, if required
	APIKey string

	// BaseURL overrides the provider endpoint (Azure deployments, proxies,
	// or a non-default Ollama server)
	BaseURL string
}

// New constructs an llm.Provider from the config.
func New(cfg Config) (llm.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	case "mock":
		return NewMockProvider([]string{`{"decision": "SAFE", "reason": "mock verdict", "source_files": []}`}), nil
	default:
		return nil, llm.NewProviderNotFoundError(fmt.Sprintf("%q (want openai, ollama, or mock)", cfg.Provider))
	}
}
