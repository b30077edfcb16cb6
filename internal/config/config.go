package config

import (
	"time"
)

// Config is the root configuration for Rampart. It is constructed once at
// startup, validated, and passed by reference into each component; no
// component reads ambient global state.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Judge     JudgeConfig     `mapstructure:"judge"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Context   ContextConfig   `mapstructure:"context"`
	Stream    StreamConfig    `mapstructure:"stream"`

	// Roles maps a role identifier to the document tag it may see, in
	// addition to the role-agnostic tag. Roles absent from the map see
	// role-agnostic documents only.
	Roles map[string]string `mapstructure:"roles"`
}

// LoggingConfig controls structured logging output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`

	// Format is one of json, text
	Format string `mapstructure:"format"`
}

// JudgeConfig configures the judge model invocation.
type JudgeConfig struct {
	// Provider selects the LLM backend: openai, ollama, or mock
	Provider string `mapstructure:"provider"`

	// Model is the judge model identifier
	Model string `mapstructure:"model"`

	// BaseURL overrides the provider endpoint (Azure deployments, proxies)
	BaseURL string `mapstructure:"base_url"`

	// Temperature for judge calls; classification wants 0
	Temperature float64 `mapstructure:"temperature"`

	// Timeout bounds one judge invocation
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeneratorConfig configures the primary generation model used by the chat
// pipeline. The guardrail core itself only consumes its output stream.
type GeneratorConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`

	// Temperature for generation calls
	Temperature float64 `mapstructure:"temperature"`
}

// RetrievalConfig configures the policy document retriever.
type RetrievalConfig struct {
	// Backend selects the search client: memory or typesense
	Backend string `mapstructure:"backend"`

	// TopK is the number of documents requested per evaluation
	TopK int `mapstructure:"top_k"`

	// CorpusDir is the directory of policy text files loaded into the
	// memory backend
	CorpusDir string `mapstructure:"corpus_dir"`

	// Typesense holds connection settings for the typesense backend
	Typesense TypesenseConfig `mapstructure:"typesense"`
}

// TypesenseConfig holds Typesense connection settings.
type TypesenseConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// ContextConfig bounds the assembled policy context.
type ContextConfig struct {
	// MaxTokens is the token budget for the assembled context
	MaxTokens int `mapstructure:"max_tokens"`
}

// StreamConfig configures the streaming buffer controller.
type StreamConfig struct {
	// InitialThreshold is the buffered length triggering the first check
	InitialThreshold int `mapstructure:"initial_threshold"`

	// MaxThreshold caps threshold growth across SAFE cycles
	MaxThreshold int `mapstructure:"max_threshold"`

	// RetryDelay is the bounded delay before retrying an errored check
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}
