package config

import (
	"time"

	"github.com/rampart-ai/rampart/internal/policy"
)

// DefaultConfig returns the configuration used when no config file exists.
// The defaults favor a local, dependency-free setup: mock judge, in-memory
// corpus, conservative guardrail thresholds.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Judge: JudgeConfig{
			Provider:    "mock",
			Model:       "gpt-4.1",
			Temperature: 0,
			Timeout:     30 * time.Second,
		},
		Generator: GeneratorConfig{
			Provider:    "mock",
			Model:       "gpt-4.1",
			Temperature: 0.7,
		},
		Retrieval: RetrievalConfig{
			Backend:   "memory",
			TopK:      3,
			CorpusDir: "policies",
		},
		Context: ContextConfig{
			MaxTokens: 2000,
		},
		Stream: StreamConfig{
			InitialThreshold: 50,
			MaxThreshold:     800,
			RetryDelay:       500 * time.Millisecond,
		},
		Roles: map[string]string{
			"sales":   "sales",
			"support": "support",
			"auditor": policy.RoleTagAll,
		},
	}
}
