package config

import (
	"fmt"
	"strings"

	"github.com/rampart-ai/rampart/internal/types"
)

// Validator checks a Config for startup-fatal problems.
type Validator interface {
	Validate(cfg *Config) error
}

// validator implements Validator.
type validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() Validator {
	return &validator{}
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "text": true}
	validProviders  = map[string]bool{"openai": true, "ollama": true, "mock": true}
	validBackends   = map[string]bool{"memory": true, "typesense": true}
)

// Validate checks the configuration and collects every problem found, so a
// bad config file is fixed in one pass instead of one restart per field.
func (v *validator) Validate(cfg *Config) error {
	if cfg == nil {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "config is nil")
	}

	var problems []string

	if !validLogLevels[cfg.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level))
	}
	if !validLogFormats[cfg.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of json, text", cfg.Logging.Format))
	}

	if !validProviders[cfg.Judge.Provider] {
		problems = append(problems, fmt.Sprintf("judge.provider %q is not one of openai, ollama, mock", cfg.Judge.Provider))
	}
	if cfg.Judge.Model == "" {
		problems = append(problems, "judge.model must not be empty")
	}
	if cfg.Judge.Timeout <= 0 {
		problems = append(problems, "judge.timeout must be positive")
	}
	if cfg.Judge.Temperature < 0 || cfg.Judge.Temperature > 1 {
		problems = append(problems, "judge.temperature must be between 0 and 1")
	}

	if cfg.Generator.Provider != "" && !validProviders[cfg.Generator.Provider] {
		problems = append(problems, fmt.Sprintf("generator.provider %q is not one of openai, ollama, mock", cfg.Generator.Provider))
	}
	if cfg.Generator.Temperature < 0 || cfg.Generator.Temperature > 1 {
		problems = append(problems, "generator.temperature must be between 0 and 1")
	}

	if !validBackends[cfg.Retrieval.Backend] {
		problems = append(problems, fmt.Sprintf("retrieval.backend %q is not one of memory, typesense", cfg.Retrieval.Backend))
	}
	if cfg.Retrieval.TopK <= 0 {
		problems = append(problems, "retrieval.top_k must be positive")
	}
	if cfg.Retrieval.Backend == "typesense" && cfg.Retrieval.Typesense.URL == "" {
		problems = append(problems, "retrieval.typesense.url is required for the typesense backend")
	}

	if cfg.Context.MaxTokens <= 0 {
		problems = append(problems, "context.max_tokens must be positive")
	}

	if cfg.Stream.InitialThreshold <= 0 {
		problems = append(problems, "stream.initial_threshold must be positive")
	}
	if cfg.Stream.MaxThreshold < cfg.Stream.InitialThreshold {
		problems = append(problems, "stream.max_threshold must be >= stream.initial_threshold")
	}
	if cfg.Stream.RetryDelay < 0 {
		problems = append(problems, "stream.retry_delay must not be negative")
	}

	for role, tag := range cfg.Roles {
		if strings.TrimSpace(role) == "" {
			problems = append(problems, "roles contains an empty role identifier")
		}
		if strings.TrimSpace(tag) == "" {
			problems = append(problems, fmt.Sprintf("roles.%s maps to an empty tag", role))
		}
	}

	if len(problems) > 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, strings.Join(problems, "; "))
	}
	return nil
}
