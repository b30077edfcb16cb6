package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rampart-ai/rampart/internal/config"
	"github.com/rampart-ai/rampart/internal/guardrail"
	"github.com/rampart-ai/rampart/internal/llm"
	"github.com/rampart-ai/rampart/internal/llm/providers"
	"github.com/rampart-ai/rampart/internal/observability"
	"github.com/rampart-ai/rampart/internal/retrieval"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *guardrail.Engine

	search        retrieval.SearchClient
	judgeProvider llm.Provider
}

// buildApp wires the guardrail engine from configuration: search backend,
// role filter, retriever, judge provider, assembler.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	client, err := buildSearchClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	retriever := retrieval.NewRetriever(client, retrieval.NewRoleFilter(cfg.Roles), logger)

	judgeProvider, err := providers.New(providers.Config{
		Provider: cfg.Judge.Provider,
		Model:    cfg.Judge.Model,
		BaseURL:  cfg.Judge.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build judge provider: %w", err)
	}

	judge := guardrail.NewJudge(judgeProvider, cfg.Judge.Model, cfg.Judge.Temperature, cfg.Judge.Timeout, logger)
	engine := guardrail.NewEngine(retriever, guardrail.NewAssembler(cfg.Context.MaxTokens), judge, cfg.Retrieval.TopK, logger).
		WithTracer(observability.Tracer())

	return &app{
		cfg:           cfg,
		logger:        logger,
		engine:        engine,
		search:        client,
		judgeProvider: judgeProvider,
	}, nil
}

func buildSearchClient(ctx context.Context, cfg *config.Config) (retrieval.SearchClient, error) {
	switch cfg.Retrieval.Backend {
	case "memory":
		idx, err := retrieval.NewMemoryIndexFromDir(cfg.Retrieval.CorpusDir, knownTags(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to load policy corpus: %w", err)
		}
		return idx, nil

	case "typesense":
		idx := retrieval.NewTypesenseIndex(cfg.Retrieval.Typesense.URL, cfg.Retrieval.Typesense.APIKey)
		if err := idx.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize typesense schema: %w", err)
		}
		return idx, nil

	default:
		return nil, fmt.Errorf("unknown retrieval backend %q", cfg.Retrieval.Backend)
	}
}

// knownTags collects the role tags configured for filename-based corpus
// tagging.
func knownTags(cfg *config.Config) map[string]bool {
	tags := make(map[string]bool, len(cfg.Roles))
	for _, tag := range cfg.Roles {
		tags[tag] = true
	}
	return tags
}
