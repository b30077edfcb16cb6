package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rampart-ai/rampart/internal/retrieval"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load the policy corpus into the Typesense backend",
	Long: `Index reads the configured corpus directory and upserts every policy
document into the Typesense collection, creating the collection schema
if it does not exist. Only meaningful with retrieval.backend set to
typesense; the memory backend loads the corpus at startup.`,
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	if cfg.Retrieval.Backend != "typesense" {
		return fmt.Errorf("retrieval.backend is %q, indexing applies to the typesense backend only", cfg.Retrieval.Backend)
	}

	docs, err := retrieval.LoadCorpus(cfg.Retrieval.CorpusDir, knownTags(cfg))
	if err != nil {
		return fmt.Errorf("failed to load policy corpus: %w", err)
	}

	idx := retrieval.NewTypesenseIndex(cfg.Retrieval.Typesense.URL, cfg.Retrieval.Typesense.APIKey)
	if err := idx.InitSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialize typesense schema: %w", err)
	}

	for _, doc := range docs {
		if err := idx.Index(cmd.Context(), doc); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d policy documents into %s\n", len(docs), cfg.Retrieval.Typesense.URL)
	return nil
}
