package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rampart-ai/rampart/internal/policy"
)

// MemoryIndex is an in-process keyword index over a policy corpus. It serves
// as the SearchClient for tests and for single-node deployments where the
// corpus is small enough to hold in memory; production deployments point the
// retriever at a real search backend instead.
//
// Scoring is term overlap: the fraction of query terms that occur in the
// document content or source. Ties break on document ID so that ranking is
// deterministic.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs []policy.Document
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Add inserts documents into the index. Documents with duplicate IDs replace
// earlier entries.
func (m *MemoryIndex) Add(docs ...policy.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		replaced := false
		for i := range m.docs {
			if m.docs[i].ID == doc.ID {
				m.docs[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			m.docs = append(m.docs, doc)
		}
	}
}

// Len returns the number of indexed documents.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Search implements SearchClient.
func (m *MemoryIndex) Search(ctx context.Context, query string, allowedTags []string, limit int) ([]policy.ScoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(allowedTags))
	for _, tag := range allowedTags {
		allowed[tag] = struct{}{}
	}

	terms := queryTerms(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	scored := make([]policy.ScoredDocument, 0, len(m.docs))
	for _, doc := range m.docs {
		if _, ok := allowed[doc.RoleTag]; !ok {
			continue
		}
		score := overlapScore(doc, terms)
		if score <= 0 {
			continue
		}
		scored = append(scored, policy.ScoredDocument{Document: doc, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Document.ID < scored[j].Document.ID
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// queryTerms splits a query into lowercase terms, dropping single-character
// tokens which carry no signal.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?\"'()[]{}:;")
		if len(f) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}

func overlapScore(doc policy.Document, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	haystack := strings.ToLower(doc.Content + " " + doc.Source)
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
