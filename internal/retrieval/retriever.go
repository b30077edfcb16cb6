package retrieval

import (
	"context"
	"log/slog"

	"github.com/rampart-ai/rampart/internal/policy"
	"github.com/rampart-ai/rampart/internal/types"
)

// SearchClient is the collaborator interface to the external document index.
// Implementations perform the actual search (vector, keyword, or hybrid) and
// restrict results to the allowed tags. Empty results and backend failures
// are distinguishable outcomes: a failure must be returned as an error, never
// masked as an empty slice.
//
// Thread-safety: implementations must be safe for concurrent use.
type SearchClient interface {
	// Search returns documents relevant to the query, restricted to the
	// given tags, at most limit entries, most relevant first.
	Search(ctx context.Context, query string, allowedTags []string, limit int) ([]policy.ScoredDocument, error)
}

// Retriever is the role-scoped adapter over a SearchClient. It resolves the
// requester's role to its visible tag set and enforces the no-duplicate-ID
// invariant on results.
type Retriever struct {
	client SearchClient
	roles  *RoleFilter
	logger *slog.Logger
}

// NewRetriever creates a Retriever over the given search client and role filter.
func NewRetriever(client SearchClient, roles *RoleFilter, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		client: client,
		roles:  roles,
		logger: logger,
	}
}

// Retrieve searches the index for documents relevant to query that are
// visible to role. Backend faults surface as a RETRIEVAL_BACKEND_FAILED
// error; callers decide how to degrade.
func (r *Retriever) Retrieve(ctx context.Context, query, role string, limit int) (policy.RetrievalResult, error) {
	allowed := r.roles.AllowedTags(role)
	if !r.roles.Known(role) {
		r.logger.WarnContext(ctx, "unknown role, restricting to role-agnostic documents",
			"role", role,
		)
	}

	docs, err := r.client.Search(ctx, query, allowed, limit)
	if err != nil {
		if ctx.Err() != nil {
			return policy.RetrievalResult{}, types.WrapError(types.RETRIEVAL_TIMEOUT, "search canceled or timed out", err)
		}
		return policy.RetrievalResult{}, types.WrapRetryableError(types.RETRIEVAL_BACKEND_FAILED, "policy index search failed", err)
	}

	result := policy.RetrievalResult{Documents: docs}.Dedupe()

	r.logger.DebugContext(ctx, "retrieved policy documents",
		"role", role,
		"requested", limit,
		"returned", len(result.Documents),
	)
	return result, nil
}
