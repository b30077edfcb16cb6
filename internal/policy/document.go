package policy

// RoleTagAll is the sentinel tag for documents that apply to every role.
// A document tagged with RoleTagAll is visible regardless of the requester's
// role; any other tag restricts visibility to that single role.
const RoleTagAll = "all"

// Document represents a single policy document fragment as returned by the
// search index. Documents are owned by the external index and treated as
// immutable by the guardrail core.
type Document struct {
	// ID uniquely identifies the document within the index
	ID string `json:"id"`

	// Content is the policy text used as judge context
	Content string `json:"content"`

	// RoleTag is the role this document is scoped to, or RoleTagAll
	RoleTag string `json:"role_tag"`

	// Source is a human-readable label for the document's origin
	// (file name, URL, or index key)
	Source string `json:"source"`
}

// IsRoleAgnostic returns true if the document applies to every role.
func (d Document) IsRoleAgnostic() bool {
	return d.RoleTag == RoleTagAll
}

// VisibleTo reports whether the document may be shown to the given role.
func (d Document) VisibleTo(role string) bool {
	return d.IsRoleAgnostic() || d.RoleTag == role
}

// ScoredDocument pairs a document with its retrieval relevance score.
// Higher scores indicate stronger relevance.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// RetrievalResult is an ordered sequence of scored documents. The order is
// retrieval-determined (most relevant first) and must be preserved through
// any truncation. A valid result contains no duplicate document IDs.
type RetrievalResult struct {
	Documents []ScoredDocument `json:"documents"`
}

// Empty returns true if the result holds no documents.
func (r RetrievalResult) Empty() bool {
	return len(r.Documents) == 0
}

// IDs returns the document identifiers in result order.
func (r RetrievalResult) IDs() []string {
	ids := make([]string, 0, len(r.Documents))
	for _, sd := range r.Documents {
		ids = append(ids, sd.Document.ID)
	}
	return ids
}

// Dedupe returns a copy of the result with duplicate document IDs removed,
// keeping the first (highest ranked) occurrence of each.
func (r RetrievalResult) Dedupe() RetrievalResult {
	seen := make(map[string]struct{}, len(r.Documents))
	out := make([]ScoredDocument, 0, len(r.Documents))
	for _, sd := range r.Documents {
		if _, ok := seen[sd.Document.ID]; ok {
			continue
		}
		seen[sd.Document.ID] = struct{}{}
		out = append(out, sd)
	}
	return RetrievalResult{Documents: out}
}
