package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_VisibleTo(t *testing.T) {
	tests := []struct {
		name     string
		doc      Document
		role     string
		expected bool
	}{
		{
			name:     "role-agnostic document visible to any role",
			doc:      Document{ID: "d1", RoleTag: RoleTagAll},
			role:     "sales",
			expected: true,
		},
		{
			name:     "matching role tag",
			doc:      Document{ID: "d2", RoleTag: "sales"},
			role:     "sales",
			expected: true,
		},
		{
			name:     "non-matching role tag",
			doc:      Document{ID: "d3", RoleTag: "sales"},
			role:     "support",
			expected: false,
		},
		{
			name:     "role-agnostic visible to empty role",
			doc:      Document{ID: "d4", RoleTag: RoleTagAll},
			role:     "",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.doc.VisibleTo(tt.role))
		})
	}
}

func TestRetrievalResult_Dedupe(t *testing.T) {
	result := RetrievalResult{Documents: []ScoredDocument{
		{Document: Document{ID: "a"}, Score: 0.9},
		{Document: Document{ID: "b"}, Score: 0.8},
		{Document: Document{ID: "a"}, Score: 0.7},
		{Document: Document{ID: "c"}, Score: 0.6},
	}}

	deduped := result.Dedupe()

	assert.Equal(t, []string{"a", "b", "c"}, deduped.IDs())
	// First occurrence wins, preserving rank order.
	assert.Equal(t, 0.9, deduped.Documents[0].Score)
}

func TestRetrievalResult_Empty(t *testing.T) {
	assert.True(t, RetrievalResult{}.Empty())
	assert.False(t, RetrievalResult{Documents: []ScoredDocument{{}}}.Empty())
}
