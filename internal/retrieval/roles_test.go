package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rampart-ai/rampart/internal/policy"
)

func TestRoleFilter_AllowedTags(t *testing.T) {
	filter := NewRoleFilter(map[string]string{
		"sales":   "sales",
		"support": "support",
		"auditor": policy.RoleTagAll,
	})

	tests := []struct {
		name     string
		role     string
		expected []string
	}{
		{
			name:     "known role sees own tag plus role-agnostic",
			role:     "sales",
			expected: []string{"sales", policy.RoleTagAll},
		},
		{
			name:     "role mapped to the all tag sees only it",
			role:     "auditor",
			expected: []string{policy.RoleTagAll},
		},
		{
			name:     "unknown role defaults to role-agnostic only",
			role:     "intern",
			expected: []string{policy.RoleTagAll},
		},
		{
			name:     "empty role defaults to role-agnostic only",
			role:     "",
			expected: []string{policy.RoleTagAll},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.AllowedTags(tt.role))
		})
	}
}

func TestRoleFilter_Known(t *testing.T) {
	filter := NewRoleFilter(map[string]string{"sales": "sales"})

	assert.True(t, filter.Known("sales"))
	assert.False(t, filter.Known("support"))
}

func TestRoleFilter_AllowedTagsCopy(t *testing.T) {
	filter := NewRoleFilter(map[string]string{"sales": "sales"})

	tags := filter.AllowedTags("sales")
	tags[0] = "mutated"

	assert.Equal(t, []string{"sales", policy.RoleTagAll}, filter.AllowedTags("sales"))
}
