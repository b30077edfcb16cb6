package retrieval

import (
	"github.com/rampart-ai/rampart/internal/policy"
)

// RoleFilter maps a role identifier to the set of document tags it may see.
// The mapping is fixed at construction and never consults ambient state.
//
// Every role sees its own tag plus the role-agnostic tag. Unknown roles fall
// back to role-agnostic visibility only; they never see role-scoped documents.
type RoleFilter struct {
	tags map[string][]string
}

// NewRoleFilter builds a RoleFilter from a role -> tag mapping. A role usually
// maps to a tag of the same name, but the mapping is explicit so that roles
// can share a tag (e.g. "teller" and "branch_manager" both seeing "retail").
func NewRoleFilter(roleTags map[string]string) *RoleFilter {
	tags := make(map[string][]string, len(roleTags))
	for role, tag := range roleTags {
		if tag == policy.RoleTagAll {
			tags[role] = []string{policy.RoleTagAll}
			continue
		}
		tags[role] = []string{tag, policy.RoleTagAll}
	}
	return &RoleFilter{tags: tags}
}

// AllowedTags returns the document tags visible to the given role.
// Unknown roles see only role-agnostic documents.
func (f *RoleFilter) AllowedTags(role string) []string {
	if tags, ok := f.tags[role]; ok {
		out := make([]string, len(tags))
		copy(out, tags)
		return out
	}
	return []string{policy.RoleTagAll}
}

// Known reports whether the role has an explicit mapping.
func (f *RoleFilter) Known(role string) bool {
	_, ok := f.tags[role]
	return ok
}
