// Package roles resolves an authenticated identity to a platform role.
// The only privileged role is "coach", identified by a static allow-list of
// email addresses populated once from configuration at process start.
package roles

import "strings"

// Resolver answers whether an email belongs to the coach role. It is an
// immutable set built at construction time and safe for concurrent use.
type Resolver struct {
	coaches map[string]struct{}
}

// NewResolver builds a Resolver from the configured allow-list. Addresses are
// lowercased and trimmed; empty entries are dropped.
func NewResolver(emails []string) *Resolver {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &Resolver{coaches: set}
}

// IsCoach reports whether email is on the coach allow-list. Comparison is
// case-insensitive; an absent or empty email resolves to false.
func (r *Resolver) IsCoach(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	_, ok := r.coaches[email]
	return ok
}
