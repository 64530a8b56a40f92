package permission

import (
	"context"

	"github.com/google/uuid"
)

// Set is the collection of "Module_Action" strings a user's roles
// collectively allow within one tenant.
type Set map[string]struct{}

// NewSet builds a Set from permission strings.
func NewSet(perms ...string) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether the permission string is in the set.
func (s Set) Has(perm string) bool {
	_, ok := s[perm]
	return ok
}

// Strings returns the set's permissions in unspecified order.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// Format builds the canonical permission string for a module/action pair.
func Format(module, action string) string {
	return module + "_" + action
}

// Source computes the full permission set for a user by querying the current
// tenant's store. Implementations read the tenant handle from the context;
// the resolver never passes connections around.
type Source interface {
	Load(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, userID uuid.UUID) ([]string, error)

func (f SourceFunc) Load(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f(ctx, userID)
}
