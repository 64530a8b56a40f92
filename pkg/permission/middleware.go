package permission

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/tenant"
)

// Identity extracts the authenticated user from the request context. Wire it
// to the JWT subject accessor.
type Identity func(ctx context.Context) (uuid.UUID, bool)

// ErrorHandler maps authorization failures to HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Guard issues per-endpoint authorization middleware backed by a Resolver
// and the static endpoint registry.
type Guard struct {
	resolver     *Resolver
	registry     *Registry
	identity     Identity
	permissive   bool
	errorHandler ErrorHandler
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithPermissiveUnregistered lets endpoints without a registry entry pass
// instead of denying. Strict denial is the default.
func WithPermissiveUnregistered() GuardOption {
	return func(g *Guard) { g.permissive = true }
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) GuardOption {
	return func(g *Guard) { g.errorHandler = h }
}

// NewGuard creates a guard. identity must report the verified user for the
// request; requests without one are rejected as unauthenticated.
func NewGuard(resolver *Resolver, registry *Registry, identity Identity, opts ...GuardOption) *Guard {
	g := &Guard{
		resolver:     resolver,
		registry:     registry,
		identity:     identity,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Require returns middleware enforcing the endpoint's registered
// requirement. The registry lookup happens here, at router construction
// time, so an unregistered endpoint is pinned to its strict/permissive fate
// at startup.
func (g *Guard) Require(endpoint string) func(http.Handler) http.Handler {
	req, registered := g.registry.Lookup(endpoint)

	return func(next http.Handler) http.Handler {
		if !registered {
			if g.permissive {
				return next
			}
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				g.errorHandler(w, r, ErrPermissionDenied)
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := g.identity(r.Context())
			if !ok {
				g.errorHandler(w, r, ErrNotAuthenticated)
				return
			}

			record, err := tenant.RecordFromContext(r.Context())
			if err != nil {
				g.errorHandler(w, r, errors.Join(tenant.ErrTenantNotSpecified, err))
				return
			}

			if !g.resolver.Check(r.Context(), record.Identifier, userID, req.Module, req.Action) {
				g.errorHandler(w, r, ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, tenant.ErrTenantNotSpecified):
		http.Error(w, "Tenant not specified", http.StatusBadRequest)
	case errors.Is(err, ErrPermissionDenied):
		// Opaque on purpose: never reveal whether the module exists.
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
