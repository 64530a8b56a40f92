package permission

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Resolver answers "can user U perform action A on module M in tenant T".
// Computed permission sets are cached per (tenant, user) on a sliding
// window; nothing invalidates them on role edits, so changes take effect
// within one window unless Invalidate is called explicitly.
type Resolver struct {
	source Source
	cache  Cache
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) ResolverOption {
	return func(r *Resolver) { r.cache = c }
}

// WithResolverLogger sets the logger used for failed permission loads.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a Resolver over the given source. Without WithCache it
// uses an in-memory cache with the default sliding window.
func NewResolver(source Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache(DefaultWindow)
	}
	return r
}

// Check reports whether the user may perform action on module within the
// tenant. Deny is a normal outcome; any error loading permissions also
// denies (fail closed) and is logged, never surfaced to the caller.
func (r *Resolver) Check(ctx context.Context, tenantID string, userID uuid.UUID, module, action string) bool {
	key := cacheKey(tenantID, userID)

	set, ok := r.cache.Get(ctx, key)
	if !ok {
		perms, err := r.source.Load(ctx, userID)
		if err != nil {
			r.logger.ErrorContext(ctx, "permission load failed",
				slog.String("tenant", tenantID),
				slog.String("user", userID.String()),
				slog.Any("error", err))
			return false
		}
		// Compute fully, then insert: racing requests may duplicate the
		// work, but readers never see a partial set.
		set = NewSet(perms...)
		r.cache.Set(ctx, key, set)
	}

	return set.Has(Format(module, action))
}

// Invalidate drops the cached set for (tenant, user). The baseline flow
// never calls it; it exists for callers needing immediate revocation.
func (r *Resolver) Invalidate(ctx context.Context, tenantID string, userID uuid.UUID) {
	r.cache.Delete(ctx, cacheKey(tenantID, userID))
}

// Close releases the underlying cache.
func (r *Resolver) Close() error { return r.cache.Close() }

func cacheKey(tenantID string, userID uuid.UUID) string {
	return tenantID + ":" + userID.String()
}
