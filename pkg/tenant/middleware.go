package tenant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// Middleware resolves the tenant for each inbound request and binds a fresh
// handle into a request scope before any business logic runs.
//
// Resolution order per request:
//  1. Pick the identifier source: the bootstrap resolver (X-TenantId header)
//     on bootstrap paths, the claim resolver everywhere else.
//  2. Missing identifier fails closed with ErrTenantNotSpecified; there is
//     no default tenant.
//  3. Directory lookup; unknown or inactive records fail with
//     ErrTenantNotFound before any handle is opened.
//  4. Open a handle from the record's DSN, bind it into the scope.
//  5. Run the rest of the pipeline and dispose the handle unconditionally,
//     on success, error, panic and client abort alike.
func Middleware(directory Directory, connector Connector, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		resolver:     NewHeaderResolver(HeaderName),
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.bootstrapResolver == nil {
		cfg.bootstrapResolver = NewHeaderResolver(HeaderName)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if matchesPrefix(r.URL.Path, cfg.skipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			resolver := cfg.resolver
			if matchesPrefix(r.URL.Path, cfg.bootstrapPaths) {
				resolver = cfg.bootstrapResolver
			}

			identifier, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, errors.Join(ErrTenantNotSpecified, err))
				return
			}
			if identifier == "" {
				cfg.errorHandler(w, r, ErrTenantNotSpecified)
				return
			}

			record, err := directory.GetByIdentifier(r.Context(), identifier)
			if err != nil {
				if !errors.Is(err, ErrTenantNotFound) {
					cfg.logger.ErrorContext(r.Context(), "tenant directory lookup failed",
						slog.String("tenant", identifier), slog.Any("error", err))
				}
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}
			if !record.Active {
				cfg.errorHandler(w, r, ErrTenantNotFound)
				return
			}

			handle, err := connector.Open(r.Context(), record)
			if err != nil {
				cfg.logger.ErrorContext(r.Context(), "tenant handle construction failed",
					slog.String("tenant", identifier), slog.Any("error", err))
				cfg.errorHandler(w, r, errors.Join(ErrHandleConstruction, err))
				return
			}

			scope := NewScope()
			if err := scope.Bind(handle); err != nil {
				_ = handle.Close(context.WithoutCancel(r.Context()))
				cfg.errorHandler(w, r, err)
				return
			}

			// Disposal must survive client aborts and panics, so it runs on
			// a context detached from request cancellation.
			defer func() {
				if closeErr := scope.Close(context.WithoutCancel(r.Context())); closeErr != nil {
					cfg.logger.ErrorContext(r.Context(), "tenant handle close failed",
						slog.String("tenant", identifier), slog.Any("error", closeErr))
				}
			}()

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}
