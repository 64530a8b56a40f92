package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorHandler maps tenant resolution failures to HTTP responses.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds middleware configuration.
type config struct {
	resolver          Resolver
	bootstrapResolver Resolver
	bootstrapPaths    []string
	skipPaths         []string
	errorHandler      ErrorHandler
	logger            *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithResolver sets the resolver used for authenticated endpoints.
func WithResolver(r Resolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithBootstrapPaths designates path prefixes (login and similar) whose
// tenant identifier comes from the X-TenantId header instead of a token
// claim.
func WithBootstrapPaths(paths ...string) Option {
	return func(c *config) { c.bootstrapPaths = append(c.bootstrapPaths, paths...) }
}

// WithBootstrapResolver overrides the resolver used on bootstrap paths.
func WithBootstrapResolver(r Resolver) Option {
	return func(c *config) { c.bootstrapResolver = r }
}

// WithSkipPaths sets path prefixes that bypass tenant resolution entirely
// (health checks, metrics).
func WithSkipPaths(paths ...string) Option {
	return func(c *config) { c.skipPaths = append(c.skipPaths, paths...) }
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) { c.errorHandler = h }
}

// WithLogger sets the logger used for handle construction failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTenantNotSpecified):
		http.Error(w, "Tenant not specified", http.StatusBadRequest)
	case errors.Is(err, ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusBadRequest)
	case errors.Is(err, ErrContextNotInitialized):
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		// Handle construction and anything unexpected: generic body, detail
		// stays server-side.
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
