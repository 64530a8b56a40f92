// Package environment propagates the deployment environment (development,
// staging, production) through contexts, HTTP requests and log records.
package environment

import (
	"context"
	"log/slog"
	"net/http"
)

// Environment is the deployment environment name.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes an environment string, accepting the common short forms.
// Unknown values fall back to Development.
func Parse(s string) Environment {
	switch s {
	case string(Production), "prod":
		return Production
	case string(Staging), "stage":
		return Staging
	default:
		return Development
	}
}

func (e Environment) String() string { return string(e) }

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool { return e == Production }

type ctxKey struct{}

// WithContext stores the environment in ctx.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, ctxKey{}, env)
}

// FromContext returns the environment from ctx, or "" when unset.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(ctxKey{}).(Environment)
	return env
}

// IsProduction reports whether the context carries the production environment.
func IsProduction(ctx context.Context) bool {
	return FromContext(ctx).IsProduction()
}

// Middleware stamps every request context with the given environment.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), env)))
		})
	}
}

// LoggerExtractor exposes the environment as a log attribute.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if env := FromContext(ctx); env != "" {
			return slog.String("env", string(env)), true
		}
		return slog.Attr{}, false
	}
}
