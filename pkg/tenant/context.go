package tenant

import (
	"context"
	"log/slog"
	"sync"
)

// Scope is the per-request slot holding the current tenant handle. The
// middleware creates it empty, binds exactly one handle, and closes it when
// the request finishes. A Scope must never be shared between requests.
type Scope struct {
	mu     sync.Mutex
	handle *Handle
}

// NewScope returns an empty, unbound scope.
func NewScope() *Scope { return &Scope{} }

// Bind installs the handle for this request. A second call is a contract
// violation and returns ErrHandleAlreadyBound, leaving the first handle in
// place.
func (s *Scope) Bind(h *Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		return ErrHandleAlreadyBound
	}
	s.handle = h
	return nil
}

// Handle returns the bound handle, or ErrContextNotInitialized when the
// resolver has not run yet.
func (s *Scope) Handle() (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return nil, ErrContextNotInitialized
	}
	return s.handle, nil
}

// Close disposes the bound handle, if any. Safe on unbound scopes and for
// repeated calls.
func (s *Scope) Close(ctx context.Context) error {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	return h.Close(ctx)
}

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithScope attaches a request scope to the context.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// ScopeFromContext retrieves the request scope from the context.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(contextKey{}).(*Scope)
	return s, ok
}

// HandleFromContext returns the current tenant handle. Fails with
// ErrContextNotInitialized when the resolver middleware has not bound one.
func HandleFromContext(ctx context.Context) (*Handle, error) {
	s, ok := ScopeFromContext(ctx)
	if !ok {
		return nil, ErrContextNotInitialized
	}
	return s.Handle()
}

// DBFromContext returns the query surface of the current tenant handle.
func DBFromContext(ctx context.Context) (DB, error) {
	h, err := HandleFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return h.DB(), nil
}

// RecordFromContext returns the directory record of the current tenant.
func RecordFromContext(ctx context.Context) (*Record, error) {
	h, err := HandleFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return h.Tenant(), nil
}

// LoggerExtractor returns a logger ContextExtractor adding the current
// tenant identifier to every log record.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if rec, err := RecordFromContext(ctx); err == nil {
			return slog.String("tenant", rec.Identifier), true
		}
		return slog.Attr{}, false
	}
}
