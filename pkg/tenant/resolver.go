package tenant

import (
	"context"
	"errors"
	"net/http"
)

// HeaderName is the request header carrying the tenant identifier on
// bootstrap endpoints such as login.
const HeaderName = "X-TenantId"

// Resolver extracts a tenant identifier from an inbound request. An empty
// identifier with a nil error means the source simply has none.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r *http.Request) (string, error)

func (f ResolverFunc) Resolve(r *http.Request) (string, error) { return f(r) }

// HeaderResolver reads the tenant identifier from a request header. Used for
// bootstrap endpoints where no verified token exists yet.
type HeaderResolver struct {
	Name string
}

// NewHeaderResolver returns a resolver for the given header, defaulting to
// HeaderName.
func NewHeaderResolver(name string) *HeaderResolver {
	if name == "" {
		name = HeaderName
	}
	return &HeaderResolver{Name: name}
}

func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	return r.Header.Get(h.Name), nil
}

// ClaimResolver reads the tenant identifier from the verified token claims
// already attached to the request context. The accessor decouples this
// package from the token implementation; wire it to the JWT context getter.
type ClaimResolver struct {
	FromContext func(ctx context.Context) (string, bool)
}

// NewClaimResolver returns a resolver backed by the given context accessor.
func NewClaimResolver(fromContext func(ctx context.Context) (string, bool)) *ClaimResolver {
	return &ClaimResolver{FromContext: fromContext}
}

func (c *ClaimResolver) Resolve(r *http.Request) (string, error) {
	if c.FromContext == nil {
		return "", errors.New("tenant: claim resolver not configured")
	}
	id, ok := c.FromContext(r.Context())
	if !ok {
		return "", nil
	}
	return id, nil
}

// CompositeResolver tries resolvers in order and returns the first non-empty
// identifier.
type CompositeResolver struct {
	Resolvers []Resolver
}

func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	var errs []error
	for _, resolver := range c.Resolvers {
		id, err := resolver.Resolve(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if id != "" {
			return id, nil
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return "", nil
}
