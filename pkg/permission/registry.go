package permission

import (
	"fmt"
	"sync"
)

// Requirement is the (module, action) pair an endpoint declares.
type Requirement struct {
	Module string
	Action string
}

// String returns the canonical permission string for the requirement.
func (r Requirement) String() string { return Format(r.Module, r.Action) }

// Registry is the static table mapping endpoint names to their required
// (module, action) pair. Routers populate it while they are being built, so
// the full table exists at startup and no runtime reflection is involved.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Requirement
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Requirement)}
}

// Add registers the requirement for an endpoint name. Registering the same
// endpoint twice with a different requirement panics: that is a wiring bug
// and must fail at startup, not at request time.
func (r *Registry) Add(endpoint, module, action string) {
	req := Requirement{Module: module, Action: action}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.m[endpoint]; ok && existing != req {
		panic(fmt.Sprintf("permission: endpoint %q registered twice with different requirements", endpoint))
	}
	r.m[endpoint] = req
}

// Lookup returns the requirement for an endpoint name.
func (r *Registry) Lookup(endpoint string) (Requirement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.m[endpoint]
	return req, ok
}

// Endpoints returns all registered endpoint names.
func (r *Registry) Endpoints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for name := range r.m {
		out = append(out, name)
	}
	return out
}
