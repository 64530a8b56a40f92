// Package permission decides whether a user may perform a module action
// within the current tenant.
//
// A Resolver answers boolean checks backed by a sliding-window cache keyed
// by (tenant, user); the full permission set is computed lazily through a
// Source that queries the tenant's own store. Load failures deny (fail
// closed). Role edits are not propagated to live cache entries: staleness is
// bounded by the window, and Invalidate exists for callers that cannot wait.
//
// A Guard turns the Resolver into per-endpoint middleware. Endpoints declare
// their (module, action) pair in a Registry while routers are built; an
// endpoint missing from the registry denies by default (strict mode).
package permission
