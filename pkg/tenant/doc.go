// Package tenant implements per-request tenant resolution and database
// binding for a multi-tenant application with one physical database per
// tenant and a shared directory of tenants.
//
// The pieces fit together as a request pipeline:
//
//	requestid → auth (token verify) → tenant.Middleware → authorization → handlers
//
// Middleware determines the tenant identifier (X-TenantId header on
// bootstrap paths, TenantId token claim elsewhere), looks it up in the
// Directory, opens a fresh Handle from the record's connection descriptor
// and binds it into a request Scope. Repositories downstream obtain the
// handle through HandleFromContext and never own connections themselves.
//
// The scope holds at most one handle, is bound exactly once, and is closed
// on every exit path. Reading it before the middleware has run returns
// ErrContextNotInitialized, which indicates a pipeline ordering bug.
//
// Directory implementations: PostgresDirectory for the shared directory
// database, InMemoryDirectory for tests, and CachedDirectory as an optional
// TTL decorator over either.
package tenant
