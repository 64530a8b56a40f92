// Package pg bootstraps the shared tenant-directory database: a pgx/v5
// connection pool with retry, goose schema migrations, a healthcheck
// closure, and error classifiers used by the repositories.
//
// Per-tenant databases are deliberately NOT served from here; the tenant
// package opens a dedicated handle per request from each tenant's own
// connection descriptor. This package only owns the one pool every instance
// shares for directory lookups and provisioning.
package pg
