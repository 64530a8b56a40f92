package tenant

import (
	"context"
	"time"
)

// Record is a tenant directory entry. The identifier is the stable string
// carried in the X-TenantId header and the TenantId token claim; the DSN is
// an opaque connection descriptor for the tenant's isolated database.
type Record struct {
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	DSN        string    `json:"-"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Directory is the shared catalog of all tenants. Lookups are pure reads;
// the directory is written only by provisioning operations.
type Directory interface {
	// GetByIdentifier returns the directory record for the given identifier.
	// Returns ErrTenantNotFound when no record matches.
	GetByIdentifier(ctx context.Context, identifier string) (*Record, error)
}
