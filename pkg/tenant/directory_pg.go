package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDirectory serves tenant lookups from the shared directory
// database. Every resolution re-queries; directory rows change rarely and
// the query is cheap, so no cache sits at this layer by default (wrap with
// NewCachedDirectory to add one).
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory returns a directory backed by the given pool.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

func (d *PostgresDirectory) GetByIdentifier(ctx context.Context, identifier string) (*Record, error) {
	var rec Record
	err := d.pool.QueryRow(ctx,
		`SELECT identifier, name, dsn, active, created_at, updated_at
		 FROM tenants WHERE identifier = $1`, identifier).
		Scan(&rec.Identifier, &rec.Name, &rec.DSN, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create registers a new tenant in the directory. Provisioning-only write.
func (d *PostgresDirectory) Create(ctx context.Context, identifier, name, dsn string) (*Record, error) {
	var rec Record
	err := d.pool.QueryRow(ctx,
		`INSERT INTO tenants (identifier, name, dsn, active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING identifier, name, dsn, active, created_at, updated_at`,
		identifier, name, dsn).
		Scan(&rec.Identifier, &rec.Name, &rec.DSN, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Deactivate soft-disables a tenant. The row stays; resolution starts
// failing with ErrTenantNotFound.
func (d *PostgresDirectory) Deactivate(ctx context.Context, identifier string) error {
	tag, err := d.pool.Exec(ctx,
		`UPDATE tenants SET active = FALSE, updated_at = now() WHERE identifier = $1`, identifier)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}
