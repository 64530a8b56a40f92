package attachment

import (
	"context"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/pg"
	"github.com/domuslabs/domus/pkg/tenant"
)

// Repository stores attachment metadata on the current tenant handle.
// Stateless; safe to share.
type Repository struct{}

func NewRepository() *Repository { return &Repository{} }

func (r *Repository) Create(ctx context.Context, a *Attachment) (*Attachment, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	err = db.QueryRow(ctx,
		`INSERT INTO attachments (id, owner_id, entity_type, entity_id, filename, mime_type, size_bytes, path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		a.ID, a.OwnerID, a.EntityType, a.EntityID, a.Filename, a.MIMEType, a.SizeBytes, a.Path).
		Scan(&a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var a Attachment
	err = db.QueryRow(ctx,
		`SELECT id, owner_id, entity_type, entity_id, filename, mime_type, size_bytes, path, created_at
		 FROM attachments WHERE id = $1`, id).
		Scan(&a.ID, &a.OwnerID, &a.EntityType, &a.EntityID, &a.Filename, &a.MIMEType, &a.SizeBytes, &a.Path, &a.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByEntity returns attachments linked to a domain entity such as a
// unit or a booking.
func (r *Repository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Attachment, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, owner_id, entity_type, entity_id, filename, mime_type, size_bytes, path, created_at
		 FROM attachments WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY created_at DESC`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.EntityType, &a.EntityID, &a.Filename, &a.MIMEType, &a.SizeBytes, &a.Path, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
