package community

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/pg"
	"github.com/domuslabs/domus/pkg/tenant"
)

// ErrNotFound covers lookups of any level of the hierarchy.
var ErrNotFound = errors.New("community: not found")

// Repository executes hierarchy queries against the current tenant handle.
// Stateless; safe to share.
type Repository struct{}

func NewRepository() *Repository { return &Repository{} }

func (r *Repository) CreateCommunity(ctx context.Context, name, address string) (*Community, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var c Community
	err = db.QueryRow(ctx,
		`INSERT INTO communities (id, name, address)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, address, created_at, updated_at`,
		uuid.New(), name, address).
		Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetCommunity(ctx context.Context, id uuid.UUID) (*Community, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var c Community
	err = db.QueryRow(ctx,
		`SELECT id, name, address, created_at, updated_at FROM communities WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListCommunities(ctx context.Context) ([]Community, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, name, address, created_at, updated_at FROM communities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Community
	for rows.Next() {
		var c Community
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateCommunity(ctx context.Context, id uuid.UUID, name, address string) (*Community, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var c Community
	err = db.QueryRow(ctx,
		`UPDATE communities SET name = $2, address = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, address, created_at, updated_at`,
		id, name, address).
		Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) DeleteCommunity(ctx context.Context, id uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `DELETE FROM communities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CreateBlock(ctx context.Context, communityID uuid.UUID, name string) (*Block, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var b Block
	err = db.QueryRow(ctx,
		`INSERT INTO blocks (id, community_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, community_id, name, created_at`,
		uuid.New(), communityID, name).
		Scan(&b.ID, &b.CommunityID, &b.Name, &b.CreatedAt)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) ListBlocks(ctx context.Context, communityID uuid.UUID) ([]Block, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, community_id, name, created_at FROM blocks WHERE community_id = $1 ORDER BY name`,
		communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.CommunityID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) CreateFloor(ctx context.Context, blockID uuid.UUID, number int) (*Floor, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var f Floor
	err = db.QueryRow(ctx,
		`INSERT INTO floors (id, block_id, number)
		 VALUES ($1, $2, $3)
		 RETURNING id, block_id, number, created_at`,
		uuid.New(), blockID, number).
		Scan(&f.ID, &f.BlockID, &f.Number, &f.CreatedAt)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repository) ListFloors(ctx context.Context, blockID uuid.UUID) ([]Floor, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, block_id, number, created_at FROM floors WHERE block_id = $1 ORDER BY number`,
		blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Floor
	for rows.Next() {
		var f Floor
		if err := rows.Scan(&f.ID, &f.BlockID, &f.Number, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) CreateUnit(ctx context.Context, floorID uuid.UUID, number string, area float64) (*Unit, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var u Unit
	err = db.QueryRow(ctx,
		`INSERT INTO units (id, floor_id, number, area_sqm)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, floor_id, number, area_sqm, owner_user_id, created_at`,
		uuid.New(), floorID, number, area).
		Scan(&u.ID, &u.FloorID, &u.Number, &u.Area, &u.OwnerUserID, &u.CreatedAt)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ListUnits(ctx context.Context, floorID uuid.UUID) ([]Unit, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, floor_id, number, area_sqm, owner_user_id, created_at
		 FROM units WHERE floor_id = $1 ORDER BY number`, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.FloorID, &u.Number, &u.Area, &u.OwnerUserID, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// AssignUnitOwner links a unit to its owning user.
func (r *Repository) AssignUnitOwner(ctx context.Context, unitID, userID uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `UPDATE units SET owner_user_id = $2 WHERE id = $1`, unitID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
