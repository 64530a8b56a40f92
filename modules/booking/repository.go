package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/pg"
	"github.com/domuslabs/domus/pkg/tenant"
)

// Repository executes facility and booking queries against the current
// tenant handle. Stateless; safe to share.
type Repository struct{}

func NewRepository() *Repository { return &Repository{} }

func (r *Repository) CreateFacility(ctx context.Context, communityID uuid.UUID, name, description string, capacity, openHour, closeHour int) (*Facility, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var f Facility
	err = db.QueryRow(ctx,
		`INSERT INTO facilities (id, community_id, name, description, capacity, open_hour, close_hour)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, community_id, name, description, capacity, open_hour, close_hour, active, created_at`,
		uuid.New(), communityID, name, description, capacity, openHour, closeHour).
		Scan(&f.ID, &f.CommunityID, &f.Name, &f.Description, &f.Capacity, &f.OpenHour, &f.CloseHour, &f.Active, &f.CreatedAt)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repository) GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var f Facility
	err = db.QueryRow(ctx,
		`SELECT id, community_id, name, description, capacity, open_hour, close_hour, active, created_at
		 FROM facilities WHERE id = $1`, id).
		Scan(&f.ID, &f.CommunityID, &f.Name, &f.Description, &f.Capacity, &f.OpenHour, &f.CloseHour, &f.Active, &f.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repository) ListFacilities(ctx context.Context, communityID uuid.UUID) ([]Facility, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, community_id, name, description, capacity, open_hour, close_hour, active, created_at
		 FROM facilities WHERE community_id = $1 ORDER BY name`, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.CommunityID, &f.Name, &f.Description, &f.Capacity, &f.OpenHour, &f.CloseHour, &f.Active, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) DeactivateFacility(ctx context.Context, id uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, `UPDATE facilities SET active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFacilityNotFound
	}
	return nil
}

// CreateBooking reserves a slot, rejecting any overlap with a confirmed
// booking for the same facility. The exclusion constraint on the table
// backs this check against concurrent writers.
func (r *Repository) CreateBooking(ctx context.Context, facilityID, userID uuid.UUID, startsAt, endsAt time.Time) (*Booking, error) {
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidWindow
	}
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}

	facility, err := r.GetFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if !facility.Active {
		return nil, ErrFacilityClosed
	}

	var taken bool
	err = db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM bookings
		   WHERE facility_id = $1 AND status = 'confirmed'
		     AND tstzrange(starts_at, ends_at) && tstzrange($2, $3)
		 )`, facilityID, startsAt, endsAt).Scan(&taken)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	var b Booking
	err = db.QueryRow(ctx,
		`INSERT INTO bookings (id, facility_id, user_id, starts_at, ends_at, status)
		 VALUES ($1, $2, $3, $4, $5, 'confirmed')
		 RETURNING id, facility_id, user_id, starts_at, ends_at, status, created_at`,
		uuid.New(), facilityID, userID, startsAt, endsAt).
		Scan(&b.ID, &b.FacilityID, &b.UserID, &b.StartsAt, &b.EndsAt, &b.Status, &b.CreatedAt)
	if err != nil {
		if pg.IsExclusionViolationError(err) || pg.IsDuplicateKeyError(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var b Booking
	err = db.QueryRow(ctx,
		`SELECT id, facility_id, user_id, starts_at, ends_at, status, created_at
		 FROM bookings WHERE id = $1`, id).
		Scan(&b.ID, &b.FacilityID, &b.UserID, &b.StartsAt, &b.EndsAt, &b.Status, &b.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBookings returns confirmed and cancelled bookings of a facility
// within the given window, ordered by start time.
func (r *Repository) ListBookings(ctx context.Context, facilityID uuid.UUID, from, to time.Time) ([]Booking, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, facility_id, user_id, starts_at, ends_at, status, created_at
		 FROM bookings
		 WHERE facility_id = $1 AND starts_at < $3 AND ends_at > $2
		 ORDER BY starts_at`, facilityID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.FacilityID, &b.UserID, &b.StartsAt, &b.EndsAt, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListUserBookings returns all bookings made by a user across facilities.
func (r *Repository) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx,
		`SELECT id, facility_id, user_id, starts_at, ends_at, status, created_at
		 FROM bookings WHERE user_id = $1 ORDER BY starts_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.FacilityID, &b.UserID, &b.StartsAt, &b.EndsAt, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) CancelBooking(ctx context.Context, id uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx,
		`UPDATE bookings SET status = 'cancelled' WHERE id = $1 AND status = 'confirmed'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}
