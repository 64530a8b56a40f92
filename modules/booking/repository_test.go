package booking_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/modules/booking"
	"github.com/domuslabs/domus/pkg/tenant"
	"github.com/domuslabs/domus/pkg/tenant/tenanttest"
)

func tenantContext(t *testing.T, identifier string, db *tenanttest.DB) context.Context {
	t.Helper()
	record := &tenant.Record{Identifier: identifier, Name: identifier, Active: true}
	scope := tenant.NewScope()
	require.NoError(t, scope.Bind(tenant.NewHandle(record, db, nil)))
	return tenant.WithScope(context.Background(), scope)
}

func facilityRow(id, communityID uuid.UUID, active bool) []any {
	return []any{id, communityID, "Gym", "", 10, 6, 22, active, time.Now()}
}

// scriptedBookingDB answers the three queries CreateBooking issues: the
// facility lookup, the overlap check and the insert.
func scriptedBookingDB(facilityID uuid.UUID, active, taken bool) *tenanttest.DB {
	communityID := uuid.New()
	return &tenanttest.DB{
		Tag: "acme",
		QueryRowFunc: func(_ context.Context, sql string, args ...any) pgx.Row {
			switch {
			case strings.Contains(sql, "FROM facilities"):
				return tenanttest.Row(facilityRow(facilityID, communityID, active)...)
			case strings.Contains(sql, "SELECT EXISTS"):
				return tenanttest.Row(taken)
			case strings.Contains(sql, "INSERT INTO bookings"):
				return tenanttest.Row(args[0], args[1], args[2], args[3], args[4],
					booking.StatusConfirmed, time.Now())
			default:
				return tenanttest.NoRow()
			}
		},
	}
}

func TestRepository_CreateBooking(t *testing.T) {
	t.Parallel()

	repo := booking.NewRepository()
	now := time.Now().Truncate(time.Second)

	t.Run("reserves a free slot", func(t *testing.T) {
		t.Parallel()
		facilityID := uuid.New()
		userID := uuid.New()
		ctx := tenantContext(t, "acme", scriptedBookingDB(facilityID, true, false))

		b, err := repo.CreateBooking(ctx, facilityID, userID, now, now.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, facilityID, b.FacilityID)
		assert.Equal(t, userID, b.UserID)
		assert.Equal(t, booking.StatusConfirmed, b.Status)
	})

	t.Run("overlapping slot rejected", func(t *testing.T) {
		t.Parallel()
		facilityID := uuid.New()
		ctx := tenantContext(t, "acme", scriptedBookingDB(facilityID, true, true))

		_, err := repo.CreateBooking(ctx, facilityID, uuid.New(), now, now.Add(time.Hour))
		require.ErrorIs(t, err, booking.ErrSlotTaken)
	})

	t.Run("inactive facility rejected", func(t *testing.T) {
		t.Parallel()
		facilityID := uuid.New()
		ctx := tenantContext(t, "acme", scriptedBookingDB(facilityID, false, false))

		_, err := repo.CreateBooking(ctx, facilityID, uuid.New(), now, now.Add(time.Hour))
		require.ErrorIs(t, err, booking.ErrFacilityClosed)
	})

	t.Run("end before start rejected without touching the store", func(t *testing.T) {
		t.Parallel()
		db := &tenanttest.DB{Tag: "acme"}
		ctx := tenantContext(t, "acme", db)

		_, err := repo.CreateBooking(ctx, uuid.New(), uuid.New(), now, now.Add(-time.Hour))
		require.ErrorIs(t, err, booking.ErrInvalidWindow)
		assert.Empty(t, db.Log())
	})

	t.Run("unknown facility", func(t *testing.T) {
		t.Parallel()
		db := &tenanttest.DB{
			Tag: "acme",
			QueryRowFunc: func(context.Context, string, ...any) pgx.Row {
				return tenanttest.NoRow()
			},
		}
		ctx := tenantContext(t, "acme", db)

		_, err := repo.CreateBooking(ctx, uuid.New(), uuid.New(), now, now.Add(time.Hour))
		require.ErrorIs(t, err, booking.ErrFacilityNotFound)
	})
}

func TestRepository_ListBookings(t *testing.T) {
	t.Parallel()

	facilityID := uuid.New()
	db := &tenanttest.DB{
		Tag: "acme",
		QueryFunc: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			now := time.Now()
			return tenanttest.Rows(
				[]any{uuid.New(), facilityID, uuid.New(), now, now.Add(time.Hour), booking.StatusConfirmed, now},
				[]any{uuid.New(), facilityID, uuid.New(), now.Add(2 * time.Hour), now.Add(3 * time.Hour), booking.StatusCancelled, now},
			), nil
		},
	}
	ctx := tenantContext(t, "acme", db)

	bs, err := booking.NewRepository().ListBookings(ctx, facilityID, time.Now(), time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, booking.StatusConfirmed, bs[0].Status)
	assert.Equal(t, booking.StatusCancelled, bs[1].Status)
}
