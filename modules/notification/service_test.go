package notification_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/modules/notification"
	"github.com/domuslabs/domus/pkg/email"
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

type recordingSender struct {
	sent []email.SendEmailParams
	err  error
}

func (s *recordingSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, params)
	return nil
}

// notifyDB scripts the insert and the recipient email lookup.
func notifyDB(userEmail string) *tenanttest.DB {
	return &tenanttest.DB{
		Tag: "acme",
		QueryRowFunc: func(_ context.Context, sql string, args ...any) pgx.Row {
			switch {
			case strings.Contains(sql, "INSERT INTO notifications"):
				return tenanttest.Row(args[0], args[1], args[2], args[3], args[4],
					(*time.Time)(nil), time.Now())
			case strings.Contains(sql, "FROM users"):
				return tenanttest.Row(userEmail)
			default:
				return tenanttest.NoRow()
			}
		},
	}
}

func TestService_Notify(t *testing.T) {
	t.Parallel()

	t.Run("creates record and mirrors to email", func(t *testing.T) {
		t.Parallel()
		sender := &recordingSender{}
		svc := notification.NewService(notification.NewRepository(), sender, nil)
		ctx := tenantContext(t, "acme", notifyDB("alice@acme.test"))

		userID := uuid.New()
		n, err := svc.Notify(ctx, userID, "Booking confirmed", "Gym, 10:00", notification.KindBooking)
		require.NoError(t, err)
		assert.Equal(t, userID, n.UserID)
		assert.Nil(t, n.ReadAt)

		require.Len(t, sender.sent, 1)
		assert.Equal(t, "alice@acme.test", sender.sent[0].SendTo)
		assert.Equal(t, "Booking confirmed", sender.sent[0].Subject)
	})

	t.Run("email failure does not fail the notification", func(t *testing.T) {
		t.Parallel()
		sender := &recordingSender{err: errors.New("postmark unavailable")}
		svc := notification.NewService(notification.NewRepository(), sender, nil)
		ctx := tenantContext(t, "acme", notifyDB("alice@acme.test"))

		n, err := svc.Notify(ctx, uuid.New(), "Notice", "Water outage", notification.KindAnnouncement)
		require.NoError(t, err)
		assert.NotNil(t, n)
	})

	t.Run("nil sender disables fan-out", func(t *testing.T) {
		t.Parallel()
		svc := notification.NewService(notification.NewRepository(), nil, nil)
		db := notifyDB("alice@acme.test")
		ctx := tenantContext(t, "acme", db)

		_, err := svc.Notify(ctx, uuid.New(), "Notice", "body", notification.KindGeneral)
		require.NoError(t, err)
		for _, sql := range db.Log() {
			assert.NotContains(t, sql, "FROM users", "no recipient lookup without a sender")
		}
	})
}

func TestRepository_MarkRead(t *testing.T) {
	t.Parallel()

	t.Run("marks own unread notification", func(t *testing.T) {
		t.Parallel()
		db := &tenanttest.DB{
			Tag: "acme",
			ExecFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		ctx := tenantContext(t, "acme", db)
		require.NoError(t, notification.NewRepository().MarkRead(ctx, uuid.New(), uuid.New()))
	})

	t.Run("another user's notification reports not found", func(t *testing.T) {
		t.Parallel()
		db := &tenanttest.DB{
			Tag: "acme",
			ExecFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 0"), nil
			},
		}
		ctx := tenantContext(t, "acme", db)
		err := notification.NewRepository().MarkRead(ctx, uuid.New(), uuid.New())
		require.ErrorIs(t, err, notification.ErrNotFound)
	})
}
