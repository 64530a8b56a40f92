package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/tenant"
)

// Repository stores notifications on the current tenant handle.
// Stateless; safe to share.
type Repository struct{}

func NewRepository() *Repository { return &Repository{} }

func (r *Repository) Create(ctx context.Context, userID uuid.UUID, title, body string, kind Kind) (*Notification, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var n Notification
	err = db.QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, title, body, kind)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, title, body, kind, read_at, created_at`,
		uuid.New(), userID, title, body, kind).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Kind, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListForUser returns the user's notifications, newest first. When
// unreadOnly is set, read notifications are filtered out.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, user_id, title, body, kind, read_at, created_at
	          FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Kind, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead stamps a notification as read. Scoped to the user so one user
// cannot mark another's notifications.
func (r *Repository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx,
		`UPDATE notifications SET read_at = now() WHERE id = $1 AND user_id = $2 AND read_at IS NULL`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead stamps every unread notification of the user.
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := db.Exec(ctx,
		`UPDATE notifications SET read_at = now() WHERE user_id = $1 AND read_at IS NULL`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UserEmail looks up the recipient address for email fan-out.
func (r *Repository) UserEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	db, err := tenant.DBFromContext(ctx)
	if err != nil {
		return "", err
	}
	var email string
	if err := db.QueryRow(ctx, `SELECT email FROM users WHERE id = $1 AND active`, userID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}
