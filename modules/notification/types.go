package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message for a single user. Email delivery,
// when enabled, mirrors the same content.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Kind      Kind       `json:"kind"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Kind classifies notifications for client-side grouping.
type Kind string

const (
	KindGeneral      Kind = "general"
	KindBooking      Kind = "booking"
	KindAnnouncement Kind = "announcement"
)
