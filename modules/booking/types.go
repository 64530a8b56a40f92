package booking

import (
	"time"

	"github.com/google/uuid"
)

// Facility is a bookable shared resource of a community, such as a gym
// or a meeting room.
type Facility struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity"`
	OpenHour    int       `json:"open_hour"`
	CloseHour   int       `json:"close_hour"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Booking reserves a facility for a user over a half-open interval
// [StartsAt, EndsAt).
type Booking struct {
	ID         uuid.UUID `json:"id"`
	FacilityID uuid.UUID `json:"facility_id"`
	UserID     uuid.UUID `json:"user_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Status of a booking. Cancelled bookings do not block the slot.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)
