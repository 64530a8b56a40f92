package booking

import "errors"

var (
	ErrFacilityNotFound = errors.New("booking: facility not found")
	ErrBookingNotFound  = errors.New("booking: booking not found")
	ErrSlotTaken        = errors.New("booking: time slot overlaps an existing booking")
	ErrInvalidWindow    = errors.New("booking: end must be after start")
	ErrFacilityClosed   = errors.New("booking: facility is not active")
)
