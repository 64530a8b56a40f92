// Package booking manages shared facilities and their reservations.
// Slots are half-open intervals; a confirmed booking blocks any
// overlapping reservation of the same facility until it is cancelled.
package booking
