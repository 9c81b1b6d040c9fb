package models

import (
	"time"

	"adriastay/internal/dates"
)

// Booking is a manually recorded reservation for an apartment. The occupied
// range is half-open [StartDate, EndDate): the checkout day itself is free.
type Booking struct {
	ID          int64     `json:"id"`
	ApartmentID int64     `json:"apartment_id"`
	GuestName   string    `json:"guest_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"` // confirmed, cancelled
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OverlapsWith checks if this booking overlaps another, half-open semantics.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return dates.Overlaps(
		dates.Normalize(b.StartDate), dates.Normalize(b.EndDate),
		dates.Normalize(other.StartDate), dates.Normalize(other.EndDate),
	)
}

// ContainsDate checks if the booking occupies a specific date. The end date
// is checkout day and is not occupied.
func (b *Booking) ContainsDate(date time.Time) bool {
	return dates.Contains(
		dates.Normalize(b.StartDate), dates.Normalize(b.EndDate),
		dates.Normalize(date),
	)
}

// Nights returns the number of nights covered by the booking.
func (b *Booking) Nights() int {
	return dates.DaysBetween(b.StartDate, b.EndDate)
}

// ExternalCalendarEvent is an occupied interval sourced from a third-party
// calendar feed. Structurally identical to Booking's date range and carries
// the same half-open [StartDate, EndDate) semantics.
type ExternalCalendarEvent struct {
	ApartmentID int64     `json:"apartment_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Source      string    `json:"source,omitempty"` // feed identifier for diagnostics
}
