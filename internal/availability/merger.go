// Package availability merges manually recorded bookings with externally
// synced calendar events and answers occupancy queries over the combined
// set of intervals.
package availability

import (
	"sort"
	"time"

	"adriastay/internal/dates"
	"adriastay/internal/metrics"
	"adriastay/internal/models"
)

// Interval is one occupied half-open date range [Start, End).
type Interval struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Source string    `json:"source"` // "booking" or the feed identifier
}

// Result is the answer to a range-availability query. Degraded means the
// external feed could not be consulted and the answer is based on manual
// bookings alone.
type Result struct {
	Available bool `json:"available"`
	Degraded  bool `json:"degraded"`
}

// Merger holds one apartment's occupied intervals for the lifetime of a
// request. It never fetches anything itself; callers supply snapshots and
// an explicit degraded signal when the feed was unavailable.
type Merger struct {
	apartmentID int64
	intervals   []Interval
	degraded    bool
}

// NewMerger combines both booking sources for one apartment. Cancelled
// bookings and records for other apartments are dropped; dates are
// normalized to midnight. Overlapping or duplicate intervals are kept as-is:
// overlap queries treat the list as a set, so redundancy is harmless.
func NewMerger(apartmentID int64, bookings []models.Booking, events []models.ExternalCalendarEvent, degraded bool) *Merger {
	intervals := make([]Interval, 0, len(bookings)+len(events))

	for _, b := range bookings {
		if b.ApartmentID != apartmentID || b.Status == "cancelled" {
			continue
		}
		intervals = append(intervals, Interval{
			Start:  dates.Normalize(b.StartDate),
			End:    dates.Normalize(b.EndDate),
			Source: "booking",
		})
	}

	for _, e := range events {
		if e.ApartmentID != apartmentID {
			continue
		}
		source := e.Source
		if source == "" {
			source = "feed"
		}
		intervals = append(intervals, Interval{
			Start:  dates.Normalize(e.StartDate),
			End:    dates.Normalize(e.EndDate),
			Source: source,
		})
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	return &Merger{apartmentID: apartmentID, intervals: intervals, degraded: degraded}
}

// Intervals returns the merged occupied intervals ordered by start date.
func (m *Merger) Intervals() []Interval {
	return m.intervals
}

// Degraded reports whether the external feed data was missing when the
// merger was built.
func (m *Merger) Degraded() bool {
	return m.degraded
}

// IsDateOccupied reports whether any occupied interval covers the date.
// Checkout days are free, half-open semantics.
func (m *Merger) IsDateOccupied(date time.Time) bool {
	date = dates.Normalize(date)
	for _, iv := range m.intervals {
		if dates.Contains(iv.Start, iv.End, date) {
			return true
		}
	}
	return false
}

// HasConflict reports whether the candidate range [start, end) overlaps any
// occupied interval, including partial overlaps at either edge and full
// containment in either direction.
func (m *Merger) HasConflict(start, end time.Time) bool {
	start = dates.Normalize(start)
	end = dates.Normalize(end)
	for _, iv := range m.intervals {
		if dates.Overlaps(start, end, iv.Start, iv.End) {
			return true
		}
	}
	return false
}

// IsRangeAvailable answers whether the candidate range is free of conflicts,
// along with the degraded flag so callers can warn about incomplete data.
func (m *Merger) IsRangeAvailable(start, end time.Time) Result {
	available := !m.HasConflict(start, end)
	metrics.IncAvailabilityCheck(available)
	return Result{Available: available, Degraded: m.degraded}
}
