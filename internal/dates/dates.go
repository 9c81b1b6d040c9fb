// Package dates holds the calendar-date primitives shared by the pricing
// and availability packages. All stay logic works on whole days; time-of-day
// is noise stripped at the boundary.
package dates

import "time"

// Normalize maps t to midnight UTC of its own calendar day. Rebuilding the
// date components in one canonical zone makes same-calendar-day values from
// different sources compare equal even when one carries a zone offset.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries (checkout day equals the
// next check-in day) do not count as an overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Contains reports whether the half-open interval [start, end) covers d.
func Contains(start, end, d time.Time) bool {
	return !d.Before(start) && d.Before(end)
}

// DaysBetween returns the whole-day count from a to b. Both arguments are
// normalized first; the result is negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	a = Normalize(a)
	b = Normalize(b)
	return int(b.Sub(a).Hours() / 24)
}

// WithinInclusive reports whether d falls inside [start, end], both bounds
// inclusive. Season and price periods are configured with inclusive end
// dates, unlike booking intervals.
func WithinInclusive(start, end, d time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
