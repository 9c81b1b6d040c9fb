package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	noisy := time.Date(2025, time.July, 15, 14, 37, 9, 123456, time.UTC)
	assert.Equal(t, day(2025, time.July, 15), Normalize(noisy))

	// Already normalized values pass through unchanged.
	assert.Equal(t, day(2025, time.July, 15), Normalize(day(2025, time.July, 15)))
}

// Values carrying a zone offset normalize to the same UTC midnight as plain
// UTC values of the same calendar day.
func TestNormalize_OffsetZone(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)

	afternoon := time.Date(2025, time.July, 15, 14, 0, 0, 0, cest)
	assert.Equal(t, day(2025, time.July, 15), Normalize(afternoon))
	assert.True(t, Normalize(afternoon).Equal(Normalize(day(2025, time.July, 15))))

	// Early morning local time is still the same local calendar day, even
	// though the instant falls on the previous day in UTC.
	earlyMorning := time.Date(2025, time.July, 15, 0, 30, 0, 0, cest)
	assert.Equal(t, day(2025, time.July, 15), Normalize(earlyMorning))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		overlap                    bool
	}{
		{
			name:   "disjoint - a fully before b",
			aStart: day(2025, time.July, 1), aEnd: day(2025, time.July, 5),
			bStart: day(2025, time.July, 10), bEnd: day(2025, time.July, 15),
			overlap: false,
		},
		{
			name:   "touching boundary - checkout equals check-in",
			aStart: day(2025, time.July, 1), aEnd: day(2025, time.July, 8),
			bStart: day(2025, time.July, 8), bEnd: day(2025, time.July, 15),
			overlap: false,
		},
		{
			name:   "partial overlap at the edge",
			aStart: day(2025, time.July, 1), aEnd: day(2025, time.July, 8),
			bStart: day(2025, time.July, 7), bEnd: day(2025, time.July, 12),
			overlap: true,
		},
		{
			name:   "b contained in a",
			aStart: day(2025, time.July, 1), aEnd: day(2025, time.July, 20),
			bStart: day(2025, time.July, 5), bEnd: day(2025, time.July, 10),
			overlap: true,
		},
		{
			name:   "a contained in b",
			aStart: day(2025, time.July, 5), aEnd: day(2025, time.July, 10),
			bStart: day(2025, time.July, 1), bEnd: day(2025, time.July, 20),
			overlap: true,
		},
		{
			name:   "identical intervals",
			aStart: day(2025, time.July, 1), aEnd: day(2025, time.July, 8),
			bStart: day(2025, time.July, 1), bEnd: day(2025, time.July, 8),
			overlap: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.overlap, result)

			// Overlap is symmetric in its two intervals.
			reverse := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd)
			assert.Equal(t, tt.overlap, reverse, "Overlaps should be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	start := day(2025, time.July, 1)
	end := day(2025, time.July, 8)

	assert.True(t, Contains(start, end, day(2025, time.July, 1)), "check-in day is occupied")
	assert.True(t, Contains(start, end, day(2025, time.July, 7)))
	assert.False(t, Contains(start, end, day(2025, time.July, 8)), "checkout day is not occupied")
	assert.False(t, Contains(start, end, day(2025, time.June, 30)))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"one week", day(2025, time.August, 1), day(2025, time.August, 8), 7},
		{"same day", day(2025, time.August, 1), day(2025, time.August, 1), 0},
		{"reversed is negative", day(2025, time.August, 8), day(2025, time.August, 1), -7},
		{"across month boundary", day(2025, time.July, 30), day(2025, time.August, 2), 3},
		{
			"time-of-day noise ignored",
			time.Date(2025, time.August, 1, 23, 59, 0, 0, time.UTC),
			time.Date(2025, time.August, 8, 0, 1, 0, 0, time.UTC),
			7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestWithinInclusive(t *testing.T) {
	start := day(2025, time.July, 12)
	end := day(2025, time.August, 22)

	assert.True(t, WithinInclusive(start, end, start), "period start is covered")
	assert.True(t, WithinInclusive(start, end, end), "period end is covered")
	assert.True(t, WithinInclusive(start, end, day(2025, time.August, 1)))
	assert.False(t, WithinInclusive(start, end, day(2025, time.July, 11)))
	assert.False(t, WithinInclusive(start, end, day(2025, time.August, 23)))
}
