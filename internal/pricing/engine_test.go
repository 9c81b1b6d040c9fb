package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(newTestStore(), nil)
}

// Seven peak nights in "Magical Oasis": base 187, modifier 0.2, 7-night
// discount -0.1, cleaning fee 50.
func TestEngine_CalculateStayPrice_PeakWeek(t *testing.T) {
	engine := newTestEngine()

	summary, err := engine.CalculateStayPrice("Magical Oasis",
		day(2025, time.August, 1), day(2025, time.August, 8))
	require.NoError(t, err)

	assert.Equal(t, 7, summary.TotalNights)
	require.Len(t, summary.NightlyPrices, 7)
	for i, np := range summary.NightlyPrices {
		assert.Equal(t, day(2025, time.August, 1+i), np.Date)
		assert.Equal(t, 224, np.Price) // round(187 * 1.2)
	}
	assert.Equal(t, 1568, summary.Subtotal)
	assert.Equal(t, -0.1, summary.DiscountFraction)
	assert.Equal(t, 1411, summary.DiscountedSubtotal) // round(1568 * 0.9)
	assert.Equal(t, 50, summary.CleaningFee)
	assert.Equal(t, 1461, summary.Total)
	assert.Equal(t, 202, summary.AveragePerNight) // round(1411 / 7)
}

// A stay spanning the mid/peak boundary prices each night from its own
// period, and the discount comes from the start date's season.
func TestEngine_CalculateStayPrice_AcrossPeriodBoundary(t *testing.T) {
	engine := newTestEngine()

	// 4 mid nights (Jul 8..11 at 160) + 3 peak nights (Jul 12..14 at 224).
	summary, err := engine.CalculateStayPrice("Magical Oasis",
		day(2025, time.July, 8), day(2025, time.July, 15))
	require.NoError(t, err)

	assert.Equal(t, 7, summary.TotalNights)
	assert.Equal(t, 160, summary.NightlyPrices[0].Price)
	assert.Equal(t, 160, summary.NightlyPrices[3].Price)
	assert.Equal(t, 224, summary.NightlyPrices[4].Price)
	assert.Equal(t, 224, summary.NightlyPrices[6].Price)
	assert.Equal(t, 4*160+3*224, summary.Subtotal)

	// Start date is in the mid season: its 7-night discount is -0.05.
	assert.Equal(t, -0.05, summary.DiscountFraction)
}

// A shorter stay with no qualifying discount threshold pays full price.
func TestEngine_CalculateStayPrice_NoDiscount(t *testing.T) {
	engine := newTestEngine()

	summary, err := engine.CalculateStayPrice("Magical Oasis",
		day(2025, time.August, 1), day(2025, time.August, 6))
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalNights)
	assert.Equal(t, 0.0, summary.DiscountFraction)
	assert.Equal(t, summary.Subtotal, summary.DiscountedSubtotal)
	assert.Equal(t, summary.Subtotal+50, summary.Total)
}

// Dates outside every period price from the apartment defaults.
func TestEngine_CalculateStayPrice_FallbackPricing(t *testing.T) {
	engine := newTestEngine()

	summary, err := engine.CalculateStayPrice("Magical Oasis",
		day(2025, time.December, 1), day(2025, time.December, 4))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalNights)
	for _, np := range summary.NightlyPrices {
		assert.Equal(t, 120, np.Price) // default price, no modifier
	}
}

func TestEngine_CalculateStayPrice_InvalidRange(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"zero nights", day(2025, time.August, 1), day(2025, time.August, 1)},
		{"end before start", day(2025, time.August, 8), day(2025, time.August, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := engine.CalculateStayPrice("Magical Oasis", tt.start, tt.end)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDateRange)
			assert.Nil(t, summary, "no partial summary on error")
		})
	}
}

func TestEngine_CalculateStayPrice_UnknownApartment(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.CalculateStayPrice("Villa Nowhere",
		day(2025, time.August, 1), day(2025, time.August, 8))
	assert.ErrorIs(t, err, ErrConfigurationNotFound)
}

// Identical inputs always produce identical summaries.
func TestEngine_CalculateStayPrice_Idempotent(t *testing.T) {
	engine := newTestEngine()

	first, err := engine.CalculateStayPrice("Nika",
		day(2025, time.July, 20), day(2025, time.July, 27))
	require.NoError(t, err)

	second, err := engine.CalculateStayPrice("Nika",
		day(2025, time.July, 20), day(2025, time.July, 27))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{224.4, 224},
		{224.5, 225},
		{224.6, 225},
		{1411.2, 1411},
		{201.571, 202},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, roundHalfUp(tt.in), "roundHalfUp(%v)", tt.in)
	}
}
