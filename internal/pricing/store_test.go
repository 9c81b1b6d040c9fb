package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// testProfiles builds a small synthetic season calendar used across the
// pricing tests. "Magical Oasis" mirrors the production peak season shape.
func testProfiles() map[string]Profile {
	peak := RuleSet{
		Name:          "peak",
		PriceModifier: 0.2,
		Discounts:     []Discount{{MinNights: 7, Fraction: -0.1}},
		MinNights:     5,
		MaxNights:     14,
	}
	mid := RuleSet{
		Name:          "mid",
		PriceModifier: 0,
		Discounts:     []Discount{{MinNights: 7, Fraction: -0.05}},
		MinNights:     3,
		MaxNights:     21,
	}
	ruleSets := map[string]RuleSet{"peak": peak, "mid": mid}

	return map[string]Profile{
		"Magical Oasis": {
			Name:        "Magical Oasis",
			CleaningFee: 50,
			Defaults: Defaults{
				Price:     120,
				MinNights: 2,
				MaxNights: 30,
				Discounts: []Discount{{MinNights: 7, Fraction: -0.05}},
			},
			RuleSets: ruleSets,
			RuleSetPeriods: []RuleSetPeriod{
				{Start: day(2025, time.June, 1), End: day(2025, time.July, 11), RuleSet: "mid"},
				{Start: day(2025, time.July, 12), End: day(2025, time.August, 22), RuleSet: "peak"},
			},
			PricePeriods: []PricePeriod{
				{Start: day(2025, time.June, 1), End: day(2025, time.July, 11), BasePrice: 160},
				{Start: day(2025, time.July, 12), End: day(2025, time.August, 22), BasePrice: 187},
			},
		},
		"Nika": {
			Name:        "Nika",
			CleaningFee: 40,
			Defaults:    Defaults{Price: 90, MinNights: 2, MaxNights: 30},
			RuleSets:    ruleSets,
			RuleSetPeriods: []RuleSetPeriod{
				{Start: day(2025, time.July, 12), End: day(2025, time.August, 22), RuleSet: "peak"},
			},
			PricePeriods: []PricePeriod{
				{Start: day(2025, time.July, 12), End: day(2025, time.August, 22), BasePrice: 135},
			},
		},
	}
}

func newTestStore() *Store {
	return NewStore(testProfiles(), nil)
}

func TestStore_ResolveRuleSet(t *testing.T) {
	store := newTestStore()

	tests := []struct {
		name     string
		date     time.Time
		ruleSet  string
		modifier float64
	}{
		{"peak period start", day(2025, time.July, 12), "peak", 0.2},
		{"peak period end is inclusive", day(2025, time.August, 22), "peak", 0.2},
		{"mid period", day(2025, time.June, 15), "mid", 0},
		{"uncovered date falls back to defaults", day(2025, time.December, 1), DefaultRuleSetName, 0},
		{"time-of-day noise is stripped", time.Date(2025, time.August, 22, 18, 30, 0, 0, time.UTC), "peak", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := store.ResolveRuleSet("Magical Oasis", tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.ruleSet, rs.Name)
			assert.Equal(t, tt.modifier, rs.PriceModifier)
		})
	}
}

func TestStore_ResolveRuleSet_UnknownApartment(t *testing.T) {
	store := newTestStore()

	_, err := store.ResolveRuleSet("Ismaelli", day(2025, time.August, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigurationNotFound)
}

func TestStore_ResolveBasePrice(t *testing.T) {
	store := newTestStore()

	tests := []struct {
		name  string
		date  time.Time
		price int
	}{
		{"peak price", day(2025, time.August, 1), 187},
		{"mid price", day(2025, time.June, 20), 160},
		{"fallback to default price", day(2025, time.March, 1), 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := store.ResolveBasePrice("Magical Oasis", tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.price, price)
		})
	}
}

// Every date in a full year resolves to a defined rule set and base price,
// either from a matching period or from the defaults.
func TestStore_FullYearCoverage(t *testing.T) {
	store := newTestStore()

	for _, apartment := range store.Apartments() {
		d := day(2025, time.January, 1)
		for d.Year() == 2025 {
			rs, err := store.ResolveRuleSet(apartment, d)
			require.NoError(t, err)
			assert.NotEmpty(t, rs.Name, "rule set for %s on %s", apartment, d.Format("2006-01-02"))
			assert.Positive(t, rs.MaxNights)

			price, err := store.ResolveBasePrice(apartment, d)
			require.NoError(t, err)
			assert.Positive(t, price, "base price for %s on %s", apartment, d.Format("2006-01-02"))

			d = d.AddDate(0, 0, 1)
		}
	}
}

func TestRuleSet_DiscountFor(t *testing.T) {
	rs := RuleSet{
		Discounts: []Discount{
			{MinNights: 7, Fraction: -0.05},
			{MinNights: 14, Fraction: -0.1},
			{MinNights: 28, Fraction: -0.2},
		},
	}

	tests := []struct {
		nights   int
		fraction float64
	}{
		{1, 0},
		{6, 0},
		{7, -0.05},
		{13, -0.05},
		{14, -0.1},
		{27, -0.1},
		{28, -0.2},
		{60, -0.2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.fraction, rs.DiscountFor(tt.nights), "nights=%d", tt.nights)
	}
}

// A longer qualifying stay never gets a smaller discount than a shorter one.
func TestRuleSet_DiscountMonotonicity(t *testing.T) {
	rs := RuleSet{
		Discounts: []Discount{
			{MinNights: 7, Fraction: -0.05},
			{MinNights: 14, Fraction: -0.1},
		},
	}

	prev := 0.0
	for nights := 1; nights <= 30; nights++ {
		f := rs.DiscountFor(nights)
		assert.LessOrEqual(t, f, prev, "discount must not shrink at %d nights", nights)
		prev = f
	}
}
