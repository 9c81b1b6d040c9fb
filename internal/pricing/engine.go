package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"adriastay/internal/dates"
	"adriastay/internal/metrics"
	"adriastay/internal/models"
)

// Engine computes stay price summaries. It is a pure function of the store
// contents and its inputs; identical inputs always produce identical
// summaries.
type Engine struct {
	store  *Store
	logger *zerolog.Logger
}

// NewEngine creates a pricing engine over the given store.
func NewEngine(store *Store, logger *zerolog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// CalculateStayPrice computes the full price breakdown for a stay of
// [start, end) in the given apartment. One nightly entry is produced per
// night; the stay-length discount comes from the rule set of the start date,
// the season the guest is booking into.
func (e *Engine) CalculateStayPrice(apartment string, start, end time.Time) (*models.StaySummary, error) {
	start = dates.Normalize(start)
	end = dates.Normalize(end)

	totalNights := dates.DaysBetween(start, end)
	if totalNights <= 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidDateRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	profile, err := e.store.Profile(apartment)
	if err != nil {
		return nil, err
	}

	nightly := make([]models.NightPrice, 0, totalNights)
	subtotal := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		basePrice, err := e.store.ResolveBasePrice(apartment, d)
		if err != nil {
			return nil, err
		}
		ruleSet, err := e.store.ResolveRuleSet(apartment, d)
		if err != nil {
			return nil, err
		}

		price := roundHalfUp(float64(basePrice) * (1 + ruleSet.PriceModifier))
		nightly = append(nightly, models.NightPrice{Date: d, Price: price})
		subtotal += price
	}

	startRuleSet, err := e.store.ResolveRuleSet(apartment, start)
	if err != nil {
		return nil, err
	}
	discount := startRuleSet.DiscountFor(totalNights)

	// Each derived quantity is rounded once from the exact value, never
	// chained, to keep rounding error from compounding.
	discountedSubtotal := roundHalfUp(float64(subtotal) * (1 + discount))

	summary := &models.StaySummary{
		TotalNights:        totalNights,
		NightlyPrices:      nightly,
		Subtotal:           subtotal,
		DiscountFraction:   discount,
		DiscountedSubtotal: discountedSubtotal,
		CleaningFee:        profile.CleaningFee,
		Total:              discountedSubtotal + profile.CleaningFee,
		AveragePerNight:    roundHalfUp(float64(discountedSubtotal) / float64(totalNights)),
	}

	metrics.IncQuoteComputed()
	if e.logger != nil {
		e.logger.Debug().
			Str("apartment", apartment).
			Int("nights", totalNights).
			Int("total", summary.Total).
			Msg("stay price computed")
	}
	return summary, nil
}

// roundHalfUp rounds to the nearest integer, halves away from zero. The
// currency has no subunit in this domain.
func roundHalfUp(v float64) int {
	return int(math.Round(v))
}
