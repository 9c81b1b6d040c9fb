// Package pricing implements the seasonal pricing engine: per-apartment
// rule-set and price periods, night-by-night price resolution, stay-length
// discounts and min/max night constraints.
package pricing

import "time"

// DefaultRuleSetName is the name reported when a queried date falls outside
// every configured season period and the apartment defaults take over.
const DefaultRuleSetName = "default"

// Discount is one stay-length discount threshold. Fraction is zero or
// negative; -0.1 means ten percent off.
type Discount struct {
	MinNights int
	Fraction  float64
}

// RuleSet is a named seasonal policy.
type RuleSet struct {
	Name          string
	PriceModifier float64 // fraction added to the base price, e.g. 0.2 for +20%
	Discounts     []Discount
	MinNights     int
	MaxNights     int
}

// DiscountFor returns the discount fraction for a stay of totalNights.
// Thresholds are strictly increasing, so the last threshold not exceeding
// the stay length wins. No qualifying threshold means no discount.
func (r RuleSet) DiscountFor(totalNights int) float64 {
	fraction := 0.0
	for _, d := range r.Discounts {
		if d.MinNights > totalNights {
			break
		}
		fraction = d.Fraction
	}
	return fraction
}

// RuleSetPeriod assigns a named rule set to an inclusive calendar-date range.
type RuleSetPeriod struct {
	Start   time.Time
	End     time.Time
	RuleSet string
}

// PricePeriod assigns a nightly base price to an inclusive calendar-date range.
type PricePeriod struct {
	Start     time.Time
	End       time.Time
	BasePrice int
}

// Defaults apply when a queried date is not covered by any period.
type Defaults struct {
	Price     int
	Discounts []Discount
	MinNights int
	MaxNights int
}

// Profile is the complete pricing configuration for one apartment: the
// seasonal calendar, the price calendar, the named rule sets they reference,
// and the fallback defaults. A Profile is immutable after construction.
type Profile struct {
	Name           string
	CleaningFee    int
	Defaults       Defaults
	RuleSets       map[string]RuleSet
	RuleSetPeriods []RuleSetPeriod
	PricePeriods   []PricePeriod
}

// defaultRuleSet synthesizes the fallback rule set from the profile defaults.
func (p Profile) defaultRuleSet() RuleSet {
	return RuleSet{
		Name:      DefaultRuleSetName,
		Discounts: p.Defaults.Discounts,
		MinNights: p.Defaults.MinNights,
		MaxNights: p.Defaults.MaxNights,
	}
}
