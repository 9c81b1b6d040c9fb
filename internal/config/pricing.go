package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"adriastay/internal/pricing"
)

// DiscountConfig is one stay-length discount threshold.
type DiscountConfig struct {
	MinNights int     `yaml:"min_nights"`
	Fraction  float64 `yaml:"fraction"` // zero or negative, e.g. -0.1
}

// RuleSetConfig is a named seasonal policy shared by all apartments.
type RuleSetConfig struct {
	PriceModifier float64          `yaml:"price_modifier"`
	MinNights     int              `yaml:"min_nights"`
	MaxNights     int              `yaml:"max_nights"`
	Discounts     []DiscountConfig `yaml:"discounts,omitempty"`
}

// PeriodConfig assigns a rule set to an inclusive date range.
type PeriodConfig struct {
	Start   string `yaml:"start"` // "2025-07-12"
	End     string `yaml:"end"`
	RuleSet string `yaml:"rule_set"`
}

// PriceConfig assigns a nightly base price to an inclusive date range.
type PriceConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Price int    `yaml:"price"`
}

// ApartmentPricingConfig is the full pricing profile of one apartment.
// Seasons, prices and defaults live together under one apartment entry so
// the three tables cannot drift apart on the key name.
type ApartmentPricingConfig struct {
	Name             string           `yaml:"name"`
	MaxGuests        int              `yaml:"max_guests"`
	CleaningFee      int              `yaml:"cleaning_fee"`
	DefaultPrice     int              `yaml:"default_price"`
	DefaultMinNights int              `yaml:"default_min_nights"`
	DefaultMaxNights int              `yaml:"default_max_nights"`
	DefaultDiscounts []DiscountConfig `yaml:"default_discounts,omitempty"`
	Seasons          []PeriodConfig   `yaml:"seasons"`
	Prices           []PriceConfig    `yaml:"prices"`
}

// PricingConfig is the root configuration for pricing.yaml.
type PricingConfig struct {
	RuleSets   map[string]RuleSetConfig `yaml:"rule_sets"`
	Apartments []ApartmentPricingConfig `yaml:"apartments"`
}

// LoadPricingConfig loads and validates the pricing configuration.
func LoadPricingConfig(path string) (*PricingConfig, error) {
	if path == "" {
		path = "configs/pricing.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing config: %w", err)
	}

	var cfg PricingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse pricing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate pricing config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *PricingConfig) Validate() error {
	if len(c.Apartments) == 0 {
		return fmt.Errorf("no apartments defined")
	}

	for name, rs := range c.RuleSets {
		if rs.MinNights < 1 {
			return fmt.Errorf("rule_sets[%s]: min_nights must be at least 1", name)
		}
		if rs.MinNights > rs.MaxNights {
			return fmt.Errorf("rule_sets[%s]: min_nights %d exceeds max_nights %d", name, rs.MinNights, rs.MaxNights)
		}
		if err := validateDiscounts(rs.Discounts, fmt.Sprintf("rule_sets[%s]", name)); err != nil {
			return err
		}
	}

	names := make(map[string]bool)
	for i, apt := range c.Apartments {
		prefix := fmt.Sprintf("apartments[%d]", i)

		if apt.Name == "" {
			return fmt.Errorf("%s: name is required", prefix)
		}
		if names[apt.Name] {
			return fmt.Errorf("%s: duplicate name '%s'", prefix, apt.Name)
		}
		names[apt.Name] = true

		if apt.DefaultPrice <= 0 {
			return fmt.Errorf("%s: default_price must be positive", prefix)
		}
		if apt.CleaningFee < 0 {
			return fmt.Errorf("%s: cleaning_fee cannot be negative", prefix)
		}
		if apt.DefaultMinNights < 1 {
			return fmt.Errorf("%s: default_min_nights must be at least 1", prefix)
		}
		if apt.DefaultMinNights > apt.DefaultMaxNights {
			return fmt.Errorf("%s: default_min_nights exceeds default_max_nights", prefix)
		}
		if err := validateDiscounts(apt.DefaultDiscounts, prefix+".default_discounts"); err != nil {
			return err
		}

		for j, p := range apt.Seasons {
			if _, _, err := validatePeriodDates(p.Start, p.End, fmt.Sprintf("%s.seasons[%d]", prefix, j)); err != nil {
				return err
			}
			if _, ok := c.RuleSets[p.RuleSet]; !ok {
				return fmt.Errorf("%s.seasons[%d]: unknown rule_set '%s'", prefix, j, p.RuleSet)
			}
		}

		for j, p := range apt.Prices {
			if _, _, err := validatePeriodDates(p.Start, p.End, fmt.Sprintf("%s.prices[%d]", prefix, j)); err != nil {
				return err
			}
			if p.Price <= 0 {
				return fmt.Errorf("%s.prices[%d]: price must be positive", prefix, j)
			}
		}
	}

	return nil
}

func validateDiscounts(discounts []DiscountConfig, prefix string) error {
	prev := 0
	for i, d := range discounts {
		if d.MinNights <= prev {
			return fmt.Errorf("%s[%d]: min_nights thresholds must be strictly increasing", prefix, i)
		}
		if d.Fraction > 0 {
			return fmt.Errorf("%s[%d]: fraction must be zero or negative, got %v", prefix, i, d.Fraction)
		}
		prev = d.MinNights
	}
	return nil
}

func validatePeriodDates(startStr, endStr, prefix string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: invalid start date '%s', expected YYYY-MM-DD", prefix, startStr)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: invalid end date '%s', expected YYYY-MM-DD", prefix, endStr)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: end date precedes start date", prefix)
	}
	return start, end, nil
}

// Profiles converts the validated configuration into immutable pricing
// profiles keyed by apartment name. Date strings are parsed here, at the
// configuration boundary; the engine only ever sees time values.
func (c *PricingConfig) Profiles() map[string]pricing.Profile {
	ruleSets := make(map[string]pricing.RuleSet, len(c.RuleSets))
	for name, rs := range c.RuleSets {
		ruleSets[name] = pricing.RuleSet{
			Name:          name,
			PriceModifier: rs.PriceModifier,
			Discounts:     toDiscounts(rs.Discounts),
			MinNights:     rs.MinNights,
			MaxNights:     rs.MaxNights,
		}
	}

	profiles := make(map[string]pricing.Profile, len(c.Apartments))
	for _, apt := range c.Apartments {
		p := pricing.Profile{
			Name:        apt.Name,
			CleaningFee: apt.CleaningFee,
			Defaults: pricing.Defaults{
				Price:     apt.DefaultPrice,
				Discounts: toDiscounts(apt.DefaultDiscounts),
				MinNights: apt.DefaultMinNights,
				MaxNights: apt.DefaultMaxNights,
			},
			RuleSets: ruleSets,
		}

		for _, s := range apt.Seasons {
			start, _ := time.Parse("2006-01-02", s.Start)
			end, _ := time.Parse("2006-01-02", s.End)
			p.RuleSetPeriods = append(p.RuleSetPeriods, pricing.RuleSetPeriod{
				Start: start, End: end, RuleSet: s.RuleSet,
			})
		}
		for _, pr := range apt.Prices {
			start, _ := time.Parse("2006-01-02", pr.Start)
			end, _ := time.Parse("2006-01-02", pr.End)
			p.PricePeriods = append(p.PricePeriods, pricing.PricePeriod{
				Start: start, End: end, BasePrice: pr.Price,
			})
		}

		profiles[apt.Name] = p
	}
	return profiles
}

func toDiscounts(in []DiscountConfig) []pricing.Discount {
	if len(in) == 0 {
		return nil
	}
	out := make([]pricing.Discount, len(in))
	for i, d := range in {
		out[i] = pricing.Discount{MinNights: d.MinNights, Fraction: d.Fraction}
	}
	return out
}
