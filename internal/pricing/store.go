package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"adriastay/internal/dates"
	"adriastay/internal/metrics"
)

var (
	// ErrConfigurationNotFound means the apartment key has no pricing
	// profile. Callers must not default around it: it signals a
	// data-entry gap that has to be fixed upstream.
	ErrConfigurationNotFound = errors.New("pricing configuration not found")

	// ErrInvalidDateRange means the requested stay has no nights in it.
	ErrInvalidDateRange = errors.New("invalid date range")
)

// Store resolves the effective rule set and base price for an apartment and
// date. It is populated once at startup and read-only afterwards, so it is
// safe for concurrent use.
type Store struct {
	profiles map[string]Profile
	logger   *zerolog.Logger
}

// NewStore builds a store over the given profiles, keyed by apartment name.
func NewStore(profiles map[string]Profile, logger *zerolog.Logger) *Store {
	return &Store{profiles: profiles, logger: logger}
}

// Profile returns the pricing profile for an apartment key.
func (s *Store) Profile(apartment string) (Profile, error) {
	p, ok := s.profiles[apartment]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrConfigurationNotFound, apartment)
	}
	return p, nil
}

// Apartments returns the configured apartment keys.
func (s *Store) Apartments() []string {
	keys := make([]string, 0, len(s.profiles))
	for k := range s.profiles {
		keys = append(keys, k)
	}
	return keys
}

// ResolveRuleSet returns the rule set in effect for the apartment on a date.
// A date outside every configured season period falls back to a rule set
// synthesized from the apartment defaults; the fallback is logged because it
// usually means the season calendar has a hole.
func (s *Store) ResolveRuleSet(apartment string, date time.Time) (RuleSet, error) {
	p, err := s.Profile(apartment)
	if err != nil {
		return RuleSet{}, err
	}

	date = dates.Normalize(date)
	for _, period := range p.RuleSetPeriods {
		if dates.WithinInclusive(period.Start, period.End, date) {
			if rs, ok := p.RuleSets[period.RuleSet]; ok {
				return rs, nil
			}
		}
	}

	s.logFallback(apartment, date, "rule set")
	return p.defaultRuleSet(), nil
}

// ResolveBasePrice returns the nightly base price for the apartment on a
// date, falling back to the configured default price when no price period
// covers it.
func (s *Store) ResolveBasePrice(apartment string, date time.Time) (int, error) {
	p, err := s.Profile(apartment)
	if err != nil {
		return 0, err
	}

	date = dates.Normalize(date)
	for _, period := range p.PricePeriods {
		if dates.WithinInclusive(period.Start, period.End, date) {
			return period.BasePrice, nil
		}
	}

	s.logFallback(apartment, date, "base price")
	return p.Defaults.Price, nil
}

func (s *Store) logFallback(apartment string, date time.Time, what string) {
	metrics.IncPricingFallback()
	if s.logger != nil {
		s.logger.Warn().
			Str("apartment", apartment).
			Str("date", date.Format("2006-01-02")).
			Msgf("no %s period covers date, using defaults", what)
	}
}
