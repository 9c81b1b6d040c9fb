package pricing

import (
	"time"

	"adriastay/internal/dates"
)

// StayLimits are the night-count bounds of the rule set matching a start date.
type StayLimits struct {
	MinNights int `json:"min_nights"`
	MaxNights int `json:"max_nights"`
}

// GetStayLimits resolves the min/max night constraints for a stay starting
// on startDate.
func (s *Store) GetStayLimits(apartment string, startDate time.Time) (StayLimits, error) {
	rs, err := s.ResolveRuleSet(apartment, startDate)
	if err != nil {
		return StayLimits{}, err
	}
	return StayLimits{MinNights: rs.MinNights, MaxNights: rs.MaxNights}, nil
}

// IsValidStayLength reports whether a stay of [start, end) satisfies the
// night-count bounds of its starting season. A non-positive night count is
// always invalid. This is a length check only; availability is a separate
// question and callers must check both.
func (s *Store) IsValidStayLength(apartment string, start, end time.Time) (bool, error) {
	totalNights := dates.DaysBetween(start, end)
	if totalNights <= 0 {
		return false, nil
	}

	limits, err := s.GetStayLimits(apartment, start)
	if err != nil {
		return false, err
	}
	return totalNights >= limits.MinNights && totalNights <= limits.MaxNights, nil
}
