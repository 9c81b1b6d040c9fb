package models

import "time"

// Apartment is a rentable unit. Pricing tables are keyed by the display
// Name, not the numeric ID; callers map id to name before pricing calls.
type Apartment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	MaxGuests int       `json:"max_guests"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NightPrice is one entry of a stay's nightly breakdown.
type NightPrice struct {
	Date  time.Time `json:"date"`
	Price int       `json:"price"`
}

// StaySummary is the computed price breakdown for a candidate stay. It is
// never stored; every request recomputes it from configuration.
type StaySummary struct {
	TotalNights        int          `json:"total_nights"`
	NightlyPrices      []NightPrice `json:"nightly_prices"`
	Subtotal           int          `json:"subtotal"`
	DiscountFraction   float64      `json:"discount_fraction"`
	DiscountedSubtotal int          `json:"discounted_subtotal"`
	CleaningFee        int          `json:"cleaning_fee"`
	Total              int          `json:"total"`
	AveragePerNight    int          `json:"average_per_night"`
}

// Inquiry is a contact request for a candidate stay, validated against the
// pricing and availability engines before it is handed to the notifiers.
type Inquiry struct {
	Reference  string    `json:"reference"`
	Apartment  string    `json:"apartment"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	GuestName  string    `json:"guest_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message,omitempty"`
	QuoteTotal int       `json:"quote_total"`
	Available  bool      `json:"available"`
	Degraded   bool      `json:"degraded"`
	ReceivedAt time.Time `json:"received_at"`
}
