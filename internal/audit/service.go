// Package audit exports the season's bookings per apartment into an Excel
// workbook for the owners.
package audit

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"adriastay/internal/models"
)

// BookingSource provides the data for an export.
type BookingSource interface {
	GetApartments(ctx context.Context) ([]models.Apartment, error)
	GetBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
}

// Service builds booking exports.
type Service struct {
	source BookingSource
	logger *zerolog.Logger
}

// NewService creates an export service.
func NewService(source BookingSource, logger *zerolog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

var bookingColumns = []string{
	"Booking ID", "Guest", "Phone", "Email", "Check-in", "Check-out", "Nights", "Comment",
}

// ExportMonth writes one sheet per apartment containing the confirmed
// bookings that touch the given month.
func (s *Service) ExportMonth(ctx context.Context, month time.Time, w io.Writer) error {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	apartments, err := s.source.GetApartments(ctx)
	if err != nil {
		return fmt.Errorf("load apartments: %w", err)
	}
	bookings, err := s.source.GetBookingsInRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}

	byApartment := make(map[int64][]models.Booking)
	for _, b := range bookings {
		byApartment[b.ApartmentID] = append(byApartment[b.ApartmentID], b)
	}

	wb := newWorkbook()
	defer wb.close()

	for _, apt := range apartments {
		if err := wb.addSheet(apt.Name); err != nil {
			return err
		}
		if err := wb.header(bookingColumns); err != nil {
			return err
		}
		for _, b := range byApartment[apt.ID] {
			row := []interface{}{
				b.ID,
				b.GuestName,
				b.Phone,
				b.Email,
				b.StartDate.Format("2006-01-02"),
				b.EndDate.Format("2006-01-02"),
				b.Nights(),
				b.Comment,
			}
			if err := wb.writeRow(row); err != nil {
				return err
			}
		}
	}

	if s.logger != nil {
		s.logger.Info().
			Str("month", start.Format("2006-01")).
			Int("bookings", len(bookings)).
			Msg("bookings exported")
	}
	return wb.save(w)
}

// Filename creates an export filename like "bookings_2025-08.xlsx".
func Filename(month time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", month.Format("2006-01"))
}
