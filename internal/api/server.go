// Package api exposes the pricing and availability engines over a JSON
// HTTP API consumed by the website frontend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"adriastay/internal/audit"
	"adriastay/internal/availability"
	"adriastay/internal/events"
	"adriastay/internal/feeds"
	"adriastay/internal/metrics"
	"adriastay/internal/models"
	"adriastay/internal/pricing"
)

const (
	// MaxAvailabilityDaysRange is the maximum number of days allowed in an
	// availability request.
	MaxAvailabilityDaysRange = 90
)

// BookingStore provides apartments and their manually recorded bookings.
type BookingStore interface {
	GetApartments(ctx context.Context) ([]models.Apartment, error)
	GetApartmentByName(ctx context.Context, name string) (*models.Apartment, error)
	GetBookingsByApartment(ctx context.Context, apartmentID int64) ([]models.Booking, error)
}

// HTTPServer serves the public API.
type HTTPServer struct {
	store  *pricing.Store
	engine *pricing.Engine
	db     BookingStore
	feeds  feeds.Source
	bus    *events.Bus
	export *audit.Service
	logger *zerolog.Logger
	server *http.Server
}

// NewHTTPServer wires the handlers. feeds and export may be nil when the
// corresponding feature is not configured.
func NewHTTPServer(port int, store *pricing.Store, engine *pricing.Engine, db BookingStore,
	feedSource feeds.Source, bus *events.Bus, export *audit.Service, logger *zerolog.Logger) *HTTPServer {

	s := &HTTPServer{
		store:  store,
		engine: engine,
		db:     db,
		feeds:  feedSource,
		bus:    bus,
		export: export,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/apartments", s.handleApartments)
	mux.HandleFunc("/api/stay-limits", s.handleStayLimits)
	mux.HandleFunc("/api/quote", s.handleQuote)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/inquiries", s.handleInquiries)
	mux.HandleFunc("/api/export", s.handleExport)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start serves until the context is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeCoreError maps core sentinel errors to HTTP statuses.
func (s *HTTPServer) writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrConfigurationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pricing.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseDateRange validates a YYYY-MM-DD pair.
func parseDateRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}

	start, err = time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format; expected YYYY-MM-DD")
	}

	end, err = time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format; expected YYYY-MM-DD")
	}

	return start, end, nil
}

// loadMerger fetches both booking sources for an apartment. A feed failure
// is logged and degrades the result instead of failing the request.
func (s *HTTPServer) loadMerger(ctx context.Context, apt *models.Apartment) (*availability.Merger, error) {
	bookings, err := s.db.GetBookingsByApartment(ctx, apt.ID)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	var feedEvents []models.ExternalCalendarEvent
	degraded := false
	if s.feeds != nil {
		feedEvents, err = s.feeds.Events(ctx, apt.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("apartment", apt.Name).Msg("calendar feed unavailable, degrading")
			feedEvents = nil
			degraded = true
			metrics.IncFeedFailure()
		}
	}

	return availability.NewMerger(apt.ID, bookings, feedEvents, degraded), nil
}
