package api

import (
	"encoding/json"
	"net/http"
	"time"

	"adriastay/internal/audit"
	"adriastay/internal/dates"
	"adriastay/internal/metrics"
)

// AvailabilityRequest is the request body for POST /api/availability.
type AvailabilityRequest struct {
	Apartment string `json:"apartment"`
	StartDate string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate   string `json:"end_date"`   // Format: YYYY-MM-DD
}

// DateAvailability represents availability for a single date.
type DateAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// AvailabilityResponse is the response for POST /api/availability.
type AvailabilityResponse struct {
	Apartment string             `json:"apartment"`
	Available bool               `json:"available"`
	Degraded  bool               `json:"degraded"`
	Dates     []DateAvailability `json:"dates"`
	Period    struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleAvailability answers whether a candidate range is free, with a
// per-date breakdown for the calendar widget.
// POST /api/availability
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailabilityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Apartment == "" {
		writeError(w, http.StatusBadRequest, "apartment is required")
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !start.Before(end) {
		writeError(w, http.StatusBadRequest, "start_date must be before end_date")
		return
	}
	if dates.DaysBetween(start, end) > MaxAvailabilityDaysRange {
		writeError(w, http.StatusBadRequest, "date range exceeds maximum of 90 days")
		return
	}

	apt, err := s.db.GetApartmentByName(r.Context(), req.Apartment)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	merger, err := s.loadMerger(r.Context(), apt)
	if err != nil {
		s.logger.Error().Err(err).Str("apartment", apt.Name).Msg("load occupancy")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result := merger.IsRangeAvailable(start, end)

	resp := AvailabilityResponse{
		Apartment: apt.Name,
		Available: result.Available,
		Degraded:  result.Degraded,
		Dates:     make([]DateAvailability, 0, dates.DaysBetween(start, end)),
	}
	for d := dates.Normalize(start); d.Before(dates.Normalize(end)); d = d.AddDate(0, 0, 1) {
		resp.Dates = append(resp.Dates, DateAvailability{
			Date:      d.Format("2006-01-02"),
			Available: !merger.IsDateOccupied(d),
		})
	}
	resp.Period.Start = req.StartDate
	resp.Period.End = req.EndDate

	writeJSON(w, http.StatusOK, resp)
}

// handleExport streams the monthly bookings workbook.
// GET /api/export?month=YYYY-MM
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.export == nil {
		writeError(w, http.StatusNotFound, "export not configured")
		return
	}

	monthStr := r.URL.Query().Get("month")
	month, err := time.Parse("2006-01", monthStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format; expected YYYY-MM")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+audit.Filename(month))
	if err := s.export.ExportMonth(r.Context(), month, w); err != nil {
		s.logger.Error().Err(err).Msg("export bookings")
	}
}
