package api

import (
	"encoding/json"
	"net/http"
	"time"

	"adriastay/internal/metrics"
)

// ApartmentResponse represents an apartment in API responses.
type ApartmentResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	MaxGuests int    `json:"max_guests"`
}

// handleApartments returns the list of active apartments.
// GET /api/apartments
func (s *HTTPServer) handleApartments(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("apartments")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	apartments, err := s.db.GetApartments(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list apartments")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]ApartmentResponse, 0, len(apartments))
	for _, a := range apartments {
		resp = append(resp, ApartmentResponse{ID: a.ID, Name: a.Name, MaxGuests: a.MaxGuests})
	}
	writeJSON(w, http.StatusOK, map[string]any{"apartments": resp})
}

// handleStayLimits returns the min/max night bounds for a start date.
// GET /api/stay-limits?apartment=Nika&start=YYYY-MM-DD
func (s *HTTPServer) handleStayLimits(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("stay_limits")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	apartment := r.URL.Query().Get("apartment")
	if apartment == "" {
		writeError(w, http.StatusBadRequest, "apartment is required")
		return
	}

	startStr := r.URL.Query().Get("start")
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start format; expected YYYY-MM-DD")
		return
	}

	limits, err := s.store.GetStayLimits(apartment, start)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

// QuoteRequest is the request body for POST /api/quote.
type QuoteRequest struct {
	Apartment string `json:"apartment"`
	StartDate string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate   string `json:"end_date"`   // Format: YYYY-MM-DD
}

// handleQuote computes the price breakdown for a candidate stay.
// POST /api/quote
func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("quote")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req QuoteRequest
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

	summary, err := s.engine.CalculateStayPrice(req.Apartment, start, end)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}

	valid, err := s.store.IsValidStayLength(req.Apartment, start, end)
	if err != nil {
		s.writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":           summary,
		"valid_stay_length": valid,
	})
}
