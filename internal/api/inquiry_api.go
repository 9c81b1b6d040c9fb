package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"adriastay/internal/events"
	"adriastay/internal/metrics"
	"adriastay/internal/models"
)

// InquiryRequest is the request body for POST /api/inquiries.
type InquiryRequest struct {
	Apartment string `json:"apartment"`
	StartDate string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate   string `json:"end_date"`   // Format: YYYY-MM-DD
	GuestName string `json:"guest_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message,omitempty"`
}

// InquiryResponse is returned after an inquiry was accepted.
type InquiryResponse struct {
	Reference  string              `json:"reference"`
	Available  bool                `json:"available"`
	Degraded   bool                `json:"degraded"`
	ValidStay  bool                `json:"valid_stay_length"`
	Summary    *models.StaySummary `json:"summary"`
	ReceivedAt time.Time           `json:"received_at"`
}

// handleInquiries validates a candidate stay and hands the inquiry to the
// notifiers. Nothing is persisted; delivery to the owners is the event
// subscribers' job.
// POST /api/inquiries
func (s *HTTPServer) handleInquiries(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("inquiries")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req InquiryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Apartment == "" || req.GuestName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "apartment, guest_name and email are required")
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
	validStay, err := s.store.IsValidStayLength(req.Apartment, start, end)
	if err != nil {
		s.writeCoreError(w, err)
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

	inquiry := models.Inquiry{
		Reference:  uuid.NewString(),
		Apartment:  req.Apartment,
		StartDate:  start,
		EndDate:    end,
		GuestName:  req.GuestName,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
		QuoteTotal: summary.Total,
		Available:  result.Available,
		Degraded:   result.Degraded,
		ReceivedAt: time.Now(),
	}

	metrics.IncInquiryReceived()
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.TypeInquiryReceived, Payload: inquiry})
	}

	s.logger.Info().
		Str("reference", inquiry.Reference).
		Str("apartment", inquiry.Apartment).
		Bool("available", inquiry.Available).
		Msg("inquiry received")

	writeJSON(w, http.StatusAccepted, InquiryResponse{
		Reference:  inquiry.Reference,
		Available:  result.Available,
		Degraded:   result.Degraded,
		ValidStay:  validStay,
		Summary:    summary,
		ReceivedAt: inquiry.ReceivedAt,
	})
}
