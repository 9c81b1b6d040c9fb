package feeds

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"adriastay/internal/dates"
	"adriastay/internal/models"
)

// GoogleCalendarSource reads booking events from per-apartment Google
// calendars shared by the channel manager.
type GoogleCalendarSource struct {
	service     *calendar.Service
	calendarIDs map[int64]string
}

// NewGoogleCalendarSource builds a source from a service-account
// credentials file and the apartment-to-calendar mapping.
func NewGoogleCalendarSource(ctx context.Context, credentialsFile string, calendarIDs map[int64]string) (*GoogleCalendarSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &GoogleCalendarSource{service: service, calendarIDs: calendarIDs}, nil
}

// Events lists upcoming events on the apartment's calendar. All-day events
// carry date-only boundaries; timed events are truncated to their calendar
// day. Google's all-day end date is exclusive, which matches the half-open
// convention directly.
func (s *GoogleCalendarSource) Events(ctx context.Context, apartmentID int64) ([]models.ExternalCalendarEvent, error) {
	calendarID, ok := s.calendarIDs[apartmentID]
	if !ok {
		return nil, fmt.Errorf("no calendar configured for apartment %d", apartmentID)
	}

	items, err := s.service.Events.List(calendarID).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(time.Now().AddDate(0, -1, 0).Format(time.RFC3339)).
		MaxResults(250).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list calendar events for apartment %d: %w", apartmentID, err)
	}

	events := make([]models.ExternalCalendarEvent, 0, len(items.Items))
	for _, item := range items.Items {
		if item.Status == "cancelled" || item.Start == nil || item.End == nil {
			continue
		}

		start, err := parseEventDate(item.Start)
		if err != nil {
			return nil, fmt.Errorf("event %q start: %w", item.Id, err)
		}
		end, err := parseEventDate(item.End)
		if err != nil {
			return nil, fmt.Errorf("event %q end: %w", item.Id, err)
		}

		events = append(events, models.ExternalCalendarEvent{
			ApartmentID: apartmentID,
			StartDate:   start,
			EndDate:     end,
			Source:      "google",
		})
	}
	return events, nil
}

func parseEventDate(d *calendar.EventDateTime) (time.Time, error) {
	if d.Date != "" {
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, d.DateTime)
	if err != nil {
		return time.Time{}, err
	}
	return dates.Normalize(t), nil
}
