// Package feeds fetches externally managed calendar events per apartment.
// The availability layer consumes the events as completed values; a fetch
// failure is surfaced to the caller, which degrades to manual bookings only.
package feeds

import (
	"context"

	"adriastay/internal/models"
)

// Source supplies the external calendar events for one apartment.
type Source interface {
	Events(ctx context.Context, apartmentID int64) ([]models.ExternalCalendarEvent, error)
}
