package calendar

import (
	"context"

	"salonai/models"
)

// Gateway abstracts the external calendar that owns the salon's busy
// intervals. Implementations must localize all event timestamps into the
// fixed operating time zone before converting to minutes-from-midnight;
// no naive timestamp crosses this boundary.
type Gateway interface {
	// FetchBusyIntervals returns every busy interval on the given date,
	// tagged with its owning reservation ID, clipped to that date.
	FetchBusyIntervals(ctx context.Context, date string) ([]models.BusyInterval, error)

	// CreateOrUpdateEvent upserts the calendar event for a reservation.
	CreateOrUpdateEvent(ctx context.Context, res *models.Reservation) error

	// DeleteEvent removes the calendar event of a cancelled reservation.
	DeleteEvent(ctx context.Context, reservationID string) error

	// ListReservationsForDate parses the date's events back into reservation
	// records (used by the reminder run).
	ListReservationsForDate(ctx context.Context, date string) ([]models.Reservation, error)
}
