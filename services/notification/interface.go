package notification

import (
	"context"

	"salonai/models"
)

// Notifier fans reservation lifecycle events out to the salon staff.
// Implementations log delivery failures instead of returning them; a missed
// staff notification must never fail the customer-facing operation that
// triggered it.
type Notifier interface {
	NotifyNewReservation(ctx context.Context, res *models.Reservation)
	NotifyModification(ctx context.Context, res *models.Reservation)
	NotifyCancellation(ctx context.Context, res *models.Reservation)
	NotifyReminderStatus(ctx context.Context, sent, total int)
}
