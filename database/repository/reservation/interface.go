package reservationRepo

import (
	"context"

	"salonai/models"
)

// ReservationRepository is the system of record for reservation documents.
// The calendar remains the authority for busy intervals; this store carries
// the chat-user mapping and the audit trail of confirmed bookings.
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	ListByDate(ctx context.Context, date string) ([]models.Reservation, error)
	Update(ctx context.Context, res *models.Reservation) error
	Delete(ctx context.Context, id string) error
}
