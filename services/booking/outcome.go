package booking

import "salonai/models"

// Outcome is the uniform result of a modification check. Time, service and
// staff changes all emit this shape: either Accepted with the updated
// reservation fields, or Rejected with a kind and a human-readable message.
type Outcome struct {
	Accepted bool
	// Updated carries the full post-change reservation when Accepted.
	Updated models.Reservation
	// NoOp marks an accepted change whose time range equals the current one;
	// no gateway write is issued for it.
	NoOp    bool
	Kind    Kind
	Message string
}

func accepted(updated models.Reservation) Outcome {
	return Outcome{Accepted: true, Updated: updated}
}

func acceptedNoOp(current models.Reservation) Outcome {
	return Outcome{Accepted: true, Updated: current, NoOp: true}
}

func rejected(kind Kind, message string) Outcome {
	return Outcome{Kind: kind, Message: message}
}
