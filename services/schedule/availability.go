package schedule

import (
	"context"
	"fmt"

	"salonai/models"
	"salonai/services/calendar"
)

// AvailabilityEngine computes the free slots of a business day.
type AvailabilityEngine interface {
	// ComputeFreeSlots returns the disjoint free intervals of date that are
	// at least minDuration minutes long, sorted ascending by start. When
	// excludeReservationID is non-empty, that reservation's own busy interval
	// is dropped from the accounting so a modification never collides with
	// itself. An unknown exclude ID is a no-op, which lets brand-new bookings
	// reuse the same computation.
	ComputeFreeSlots(ctx context.Context, date string, minDuration int, excludeReservationID string) ([]models.Interval, error)
}

// DefaultAvailabilityEngine derives free slots from calendar busy intervals
// and the configured business hours. It holds no state between calls: every
// decision re-fetches the current busy set, so a slot shown in one turn is
// re-validated before anything is committed in a later turn.
type DefaultAvailabilityEngine struct {
	Calendar calendar.Gateway
	Hours    *BusinessHours
}

func (e *DefaultAvailabilityEngine) ComputeFreeSlots(ctx context.Context, date string, minDuration int, excludeReservationID string) ([]models.Interval, error) {
	if minDuration < 1 {
		return nil, fmt.Errorf("minDuration must be at least 1, got %d", minDuration)
	}

	bound, open := e.Hours.DayBound(date)
	if !open {
		return nil, nil
	}

	busyIntervals, err := e.Calendar.FetchBusyIntervals(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy intervals for %s: %w", date, err)
	}

	busy := make([]models.Interval, 0, len(busyIntervals)+1)
	for _, b := range busyIntervals {
		if excludeReservationID != "" && b.ReservationID == excludeReservationID {
			continue
		}
		busy = append(busy, b.Interval)
	}
	busy = append(busy, e.Hours.StandingBusy()...)

	SortIntervals(busy)
	merged := MergeIntervals(busy)
	free := SubtractIntervals(bound, merged)

	var slots []models.Interval
	for _, iv := range free {
		if iv.Duration() >= minDuration {
			slots = append(slots, iv)
		}
	}
	return slots, nil
}
