package booking

import (
	"context"
	"fmt"
	"strings"

	reservationRepo "salonai/database/repository/reservation"
	"salonai/models"
	"salonai/services/calendar"
	"salonai/services/schedule"
	"salonai/utils"

	"go.uber.org/zap"
)

// BareEnd marks a time-change request that supplied only a start time; the
// end is derived by preserving the original reservation's duration.
const BareEnd = -1

// ModificationValidator checks a proposed reservation change against current
// availability and applies accepted changes through the gateways.
type ModificationValidator interface {
	ChangeTime(ctx context.Context, current *models.Reservation, newStart, newEnd int) Outcome
	ChangeService(ctx context.Context, current *models.Reservation, requestedService string) Outcome
	ChangeStaff(current *models.Reservation, requestedStaff string) Outcome
	Apply(ctx context.Context, updated *models.Reservation) error
}

// DefaultModificationValidator is the production implementation. The catalog
// is injected as an immutable value so tests can pin a fixed one.
type DefaultModificationValidator struct {
	Availability schedule.AvailabilityEngine
	Calendar     calendar.Gateway
	Reservations reservationRepo.ReservationRepository
	Catalog      *models.Catalog
}

// ChangeTime validates moving the reservation to a new window on the same
// date. newEnd == BareEnd means only a start was given: the original
// duration is preserved, so the new window is [newStart, newStart+dur).
// Free slots mark capacity, not appointment boundaries; a slot longer than
// the required duration still yields the duration-preserving end.
func (v *DefaultModificationValidator) ChangeTime(ctx context.Context, current *models.Reservation, newStart, newEnd int) Outcome {
	duration := current.End - current.Start
	if newEnd == BareEnd {
		newEnd = newStart + duration
	}
	if newStart < 0 || newEnd <= newStart {
		return rejected(KindInputUnparseable, MsgTimeUnparseable)
	}

	// Identical range: always accepted, regardless of the rest of the day.
	if newStart == current.Start && newEnd == current.End {
		return acceptedNoOp(*current)
	}

	// Fresh slot computation excluding this reservation; never reuse slots
	// shown in an earlier turn.
	slots, err := v.Availability.ComputeFreeSlots(ctx, current.Date, 1, current.ID)
	if err != nil {
		return rejected(KindGatewayUnavailable, MsgGatewayFailure)
	}

	requested := models.Interval{Start: newStart, End: newEnd}
	for _, slot := range slots {
		if slot.Contains(requested) {
			updated := *current
			updated.Start = newStart
			updated.End = newEnd
			return accepted(updated)
		}
		// The start lands inside this slot but the slot cannot hold the
		// reservation's duration.
		if slot.Start <= newStart && newStart < slot.End {
			return rejected(KindNoMatchingSlot,
				fmt.Sprintf(msgSlotTooShort, models.FormatMinute(newStart), duration))
		}
	}
	return rejected(KindNoMatchingSlot,
		fmt.Sprintf(msgNoMatchingSlot, models.FormatMinute(newStart)))
}

// ChangeService validates switching the reservation to another service on
// the same date at the same start time, with the end recomputed from the new
// service's duration. If the original start no longer fits, the user must
// change the time as well; the dependency is surfaced as an error instead of
// silently shifting the appointment.
func (v *DefaultModificationValidator) ChangeService(ctx context.Context, current *models.Reservation, requestedService string) Outcome {
	name, ok := ResolveName(requestedService, v.Catalog.ServiceNames())
	if !ok {
		return rejected(KindCatalogLookupFailed,
			fmt.Sprintf(msgUnknownService, strings.Join(v.Catalog.ServiceNames(), "・")))
	}
	svc, _ := v.Catalog.Service(name)

	slots, err := v.Availability.ComputeFreeSlots(ctx, current.Date, svc.DurationMinutes, current.ID)
	if err != nil {
		return rejected(KindGatewayUnavailable, MsgGatewayFailure)
	}
	if len(slots) == 0 {
		return rejected(KindNoMatchingSlot, fmt.Sprintf(msgNoSlotForService, name, current.Date))
	}

	window := models.Interval{Start: current.Start, End: current.Start + svc.DurationMinutes}
	for _, slot := range slots {
		if slot.Contains(window) {
			updated := *current
			updated.ServiceName = name
			updated.End = window.End
			return accepted(updated)
		}
	}
	return rejected(KindNoMatchingSlot, fmt.Sprintf(msgServiceNeedsNewTime, name))
}

// ChangeStaff validates reassigning the reservation to another staff member.
// The window is unchanged, so no availability recomputation is needed.
func (v *DefaultModificationValidator) ChangeStaff(current *models.Reservation, requestedStaff string) Outcome {
	name, ok := ResolveName(requestedStaff, v.Catalog.StaffNames())
	if !ok {
		return rejected(KindCatalogLookupFailed,
			fmt.Sprintf(msgUnknownStaff, strings.Join(v.Catalog.StaffNames(), "・")))
	}
	updated := *current
	updated.StaffName = name
	return accepted(updated)
}

// Apply persists an accepted modification: the calendar event first, then
// the reservation record. Both writes must succeed; a record failure after
// the event write is reported as a partial commit and logged for manual
// reconciliation; there is no automatic rollback.
func (v *DefaultModificationValidator) Apply(ctx context.Context, updated *models.Reservation) error {
	if err := v.Calendar.CreateOrUpdateEvent(ctx, updated); err != nil {
		return NewFlowError(KindGatewayUnavailable, MsgGatewayFailure,
			fmt.Errorf("calendar update for reservation %s failed: %w", updated.ID, err))
	}
	if err := v.Reservations.Update(ctx, updated); err != nil {
		utils.GetLogger().Error("partial commit: calendar updated but reservation record failed",
			zap.String("reservationID", updated.ID), zap.Error(err))
		return NewFlowError(KindPartialCommitFailure, MsgGatewayFailure,
			fmt.Errorf("reservation record update for %s failed after calendar write: %w", updated.ID, err))
	}
	return nil
}
