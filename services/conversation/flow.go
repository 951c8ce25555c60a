package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	reservationRepo "salonai/database/repository/reservation"
	"salonai/models"
	"salonai/services/booking"
	"salonai/services/calendar"
	"salonai/services/schedule"
	"salonai/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier receives reservation lifecycle events for fan-out to the salon
// staff. Failures are logged, never surfaced to the user.
type Notifier interface {
	NotifyNewReservation(ctx context.Context, res *models.Reservation)
	NotifyModification(ctx context.Context, res *models.Reservation)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) NotifyNewReservation(context.Context, *models.Reservation) {}
func (NopNotifier) NotifyModification(context.Context, *models.Reservation)   {}

// userLocks hands out one mutex per user ID so that a user's messages are
// handled strictly one at a time, gateway calls included. Locks are never
// evicted; the per-user footprint is one mutex.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (u *userLocks) get(userID string) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.locks == nil {
		u.locks = make(map[string]*sync.Mutex)
	}
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	return l
}

// Engine drives the booking and modification conversations. Each inbound
// message is dispatched against the user's stored session state; terminal
// transitions clear the session. An empty reply means the message is not a
// flow message and should fall through to the FAQ responder.
type Engine struct {
	Sessions     SessionStore
	Reservations reservationRepo.ReservationRepository
	Validator    booking.ModificationValidator
	Availability schedule.AvailabilityEngine
	Calendar     calendar.Gateway
	Catalog      *models.Catalog
	Notifier     Notifier
	Now          func() time.Time

	locks userLocks
}

func NewEngine(sessions SessionStore, reservations reservationRepo.ReservationRepository,
	validator booking.ModificationValidator, availability schedule.AvailabilityEngine,
	cal calendar.Gateway, catalog *models.Catalog, notifier Notifier, now func() time.Time) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		Sessions:     sessions,
		Reservations: reservations,
		Validator:    validator,
		Availability: availability,
		Calendar:     cal,
		Catalog:      catalog,
		Notifier:     notifier,
		Now:          now,
	}
}

// HandleMessage processes one inbound message and returns the reply text.
// An empty reply with a nil error means the engine has nothing to say and
// the caller should route the message to the FAQ responder instead.
//
// Messages for the same user are serialized: a turn runs to completion,
// gateway writes included, before the next message for that user is read.
// Without this, two simultaneous webhook deliveries would both load the
// same session state and both commit.
func (e *Engine) HandleMessage(ctx context.Context, userID, displayName, text string) (string, error) {
	l := e.locks.get(userID)
	l.Lock()
	defer l.Unlock()

	sess, err := e.Sessions.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load session for %s: %w", userID, err)
	}

	if sess != nil {
		if IsCancelKeyword(text) {
			if err := e.Sessions.Clear(ctx, userID); err != nil {
				return "", err
			}
			return msgFlowAbandoned, nil
		}
		return e.dispatch(ctx, sess, text)
	}

	switch DetectIntent(text) {
	case IntentModification:
		return e.startModification(ctx, userID, displayName)
	case IntentBooking:
		return e.startBooking(ctx, userID, displayName)
	case IntentCancelInfo:
		return msgCancelInfo, nil
	default:
		return "", nil
	}
}

// dispatch advances an existing session by exactly one step. It is the only
// place session state transitions happen.
func (e *Engine) dispatch(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	switch sess.State {
	case models.StateServiceSelection:
		return e.handleServiceSelection(ctx, sess, text)
	case models.StateStaffSelection:
		return e.handleStaffSelection(ctx, sess, text)
	case models.StateDateSelection:
		return e.handleDateSelection(ctx, sess, text)
	case models.StateTimeSelection:
		return e.handleTimeSelection(ctx, sess, text)
	case models.StateConfirmation:
		return e.handleConfirmation(ctx, sess, text)
	case models.StateAwaitingReservationSelection:
		return e.handleReservationSelection(ctx, sess, text)
	case models.StateAwaitingFieldSelection:
		return e.handleFieldSelection(ctx, sess, text)
	case models.StateAwaitingNewValue:
		return e.handleNewValue(ctx, sess, text)
	default:
		utils.GetLogger().Warn("session in unknown state, resetting",
			zap.String("userID", sess.UserID), zap.String("state", string(sess.State)))
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return msgFlowBroken, nil
	}
}

// --- booking flow ---

func (e *Engine) startBooking(ctx context.Context, userID, displayName string) (string, error) {
	sess := &models.ConversationSession{
		UserID:     userID,
		ClientName: displayName,
		Flow:       models.FlowBooking,
		State:      models.StateServiceSelection,
	}
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return promptServiceMenu(e.Catalog), nil
}

func (e *Engine) handleServiceSelection(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	name, ok := resolveAlias(text, serviceAliases)
	if !ok {
		name, ok = booking.ResolveName(text, e.Catalog.ServiceNames())
	}
	if !ok {
		return "申し訳ございませんが、そのサービスは提供しておりません。上記のサービスからお選びください。", nil
	}
	sess.Working.ServiceName = name
	sess.State = models.StateStaffSelection
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return promptStaffMenu(e.Catalog, name), nil
}

func (e *Engine) handleStaffSelection(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	name, ok := booking.ResolveName(text, e.Catalog.StaffNames())
	if !ok {
		name, ok = resolveAlias(text, staffAliases)
	}
	if !ok {
		return "申し訳ございませんが、その美容師は選択できません。上記の美容師からお選びください。", nil
	}
	sess.Working.StaffName = name
	sess.State = models.StateDateSelection
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return promptDateMenu(name), nil
}

func (e *Engine) handleDateSelection(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	date, ok := ParseDate(text, e.Now())
	if !ok {
		return msgDateUnrecognized, nil
	}

	svc, found := e.Catalog.Service(sess.Working.ServiceName)
	if !found {
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return msgFlowBroken, nil
	}

	slots, err := e.Availability.ComputeFreeSlots(ctx, date, svc.DurationMinutes, "")
	if err != nil {
		utils.GetLogger().Error("availability fetch failed during date selection",
			zap.String("date", date), zap.Error(err))
		return booking.MsgGatewayFailure, nil
	}
	if len(slots) == 0 {
		return promptNoSlotsOnDate(date), nil
	}

	sess.Working.Date = date
	sess.State = models.StateTimeSelection
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return promptTimeMenu(date, slots), nil
}

func (e *Engine) handleTimeSelection(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	start, ok := ParseClockMinute(text)
	if !ok {
		return booking.MsgTimeUnparseable, nil
	}

	svc, found := e.Catalog.Service(sess.Working.ServiceName)
	if !found {
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return msgFlowBroken, nil
	}

	// Re-fetch at selection time; slots shown in the previous turn may have
	// been taken by a concurrent booking.
	slots, err := e.Availability.ComputeFreeSlots(ctx, sess.Working.Date, svc.DurationMinutes, "")
	if err != nil {
		utils.GetLogger().Error("availability fetch failed during time selection",
			zap.String("date", sess.Working.Date), zap.Error(err))
		return booking.MsgGatewayFailure, nil
	}
	window := models.Interval{Start: start, End: start + svc.DurationMinutes}
	fits := false
	for _, slot := range slots {
		if slot.Contains(window) {
			fits = true
			break
		}
	}
	if !fits {
		return fmt.Sprintf("申し訳ございませんが、%sは空いていません。上記の空き時間からお選びください。",
			models.FormatMinute(start)), nil
	}

	sess.Working.StartMinute = start
	sess.State = models.StateConfirmation
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return promptBookingConfirmation(sess.Working.Date, start, svc, sess.Working.StaffName), nil
}

func (e *Engine) handleConfirmation(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	if !isAffirmative(text) {
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return msgConfirmDeclined, nil
	}

	svc, found := e.Catalog.Service(sess.Working.ServiceName)
	if !found {
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return msgFlowBroken, nil
	}

	clientName := sess.ClientName
	if clientName == "" {
		clientName = "お客様"
	}
	now := e.Now()
	res := &models.Reservation{
		ID:          uuid.New().String(),
		UserID:      sess.UserID,
		ClientName:  clientName,
		Date:        sess.Working.Date,
		Start:       sess.Working.StartMinute,
		End:         sess.Working.StartMinute + svc.DurationMinutes,
		ServiceName: svc.Name,
		StaffName:   sess.Working.StaffName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Calendar event first, then the record; the session survives a gateway
	// failure so the user can retry the confirmation.
	if err := e.Calendar.CreateOrUpdateEvent(ctx, res); err != nil {
		utils.GetLogger().Error("calendar create failed at booking confirmation",
			zap.String("reservationID", res.ID), zap.Error(err))
		return booking.MsgGatewayFailure, nil
	}
	if err := e.Reservations.Create(ctx, res); err != nil {
		utils.GetLogger().Error("partial commit: calendar event created but reservation record failed",
			zap.String("reservationID", res.ID), zap.Error(err))
		return booking.MsgGatewayFailure, nil
	}
	if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
		return "", err
	}
	e.Notifier.NotifyNewReservation(ctx, res)
	return promptBookingComplete(res), nil
}

func isAffirmative(text string) bool {
	t := strings.TrimSpace(text)
	for _, k := range []string{"はい", "確定", "お願い"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// --- modification flow ---

func (e *Engine) startModification(ctx context.Context, userID, displayName string) (string, error) {
	reservations, err := e.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list reservations for %s: %w", userID, err)
	}
	if len(reservations) == 0 {
		return msgNoReservations, nil
	}

	sess := &models.ConversationSession{
		UserID:     userID,
		ClientName: displayName,
		Flow:       models.FlowModification,
		State:      models.StateAwaitingReservationSelection,
	}
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return promptReservationList(reservations), nil
}

func (e *Engine) handleReservationSelection(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	reservations, err := e.Reservations.ListByUser(ctx, sess.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to list reservations for %s: %w", sess.UserID, err)
	}
	if len(reservations) == 0 {
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return msgNoReservations, nil
	}

	selected, ok := pickReservation(text, reservations)
	if !ok {
		// Unchanged state; the same list goes out again.
		return promptReservationList(reservations), nil
	}

	sess.SelectedReservationID = selected.ID
	sess.State = models.StateAwaitingFieldSelection
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return promptFieldMenu(&selected), nil
}

// capacityAt returns the free minutes available from start, or 0 when no
// free slot covers it.
func capacityAt(slots []models.Interval, start int) int {
	for _, s := range slots {
		if s.Start <= start && start < s.End {
			return s.End - start
		}
	}
	return 0
}

// pickReservation resolves an ordinal ("1") or a reservation identifier
// against the listed reservations.
func pickReservation(input string, reservations []models.Reservation) (models.Reservation, bool) {
	t := strings.TrimSpace(input)
	if n, err := strconv.Atoi(t); err == nil {
		if n >= 1 && n <= len(reservations) {
			return reservations[n-1], true
		}
		return models.Reservation{}, false
	}
	for _, r := range reservations {
		if r.ID == t {
			return r, true
		}
	}
	return models.Reservation{}, false
}

func (e *Engine) handleFieldSelection(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	res, err := e.Reservations.GetByID(ctx, sess.SelectedReservationID)
	if err != nil {
		if clearErr := e.Sessions.Clear(ctx, sess.UserID); clearErr != nil {
			return "", clearErr
		}
		return msgReservationNotFound, nil
	}

	field, ok := ResolveField(text)
	if !ok {
		// Unrecognized synonym: same state, same menu.
		return promptFieldMenu(res), nil
	}

	var reply string
	switch field {
	case models.FieldTime:
		slots, err := e.Availability.ComputeFreeSlots(ctx, res.Date, 1, res.ID)
		if err != nil {
			utils.GetLogger().Error("availability fetch failed during field selection",
				zap.String("reservationID", res.ID), zap.Error(err))
			return booking.MsgGatewayFailure, nil
		}
		reply = promptFreeSlots(res, slots)
	case models.FieldService:
		slots, err := e.Availability.ComputeFreeSlots(ctx, res.Date, 1, res.ID)
		if err != nil {
			utils.GetLogger().Error("availability fetch failed during field selection",
				zap.String("reservationID", res.ID), zap.Error(err))
			return booking.MsgGatewayFailure, nil
		}
		reply = promptServiceChoices(e.Catalog, capacityAt(slots, res.Start))
	case models.FieldStaff:
		reply = promptStaffChoices(e.Catalog)
	}

	sess.PendingField = field
	sess.State = models.StateAwaitingNewValue
	if err := e.Sessions.Set(ctx, sess); err != nil {
		return "", err
	}
	return reply, nil
}

func (e *Engine) handleNewValue(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	res, err := e.Reservations.GetByID(ctx, sess.SelectedReservationID)
	if err != nil {
		if clearErr := e.Sessions.Clear(ctx, sess.UserID); clearErr != nil {
			return "", clearErr
		}
		return msgReservationNotFound, nil
	}

	var outcome booking.Outcome
	switch sess.PendingField {
	case models.FieldTime:
		start, end, ok := ParseTimeRange(text, booking.BareEnd)
		if !ok {
			return booking.MsgTimeUnparseable, nil
		}
		outcome = e.Validator.ChangeTime(ctx, res, start, end)
	case models.FieldService:
		outcome = e.Validator.ChangeService(ctx, res, text)
	case models.FieldStaff:
		outcome = e.Validator.ChangeStaff(res, text)
	default:
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return msgFlowBroken, nil
	}

	if !outcome.Accepted {
		// Rejection keeps the state; the user retries with different input.
		return outcome.Message, nil
	}

	// A no-op confirmation issues no gateway writes.
	if outcome.NoOp {
		if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
			return "", err
		}
		return promptNoOpConfirmed(res), nil
	}

	if err := e.Validator.Apply(ctx, &outcome.Updated); err != nil {
		var fe *booking.FlowError
		if errors.As(err, &fe) {
			// State unchanged on gateway failure so the user may retry.
			return fe.Message, nil
		}
		return "", err
	}
	if err := e.Sessions.Clear(ctx, sess.UserID); err != nil {
		return "", err
	}
	e.Notifier.NotifyModification(ctx, &outcome.Updated)
	return promptModificationComplete(&outcome.Updated), nil
}
