package models

import "time"

// Flow identifies which conversation a session is driving.
type Flow string

const (
	FlowBooking      Flow = "booking"
	FlowModification Flow = "modification"
)

// SessionState is one step of a conversation flow.
type SessionState string

// Booking flow states.
const (
	StateServiceSelection SessionState = "service_selection"
	StateStaffSelection   SessionState = "staff_selection"
	StateDateSelection    SessionState = "date_selection"
	StateTimeSelection    SessionState = "time_selection"
	StateConfirmation     SessionState = "confirmation"
)

// Modification flow states.
const (
	StateAwaitingReservationSelection SessionState = "awaiting_reservation_selection"
	StateAwaitingFieldSelection       SessionState = "awaiting_field_selection"
	StateAwaitingNewValue             SessionState = "awaiting_new_value"
)

// Field is the reservation attribute being modified.
type Field string

const (
	FieldTime    Field = "time"
	FieldService Field = "service"
	FieldStaff   Field = "staff"
)

// WorkingValues accumulates inputs collected so far in a booking flow.
type WorkingValues struct {
	ServiceName string `json:"serviceName,omitempty"`
	StaffName   string `json:"staffName,omitempty"`
	Date        string `json:"date,omitempty"`
	StartMinute int    `json:"startMinute,omitempty"`
}

// ConversationSession holds per-user dialogue context between turns. It is
// created on the first relevant message, advanced by a single dispatch
// function, and deleted on completion or cancellation. The terminal states
// (confirmed/abandoned) are not stored; reaching them clears the session.
type ConversationSession struct {
	UserID                string        `json:"userId"`
	ClientName            string        `json:"clientName,omitempty"`
	Flow                  Flow          `json:"flow"`
	State                 SessionState  `json:"state"`
	SelectedReservationID string        `json:"selectedReservationId,omitempty"`
	PendingField          Field         `json:"pendingField,omitempty"`
	Working               WorkingValues `json:"working"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}
