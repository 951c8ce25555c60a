package models

// InboundMessage is one text message received from the chat channel.
type InboundMessage struct {
	UserID     string `json:"userId"`
	ReplyToken string `json:"replyToken,omitempty"`
	Text       string `json:"text"`
}

// ReminderPayload is the asynq task body for one reservation reminder.
type ReminderPayload struct {
	ReservationID string `json:"reservationId"`
	UserID        string `json:"userId"`
	Body          string `json:"body"`
	FireDate      string `json:"fireDate"`
}

// AuditEntry is one row of the spreadsheet interaction log.
type AuditEntry struct {
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	ActionType   string `json:"actionType"`
	UserMessage  string `json:"userMessage"`
	BotResponse  string `json:"botResponse"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ProcessingMS int64  `json:"processingMs"`
}
