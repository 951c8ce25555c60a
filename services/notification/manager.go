package notification

import (
	"context"
	"strings"

	"salonai/models"
	"salonai/utils"

	"go.uber.org/zap"
)

// Manager fans each event out to the channels selected by the
// NOTIFICATION_METHOD setting: "slack", "line", "both", or "none".
type Manager struct {
	targets []Notifier
}

// NewManager wires the configured channels. A nil notifier means that
// channel is unconfigured; selecting it anyway degrades to no notifications
// with a logged warning rather than failing startup, as do unknown methods.
func NewManager(method string, slack *SlackNotifier, lineNotifier *LineNotifier) *Manager {
	m := &Manager{}
	addSlack := func() {
		if slack == nil {
			utils.GetLogger().Warn("slack notifications selected but no webhook URL is configured")
			return
		}
		m.targets = append(m.targets, slack)
	}
	addLine := func() {
		if lineNotifier == nil {
			utils.GetLogger().Warn("line notifications selected but no manager user is configured")
			return
		}
		m.targets = append(m.targets, lineNotifier)
	}
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "slack":
		addSlack()
	case "line":
		addLine()
	case "both":
		addSlack()
		addLine()
	case "", "none":
	default:
		utils.GetLogger().Warn("unknown notification method, notifications disabled",
			zap.String("method", method))
	}
	return m
}

func (m *Manager) NotifyNewReservation(ctx context.Context, res *models.Reservation) {
	for _, t := range m.targets {
		t.NotifyNewReservation(ctx, res)
	}
}

func (m *Manager) NotifyModification(ctx context.Context, res *models.Reservation) {
	for _, t := range m.targets {
		t.NotifyModification(ctx, res)
	}
}

func (m *Manager) NotifyCancellation(ctx context.Context, res *models.Reservation) {
	for _, t := range m.targets {
		t.NotifyCancellation(ctx, res)
	}
}

func (m *Manager) NotifyReminderStatus(ctx context.Context, sent, total int) {
	for _, t := range m.targets {
		t.NotifyReminderStatus(ctx, sent, total)
	}
}
