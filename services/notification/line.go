package notification

import (
	"context"
	"fmt"

	"salonai/models"
	"salonai/services/line"
	"salonai/utils"

	"go.uber.org/zap"
)

// LineNotifier pushes reservation events to the salon manager's LINE
// account.
type LineNotifier struct {
	client        *line.Client
	managerUserID string
}

func NewLineNotifier(client *line.Client, managerUserID string) *LineNotifier {
	return &LineNotifier{client: client, managerUserID: managerUserID}
}

func (n *LineNotifier) NotifyNewReservation(ctx context.Context, res *models.Reservation) {
	n.push(ctx, "新規予約", reservationSummary(res))
}

func (n *LineNotifier) NotifyModification(ctx context.Context, res *models.Reservation) {
	n.push(ctx, "予約変更", reservationSummary(res))
}

func (n *LineNotifier) NotifyCancellation(ctx context.Context, res *models.Reservation) {
	n.push(ctx, "予約キャンセル", reservationSummary(res))
}

func (n *LineNotifier) NotifyReminderStatus(ctx context.Context, sent, total int) {
	n.push(ctx, "リマインダー送信結果", fmt.Sprintf("送信成功: %d/%d件", sent, total))
}

func (n *LineNotifier) push(ctx context.Context, title, body string) {
	text := fmt.Sprintf("📢 %s\n\n%s", title, body)
	if err := n.client.Push(ctx, n.managerUserID, text); err != nil {
		utils.GetLogger().Error("LINE manager notification failed",
			zap.String("title", title), zap.Error(err))
	}
}
