package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"salonai/models"
	"salonai/utils"

	"go.uber.org/zap"
)

// SlackNotifier posts reservation events to an incoming webhook.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type slackAttachment struct {
	Color  string `json:"color"`
	Text   string `json:"text"`
	Footer string `json:"footer"`
	TS     int64  `json:"ts"`
}

type slackPayload struct {
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

func (s *SlackNotifier) NotifyNewReservation(ctx context.Context, res *models.Reservation) {
	s.send(ctx, "📅 新規予約", reservationSummary(res), "good")
}

func (s *SlackNotifier) NotifyModification(ctx context.Context, res *models.Reservation) {
	s.send(ctx, "🔄 予約変更", reservationSummary(res), "warning")
}

func (s *SlackNotifier) NotifyCancellation(ctx context.Context, res *models.Reservation) {
	s.send(ctx, "❌ 予約キャンセル", reservationSummary(res), "danger")
}

func (s *SlackNotifier) NotifyReminderStatus(ctx context.Context, sent, total int) {
	color := "good"
	if sent < total {
		color = "warning"
	}
	s.send(ctx, "⏰ リマインダー送信結果",
		fmt.Sprintf("送信成功: %d/%d件", sent, total), color)
}

func (s *SlackNotifier) send(ctx context.Context, title, text, color string) {
	payload := slackPayload{
		Text: title,
		Attachments: []slackAttachment{{
			Color:  color,
			Text:   text,
			Footer: "Salon Booking System",
			TS:     time.Now().Unix(),
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		utils.GetLogger().Error("failed to marshal slack payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		utils.GetLogger().Error("failed to build slack request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		utils.GetLogger().Error("slack webhook delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		utils.GetLogger().Error("slack webhook returned non-success status",
			zap.Int("status", resp.StatusCode))
	}
}

func reservationSummary(res *models.Reservation) string {
	return fmt.Sprintf("📅 日時：%s %s\n💇 サービス：%s\n👨‍💼 担当者：%s\n👤 お客様：%s\n予約ID：%s",
		res.Date, res.Window().Label(), res.ServiceName, res.StaffName, res.ClientName, res.ID)
}
