package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonai/models"
	"salonai/services/calendar"
	"salonai/services/notification"
	"salonai/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeReminderSend is the asynq task type for one user reminder.
const TaskTypeReminderSend = "reminder:send"

// TaskEnqueuer is the slice of asynq.Client the service needs; tests
// substitute a recorder.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service enqueues day-before reminders for tomorrow's reservations. The
// cron worker delivers the queued tasks to LINE.
type Service struct {
	Calendar calendar.Gateway
	Queue    TaskEnqueuer
	Notifier notification.Notifier
	Loc      *time.Location
	Now      func() time.Time
}

func NewService(cal calendar.Gateway, queue TaskEnqueuer, notifier notification.Notifier, loc *time.Location) *Service {
	return &Service{Calendar: cal, Queue: queue, Notifier: notifier, Loc: loc, Now: time.Now}
}

// EnqueueDailyReminders queues one reminder task per reservation tomorrow
// and reports the enqueue result to the manager channel. Reservations
// without a known user id (manually entered events) are skipped.
func (s *Service) EnqueueDailyReminders(ctx context.Context) (enqueued, total int, err error) {
	tomorrow := s.Now().In(s.Loc).AddDate(0, 0, 1).Format("2006-01-02")

	reservations, err := s.Calendar.ListReservationsForDate(ctx, tomorrow)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list reservations for %s: %w", tomorrow, err)
	}

	for _, res := range reservations {
		if res.UserID == "" {
			utils.GetLogger().Warn("skipping reminder for reservation without user id",
				zap.String("reservationID", res.ID))
			continue
		}
		total++

		payload, err := json.Marshal(models.ReminderPayload{
			ReservationID: res.ID,
			UserID:        res.UserID,
			Body:          reminderBody(&res),
			FireDate:      tomorrow,
		})
		if err != nil {
			utils.GetLogger().Error("failed to marshal reminder payload",
				zap.String("reservationID", res.ID), zap.Error(err))
			continue
		}

		task := asynq.NewTask(TaskTypeReminderSend, payload)
		if _, err := s.Queue.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
			utils.GetLogger().Error("failed to enqueue reminder task",
				zap.String("reservationID", res.ID), zap.Error(err))
			continue
		}
		enqueued++
	}

	utils.GetLogger().Info("daily reminders enqueued",
		zap.String("date", tomorrow), zap.Int("enqueued", enqueued), zap.Int("total", total))
	if s.Notifier != nil && total > 0 {
		s.Notifier.NotifyReminderStatus(ctx, enqueued, total)
	}
	return enqueued, total, nil
}

func reminderBody(res *models.Reservation) string {
	name := res.ClientName
	if name == "" {
		name = "お客様"
	}
	return fmt.Sprintf(`%s 様
明日（%s）%s から %s（担当：%s）のご予約です。

・所要時間：%d分
・変更／キャンセル：ご変更の場合は「予約変更」とお送りください。

ご来店をお待ちしております。`,
		name, res.Date, models.FormatMinute(res.Start), res.ServiceName, res.StaffName,
		res.End-res.Start)
}
