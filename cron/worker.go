package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"salonai/config"
	"salonai/models"
	"salonai/services/line"
	"salonai/services/reminder"
	"salonai/utils"

	"github.com/hibiken/asynq"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitReminderWorker runs the asynq worker that delivers queued reminder
// tasks over LINE. Runs in the background; retries startup a few times
// before giving up.
func InitReminderWorker(lineClient *line.Client) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(reminder.TaskTypeReminderSend, handleReminderTask(lineClient))

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("reminder worker could not start, giving up")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func handleReminderTask(lineClient *line.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid reminder payload", zap.Error(err))
			return err
		}

		if err := lineClient.Push(ctx, p.UserID, p.Body); err != nil {
			utils.GetLogger().Error("reminder delivery failed",
				zap.String("reservationID", p.ReservationID),
				zap.String("userID", p.UserID), zap.Error(err))
			return err
		}
		utils.GetLogger().Info("reminder delivered",
			zap.String("reservationID", p.ReservationID), zap.String("fireDate", p.FireDate))
		return nil
	}
}

// StartReminderScheduler triggers the daily reminder enqueue at the
// configured wall-clock time in the operating zone. Returns the scheduler so
// the caller can stop it on shutdown.
func StartReminderScheduler(svc *reminder.Service, loc *time.Location) (*robfig.Cron, error) {
	spec, err := cronSpecFromClock(config.AppConfig.ReminderTime)
	if err != nil {
		return nil, err
	}

	c := robfig.New(robfig.WithLocation(loc))
	_, err = c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, _, err := svc.EnqueueDailyReminders(ctx); err != nil {
			utils.GetLogger().Error("daily reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule daily reminders: %w", err)
	}
	c.Start()
	utils.GetLogger().Info("reminder scheduler started",
		zap.String("time", config.AppConfig.ReminderTime), zap.String("zone", loc.String()))
	return c, nil
}

// cronSpecFromClock converts "09:00" into the cron expression "0 9 * * *".
func cronSpecFromClock(clock string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid reminder time %q, want HH:MM", clock)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &hour, &minute); err != nil {
		return "", fmt.Errorf("invalid reminder time %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("reminder time %q out of range", clock)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
