package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"salonai/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *recordingQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type listingCalendar struct {
	reservations []models.Reservation
	err          error
	requested    string
}

func (c *listingCalendar) FetchBusyIntervals(context.Context, string) ([]models.BusyInterval, error) {
	return nil, nil
}
func (c *listingCalendar) CreateOrUpdateEvent(context.Context, *models.Reservation) error {
	return nil
}
func (c *listingCalendar) DeleteEvent(context.Context, string) error { return nil }
func (c *listingCalendar) ListReservationsForDate(_ context.Context, date string) ([]models.Reservation, error) {
	c.requested = date
	return c.reservations, c.err
}

type statusNotifier struct {
	sent, total int
	calls       int
}

func (n *statusNotifier) NotifyNewReservation(context.Context, *models.Reservation) {}
func (n *statusNotifier) NotifyModification(context.Context, *models.Reservation)   {}
func (n *statusNotifier) NotifyCancellation(context.Context, *models.Reservation)   {}
func (n *statusNotifier) NotifyReminderStatus(_ context.Context, sent, total int) {
	n.sent, n.total, n.calls = sent, total, n.calls+1
}

func TestEnqueueDailyReminders(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	cal := &listingCalendar{reservations: []models.Reservation{
		{ID: "r-1", UserID: "u-1", ClientName: "山本", Date: "2025-06-03",
			Start: 10 * 60, End: 11 * 60, ServiceName: "カット", StaffName: "田中"},
		{ID: "r-2", UserID: "", Date: "2025-06-03", Start: 14 * 60, End: 15 * 60},
		{ID: "r-3", UserID: "u-2", ClientName: "鈴木", Date: "2025-06-03",
			Start: 15 * 60, End: 17 * 60, ServiceName: "カラー", StaffName: "山田"},
	}}
	queue := &recordingQueue{}
	notifier := &statusNotifier{}

	svc := NewService(cal, queue, notifier, loc)
	svc.Now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, loc) }

	enqueued, total, err := svc.EnqueueDailyReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, enqueued)
	assert.Equal(t, 2, total, "reservation without user id is not counted")
	assert.Equal(t, "2025-06-03", cal.requested)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, 2, notifier.sent)

	require.Len(t, queue.tasks, 2)
	var payload models.ReminderPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, "r-1", payload.ReservationID)
	assert.Equal(t, "u-1", payload.UserID)
	assert.Contains(t, payload.Body, "山本 様")
	assert.Contains(t, payload.Body, "明日（2025-06-03）10:00 から カット（担当：田中）")
	assert.Contains(t, payload.Body, "所要時間：60分")
}

func TestEnqueueDailyRemindersCalendarError(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	cal := &listingCalendar{err: errors.New("calendar down")}
	svc := NewService(cal, &recordingQueue{}, &statusNotifier{}, loc)

	_, _, err := svc.EnqueueDailyReminders(context.Background())
	assert.Error(t, err)
}

func TestEnqueueDailyRemindersQueueFailure(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	cal := &listingCalendar{reservations: []models.Reservation{
		{ID: "r-1", UserID: "u-1", Date: "2025-06-03", Start: 600, End: 660},
	}}
	notifier := &statusNotifier{}
	svc := NewService(cal, &recordingQueue{err: errors.New("redis down")}, notifier, loc)

	enqueued, total, err := svc.EnqueueDailyReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, enqueued)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, notifier.sent)
	assert.Equal(t, 1, notifier.total)
}
