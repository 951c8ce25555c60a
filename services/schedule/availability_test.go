package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCalendar serves a fixed busy set per date.
type fakeCalendar struct {
	busy map[string][]models.BusyInterval
	err  error
}

func (f *fakeCalendar) FetchBusyIntervals(_ context.Context, date string) ([]models.BusyInterval, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.busy[date], nil
}

func (f *fakeCalendar) CreateOrUpdateEvent(context.Context, *models.Reservation) error { return nil }
func (f *fakeCalendar) DeleteEvent(context.Context, string) error                      { return nil }
func (f *fakeCalendar) ListReservationsForDate(context.Context, string) ([]models.Reservation, error) {
	return nil, nil
}

func testHours() *BusinessHours {
	return &BusinessHours{
		OpenMinute:     9 * 60,
		CloseMinute:    20 * 60,
		ClosedWeekdays: map[time.Weekday]bool{time.Sunday: true},
		Location:       time.UTC,
	}
}

const monday = "2025-06-02"

func busyIv(id string, start, end int) models.BusyInterval {
	return models.BusyInterval{Interval: models.Interval{Start: start, End: end}, ReservationID: id}
}

// Busy 13:00-14:00 and 17:00-18:00 plus the reservation being modified at
// 15:00-16:00; excluding it merges the surrounding gap into 14:00-17:00, and
// a 90-minute minimum keeps only 09:00-13:00 and 14:00-17:00.
func TestComputeFreeSlotsExcludesOwnReservation(t *testing.T) {
	cal := &fakeCalendar{busy: map[string][]models.BusyInterval{
		monday: {
			busyIv("r-1", 13*60, 14*60),
			busyIv("r-target", 15*60, 16*60),
			busyIv("r-2", 17*60, 18*60),
		},
	}}
	engine := &DefaultAvailabilityEngine{Calendar: cal, Hours: testHours()}

	slots, err := engine.ComputeFreeSlots(context.Background(), monday, 90, "r-target")
	require.NoError(t, err)
	assert.Equal(t, []models.Interval{
		{Start: 9 * 60, End: 13 * 60},
		{Start: 14 * 60, End: 17 * 60},
	}, slots)
}

func TestComputeFreeSlotsWithoutExclusion(t *testing.T) {
	cal := &fakeCalendar{busy: map[string][]models.BusyInterval{
		monday: {
			busyIv("r-1", 13*60, 14*60),
			busyIv("r-target", 15*60, 16*60),
			busyIv("r-2", 17*60, 18*60),
		},
	}}
	engine := &DefaultAvailabilityEngine{Calendar: cal, Hours: testHours()}

	slots, err := engine.ComputeFreeSlots(context.Background(), monday, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []models.Interval{
		{Start: 9 * 60, End: 13 * 60},
		{Start: 14 * 60, End: 15 * 60},
		{Start: 16 * 60, End: 17 * 60},
		{Start: 18 * 60, End: 20 * 60},
	}, slots)

	// No free slot may overlap any remaining busy interval.
	for _, s := range slots {
		for _, b := range cal.busy[monday] {
			assert.False(t, s.Overlaps(b.Interval))
		}
	}
}

func TestComputeFreeSlotsUnknownExcludeIsNoOp(t *testing.T) {
	cal := &fakeCalendar{busy: map[string][]models.BusyInterval{
		monday: {busyIv("r-1", 13*60, 14*60)},
	}}
	engine := &DefaultAvailabilityEngine{Calendar: cal, Hours: testHours()}

	withUnknown, err := engine.ComputeFreeSlots(context.Background(), monday, 30, "no-such-id")
	require.NoError(t, err)
	without, err := engine.ComputeFreeSlots(context.Background(), monday, 30, "")
	require.NoError(t, err)
	assert.Equal(t, without, withUnknown)
}

func TestComputeFreeSlotsClosedDayIsEmpty(t *testing.T) {
	engine := &DefaultAvailabilityEngine{Calendar: &fakeCalendar{}, Hours: testHours()}

	sunday := "2025-06-01"
	slots, err := engine.ComputeFreeSlots(context.Background(), sunday, 60, "")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeFreeSlotsAppliesBreak(t *testing.T) {
	hours := testHours()
	hours.BreakStart, hours.BreakEnd, hours.HasBreak = 12*60, 13*60, true
	engine := &DefaultAvailabilityEngine{Calendar: &fakeCalendar{}, Hours: hours}

	slots, err := engine.ComputeFreeSlots(context.Background(), monday, 60, "")
	require.NoError(t, err)
	assert.Equal(t, []models.Interval{
		{Start: 9 * 60, End: 12 * 60},
		{Start: 13 * 60, End: 20 * 60},
	}, slots)
}

func TestComputeFreeSlotsMinDurationFilter(t *testing.T) {
	cal := &fakeCalendar{busy: map[string][]models.BusyInterval{
		monday: {busyIv("r-1", 9*60+30, 19*60)},
	}}
	engine := &DefaultAvailabilityEngine{Calendar: cal, Hours: testHours()}

	// Gaps are 30 and 60 minutes; only the hour survives a 60-minute minimum.
	slots, err := engine.ComputeFreeSlots(context.Background(), monday, 60, "")
	require.NoError(t, err)
	assert.Equal(t, []models.Interval{{Start: 19 * 60, End: 20 * 60}}, slots)

	_, err = engine.ComputeFreeSlots(context.Background(), monday, 0, "")
	assert.Error(t, err)
}

func TestComputeFreeSlotsGatewayError(t *testing.T) {
	engine := &DefaultAvailabilityEngine{
		Calendar: &fakeCalendar{err: errors.New("calendar unreachable")},
		Hours:    testHours(),
	}
	_, err := engine.ComputeFreeSlots(context.Background(), monday, 60, "")
	assert.Error(t, err)
}
