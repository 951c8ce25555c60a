package booking

import (
	"context"
	"errors"
	"testing"

	"salonai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAvailability returns canned free slots.
type fakeAvailability struct {
	slots       []models.Interval
	err         error
	lastExclude string
	lastMinDur  int
}

func (f *fakeAvailability) ComputeFreeSlots(_ context.Context, _ string, minDuration int, excludeID string) ([]models.Interval, error) {
	f.lastExclude = excludeID
	f.lastMinDur = minDuration
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Interval
	for _, s := range f.slots {
		if s.Duration() >= minDuration {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeGateway struct {
	upsertErr error
	upserts   int
}

func (f *fakeGateway) FetchBusyIntervals(context.Context, string) ([]models.BusyInterval, error) {
	return nil, nil
}
func (f *fakeGateway) CreateOrUpdateEvent(context.Context, *models.Reservation) error {
	f.upserts++
	return f.upsertErr
}
func (f *fakeGateway) DeleteEvent(context.Context, string) error { return nil }
func (f *fakeGateway) ListReservationsForDate(context.Context, string) ([]models.Reservation, error) {
	return nil, nil
}

type fakeRepo struct {
	updateErr error
	updates   int
}

func (f *fakeRepo) Create(context.Context, *models.Reservation) error { return nil }
func (f *fakeRepo) GetByID(context.Context, string) (*models.Reservation, error) {
	return nil, errors.New("not found")
}
func (f *fakeRepo) ListByUser(context.Context, string) ([]models.Reservation, error) {
	return nil, nil
}
func (f *fakeRepo) ListByDate(context.Context, string) ([]models.Reservation, error) {
	return nil, nil
}
func (f *fakeRepo) Update(context.Context, *models.Reservation) error {
	f.updates++
	return f.updateErr
}
func (f *fakeRepo) Delete(context.Context, string) error { return nil }

func currentReservation() *models.Reservation {
	return &models.Reservation{
		ID:          "r-target",
		UserID:      "u-1",
		Date:        "2025-06-02",
		Start:       15 * 60,
		End:         16 * 60, // 60-minute カット
		ServiceName: "カット",
		StaffName:   "田中",
	}
}

func newValidator(avail *fakeAvailability) *DefaultModificationValidator {
	return &DefaultModificationValidator{
		Availability: avail,
		Calendar:     &fakeGateway{},
		Reservations: &fakeRepo{},
		Catalog:      models.DefaultCatalog(),
	}
}

// Bare start "11:00" into free slot 11:00-12:30 with a 60-minute original:
// accepted, end resolves to 12:00 (duration preserved, not the slot end).
func TestChangeTimeBareStartPreservesDuration(t *testing.T) {
	avail := &fakeAvailability{slots: []models.Interval{{Start: 11 * 60, End: 12*60 + 30}}}
	v := newValidator(avail)

	out := v.ChangeTime(context.Background(), currentReservation(), 11*60, BareEnd)
	require.True(t, out.Accepted)
	assert.False(t, out.NoOp)
	assert.Equal(t, 11*60, out.Updated.Start)
	assert.Equal(t, 12*60, out.Updated.End)
	assert.Equal(t, "r-target", avail.lastExclude, "own reservation must be excluded")
}

// Bare start "11:00" when the only free slot is 11:00-11:30: rejected,
// slot too short for the 60-minute original.
func TestChangeTimeSlotTooShort(t *testing.T) {
	avail := &fakeAvailability{slots: []models.Interval{{Start: 11 * 60, End: 11*60 + 30}}}
	v := newValidator(avail)

	out := v.ChangeTime(context.Background(), currentReservation(), 11*60, BareEnd)
	assert.False(t, out.Accepted)
	assert.Equal(t, KindNoMatchingSlot, out.Kind)
	assert.Contains(t, out.Message, "所要時間")
}

func TestChangeTimeNoMatchingSlot(t *testing.T) {
	avail := &fakeAvailability{slots: []models.Interval{{Start: 9 * 60, End: 10 * 60}}}
	v := newValidator(avail)

	out := v.ChangeTime(context.Background(), currentReservation(), 13*60, BareEnd)
	assert.False(t, out.Accepted)
	assert.Equal(t, KindNoMatchingSlot, out.Kind)
}

// Requesting the existing range is always accepted, whatever else is booked
// that day, and issues no further availability query.
func TestChangeTimeNoOpAlwaysAccepted(t *testing.T) {
	avail := &fakeAvailability{err: errors.New("calendar down")}
	v := newValidator(avail)
	res := currentReservation()

	out := v.ChangeTime(context.Background(), res, res.Start, res.End)
	require.True(t, out.Accepted)
	assert.True(t, out.NoOp)

	out = v.ChangeTime(context.Background(), res, res.Start, BareEnd)
	require.True(t, out.Accepted)
	assert.True(t, out.NoOp)
}

func TestChangeTimeExplicitRangeMustFitSlot(t *testing.T) {
	avail := &fakeAvailability{slots: []models.Interval{{Start: 10 * 60, End: 12 * 60}}}
	v := newValidator(avail)

	out := v.ChangeTime(context.Background(), currentReservation(), 10*60, 11*60+30)
	require.True(t, out.Accepted)
	assert.Equal(t, 11*60+30, out.Updated.End)

	out = v.ChangeTime(context.Background(), currentReservation(), 10*60, 12*60+30)
	assert.False(t, out.Accepted)
}

func TestChangeTimeUnparseableWindow(t *testing.T) {
	v := newValidator(&fakeAvailability{})
	out := v.ChangeTime(context.Background(), currentReservation(), 11*60, 10*60)
	assert.False(t, out.Accepted)
	assert.Equal(t, KindInputUnparseable, out.Kind)
}

func TestChangeTimeGatewayFailure(t *testing.T) {
	avail := &fakeAvailability{err: errors.New("calendar down")}
	v := newValidator(avail)

	out := v.ChangeTime(context.Background(), currentReservation(), 11*60, BareEnd)
	assert.False(t, out.Accepted)
	assert.Equal(t, KindGatewayUnavailable, out.Kind)
}

// Service change keeps the original start and recomputes the end from the
// new duration when that window is free.
func TestChangeServiceKeepsStart(t *testing.T) {
	avail := &fakeAvailability{slots: []models.Interval{{Start: 14 * 60, End: 17 * 60}}}
	v := newValidator(avail)

	out := v.ChangeService(context.Background(), currentReservation(), "トリートメント")
	require.True(t, out.Accepted)
	assert.Equal(t, "トリートメント", out.Updated.ServiceName)
	assert.Equal(t, 15*60, out.Updated.Start)
	assert.Equal(t, 16*60+30, out.Updated.End) // 90 minutes
	assert.Equal(t, 90, avail.lastMinDur)
	assert.Equal(t, "r-target", avail.lastExclude)
}

// A longer service that no longer fits at the original start is rejected
// with an explicit instruction to change the time too; nothing is shifted
// silently.
func TestChangeServiceRequiresTimeChangeWhenStartNoLongerFits(t *testing.T) {
	// 150-minute パーマ fits inside 9:00-13:00 but not at the 15:00 start.
	avail := &fakeAvailability{slots: []models.Interval{
		{Start: 9 * 60, End: 13 * 60},
		{Start: 15 * 60, End: 17 * 60},
	}}
	v := newValidator(avail)

	out := v.ChangeService(context.Background(), currentReservation(), "パーマ")
	assert.False(t, out.Accepted)
	assert.Equal(t, KindNoMatchingSlot, out.Kind)
	assert.Contains(t, out.Message, "時間の変更")
}

func TestChangeServiceNoSlotAnywhere(t *testing.T) {
	avail := &fakeAvailability{slots: []models.Interval{{Start: 9 * 60, End: 10 * 60}}}
	v := newValidator(avail)

	out := v.ChangeService(context.Background(), currentReservation(), "パーマ")
	assert.False(t, out.Accepted)
	assert.Equal(t, KindNoMatchingSlot, out.Kind)
}

func TestChangeServiceUnknownName(t *testing.T) {
	v := newValidator(&fakeAvailability{})
	out := v.ChangeService(context.Background(), currentReservation(), "ネイル")
	assert.False(t, out.Accepted)
	assert.Equal(t, KindCatalogLookupFailed, out.Kind)
	assert.Contains(t, out.Message, "カット")
}

func TestChangeStaff(t *testing.T) {
	v := newValidator(&fakeAvailability{err: errors.New("must not be called")})

	out := v.ChangeStaff(currentReservation(), "山田さんにお願いしたい")
	require.True(t, out.Accepted)
	assert.Equal(t, "山田", out.Updated.StaffName)
	assert.Equal(t, 15*60, out.Updated.Start, "window unchanged")

	out = v.ChangeStaff(currentReservation(), "鈴木")
	assert.False(t, out.Accepted)
	assert.Equal(t, KindCatalogLookupFailed, out.Kind)
}

func TestApplyWritesBothGateways(t *testing.T) {
	gw := &fakeGateway{}
	repo := &fakeRepo{}
	v := &DefaultModificationValidator{
		Availability: &fakeAvailability{},
		Calendar:     gw,
		Reservations: repo,
		Catalog:      models.DefaultCatalog(),
	}

	res := currentReservation()
	require.NoError(t, v.Apply(context.Background(), res))
	assert.Equal(t, 1, gw.upserts)
	assert.Equal(t, 1, repo.updates)
}

func TestApplyCalendarFailureIsGatewayUnavailable(t *testing.T) {
	gw := &fakeGateway{upsertErr: errors.New("api error")}
	repo := &fakeRepo{}
	v := &DefaultModificationValidator{
		Availability: &fakeAvailability{}, Calendar: gw, Reservations: repo,
		Catalog: models.DefaultCatalog(),
	}

	err := v.Apply(context.Background(), currentReservation())
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindGatewayUnavailable, fe.Kind)
	assert.Zero(t, repo.updates, "record must not be written after calendar failure")
}

func TestApplyRecordFailureIsPartialCommit(t *testing.T) {
	gw := &fakeGateway{}
	repo := &fakeRepo{updateErr: errors.New("mongo down")}
	v := &DefaultModificationValidator{
		Availability: &fakeAvailability{}, Calendar: gw, Reservations: repo,
		Catalog: models.DefaultCatalog(),
	}

	err := v.Apply(context.Background(), currentReservation())
	var fe *FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindPartialCommitFailure, fe.Kind)
	assert.Equal(t, 1, gw.upserts)
}
