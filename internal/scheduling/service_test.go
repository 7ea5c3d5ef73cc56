package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonamoo/counsel-scheduling/internal/model"
	"github.com/sonamoo/counsel-scheduling/internal/repository"
)

// fakeLedger is an in-memory Ledger with the same scoping, versioning
// and check-then-write atomicity semantics as the SQL repository.  The
// mutex stands in for the repository's write transaction.
type fakeLedger struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Booking
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[uint64]*model.Booking)}
}

func (f *fakeLedger) visible(scope model.TenantScope, b *model.Booking) bool {
	if b.IsDeleted {
		return false
	}
	if scope.All() {
		return true
	}
	id, ok := scope.TenantID()
	return ok && b.TenantID == id
}

// overlapsLocked is the overlap query; callers hold f.mu.
func (f *fakeLedger) overlapsLocked(scope model.TenantScope, consultantID uint64, date time.Time, start, end model.TimeOfDay, excludeID uint64) []model.Booking {
	var out []model.Booking
	day := model.DateOnly(date)
	for _, b := range f.rows {
		if !f.visible(scope, b) || b.ConsultantID != consultantID || b.ID == excludeID {
			continue
		}
		if !model.DateOnly(b.Date).Equal(day) || !b.Status.Active() {
			continue
		}
		if b.Overlaps(start, end) {
			out = append(out, *b)
		}
	}
	return out
}

func (f *fakeLedger) CreateIfFree(ctx context.Context, scope model.TenantScope, b *model.Booking) ([]model.Booking, error) {
	if _, ok := scope.TenantID(); !ok {
		return nil, repository.ErrInvalidScope
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if conflicts := f.overlapsLocked(scope, b.ConsultantID, b.Date, b.StartTime, b.EndTime, 0); len(conflicts) > 0 {
		return conflicts, nil
	}
	f.nextID++
	b.ID = f.nextID
	b.Version = 1
	cp := *b
	f.rows[b.ID] = &cp
	return nil, nil
}

func (f *fakeLedger) GetByID(ctx context.Context, scope model.TenantScope, id uint64) (*model.Booking, error) {
	if !scope.Valid() {
		return nil, repository.ErrInvalidScope
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || !f.visible(scope, b) {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeLedger) FindOverlaps(ctx context.Context, scope model.TenantScope, consultantID uint64, date time.Time, start, end model.TimeOfDay, excludeID uint64) ([]model.Booking, error) {
	if !scope.Valid() {
		return nil, repository.ErrInvalidScope
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapsLocked(scope, consultantID, date, start, end, excludeID), nil
}

func (f *fakeLedger) List(ctx context.Context, scope model.TenantScope, filter repository.BookingFilter) ([]model.Booking, error) {
	if !scope.Valid() {
		return nil, repository.ErrInvalidScope
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	for _, b := range f.rows {
		if !f.visible(scope, b) {
			continue
		}
		if filter.ConsultantID != 0 && b.ConsultantID != filter.ConsultantID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeLedger) UpdateStatusCAS(ctx context.Context, scope model.TenantScope, id, version uint64, from []model.BookingStatus, to model.BookingStatus, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || !f.visible(scope, b) || b.Version != version {
		return false, nil
	}
	legal := false
	for _, s := range from {
		if b.Status == s {
			legal = true
		}
	}
	if !legal {
		return false, nil
	}
	b.Status = to
	b.Version++
	if reason != "" {
		b.CancelReason = reason
	}
	return true, nil
}

func (f *fakeLedger) RescheduleIfFree(ctx context.Context, scope model.TenantScope, id, version uint64, date time.Time, start, end model.TimeOfDay) ([]model.Booking, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || !f.visible(scope, b) {
		return nil, false, repository.ErrBookingNotFound
	}
	if conflicts := f.overlapsLocked(scope, b.ConsultantID, date, start, end, id); len(conflicts) > 0 {
		return conflicts, false, nil
	}
	if b.Version != version {
		return nil, false, nil
	}
	b.Date, b.StartTime, b.EndTime = date, start, end
	b.Version++
	return nil, true, nil
}

func (f *fakeLedger) SetConsultationID(ctx context.Context, scope model.TenantScope, id, consultationID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || !f.visible(scope, b) {
		return repository.ErrBookingNotFound
	}
	b.ConsultationID = &consultationID
	return nil
}

// fakeWindows serves a fixed weekly template.
type fakeWindows struct {
	windows []model.AvailabilityWindow
}

func (f *fakeWindows) ListActiveForDay(ctx context.Context, scope model.TenantScope, consultantID uint64, day time.Weekday) ([]model.AvailabilityWindow, error) {
	var out []model.AvailabilityWindow
	for _, w := range f.windows {
		if w.ConsultantID == consultantID && w.DayOfWeek == day && w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

// fakeSettings serves one policy for every tenant.
type fakeSettings struct {
	settings model.TenantSettings
}

func (f *fakeSettings) Settings(ctx context.Context, tenantID uint64) (model.TenantSettings, error) {
	s := f.settings
	s.TenantID = tenantID
	return s, nil
}

// fakeNotifier records emitted events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) NotifyBookingEvent(ctx context.Context, b model.Booking, eventType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

// fakeRecorder hands out consultation ids, or fails on demand.
type fakeRecorder struct {
	nextID uint64
	fail   bool
	calls  int
}

func (f *fakeRecorder) CreateConsultationRecord(ctx context.Context, b model.Booking) (uint64, error) {
	f.calls++
	if f.fail {
		return 0, errors.New("consultation store unavailable")
	}
	f.nextID++
	return f.nextID, nil
}

type fixture struct {
	svc      *Service
	ledger   *fakeLedger
	windows  *fakeWindows
	settings *fakeSettings
	notifier *fakeNotifier
	recorder *fakeRecorder
}

func newFixture() *fixture {
	f := &fixture{
		ledger:   newFakeLedger(),
		windows:  &fakeWindows{},
		settings: &fakeSettings{settings: model.TenantSettings{CancelLeadTime: 24 * time.Hour}},
		notifier: &fakeNotifier{},
		recorder: &fakeRecorder{},
	}
	f.svc = NewService(f.ledger, f.windows, f.settings, f.notifier, f.recorder)
	return f
}

func tod(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	v, err := model.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

var testDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC) // a Tuesday

func createParams(t *testing.T, start, end string) CreateParams {
	t.Helper()
	clientID := uint64(900)
	return CreateParams{
		TenantID:         1,
		ConsultantID:     10,
		ClientID:         &clientID,
		Date:             testDate,
		StartTime:        tod(t, start),
		EndTime:          tod(t, end),
		ScheduleType:     model.TypeConsultation,
		ConsultationType: model.ConsultIndividual,
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture()
	b, err := f.svc.Create(context.Background(), createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, b.Status)
	assert.Equal(t, uint64(1), b.Version)
	assert.Equal(t, []string{EventBookingCreated}, f.notifier.events)
}

func TestCreateRequiresConfirmationPolicy(t *testing.T) {
	f := newFixture()
	f.settings.settings.RequireConfirmation = true
	b, err := f.svc.Create(context.Background(), createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusRequested, b.Status)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p := createParams(t, "11:00", "10:00")
	_, err := f.svc.Create(ctx, p)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "end_time", vErr.Field)

	p = createParams(t, "10:00", "10:00")
	_, err = f.svc.Create(ctx, p)
	assert.ErrorAs(t, err, &vErr, "zero-length slot rejected")

	p = createParams(t, "10:00", "11:00")
	p.ClientID = nil
	_, err = f.svc.Create(ctx, p)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "client_id", vErr.Field)

	// Vacation entries have no client.
	p = createParams(t, "10:00", "11:00")
	p.ClientID = nil
	p.ScheduleType = model.TypeVacation
	_, err = f.svc.Create(ctx, p)
	assert.NoError(t, err)
}

func TestCreateDoubleBookingRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, createParams(t, "10:30", "11:30"))
	var conflict *SchedulingConflict
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, first.ID, conflict.Conflicts[0].ID)
}

func TestConcurrentCreateSameSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p1 := createParams(t, "10:00", "11:00")
	p2 := createParams(t, "10:00", "11:00")

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.svc.Create(ctx, p1)
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := f.svc.Create(ctx, p2)
		errs <- err
	}()
	wg.Wait()
	close(errs)

	var okCount, conflictCount int
	for err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var conflict *SchedulingConflict
		require.ErrorAs(t, err, &conflict)
		conflictCount++
	}
	assert.Equal(t, 1, okCount, "exactly one of two racing creates may win the slot")
	assert.Equal(t, 1, conflictCount)

	active, err := f.svc.ListBookings(ctx, model.ForTenant(1), repository.BookingFilter{ConsultantID: 10})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestConcurrentRescheduleIntoSameSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	first, err := f.svc.Create(ctx, createParams(t, "09:00", "10:00"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, createParams(t, "12:00", "13:00"))
	require.NoError(t, err)

	// Both bookings race toward the same free afternoon slot.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for _, id := range []uint64{first.ID, second.ID} {
		go func(id uint64) {
			defer wg.Done()
			_, err := f.svc.Reschedule(ctx, scope, id, testDate, tod(t, "15:00"), tod(t, "16:00"))
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var okCount, conflictCount int
	for err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var conflict *SchedulingConflict
		require.ErrorAs(t, err, &conflict)
		conflictCount++
	}
	assert.Equal(t, 1, okCount, "only one booking may land on the contested slot")
	assert.Equal(t, 1, conflictCount)
}

func TestCreateBoundaryTouchAllowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	// [11:00, 12:00) starts exactly where the first slot ends.
	_, err = f.svc.Create(ctx, createParams(t, "11:00", "12:00"))
	assert.NoError(t, err)
}

func TestCreateCancelledSlotIsFree(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, model.ForTenant(1), b.ID, "client asked")
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	assert.NoError(t, err, "cancelled bookings do not block the slot")
}

func TestCreateOutsideAvailabilityWindow(t *testing.T) {
	f := newFixture()
	f.windows.windows = []model.AvailabilityWindow{{
		ConsultantID: 10,
		DayOfWeek:    testDate.Weekday(),
		StartTime:    tod(t, "09:00"),
		EndTime:      tod(t, "12:00"),
		IsActive:     true,
	}}
	ctx := context.Background()

	_, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	assert.NoError(t, err, "inside the window")

	_, err = f.svc.Create(ctx, createParams(t, "13:00", "14:00"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// Vacation entries bypass the template: absence is not capacity.
	p := createParams(t, "13:00", "15:00")
	p.ClientID = nil
	p.ScheduleType = model.TypeVacation
	_, err = f.svc.Create(ctx, p)
	assert.NoError(t, err)
}

func TestCreateNoTemplateMeansAnySlot(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), createParams(t, "22:00", "23:00"))
	assert.NoError(t, err, "consultant without windows accepts any slot")
}

func TestReschedule(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	// Moving within its own old slot must not collide with itself.
	moved, err := f.svc.Reschedule(ctx, scope, b.ID, testDate, tod(t, "10:30"), tod(t, "11:30"))
	require.NoError(t, err)
	assert.Equal(t, tod(t, "10:30"), moved.StartTime)
	assert.Equal(t, b.Version+1, moved.Version)
	assert.Contains(t, f.notifier.events, EventBookingRescheduled)
}

func TestRescheduleIntoOccupiedSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	_, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, createParams(t, "12:00", "13:00"))
	require.NoError(t, err)

	_, err = f.svc.Reschedule(ctx, scope, second.ID, testDate, tod(t, "10:30"), tod(t, "11:30"))
	var conflict *SchedulingConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestRescheduleWrongStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusInProgress)
	require.NoError(t, err)

	_, err = f.svc.Reschedule(ctx, scope, b.ID, testDate, tod(t, "14:00"), tod(t, "15:00"))
	var it *InvalidTransition
	require.ErrorAs(t, err, &it)
	assert.Equal(t, "reschedule", it.Op)
}

func TestRescheduleVersionRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	// Another writer bumps the version between read and write.
	f.ledger.rows[b.ID].Version++

	_, err = f.svc.Reschedule(ctx, scope, b.ID, testDate, tod(t, "14:00"), tod(t, "15:00"))
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestCancelLeadTime(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	p := createParams(t, "10:00", "11:00")
	p.Description = "weekly session"
	b, err := f.svc.Create(ctx, p)
	require.NoError(t, err)

	// Two hours before start: inside the 24h window, reason required.
	f.svc.SetClock(func() time.Time { return testDate.Add(8 * time.Hour) })
	_, err = f.svc.Cancel(ctx, scope, b.ID, "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "reason", vErr.Field)

	got, err := f.svc.Cancel(ctx, scope, b.ID, "family emergency")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Equal(t, "family emergency", got.CancelReason)
	assert.Equal(t, "weekly session", got.Description, "cancelling keeps the user-entered description")
	assert.Contains(t, f.notifier.events, EventBookingCancelled)
}

func TestCancelFarAheadNeedsNoReason(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	f.svc.SetClock(func() time.Time { return testDate.AddDate(0, 0, -7) })
	got, err := f.svc.Cancel(ctx, scope, b.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
}

func TestCancelTerminalBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	f.svc.SetClock(func() time.Time { return testDate.AddDate(0, 0, -7) })
	_, err = f.svc.Cancel(ctx, scope, b.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, scope, b.ID, "again")
	var it *InvalidTransition
	assert.ErrorAs(t, err, &it, "cancel is not idempotent; terminal states reject transitions")
}

func TestTransition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	got, err := f.svc.Transition(ctx, scope, b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	assert.Contains(t, f.notifier.events, EventBookingConfirmed)

	// BOOKED is two steps back now; skipping states is rejected.
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusBooked)
	var it *InvalidTransition
	assert.ErrorAs(t, err, &it)

	_, err = f.svc.Transition(ctx, scope, b.ID, model.BookingStatus("NONSENSE"))
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCompleteFromInProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusInProgress)
	require.NoError(t, err)

	got, err := f.svc.Complete(ctx, scope, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.ConsultationID, "completion links the consultation record")
	assert.Equal(t, 1, f.recorder.calls)
	assert.Contains(t, f.notifier.events, EventBookingCompleted)
}

func TestCompleteConfirmedBeforeEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusConfirmed)
	require.NoError(t, err)

	// Mid-session: a CONFIRMED booking may not complete early.
	f.svc.SetClock(func() time.Time { return testDate.Add(10*time.Hour + 30*time.Minute) })
	_, err = f.svc.Complete(ctx, scope, b.ID)
	var it *InvalidTransition
	require.ErrorAs(t, err, &it)

	// Once the end time has elapsed the sweeper path is legal.
	f.svc.SetClock(func() time.Time { return testDate.Add(11 * time.Hour) })
	got, err := f.svc.Complete(ctx, scope, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
}

func TestCompleteRecorderFailureIsBestEffort(t *testing.T) {
	f := newFixture()
	f.recorder.fail = true
	ctx := context.Background()
	scope := model.ForTenant(1)
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	_, err = f.svc.Transition(ctx, scope, b.ID, model.StatusInProgress)
	require.NoError(t, err)

	got, err := f.svc.Complete(ctx, scope, b.ID)
	require.NoError(t, err, "a consultation store outage must not fail completion")
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Nil(t, got.ConsultationID)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scope := model.ForTenant(1)
	_, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	res, err := f.svc.CheckAvailability(ctx, scope, 10, testDate, tod(t, "10:30"), tod(t, "11:30"))
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Len(t, res.Conflicts, 1)

	res, err = f.svc.CheckAvailability(ctx, scope, 10, testDate, tod(t, "11:00"), tod(t, "12:00"))
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Empty(t, res.Conflicts)
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b, err := f.svc.Create(ctx, createParams(t, "10:00", "11:00"))
	require.NoError(t, err)

	// Another tenant cannot see the booking at all.
	_, err = f.svc.ledger.GetByID(ctx, model.ForTenant(2), b.ID)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)

	// Nor does it block that tenant's availability checks.
	res, err := f.svc.CheckAvailability(ctx, model.ForTenant(2), 10, testDate, tod(t, "10:00"), tod(t, "11:00"))
	require.NoError(t, err)
	assert.True(t, res.Available)

	// The elevated scope sees everything.
	got, err := f.svc.ledger.GetByID(ctx, model.AllTenants(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}
