package scheduling

import (
	"context"
	"log"
	"time"

	"github.com/sonamoo/counsel-scheduling/internal/model"
	"github.com/sonamoo/counsel-scheduling/internal/repository"
)

// Event types published on booking transitions.  Downstream consumers
// (notification dispatch, analytics) key off these strings.
const (
	EventBookingCreated     = "booking.created"
	EventBookingConfirmed   = "booking.confirmed"
	EventBookingStarted     = "booking.started"
	EventBookingRescheduled = "booking.rescheduled"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingCompleted   = "booking.completed"
	EventBookingNoShow      = "booking.no_show"
)

// Ledger is the booking system of record as seen by the scheduling
// core.  It is implemented by repository.BookingRepo in production and
// by in-memory fakes in tests.
type Ledger interface {
	CreateIfFree(ctx context.Context, scope model.TenantScope, b *model.Booking) ([]model.Booking, error)
	GetByID(ctx context.Context, scope model.TenantScope, id uint64) (*model.Booking, error)
	FindOverlaps(ctx context.Context, scope model.TenantScope, consultantID uint64, date time.Time, start, end model.TimeOfDay, excludeID uint64) ([]model.Booking, error)
	List(ctx context.Context, scope model.TenantScope, f repository.BookingFilter) ([]model.Booking, error)
	UpdateStatusCAS(ctx context.Context, scope model.TenantScope, id, version uint64, from []model.BookingStatus, to model.BookingStatus, reason string) (bool, error)
	RescheduleIfFree(ctx context.Context, scope model.TenantScope, id, version uint64, date time.Time, start, end model.TimeOfDay) ([]model.Booking, bool, error)
	SetConsultationID(ctx context.Context, scope model.TenantScope, id, consultationID uint64) error
}

// AvailabilityStore exposes the consultant weekly template.  Reads
// only; the scheduling core never mutates capacity.
type AvailabilityStore interface {
	ListActiveForDay(ctx context.Context, scope model.TenantScope, consultantID uint64, day time.Weekday) ([]model.AvailabilityWindow, error)
}

// SettingsSource resolves per-tenant scheduling policy.
type SettingsSource interface {
	Settings(ctx context.Context, tenantID uint64) (model.TenantSettings, error)
}

// Notifier dispatches booking lifecycle events to the external
// notification collaborator.  Implementations must be fire-and-forget:
// a delivery failure is theirs to log and must never surface as an
// error that could roll back a transition.
type Notifier interface {
	NotifyBookingEvent(ctx context.Context, b model.Booking, eventType string)
}

// ConsultationRecorder creates the consultation record produced from a
// completed booking.  The linkage is best-effort: a failure here logs
// and leaves the booking COMPLETED without a consultation_id.
type ConsultationRecorder interface {
	CreateConsultationRecord(ctx context.Context, b model.Booking) (uint64, error)
}

// Service wires the scheduling core together.  It is stateless over
// the ledger: all booking state lives in storage, and every transition
// goes through a single conditional versioned update so concurrent
// writers (interactive callers and the sweeper) serialize per row.
type Service struct {
	ledger        Ledger
	windows       AvailabilityStore
	settings      SettingsSource
	notifier      Notifier
	consultations ConsultationRecorder
	now           func() time.Time
}

// NewService constructs a Service.  ledger, windows and settings are
// required; notifier and recorder may be nil when the corresponding
// collaborator is not deployed.
func NewService(ledger Ledger, windows AvailabilityStore, settings SettingsSource, notifier Notifier, recorder ConsultationRecorder) *Service {
	if ledger == nil || windows == nil || settings == nil {
		panic("nil dependency passed to scheduling.NewService")
	}
	return &Service{
		ledger:        ledger,
		windows:       windows,
		settings:      settings,
		notifier:      notifier,
		consultations: recorder,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the service's notion of "now".  Tests use this to
// pin lead-time and completion checks to a fixed instant.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// CreateParams carries everything needed to create a booking.  Date,
// start and end are tenant-local; sessions never cross midnight, so
// start and end fall on the same calendar date by construction.
type CreateParams struct {
	TenantID         uint64
	BranchCode       string
	ConsultantID     uint64
	ClientID         *uint64
	Date             time.Time
	StartTime        model.TimeOfDay
	EndTime          model.TimeOfDay
	ScheduleType     model.ScheduleType
	ConsultationType model.ConsultationType
	Title            string
	Description      string
	Notes            string
}

func (p *CreateParams) validate() error {
	if p.TenantID == 0 {
		return &ValidationError{Field: "tenant_id", Reason: "required"}
	}
	if p.ConsultantID == 0 {
		return &ValidationError{Field: "consultant_id", Reason: "required"}
	}
	if p.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if !p.StartTime.Valid() || p.StartTime >= model.MinutesPerDay {
		return &ValidationError{Field: "start_time", Reason: "out of range"}
	}
	if !p.EndTime.Valid() {
		return &ValidationError{Field: "end_time", Reason: "out of range"}
	}
	if !p.StartTime.Before(p.EndTime) {
		return &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	switch p.ScheduleType {
	case model.TypeConsultation:
		if p.ClientID == nil || *p.ClientID == 0 {
			return &ValidationError{Field: "client_id", Reason: "required for consultations"}
		}
	case model.TypeVacation, model.TypeBlocked:
		// Non-client schedule types block the slot without a client.
	default:
		return &ValidationError{Field: "schedule_type", Reason: "unknown value"}
	}
	return nil
}

// Create validates the request, checks the slot against the
// consultant's availability template and the booking ledger, and
// inserts the booking.  The initial status is BOOKED, or REQUESTED for
// tenants that require staff confirmation.  The conflict check and the
// insert are one atomic ledger operation, so two concurrent creates
// for the same slot cannot both land.  On overlap it fails with
// SchedulingConflict carrying the blocking bookings.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Booking, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	scope := model.ForTenant(p.TenantID)

	// The weekly template is advisory capacity: a consultant with no
	// active windows for the weekday accepts any slot, but once windows
	// exist a consultation must fit inside one of them.  Vacation and
	// blocked entries bypass the template – they describe absence, not
	// bookable capacity.
	if p.ScheduleType == model.TypeConsultation {
		windows, err := s.windows.ListActiveForDay(ctx, scope, p.ConsultantID, p.Date.Weekday())
		if err != nil {
			return nil, err
		}
		if len(windows) > 0 && !covered(windows, p.StartTime, p.EndTime) {
			return nil, &ValidationError{Field: "start_time", Reason: "outside consultant availability"}
		}
	}

	settings, err := s.settings.Settings(ctx, p.TenantID)
	if err != nil {
		return nil, err
	}
	status := model.StatusBooked
	if settings.RequireConfirmation {
		status = model.StatusRequested
	}

	b := &model.Booking{
		TenantID:         p.TenantID,
		BranchCode:       p.BranchCode,
		ConsultantID:     p.ConsultantID,
		ClientID:         p.ClientID,
		Date:             model.DateOnly(p.Date),
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		Status:           status,
		ScheduleType:     p.ScheduleType,
		ConsultationType: p.ConsultationType,
		Title:            p.Title,
		Description:      p.Description,
		Notes:            p.Notes,
	}
	conflicts, err := s.ledger.CreateIfFree(ctx, scope, b)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &SchedulingConflict{Conflicts: conflicts}
	}
	s.notify(ctx, *b, EventBookingCreated)
	return b, nil
}

// Reschedule moves a booking to a new slot.  Only REQUESTED, BOOKED
// and CONFIRMED bookings may move; the conflict check excludes the
// booking itself so a reschedule-in-place does not collide with its
// own old slot.  Conflict check and move are one atomic ledger
// operation.  A version race surfaces as ErrConcurrentModification.
func (s *Service) Reschedule(ctx context.Context, scope model.TenantScope, id uint64, newDate time.Time, newStart, newEnd model.TimeOfDay) (*model.Booking, error) {
	if !newStart.Valid() || !newEnd.Valid() || !newStart.Before(newEnd) {
		return nil, &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	if newDate.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "required"}
	}
	b, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !canReschedule(b.Status) {
		return nil, &InvalidTransition{From: b.Status, Op: "reschedule"}
	}
	conflicts, won, err := s.ledger.RescheduleIfFree(ctx, scope, b.ID, b.Version, model.DateOnly(newDate), newStart, newEnd)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &SchedulingConflict{Conflicts: conflicts}
	}
	if !won {
		return nil, ErrConcurrentModification
	}
	updated, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, *updated, EventBookingRescheduled)
	return updated, nil
}

// Cancel moves a booking to CANCELLED from any non-terminal status.
// Inside the tenant's cancellation lead-time window a non-empty reason
// is mandatory; outside it the reason is optional.  The cancelled
// event is emitted for the notification collaborator.
func (s *Service) Cancel(ctx context.Context, scope model.TenantScope, id uint64, reason string) (*model.Booking, error) {
	b, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, &InvalidTransition{From: b.Status, To: model.StatusCancelled}
	}
	settings, err := s.settings.Settings(ctx, b.TenantID)
	if err != nil {
		return nil, err
	}
	if reason == "" && settings.CancelLeadTime > 0 {
		if s.now().Add(settings.CancelLeadTime).After(b.StartsAt()) {
			return nil, &ValidationError{Field: "reason", Reason: "required when cancelling on short notice"}
		}
	}
	ok, err := s.ledger.UpdateStatusCAS(ctx, scope, b.ID, b.Version,
		[]model.BookingStatus{b.Status}, model.StatusCancelled, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConcurrentModification
	}
	updated, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, *updated, EventBookingCancelled)
	return updated, nil
}

// Transition drives a booking to an arbitrary target status through
// the state machine.  CANCELLED routes through Cancel so the lead-time
// policy applies; COMPLETED routes through Complete so the elapsed-end
// rule applies.  Everything else is a plain table lookup plus a
// conditional versioned update.
func (s *Service) Transition(ctx context.Context, scope model.TenantScope, id uint64, target model.BookingStatus) (*model.Booking, error) {
	if !target.Known() {
		return nil, &ValidationError{Field: "status", Reason: "unknown value"}
	}
	switch target {
	case model.StatusCancelled:
		return s.Cancel(ctx, scope, id, "")
	case model.StatusCompleted:
		return s.Complete(ctx, scope, id)
	}
	b, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, target) {
		return nil, &InvalidTransition{From: b.Status, To: target}
	}
	ok, err := s.ledger.UpdateStatusCAS(ctx, scope, b.ID, b.Version,
		[]model.BookingStatus{b.Status}, target, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConcurrentModification
	}
	updated, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	switch target {
	case model.StatusConfirmed:
		s.notify(ctx, *updated, EventBookingConfirmed)
	case model.StatusInProgress:
		s.notify(ctx, *updated, EventBookingStarted)
	case model.StatusNoShow:
		s.notify(ctx, *updated, EventBookingNoShow)
	}
	return updated, nil
}

// Complete finishes a booking.  Legal from IN_PROGRESS at any time, or
// from CONFIRMED once the slot's end time has elapsed – the path the
// auto-completion sweeper takes.  On success the consultation record
// collaborator is invoked best-effort and its id linked back; a
// collaborator failure logs and leaves the booking COMPLETED.
func (s *Service) Complete(ctx context.Context, scope model.TenantScope, id uint64) (*model.Booking, error) {
	b, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case model.StatusInProgress:
		// A running session may be completed at any moment.
	case model.StatusConfirmed:
		if !b.EndedBefore(s.now()) {
			return nil, &InvalidTransition{From: b.Status, To: model.StatusCompleted}
		}
	default:
		return nil, &InvalidTransition{From: b.Status, To: model.StatusCompleted}
	}
	ok, err := s.ledger.UpdateStatusCAS(ctx, scope, b.ID, b.Version,
		[]model.BookingStatus{b.Status}, model.StatusCompleted, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConcurrentModification
	}
	updated, err := s.ledger.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if s.consultations != nil && updated.ScheduleType == model.TypeConsultation {
		if cid, recErr := s.consultations.CreateConsultationRecord(ctx, *updated); recErr != nil {
			log.Printf("scheduling: consultation record for booking %d failed: %v", updated.ID, recErr)
		} else if linkErr := s.ledger.SetConsultationID(ctx, scope, updated.ID, cid); linkErr != nil {
			log.Printf("scheduling: linking consultation %d to booking %d failed: %v", cid, updated.ID, linkErr)
		} else {
			updated.ConsultationID = &cid
		}
	}
	s.notify(ctx, *updated, EventBookingCompleted)
	return updated, nil
}

// ListBookings returns bookings within the caller's scope matching the
// filter.
func (s *Service) ListBookings(ctx context.Context, scope model.TenantScope, f repository.BookingFilter) ([]model.Booking, error) {
	return s.ledger.List(ctx, scope, f)
}

// AvailabilityResult is the answer to a CheckAvailability probe.
type AvailabilityResult struct {
	Available bool            `json:"available"`
	Conflicts []model.Booking `json:"conflicts"`
}

// CheckAvailability reports whether a slot is free: no overlapping
// active booking and, when the consultant has a template for that
// weekday, inside an availability window.  Pure read, no side effects.
func (s *Service) CheckAvailability(ctx context.Context, scope model.TenantScope, consultantID uint64, date time.Time, start, end model.TimeOfDay) (*AvailabilityResult, error) {
	if !start.Valid() || !end.Valid() || !start.Before(end) {
		return nil, &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	conflicts, err := s.ledger.FindOverlaps(ctx, scope, consultantID, date, start, end, 0)
	if err != nil {
		return nil, err
	}
	available := len(conflicts) == 0
	if available {
		windows, err := s.windows.ListActiveForDay(ctx, scope, consultantID, date.Weekday())
		if err != nil {
			return nil, err
		}
		if len(windows) > 0 && !covered(windows, start, end) {
			available = false
		}
	}
	return &AvailabilityResult{Available: available, Conflicts: conflicts}, nil
}

// covered reports whether some window fully contains [start, end).
func covered(windows []model.AvailabilityWindow, start, end model.TimeOfDay) bool {
	for i := range windows {
		if windows[i].Covers(start, end) {
			return true
		}
	}
	return false
}

// notify forwards a lifecycle event to the notification collaborator.
// Failures are the notifier's problem; nothing here may interfere with
// the transition that already committed.
func (s *Service) notify(ctx context.Context, b model.Booking, eventType string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyBookingEvent(ctx, b, eventType)
}
