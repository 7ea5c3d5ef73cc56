package model

import (
	"encoding/json"
	"time"
)

// BookingStatus enumerates the lifecycle states of a booking.  The legal
// transitions between them are owned by the scheduling package; this
// type only knows which states are active (blocking for conflict
// detection) and which are terminal.
type BookingStatus string

const (
	StatusRequested  BookingStatus = "REQUESTED"   // awaiting staff confirmation
	StatusBooked     BookingStatus = "BOOKED"      // slot taken, not yet confirmed
	StatusConfirmed  BookingStatus = "CONFIRMED"   // confirmed by staff
	StatusInProgress BookingStatus = "IN_PROGRESS" // session currently running
	StatusCompleted  BookingStatus = "COMPLETED"   // session finished (terminal)
	StatusCancelled  BookingStatus = "CANCELLED"   // cancelled (terminal)
	StatusNoShow     BookingStatus = "NO_SHOW"     // client did not appear (terminal)
)

// ActiveStatuses are the statuses that occupy a consultant's time.  Only
// bookings in one of these states participate in conflict detection;
// cancelled, completed and no-show bookings never block a new slot.
var ActiveStatuses = []BookingStatus{StatusBooked, StatusConfirmed, StatusInProgress}

// Known reports whether s is one of the defined statuses.  Handlers use
// this to reject unknown transition targets before hitting the state
// machine.
func (s BookingStatus) Known() bool {
	switch s {
	case StatusRequested, StatusBooked, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Active reports whether the status blocks other bookings on the same
// consultant and date.
func (s BookingStatus) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// ScheduleType classifies what a booking occupies the consultant's time
// with.  Vacation and blocked entries have no client but still occupy
// the slot for conflict purposes.
type ScheduleType string

const (
	TypeConsultation ScheduleType = "CONSULTATION"
	TypeVacation     ScheduleType = "VACATION"
	TypeBlocked      ScheduleType = "BLOCKED"
)

// ConsultationType refines a CONSULTATION booking.  The set mirrors the
// session kinds offered by counseling organizations on the platform.
type ConsultationType string

const (
	ConsultIndividual ConsultationType = "INDIVIDUAL"
	ConsultCouple     ConsultationType = "COUPLE"
	ConsultFamily     ConsultationType = "FAMILY"
	ConsultGroup      ConsultationType = "GROUP"
	ConsultInitial    ConsultationType = "INITIAL"
	ConsultFollowUp   ConsultationType = "FOLLOW_UP"
	ConsultCrisis     ConsultationType = "CRISIS"
	ConsultAssessment ConsultationType = "ASSESSMENT"
)

// Booking is the core record of the scheduling ledger: one consultant
// time slot on one calendar date, owned by exactly one tenant.  Bookings
// are never hard-deleted; cancellation and no-show are terminal statuses
// and IsDeleted suppresses erroneous records only.
//
// Fields:
//  ID               – primary key identifier.
//  TenantID         – owning tenant; every query is scoped by it.
//  BranchCode       – optional branch within the tenant, denormalized
//                     for branch-level queries.
//  ConsultantID     – consultant whose time is occupied.
//  ClientID         – client attending the session; nil for non-client
//                     schedule types such as vacation blocks.
//  Date             – calendar date of the session (tenant-local).
//  StartTime        – start of the slot; EndTime must be later.
//  EndTime          – exclusive end of the slot.
//  Status           – lifecycle state, see BookingStatus.
//  ScheduleType     – CONSULTATION, VACATION or BLOCKED.
//  ConsultationType – session kind for consultations.
//  ConsultationID   – back-reference to the consultation record created
//                     when the booking completes; nil until then.
//  Version          – optimistic concurrency counter; every successful
//                     transition bumps it by one.
type Booking struct {
	ID               uint64           `json:"id"`
	TenantID         uint64           `json:"tenant_id"`
	BranchCode       string           `json:"branch_code,omitempty"`
	ConsultantID     uint64           `json:"consultant_id"`
	ClientID         *uint64          `json:"client_id,omitempty"`
	Date             time.Time        `json:"-"`
	StartTime        TimeOfDay        `json:"-"`
	EndTime          TimeOfDay        `json:"-"`
	Status           BookingStatus    `json:"status"`
	ScheduleType     ScheduleType     `json:"schedule_type"`
	ConsultationType ConsultationType `json:"consultation_type,omitempty"`
	Title            string           `json:"title,omitempty"`
	Description      string           `json:"description,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CancelReason     string           `json:"cancel_reason,omitempty"`
	ConsultationID   *uint64          `json:"consultation_id,omitempty"`
	IsDeleted        bool             `json:"-"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          uint64           `json:"version"`
}

// MarshalJSON renders the calendar date and slot times in their wire
// formats ("2025-01-10", "09:30") instead of Go's native encodings.
func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	return json.Marshal(struct {
		alias
		Date      string `json:"date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}{
		alias:     alias(b),
		Date:      b.Date.Format(DateFormat),
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
	})
}

// Overlaps reports whether the booking's interval overlaps [start, end)
// on the half-open rule: two intervals overlap iff s1 < e2 && s2 < e1.
// A booking ending exactly when another starts does not overlap it.
func (b *Booking) Overlaps(start, end TimeOfDay) bool {
	return b.StartTime < end && start < b.EndTime
}

// StartsAt composes the booking's date and start time into a single
// tenant-local timestamp, used for cancellation lead-time checks.
func (b *Booking) StartsAt() time.Time {
	return b.Date.Add(time.Duration(b.StartTime) * time.Minute)
}

// EndedBefore reports whether the booking's slot has fully elapsed at
// the given wall-clock moment.  Past dates always qualify; on the
// booking's own date the end time must have passed.
func (b *Booking) EndedBefore(now time.Time) bool {
	today := DateOnly(now)
	day := DateOnly(b.Date)
	if day.Before(today) {
		return true
	}
	if day.After(today) {
		return false
	}
	return b.EndTime <= TimeOfDayFrom(now)
}
