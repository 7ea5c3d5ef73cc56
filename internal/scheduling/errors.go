// Package scheduling implements the booking core: input validation,
// conflict detection against the ledger and the availability template,
// the booking state machine, and the collaborator boundaries for
// notifications and consultation records.  All failures are typed so
// the API layer can map them onto precise responses, and storage
// failures pass through opaquely without leaking driver details.
package scheduling

import (
	"errors"
	"fmt"

	"github.com/sonamoo/counsel-scheduling/internal/model"
)

// ValidationError reports malformed input: a missing required field,
// an end time at or before the start time, an unknown status, or a
// slot outside the consultant's availability template.  It is always
// recoverable by the caller correcting the input and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SchedulingConflict reports that the requested slot overlaps one or
// more active bookings for the consultant.  The blocking set is
// carried so callers can offer alternatives.  Retrying without picking
// a different slot is pointless.
type SchedulingConflict struct {
	Conflicts []model.Booking
}

func (e *SchedulingConflict) Error() string {
	if len(e.Conflicts) == 1 {
		c := e.Conflicts[0]
		return fmt.Sprintf("slot conflicts with booking #%d, %s-%s", c.ID, c.StartTime, c.EndTime)
	}
	return fmt.Sprintf("slot conflicts with %d existing bookings", len(e.Conflicts))
}

// InvalidTransition reports a status change that is not legal from the
// booking's current status.  No transition ever silently no-ops: it
// either succeeds into a legal target or fails with this error.
type InvalidTransition struct {
	From model.BookingStatus
	To   model.BookingStatus
	Op   string // optional operation name for non-status operations such as reschedule
}

func (e *InvalidTransition) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("cannot %s a booking in status %s", e.Op, e.From)
	}
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// ErrConcurrentModification is returned when the optimistic version
// check fails: another writer transitioned the booking first.  Safe to
// retry after re-reading the booking; the core never retries on its
// own.
var ErrConcurrentModification = errors.New("booking was modified concurrently")
