package scheduling

import "github.com/sonamoo/counsel-scheduling/internal/model"

// transitions is the booking state machine.  A status maps to the set
// of statuses it may move to; terminal statuses map to nothing.
// CONFIRMED -> COMPLETED is deliberately absent from the table: the
// sweeper path completes a confirmed booking only once its end time
// has elapsed, and Service.Complete enforces that time condition
// separately.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusRequested:  {model.StatusBooked, model.StatusCancelled},
	model.StatusBooked:     {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:  {model.StatusInProgress, model.StatusCancelled, model.StatusNoShow},
	model.StatusInProgress: {model.StatusCompleted, model.StatusCancelled},
	model.StatusCompleted:  {},
	model.StatusCancelled:  {},
	model.StatusNoShow:     {},
}

// CanTransition reports whether the state machine allows moving from
// one status to another.
func CanTransition(from, to model.BookingStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// reschedulable lists the statuses a booking may be rescheduled from.
// Once a session is running or finished its slot is history and stays
// put.
var reschedulable = []model.BookingStatus{
	model.StatusRequested, model.StatusBooked, model.StatusConfirmed,
}

func canReschedule(s model.BookingStatus) bool {
	for _, r := range reschedulable {
		if s == r {
			return true
		}
	}
	return false
}
