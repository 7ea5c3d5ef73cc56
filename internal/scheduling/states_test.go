package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sonamoo/counsel-scheduling/internal/model"
)

var allStatuses = []model.BookingStatus{
	model.StatusRequested, model.StatusBooked, model.StatusConfirmed,
	model.StatusInProgress, model.StatusCompleted, model.StatusCancelled,
	model.StatusNoShow,
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]model.BookingStatus]bool{
		{model.StatusRequested, model.StatusBooked}:     true,
		{model.StatusRequested, model.StatusCancelled}:  true,
		{model.StatusBooked, model.StatusConfirmed}:     true,
		{model.StatusBooked, model.StatusCancelled}:     true,
		{model.StatusConfirmed, model.StatusInProgress}: true,
		{model.StatusConfirmed, model.StatusCancelled}:  true,
		{model.StatusConfirmed, model.StatusNoShow}:     true,
		{model.StatusInProgress, model.StatusCompleted}: true,
		{model.StatusInProgress, model.StatusCancelled}: true,
	}
	// Every pair not in the allowed set must be rejected, including
	// CONFIRMED -> COMPLETED, which only the time-gated completion path
	// may perform.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]model.BookingStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, from := range []model.BookingStatus{model.StatusCompleted, model.StatusCancelled, model.StatusNoShow} {
		for _, to := range allStatuses {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanReschedule(t *testing.T) {
	assert.True(t, canReschedule(model.StatusRequested))
	assert.True(t, canReschedule(model.StatusBooked))
	assert.True(t, canReschedule(model.StatusConfirmed))
	assert.False(t, canReschedule(model.StatusInProgress))
	assert.False(t, canReschedule(model.StatusCompleted))
	assert.False(t, canReschedule(model.StatusCancelled))
	assert.False(t, canReschedule(model.StatusNoShow))
}
