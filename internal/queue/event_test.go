package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingEventWireShape(t *testing.T) {
	client := uint64(900)
	ev := BookingEvent{
		EventType:    "booking.confirmed",
		BookingID:    12,
		TenantID:     3,
		BranchCode:   "GANGNAM",
		ConsultantID: 10,
		ClientID:     &client,
		Date:         "2025-06-10",
		StartTime:    "10:00",
		EndTime:      "11:00",
		Status:       "CONFIRMED",
		ScheduleType: "CONSULTATION",
		OccurredAt:   "2025-06-09T12:00:00Z",
	}
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "booking.confirmed", got["event_type"])
	assert.Equal(t, float64(12), got["booking_id"])
	assert.Equal(t, "10:00", got["start_time"])
	assert.Equal(t, "CONFIRMED", got["status"])

	// Optional fields stay off the wire when absent.
	raw, err = json.Marshal(BookingEvent{EventType: "booking.created"})
	require.NoError(t, err)
	var sparse map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &sparse))
	assert.NotContains(t, sparse, "client_id")
	assert.NotContains(t, sparse, "branch_code")
	assert.NotContains(t, sparse, "title")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	assert.Error(t, handleMessage([]byte("not json")))
}
