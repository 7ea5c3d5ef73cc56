package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func TestBookingOverlaps(t *testing.T) {
	b := &Booking{
		StartTime: mustTime(t, "10:00"),
		EndTime:   mustTime(t, "11:00"),
	}
	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{name: "identical slot", start: "10:00", end: "11:00", want: true},
		{name: "contained", start: "10:15", end: "10:45", want: true},
		{name: "overlaps head", start: "09:30", end: "10:30", want: true},
		{name: "overlaps tail", start: "10:30", end: "11:30", want: true},
		{name: "surrounds", start: "09:00", end: "12:00", want: true},
		{name: "touches end boundary", start: "11:00", end: "12:00", want: false},
		{name: "touches start boundary", start: "09:00", end: "10:00", want: false},
		{name: "disjoint before", start: "08:00", end: "09:00", want: false},
		{name: "disjoint after", start: "12:00", end: "13:00", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Overlaps(mustTime(t, tc.start), mustTime(t, tc.end)))
		})
	}
}

func TestBookingEndedBefore(t *testing.T) {
	b := &Booking{
		Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime: mustTime(t, "10:00"),
		EndTime:   mustTime(t, "11:00"),
	}
	assert.True(t, b.EndedBefore(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)), "past date")
	assert.True(t, b.EndedBefore(time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)), "same date, end reached")
	assert.False(t, b.EndedBefore(time.Date(2025, 6, 10, 10, 59, 0, 0, time.UTC)), "same date, still running")
	assert.False(t, b.EndedBefore(time.Date(2025, 6, 9, 23, 0, 0, 0, time.UTC)), "future date")
}

func TestBookingStartsAt(t *testing.T) {
	b := &Booking{
		Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime: mustTime(t, "09:30"),
	}
	assert.Equal(t, time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC), b.StartsAt())
}

func TestBookingStatusSets(t *testing.T) {
	assert.True(t, StatusBooked.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.True(t, StatusInProgress.Active())
	assert.False(t, StatusRequested.Active())
	assert.False(t, StatusCancelled.Active())
	assert.False(t, StatusCompleted.Active())
	assert.False(t, StatusNoShow.Active())

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusNoShow.Terminal())
	assert.False(t, StatusInProgress.Terminal())

	assert.True(t, StatusRequested.Known())
	assert.False(t, BookingStatus("SOMETHING").Known())
}

func TestBookingMarshalJSON(t *testing.T) {
	b := Booking{
		ID:        7,
		TenantID:  1,
		Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime: mustTime(t, "09:30"),
		EndTime:   mustTime(t, "10:30"),
		Status:    StatusBooked,
	}
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2025-06-10", got["date"])
	assert.Equal(t, "09:30", got["start_time"])
	assert.Equal(t, "10:30", got["end_time"])
}

func TestTenantScope(t *testing.T) {
	var zero TenantScope
	assert.False(t, zero.Valid(), "zero scope must be rejected")

	s := ForTenant(42)
	assert.True(t, s.Valid())
	id, ok := s.TenantID()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
	assert.False(t, s.All())

	all := AllTenants()
	assert.True(t, all.Valid())
	assert.True(t, all.All())
	_, ok = all.TenantID()
	assert.False(t, ok, "all-tenants scope has no single tenant")

	branch := ForTenant(42).WithBranch("GANGNAM")
	assert.Equal(t, "GANGNAM", branch.Branch())
}

func TestAvailabilityWindowCovers(t *testing.T) {
	w := &AvailabilityWindow{
		StartTime: mustTime(t, "09:00"),
		EndTime:   mustTime(t, "12:00"),
	}
	assert.True(t, w.Covers(mustTime(t, "09:00"), mustTime(t, "12:00")))
	assert.True(t, w.Covers(mustTime(t, "10:00"), mustTime(t, "11:00")))
	assert.False(t, w.Covers(mustTime(t, "08:30"), mustTime(t, "10:00")))
	assert.False(t, w.Covers(mustTime(t, "11:00"), mustTime(t, "12:30")))
}
