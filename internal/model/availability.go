package model

import (
	"encoding/json"
	"time"
)

// AvailabilityWindow is one entry of a consultant's weekly recurring
// template of bookable time.  Windows have a lifecycle entirely
// independent of bookings: editing or deactivating a window never
// touches bookings that were already created against it.
//
// Fields:
//  ID                  – primary key identifier.
//  TenantID            – owning tenant.
//  ConsultantID        – consultant this capacity belongs to.
//  DayOfWeek           – weekday the window recurs on.
//  StartTime           – start of the bookable range.
//  EndTime             – exclusive end of the bookable range.
//  SlotDurationMinutes – granularity offered to clients when slicing
//                        the window into proposed slots.
//  IsActive            – inactive windows are kept for history but do
//                        not accept new bookings.
type AvailabilityWindow struct {
	ID                  uint64       `json:"id"`
	TenantID            uint64       `json:"tenant_id"`
	ConsultantID        uint64       `json:"consultant_id"`
	DayOfWeek           time.Weekday `json:"day_of_week"`
	StartTime           TimeOfDay    `json:"-"`
	EndTime             TimeOfDay    `json:"-"`
	SlotDurationMinutes int          `json:"slot_duration_minutes"`
	IsActive            bool         `json:"is_active"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// MarshalJSON renders the slot times as "HH:MM" strings.
func (w AvailabilityWindow) MarshalJSON() ([]byte, error) {
	type alias AvailabilityWindow
	return json.Marshal(struct {
		alias
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}{
		alias:     alias(w),
		StartTime: w.StartTime.String(),
		EndTime:   w.EndTime.String(),
	})
}

// Covers reports whether the requested interval fits entirely inside
// the window.
func (w *AvailabilityWindow) Covers(start, end TimeOfDay) bool {
	return w.StartTime <= start && end <= w.EndTime
}
