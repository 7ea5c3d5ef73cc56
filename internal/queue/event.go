// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEvent is published on every booking lifecycle transition
// (created, confirmed, started, rescheduled, cancelled, completed,
// no-show).  It carries enough information for downstream consumers to
// notify, log or feed analytics without querying the primary database.
type BookingEvent struct {
	EventType    string  `json:"event_type"`
	BookingID    uint64  `json:"booking_id"`
	TenantID     uint64  `json:"tenant_id"`
	BranchCode   string  `json:"branch_code,omitempty"`
	ConsultantID uint64  `json:"consultant_id"`
	ClientID     *uint64 `json:"client_id,omitempty"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Status       string  `json:"status"`
	ScheduleType string  `json:"schedule_type"`
	Title        string  `json:"title,omitempty"`
	OccurredAt   string  `json:"occurred_at"`
}
