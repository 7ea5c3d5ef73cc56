package repository

import (
	"context"
	"database/sql"

	"github.com/sonamoo/counsel-scheduling/internal/model"
)

// ConsultationRepo writes the consultation records produced when a
// consultation booking completes.  The record is the durable artifact
// clinicians attach session notes to afterwards; scheduling only
// creates the stub and links it back to the booking.
type ConsultationRepo struct {
	db *sql.DB
}

// NewConsultationRepo returns a ConsultationRepo bound to the given
// database.
func NewConsultationRepo(db *sql.DB) *ConsultationRepo { return &ConsultationRepo{db: db} }

// CreateConsultationRecord inserts the consultation stub for a
// completed booking and returns its id.  Satisfies the scheduling
// core's ConsultationRecorder boundary.
func (r *ConsultationRepo) CreateConsultationRecord(ctx context.Context, b model.Booking) (uint64, error) {
	const q = `INSERT INTO consultations
	           (tenant_id, branch_code, booking_id, consultant_id, client_id,
	            consultation_type, held_on, started_at, ended_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		b.TenantID, b.BranchCode, b.ID, b.ConsultantID, nullID(b.ClientID),
		string(b.ConsultationType), b.Date.Format(model.DateFormat),
		b.StartTime.SQLTime(), b.EndTime.SQLTime(),
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
