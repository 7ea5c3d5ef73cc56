package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sonamoo/counsel-scheduling/internal/model"
)

// AvailabilityRepo provides CRUD operations for consultant availability
// windows – the weekly recurring template of bookable time.  Windows
// are pure capacity data: creating, editing or deactivating one never
// touches bookings that already exist against it.  All queries are
// tenant-scoped like the booking ledger.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns a new AvailabilityRepo bound to the given
// database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

const windowColumns = `id, tenant_id, consultant_id, day_of_week, start_time, end_time,
       slot_duration_minutes, is_active, created_at, updated_at`

// scanWindow reads one availability_windows row.  day_of_week is stored
// as 0=Sunday..6=Saturday, matching time.Weekday.
func scanWindow(row rowScanner) (*model.AvailabilityWindow, error) {
	var (
		w        model.AvailabilityWindow
		day      int
		startStr string
		endStr   string
	)
	err := row.Scan(&w.ID, &w.TenantID, &w.ConsultantID, &day, &startStr, &endStr,
		&w.SlotDurationMinutes, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.DayOfWeek = time.Weekday(day)
	if w.StartTime, err = model.ParseTimeOfDay(startStr); err != nil {
		return nil, err
	}
	if w.EndTime, err = model.ParseTimeOfDay(endStr); err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a new availability window for the scope's tenant and
// populates the generated ID and timestamps on the provided record.
func (r *AvailabilityRepo) Create(ctx context.Context, scope model.TenantScope, w *model.AvailabilityWindow) error {
	tenantID, ok := scope.TenantID()
	if !ok {
		return ErrInvalidScope
	}
	const q = `INSERT INTO availability_windows
	           (tenant_id, consultant_id, day_of_week, start_time, end_time,
	            slot_duration_minutes, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		tenantID, w.ConsultantID, int(w.DayOfWeek),
		w.StartTime.SQLTime(), w.EndTime.SQLTime(),
		w.SlotDurationMinutes, w.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	const sel = `SELECT ` + windowColumns + ` FROM availability_windows WHERE id = ?`
	got, err := scanWindow(r.db.QueryRowContext(ctx, sel, uint64(id)))
	if err != nil {
		return err
	}
	*w = *got
	return nil
}

// GetByID returns one window within the caller's scope.  A window in a
// different tenant reads as ErrWindowNotFound, same as a missing row.
func (r *AvailabilityRepo) GetByID(ctx context.Context, scope model.TenantScope, id uint64) (*model.AvailabilityWindow, error) {
	clause, args, err := scopeClause(scope)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + windowColumns + ` FROM availability_windows WHERE id = ?` + clause
	w, err := scanWindow(r.db.QueryRowContext(ctx, q, append([]interface{}{id}, args...)...))
	if err == sql.ErrNoRows {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListByConsultant returns the consultant's full weekly template,
// ordered by day then start time.  Inactive windows are included so
// admin screens can re-enable them.
func (r *AvailabilityRepo) ListByConsultant(ctx context.Context, scope model.TenantScope, consultantID uint64) ([]model.AvailabilityWindow, error) {
	clause, args, err := scopeClause(scope)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + windowColumns + `
	      FROM availability_windows
	      WHERE consultant_id = ?` + clause + `
	      ORDER BY day_of_week, start_time`
	rows, err := r.db.QueryContext(ctx, q, append([]interface{}{consultantID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AvailabilityWindow, 0)
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveForDay returns the consultant's active windows for one
// weekday.  Booking creation uses this to validate that a requested
// slot falls inside the template.
func (r *AvailabilityRepo) ListActiveForDay(ctx context.Context, scope model.TenantScope, consultantID uint64, day time.Weekday) ([]model.AvailabilityWindow, error) {
	clause, args, err := scopeClause(scope)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + windowColumns + `
	      FROM availability_windows
	      WHERE consultant_id = ? AND day_of_week = ? AND is_active = 1` + clause + `
	      ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, append([]interface{}{consultantID, int(day)}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AvailabilityWindow, 0)
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a window's recurring slot definition.  Existing
// bookings created against the old definition are left untouched.
func (r *AvailabilityRepo) Update(ctx context.Context, scope model.TenantScope, w *model.AvailabilityWindow) error {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return err
	}
	q := `UPDATE availability_windows
	      SET day_of_week = ?, start_time = ?, end_time = ?,
	          slot_duration_minutes = ?, is_active = ?
	      WHERE id = ?` + clause
	args := []interface{}{int(w.DayOfWeek), w.StartTime.SQLTime(), w.EndTime.SQLTime(),
		w.SlotDurationMinutes, w.IsActive, w.ID}
	args = append(args, scopeArgs...)
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWindowNotFound
	}
	return nil
}

// Delete removes a window from the template.  Windows carry no history
// that bookings depend on, so unlike bookings they may be deleted.
func (r *AvailabilityRepo) Delete(ctx context.Context, scope model.TenantScope, id uint64) error {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return err
	}
	q := `DELETE FROM availability_windows WHERE id = ?` + clause
	args := []interface{}{id}
	args = append(args, scopeArgs...)
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWindowNotFound
	}
	return nil
}
