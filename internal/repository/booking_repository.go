package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sonamoo/counsel-scheduling/internal/model"
)

// BookingRepo provides data access to the bookings table, the system of
// record for scheduled sessions.  Every method takes an explicit
// model.TenantScope and builds the tenant filter into the query itself;
// there is no unscoped query path.  Rows are never hard-deleted –
// cancellation and no-show are statuses, and is_deleted suppresses
// erroneous records only.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to open a
// transaction spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// bookingColumns lists the columns selected for a full booking row, in
// the order scanBooking expects them.
const bookingColumns = `id, tenant_id, branch_code, consultant_id, client_id,
       date, start_time, end_time, status, schedule_type, consultation_type,
       title, description, notes, cancel_reason, consultation_id, is_deleted,
       created_at, updated_at, version`

// BookingFilter narrows a List query within the caller's tenant scope.
// Zero values mean "no restriction" for the corresponding field.
type BookingFilter struct {
	ConsultantID uint64
	ClientID     uint64
	DateFrom     *time.Time
	DateTo       *time.Time
	Status       model.BookingStatus
}

// scopeClause renders a TenantScope into a SQL fragment beginning with
// " AND" plus its bind arguments.  The all-tenants scope yields an
// empty fragment; the zero scope is rejected with ErrInvalidScope so no
// query can accidentally run unscoped.
func scopeClause(scope model.TenantScope) (string, []interface{}, error) {
	if !scope.Valid() {
		return "", nil, ErrInvalidScope
	}
	var sb strings.Builder
	var args []interface{}
	if id, ok := scope.TenantID(); ok {
		sb.WriteString(" AND tenant_id = ?")
		args = append(args, id)
	}
	if scope.Branch() != "" {
		sb.WriteString(" AND branch_code = ?")
		args = append(args, scope.Branch())
	}
	return sb.String(), args, nil
}

// statusSet renders a list of statuses into an IN(...) placeholder
// fragment plus its bind arguments.
func statusSet(statuses []model.BookingStatus) (string, []interface{}) {
	ph := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		ph[i] = "?"
		args[i] = string(s)
	}
	return strings.Join(ph, ","), args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// dbtx is satisfied by both *sql.DB and *sql.Tx, so query helpers can
// run either standalone or inside a write transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// scanBooking reads one bookings row into a model.Booking.  TIME columns
// arrive as strings and are parsed into TimeOfDay values; nullable
// columns map onto pointers or empty strings.
func scanBooking(row rowScanner) (*model.Booking, error) {
	var (
		b              model.Booking
		branch         sql.NullString
		clientID       sql.NullInt64
		startStr       string
		endStr         string
		consultType    sql.NullString
		title          sql.NullString
		description    sql.NullString
		notes          sql.NullString
		cancelReason   sql.NullString
		consultationID sql.NullInt64
	)
	err := row.Scan(
		&b.ID, &b.TenantID, &branch, &b.ConsultantID, &clientID,
		&b.Date, &startStr, &endStr, &b.Status, &b.ScheduleType, &consultType,
		&title, &description, &notes, &cancelReason, &consultationID, &b.IsDeleted,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	if b.StartTime, err = model.ParseTimeOfDay(startStr); err != nil {
		return nil, err
	}
	if b.EndTime, err = model.ParseTimeOfDay(endStr); err != nil {
		return nil, err
	}
	if branch.Valid {
		b.BranchCode = branch.String
	}
	if clientID.Valid {
		id := uint64(clientID.Int64)
		b.ClientID = &id
	}
	if consultType.Valid {
		b.ConsultationType = model.ConsultationType(consultType.String)
	}
	if title.Valid {
		b.Title = title.String
	}
	if description.Valid {
		b.Description = description.String
	}
	if notes.Valid {
		b.Notes = notes.String
	}
	if cancelReason.Valid {
		b.CancelReason = cancelReason.String
	}
	if consultationID.Valid {
		id := uint64(consultationID.Int64)
		b.ConsultationID = &id
	}
	return &b, nil
}

// nullStr converts an optional string into its driver representation.
func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullID converts an optional numeric reference into its driver
// representation.
func nullID(id *uint64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// CreateIfFree atomically checks the consultant's slot and inserts the
// booking in one transaction.  The overlap check runs FOR UPDATE, so a
// second writer targeting the same consultant and day blocks until this
// transaction commits and then sees the inserted row.  When blocking
// bookings exist they are returned and nothing is written.  On success
// the generated ID, timestamps and initial version are populated on the
// provided record.  The scope must name a single tenant; the
// all-tenants scope cannot create rows.
func (r *BookingRepo) CreateIfFree(ctx context.Context, scope model.TenantScope, b *model.Booking) ([]model.Booking, error) {
	tenantID, ok := scope.TenantID()
	if !ok {
		return nil, ErrInvalidScope
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	conflicts, err := findOverlaps(ctx, tx, scope, b.ConsultantID, b.Date, b.StartTime, b.EndTime, 0, true)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}
	const q = `INSERT INTO bookings
	           (tenant_id, branch_code, consultant_id, client_id, date,
	            start_time, end_time, status, schedule_type, consultation_type,
	            title, description, notes, version)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`
	result, err := tx.ExecContext(ctx, q,
		tenantID, nullStr(b.BranchCode), b.ConsultantID, nullID(b.ClientID),
		b.Date.Format(model.DateFormat), b.StartTime.SQLTime(), b.EndTime.SQLTime(),
		string(b.Status), string(b.ScheduleType), nullStr(string(b.ConsultationType)),
		nullStr(b.Title), nullStr(b.Description), nullStr(b.Notes),
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, uint64(id)))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	*b = *got
	return nil, nil
}

// GetByID returns a single booking within the caller's scope.  A row
// belonging to a different tenant is reported as ErrBookingNotFound,
// identically to a missing row, so existence is never leaked across
// tenants.  Soft-deleted rows are treated as missing.
func (r *BookingRepo) GetByID(ctx context.Context, scope model.TenantScope, id uint64) (*model.Booking, error) {
	clause, args, err := scopeClause(scope)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND is_deleted = 0` + clause
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, append([]interface{}{id}, args...)...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// findOverlaps runs the overlap query against db or an open transaction.
// With lock set the rows are read FOR UPDATE, which also takes the gap
// locks on the (consultant_id, date) index range – concurrent writers
// targeting the same consultant and day serialize behind it.
func findOverlaps(ctx context.Context, q dbtx, scope model.TenantScope, consultantID uint64, date time.Time, start, end model.TimeOfDay, excludeID uint64, lock bool) ([]model.Booking, error) {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return nil, err
	}
	in, statusArgs := statusSet(model.ActiveStatuses)
	query := `SELECT ` + bookingColumns + `
	      FROM bookings
	      WHERE consultant_id = ? AND date = ? AND is_deleted = 0
	        AND status IN (` + in + `)
	        AND start_time < ? AND ? < end_time` + clause
	args := []interface{}{consultantID, date.Format(model.DateFormat)}
	args = append(args, statusArgs...)
	args = append(args, end.SQLTime(), start.SQLTime())
	args = append(args, scopeArgs...)
	if excludeID != 0 {
		query += ` AND id != ?`
		args = append(args, excludeID)
	}
	query += ` ORDER BY start_time`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOverlaps returns all active bookings for the consultant on the
// given date whose [start_time, end_time) interval overlaps the
// requested one.  The half-open overlap rule is pushed into SQL:
// existing.start < requested.end AND requested.start < existing.end,
// so a booking ending exactly when another starts never matches.
// excludeID, when non-zero, ignores the booking being rescheduled.
// Cancelled, completed and no-show bookings never block; neither do
// soft-deleted rows.  The read has no side effects.
func (r *BookingRepo) FindOverlaps(ctx context.Context, scope model.TenantScope, consultantID uint64, date time.Time, start, end model.TimeOfDay, excludeID uint64) ([]model.Booking, error) {
	return findOverlaps(ctx, r.db, scope, consultantID, date, start, end, excludeID, false)
}

// List returns bookings within the caller's scope matching the filter,
// ordered by date then start time.  Soft-deleted rows are excluded.
func (r *BookingRepo) List(ctx context.Context, scope model.TenantScope, f BookingFilter) ([]model.Booking, error) {
	clause, args, err := scopeClause(scope)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE is_deleted = 0` + clause
	if f.ConsultantID != 0 {
		q += ` AND consultant_id = ?`
		args = append(args, f.ConsultantID)
	}
	if f.ClientID != 0 {
		q += ` AND client_id = ?`
		args = append(args, f.ClientID)
	}
	if f.DateFrom != nil {
		q += ` AND date >= ?`
		args = append(args, f.DateFrom.Format(model.DateFormat))
	}
	if f.DateTo != nil {
		q += ` AND date <= ?`
		args = append(args, f.DateTo.Format(model.DateFormat))
	}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	q += ` ORDER BY date, start_time`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatusCAS performs one conditional status transition: the row
// must still carry the expected version and be in one of the allowed
// predecessor statuses, otherwise no row is updated and false is
// returned.  A successful update bumps the version, so for any given
// pre-transition version exactly one writer can win – this is what
// keeps a user action and the auto-completion sweeper from racing each
// other.  When reason is non-empty it is recorded in the row's
// cancel_reason column; the user-entered description is untouched.
func (r *BookingRepo) UpdateStatusCAS(ctx context.Context, scope model.TenantScope, id, version uint64, from []model.BookingStatus, to model.BookingStatus, reason string) (bool, error) {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return false, err
	}
	in, statusArgs := statusSet(from)
	q := `UPDATE bookings SET status = ?, version = version + 1`
	args := []interface{}{string(to)}
	if reason != "" {
		q += `, cancel_reason = ?`
		args = append(args, reason)
	}
	q += ` WHERE id = ? AND version = ? AND is_deleted = 0 AND status IN (` + in + `)` + clause
	args = append(args, id, version)
	args = append(args, statusArgs...)
	args = append(args, scopeArgs...)
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RescheduleIfFree atomically re-checks the target slot and moves the
// booking in one transaction.  The booking row itself is locked first,
// then the overlap check (excluding the booking) runs FOR UPDATE on the
// target consultant-day, and finally the move is applied under the same
// compare-and-swap discipline as UpdateStatusCAS.  Returns the blocking
// bookings when the target slot is taken (nothing written), or
// won=false when the version no longer matches.
func (r *BookingRepo) RescheduleIfFree(ctx context.Context, scope model.TenantScope, id, version uint64, date time.Time, start, end model.TimeOfDay) ([]model.Booking, bool, error) {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return nil, false, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	sel := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND is_deleted = 0` + clause + ` FOR UPDATE`
	cur, err := scanBooking(tx.QueryRowContext(ctx, sel, append([]interface{}{id}, scopeArgs...)...))
	if err == sql.ErrNoRows {
		return nil, false, ErrBookingNotFound
	}
	if err != nil {
		return nil, false, err
	}
	conflicts, err := findOverlaps(ctx, tx, scope, cur.ConsultantID, date, start, end, id, true)
	if err != nil {
		return nil, false, err
	}
	if len(conflicts) > 0 {
		return conflicts, false, nil
	}
	q := `UPDATE bookings
	      SET date = ?, start_time = ?, end_time = ?, version = version + 1
	      WHERE id = ? AND version = ? AND is_deleted = 0` + clause
	args := []interface{}{date.Format(model.DateFormat), start.SQLTime(), end.SQLTime(), id, version}
	args = append(args, scopeArgs...)
	result, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if n != 1 {
		return nil, false, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	committed = true
	return nil, true, nil
}

// SetConsultationID links a completed booking to the consultation
// record produced from it.  The linkage is best-effort bookkeeping and
// deliberately not versioned: it never competes with a status
// transition.
func (r *BookingRepo) SetConsultationID(ctx context.Context, scope model.TenantScope, id, consultationID uint64) error {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return err
	}
	q := `UPDATE bookings SET consultation_id = ? WHERE id = ? AND is_deleted = 0` + clause
	args := []interface{}{consultationID, id}
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
		return ErrBookingNotFound
	}
	return nil
}

// FindExpiredConfirmed returns bookings still CONFIRMED whose slot has
// fully elapsed: any past date, or today with an end time at or before
// now.  The sweeper calls this with the all-tenants scope; the explicit
// scope parameter keeps even system reads on the scoped query path.
func (r *BookingRepo) FindExpiredConfirmed(ctx context.Context, scope model.TenantScope, today time.Time, now model.TimeOfDay) ([]model.Booking, error) {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + bookingColumns + `
	      FROM bookings
	      WHERE status = ? AND is_deleted = 0
	        AND (date < ? OR (date = ? AND end_time <= ?))` + clause + `
	      ORDER BY date, end_time`
	day := today.Format(model.DateFormat)
	args := []interface{}{string(model.StatusConfirmed), day, day, now.SQLTime()}
	args = append(args, scopeArgs...)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SoftDelete marks an erroneous booking as deleted.  The row is kept
// for audit history; it simply stops participating in reads and
// conflict detection.  Terminal bookings remain visible – soft delete
// is not a substitute for cancellation.
func (r *BookingRepo) SoftDelete(ctx context.Context, scope model.TenantScope, id uint64) error {
	clause, scopeArgs, err := scopeClause(scope)
	if err != nil {
		return err
	}
	q := `UPDATE bookings SET is_deleted = 1 WHERE id = ? AND is_deleted = 0` + clause
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
		return ErrBookingNotFound
	}
	return nil
}
