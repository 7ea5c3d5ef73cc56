package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sonamoo/counsel-scheduling/internal/model"
)

// TenantRepo reads per-tenant scheduling policy from the
// tenant_settings table.  Tenants without a row fall back to the
// deployment-wide defaults, so a missing row is a normal condition
// rather than an error.
type TenantRepo struct {
	db          *sql.DB
	defaultLead time.Duration
}

// NewTenantRepo returns a new TenantRepo bound to the given database.
// The deployment default for the cancellation lead time applies to
// tenants that have no settings row.
func NewTenantRepo(db *sql.DB) *TenantRepo {
	return &TenantRepo{db: db, defaultLead: model.DefaultCancelLeadTime}
}

// SetDefaultCancelLeadTime overrides the fallback lead time, normally
// from the CANCEL_LEAD_TIME_HOURS configuration value.
func (r *TenantRepo) SetDefaultCancelLeadTime(d time.Duration) { r.defaultLead = d }

// Settings returns the scheduling policy for a tenant.  The
// cancel_lead_time_hours column stores whole hours; zero means
// cancellations never require a reason.
func (r *TenantRepo) Settings(ctx context.Context, tenantID uint64) (model.TenantSettings, error) {
	const q = `SELECT require_confirmation, cancel_lead_time_hours
	           FROM tenant_settings WHERE tenant_id = ?`
	var (
		requireConfirmation bool
		leadHours           int
	)
	err := r.db.QueryRowContext(ctx, q, tenantID).Scan(&requireConfirmation, &leadHours)
	if err == sql.ErrNoRows {
		settings := model.DefaultTenantSettings(tenantID)
		settings.CancelLeadTime = r.defaultLead
		return settings, nil
	}
	if err != nil {
		return model.TenantSettings{}, err
	}
	return model.TenantSettings{
		TenantID:            tenantID,
		RequireConfirmation: requireConfirmation,
		CancelLeadTime:      time.Duration(leadHours) * time.Hour,
	}, nil
}
