package model

import "time"

// TenantScope carries the tenant (and optional branch) a repository
// query is restricted to.  The zero value is deliberately invalid:
// every query path must construct a scope explicitly via ForTenant or
// AllTenants, so there is no way to fall through to an unscoped read by
// forgetting a filter.  AllTenants is the headquarters escape hatch and
// must never be the default for ordinary callers.
type TenantScope struct {
	tenantID uint64
	branch   string
	all      bool
}

// ForTenant returns a scope restricted to a single tenant.
func ForTenant(tenantID uint64) TenantScope {
	return TenantScope{tenantID: tenantID}
}

// AllTenants returns the elevated scope spanning every tenant.  Only
// headquarters administrators may reach a code path that constructs it.
func AllTenants() TenantScope {
	return TenantScope{all: true}
}

// WithBranch narrows the scope to a single branch within the tenant.
// An empty code leaves the scope covering all branches.
func (s TenantScope) WithBranch(code string) TenantScope {
	s.branch = code
	return s
}

// Valid reports whether the scope was constructed through ForTenant or
// AllTenants.  Repositories reject the zero value.
func (s TenantScope) Valid() bool { return s.all || s.tenantID != 0 }

// All reports whether the scope spans every tenant.
func (s TenantScope) All() bool { return s.all }

// TenantID returns the tenant the scope is restricted to; ok is false
// for the all-tenants scope.
func (s TenantScope) TenantID() (id uint64, ok bool) {
	return s.tenantID, !s.all && s.tenantID != 0
}

// Branch returns the optional branch restriction; empty means all
// branches within the tenant.
func (s TenantScope) Branch() string { return s.branch }

// DefaultCancelLeadTime is the window before a booking's start inside
// which a cancellation reason becomes mandatory, used when a tenant has
// no setting of its own.
const DefaultCancelLeadTime = 24 * time.Hour

// TenantSettings holds the per-tenant scheduling policy knobs.
//
// Fields:
//  TenantID            – tenant the settings belong to.
//  RequireConfirmation – when true, new bookings are created in
//                        REQUESTED and must be promoted to BOOKED by
//                        staff; otherwise they start as BOOKED.
//  CancelLeadTime      – cancellations closer to the start than this
//                        require a non-empty reason.
type TenantSettings struct {
	TenantID            uint64
	RequireConfirmation bool
	CancelLeadTime      time.Duration
}

// DefaultTenantSettings returns the policy applied to tenants without a
// settings row.
func DefaultTenantSettings(tenantID uint64) TenantSettings {
	return TenantSettings{
		TenantID:       tenantID,
		CancelLeadTime: DefaultCancelLeadTime,
	}
}
