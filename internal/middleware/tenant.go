package middleware

// tenant.go resolves the TenantScope for a request from the claims the
// JWT middleware stored in the context. Ordinary callers are always
// pinned to their own tenant; only an HQ_ADMIN who explicitly asks via
// ?scope=all receives the all-tenants scope, so crossing tenants is a
// distinct code path and never a default.

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/sonamoo/counsel-scheduling/internal/model"
)

// ErrNoTenant is returned when the request context carries no usable
// tenant claim. The JWT middleware should have rejected such requests
// already; this is the backstop.
var ErrNoTenant = errors.New("no tenant in request context")

// ScopeFromContext derives the caller's TenantScope.  The optional
// ?branch= query parameter narrows the scope to one branch; callers
// whose token pins them to a branch cannot widen it.
func ScopeFromContext(c echo.Context) (model.TenantScope, error) {
	role, _ := c.Get("role").(string)
	if role == RoleHQAdmin && c.QueryParam("scope") == "all" {
		scope := model.AllTenants()
		if branch := c.QueryParam("branch"); branch != "" {
			scope = scope.WithBranch(branch)
		}
		return scope, nil
	}
	tenantID, ok := c.Get("tenant_id").(uint64)
	if !ok || tenantID == 0 {
		return model.TenantScope{}, ErrNoTenant
	}
	scope := model.ForTenant(tenantID)
	if branch, ok := c.Get("branch_code").(string); ok && branch != "" {
		// Token-scoped branch wins over any query parameter.
		return scope.WithBranch(branch), nil
	}
	if branch := c.QueryParam("branch"); branch != "" {
		scope = scope.WithBranch(branch)
	}
	return scope, nil
}

// TenantIDFromContext returns the caller's own tenant id, regardless of
// any elevated scope the request may have asked for.  Used by create
// paths, which always write into the caller's tenant.
func TenantIDFromContext(c echo.Context) (uint64, error) {
	tenantID, ok := c.Get("tenant_id").(uint64)
	if !ok || tenantID == 0 {
		return 0, ErrNoTenant
	}
	return tenantID, nil
}
