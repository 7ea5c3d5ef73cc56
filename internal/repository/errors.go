// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// scheduling service to distinguish between different failure scenarios
// without inspecting driver errors. ErrBookingNotFound covers both a
// genuinely missing row and a row outside the caller's tenant scope:
// the two cases are indistinguishable on purpose so that tenant
// membership is never leaked through error responses.
package repository

import "errors"

// ErrBookingNotFound is returned when a booking does not exist or does
// not belong to the caller's tenant scope. Handlers should translate
// this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrWindowNotFound is returned when an availability window does not
// exist within the caller's tenant scope.
var ErrWindowNotFound = errors.New("availability window not found")

// ErrInvalidScope is returned when a query is attempted with a zero
// TenantScope. Scopes must be constructed explicitly via
// model.ForTenant or model.AllTenants; hitting this error indicates a
// caller bypassed scope construction.
var ErrInvalidScope = errors.New("invalid tenant scope")
