package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/sonamoo/counsel-scheduling/internal/config"
	"github.com/sonamoo/counsel-scheduling/internal/handler"    // import the handlers that implement business logic
	"github.com/sonamoo/counsel-scheduling/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterScheduling registers the booking and availability endpoints.
// Every route lives under /v1 behind JWT authentication; the JWT must
// carry a tenant_id claim, which pins all reads and writes to the
// caller's tenant.  Redis-backed rate limiting applies to all routes
// and the response cache to the read-only ones.
func RegisterScheduling(e *echo.Echo, b *handler.BookingHandler, a *handler.AvailabilityHandler, jwtSecret string, rdb *redis.Client) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Booking lifecycle.  Clients may create and cancel their own
	// bookings; consultants and staff drive the rest of the state
	// machine.
	staff := middleware.RequireRole(middleware.RoleHQAdmin, middleware.RoleBranchManager, middleware.RoleConsultant)
	anyone := middleware.RequireRole(middleware.RoleHQAdmin, middleware.RoleBranchManager, middleware.RoleConsultant, middleware.RoleClient)

	auth.POST("/bookings", b.CreateBooking, anyone)
	auth.GET("/bookings", b.ListBookings, anyone, cache)
	auth.GET("/bookings/:id", b.GetBooking, anyone)
	auth.PUT("/bookings/:id/slot", b.RescheduleBooking, anyone)
	auth.POST("/bookings/:id/cancel", b.CancelBooking, anyone)
	auth.POST("/bookings/:id/status", b.TransitionBooking, staff)
	auth.DELETE("/bookings/:id", b.DeleteBooking, staff)

	// Availability probes and the consultant weekly template.
	auth.GET("/consultants/:id/availability", b.CheckAvailability, anyone, cache)
	auth.GET("/consultants/:id/windows", a.ListWindows, anyone, cache)
	auth.POST("/consultants/:id/windows", a.CreateWindow, staff)
	auth.PUT("/windows/:id", a.UpdateWindow, staff)
	auth.DELETE("/windows/:id", a.DeleteWindow, staff)

	// Admin inspection: CONFIRMED bookings the sweeper has not yet
	// auto-completed.  HQ_ADMIN may combine this with ?scope=all.
	auth.GET("/admin/bookings/expired", b.ExpiredBefore,
		middleware.RequireRole(middleware.RoleHQAdmin, middleware.RoleBranchManager))
}
