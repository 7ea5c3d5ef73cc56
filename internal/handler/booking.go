package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sonamoo/counsel-scheduling/internal/middleware"
	"github.com/sonamoo/counsel-scheduling/internal/model"
	"github.com/sonamoo/counsel-scheduling/internal/repository"
	"github.com/sonamoo/counsel-scheduling/internal/scheduling"
)

// BookingHandler exposes the booking ledger over HTTP.  All methods
// assume JWT authentication and role validation have already run; the
// caller's TenantScope is derived from the token claims on every
// request, so a handler can never read or write outside the caller's
// tenant by accident.
type BookingHandler struct {
	Svc  *scheduling.Service
	Repo *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies
// must be non-nil.
func NewBookingHandler(svc *scheduling.Service, repo *repository.BookingRepo) *BookingHandler {
	if svc == nil || repo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Repo: repo}
}

// CreateBooking handles POST /v1/bookings.  The booking is always
// created in the caller's own tenant regardless of any elevated scope
// the request carries.  On a slot conflict the 409 body lists the
// blocking bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	tenantID, err := middleware.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Date             string  `json:"date"`
		StartTime        string  `json:"start_time"`
		EndTime          string  `json:"end_time"`
		ConsultantID     uint64  `json:"consultant_id"`
		ClientID         *uint64 `json:"client_id"`
		BranchCode       string  `json:"branch_code"`
		ScheduleType     string  `json:"schedule_type"`
		ConsultationType string  `json:"consultation_type"`
		Title            string  `json:"title"`
		Description      string  `json:"description"`
		Notes            string  `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	slot := slotRequest{Date: body.Date, StartTime: body.StartTime, EndTime: body.EndTime}
	date, start, end, err := slot.parse()
	if err != nil {
		return writeSchedulingError(c, err)
	}
	scheduleType := model.ScheduleType(body.ScheduleType)
	if body.ScheduleType == "" {
		scheduleType = model.TypeConsultation
	}
	branch := body.BranchCode
	if tokenBranch, ok := c.Get("branch_code").(string); ok && tokenBranch != "" {
		// Branch-pinned tokens always write into their own branch.
		branch = tokenBranch
	}
	b, err := h.Svc.Create(c.Request().Context(), scheduling.CreateParams{
		TenantID:         tenantID,
		BranchCode:       branch,
		ConsultantID:     body.ConsultantID,
		ClientID:         body.ClientID,
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		ScheduleType:     scheduleType,
		ConsultationType: model.ConsultationType(body.ConsultationType),
		Title:            body.Title,
		Description:      body.Description,
		Notes:            body.Notes,
	})
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// ListBookings handles GET /v1/bookings.  Optional query filters:
// consultant_id, client_id, status, from, to (dates inclusive).
func (h *BookingHandler) ListBookings(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var f repository.BookingFilter
	if v := c.QueryParam("consultant_id"); v != "" {
		id, err := parseUintParam(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid consultant_id"})
		}
		f.ConsultantID = id
	}
	if v := c.QueryParam("client_id"); v != "" {
		id, err := parseUintParam(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client_id"})
		}
		f.ClientID = id
	}
	if v := c.QueryParam("status"); v != "" {
		f.Status = model.BookingStatus(v)
		if !f.Status.Known() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
	}
	if v := c.QueryParam("from"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		f.DateFrom = &d
	}
	if v := c.QueryParam("to"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		f.DateTo = &d
	}
	items, err := h.Svc.ListBookings(c.Request().Context(), scope, f)
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id.  A booking in another
// tenant reads as 404, indistinguishable from a missing row.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	b, err := h.Repo.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// RescheduleBooking handles PUT /v1/bookings/:id/slot.  Moves the
// booking to a new date/time if its status still allows movement and
// the target slot is free.
func (h *BookingHandler) RescheduleBooking(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body slotRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, start, end, err := body.parse()
	if err != nil {
		return writeSchedulingError(c, err)
	}
	b, err := h.Svc.Reschedule(c.Request().Context(), scope, id, date, start, end)
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  Within the
// tenant's cancellation lead-time window a non-empty reason is
// required; the service enforces that rule.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Svc.Cancel(c.Request().Context(), scope, id, body.Reason)
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// TransitionBooking handles POST /v1/bookings/:id/status.  The body
// names the target status; the state machine decides whether the move
// is legal from the booking's current status.
func (h *BookingHandler) TransitionBooking(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Svc.Transition(c.Request().Context(), scope, id, model.BookingStatus(body.Status))
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// DeleteBooking handles DELETE /v1/bookings/:id.  Soft delete: the row
// is hidden from every read and conflict check but retained for audit.
// The booking's status is left untouched.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Repo.SoftDelete(c.Request().Context(), scope, id); err != nil {
		return writeSchedulingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckAvailability handles GET /v1/consultants/:id/availability with
// date, start_time and end_time query parameters.  Pure read: reports
// whether the slot is free and, if not, which bookings block it.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	consultantID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	slot := slotRequest{
		Date:      c.QueryParam("date"),
		StartTime: c.QueryParam("start_time"),
		EndTime:   c.QueryParam("end_time"),
	}
	date, start, end, err := slot.parse()
	if err != nil {
		return writeSchedulingError(c, err)
	}
	res, err := h.Svc.CheckAvailability(c.Request().Context(), scope, consultantID, date, start, end)
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ExpiredBefore is exported for the sweeper's admin inspection route:
// GET /v1/admin/bookings/expired lists CONFIRMED bookings whose slot
// has fully elapsed but which have not yet been auto-completed.
func (h *BookingHandler) ExpiredBefore(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	now := time.Now().UTC()
	items, err := h.Repo.FindExpiredConfirmed(c.Request().Context(), scope, model.DateOnly(now), model.TimeOfDayFrom(now))
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
