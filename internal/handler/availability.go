package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sonamoo/counsel-scheduling/internal/middleware"
	"github.com/sonamoo/counsel-scheduling/internal/model"
	"github.com/sonamoo/counsel-scheduling/internal/repository"
)

// AvailabilityHandler manages consultant availability windows – the
// weekly recurring template of bookable time.  Editing the template
// never touches existing bookings; it only changes what new
// consultations are allowed to book from now on.
type AvailabilityHandler struct {
	Repo *repository.AvailabilityRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(repo *repository.AvailabilityRepo) *AvailabilityHandler {
	if repo == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Repo: repo}
}

// windowBody is the request shape for creating and updating windows.
// day_of_week accepts either a number (0=Sunday..6=Saturday) as a
// string or an English weekday name.
type windowBody struct {
	DayOfWeek           string `json:"day_of_week"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	IsActive            *bool  `json:"is_active"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

func (b windowBody) parse() (time.Weekday, model.TimeOfDay, model.TimeOfDay, error) {
	var day time.Weekday
	if d, ok := weekdayNames[strings.ToLower(b.DayOfWeek)]; ok {
		day = d
	} else if len(b.DayOfWeek) == 1 && b.DayOfWeek[0] >= '0' && b.DayOfWeek[0] <= '6' {
		day = time.Weekday(b.DayOfWeek[0] - '0')
	} else {
		return 0, 0, 0, errInvalidWindow("day_of_week")
	}
	start, err := model.ParseTimeOfDay(b.StartTime)
	if err != nil {
		return 0, 0, 0, errInvalidWindow("start_time")
	}
	end, err := model.ParseTimeOfDay(b.EndTime)
	if err != nil {
		return 0, 0, 0, errInvalidWindow("end_time")
	}
	if !start.Before(end) {
		return 0, 0, 0, errInvalidWindow("end_time")
	}
	return day, start, end, nil
}

type invalidWindowError string

func errInvalidWindow(field string) error  { return invalidWindowError(field) }
func (e invalidWindowError) Error() string { return "invalid " + string(e) }

// CreateWindow handles POST /v1/consultants/:id/windows.  Windows are
// always created in the caller's own tenant.
func (h *AvailabilityHandler) CreateWindow(c echo.Context) error {
	tenantID, err := middleware.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	consultantID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body windowBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	day, start, end, err := body.parse()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	w := &model.AvailabilityWindow{
		TenantID:            tenantID,
		ConsultantID:        consultantID,
		DayOfWeek:           day,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: body.SlotDurationMinutes,
		IsActive:            active,
	}
	if err := h.Repo.Create(c.Request().Context(), model.ForTenant(tenantID), w); err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"window": w})
}

// ListWindows handles GET /v1/consultants/:id/windows.  Returns the
// consultant's full weekly template including inactive windows.
func (h *AvailabilityHandler) ListWindows(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	consultantID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.Repo.ListByConsultant(c.Request().Context(), scope, consultantID)
	if err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateWindow handles PUT /v1/windows/:id.
func (h *AvailabilityHandler) UpdateWindow(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	existing, err := h.Repo.GetByID(c.Request().Context(), scope, id)
	if err != nil {
		return writeSchedulingError(c, err)
	}
	var body windowBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	day, start, end, err := body.parse()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	existing.DayOfWeek = day
	existing.StartTime = start
	existing.EndTime = end
	if body.SlotDurationMinutes > 0 {
		existing.SlotDurationMinutes = body.SlotDurationMinutes
	}
	if body.IsActive != nil {
		existing.IsActive = *body.IsActive
	}
	if err := h.Repo.Update(c.Request().Context(), scope, existing); err != nil {
		return writeSchedulingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"window": existing})
}

// DeleteWindow handles DELETE /v1/windows/:id.  Removing a window
// shrinks future capacity only; bookings made under it stand.
func (h *AvailabilityHandler) DeleteWindow(c echo.Context) error {
	scope, err := middleware.ScopeFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Repo.Delete(c.Request().Context(), scope, id); err != nil {
		return writeSchedulingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
