package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sonamoo/counsel-scheduling/internal/model"
	"github.com/sonamoo/counsel-scheduling/internal/repository"
	"github.com/sonamoo/counsel-scheduling/internal/scheduling"
)

// parseID parses a numeric path parameter.  Zero is never a valid id.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// parseUintParam parses an optional numeric query parameter value.
func parseUintParam(v string) (uint64, error) {
	return strconv.ParseUint(v, 10, 64)
}

// slotRequest is the shared date/time triple used by create, reschedule
// and availability probes.  Times are "HH:MM" strings in the tenant's
// local day; sessions never cross midnight.
type slotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (s slotRequest) parse() (time.Time, model.TimeOfDay, model.TimeOfDay, error) {
	date, err := model.ParseDate(s.Date)
	if err != nil {
		return time.Time{}, 0, 0, &scheduling.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	start, err := model.ParseTimeOfDay(s.StartTime)
	if err != nil {
		return time.Time{}, 0, 0, &scheduling.ValidationError{Field: "start_time", Reason: "expected HH:MM"}
	}
	end, err := model.ParseTimeOfDay(s.EndTime)
	if err != nil {
		return time.Time{}, 0, 0, &scheduling.ValidationError{Field: "end_time", Reason: "expected HH:MM"}
	}
	return date, start, end, nil
}

// writeSchedulingError maps scheduling and repository errors onto HTTP
// responses.  Validation problems are 400, conflicts and version races
// are 409 (conflicts include the blocking bookings so clients can offer
// alternatives), missing rows are 404.  Anything unrecognised is a 500
// with a generic message.
func writeSchedulingError(c echo.Context, err error) error {
	var (
		vErr *scheduling.ValidationError
		cErr *scheduling.SchedulingConflict
		tErr *scheduling.InvalidTransition
	)
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "validation_failed",
			"field":   vErr.Field,
			"message": vErr.Error(),
		})
	case errors.As(err, &cErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "slot_conflict",
			"message":   cErr.Error(),
			"conflicts": cErr.Conflicts,
		})
	case errors.As(err, &tErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "invalid_transition",
			"message": tErr.Error(),
		})
	case errors.Is(err, scheduling.ErrConcurrentModification):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "version_conflict",
			"message": "booking was modified concurrently, reload and retry",
		})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrWindowNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "availability window not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
