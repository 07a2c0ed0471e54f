package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// engineError maps an engine error to an HTTP response.  Known domain
// errors get a stable status and message; anything else is a 500 with
// the detail kept server-side.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not available"})
	case errors.Is(err, model.ErrConcurrencyConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting update, retry the request"})
	case errors.Is(err, model.ErrHoldExpired):
		return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seat holds expired"})
	case errors.Is(err, model.ErrNotHeld):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat is not held by this session"})
	case errors.Is(err, model.ErrNoSeatsHeld):
		return c.JSON(http.StatusConflict, echo.Map{"error": "session holds no seats"})
	case errors.Is(err, model.ErrSessionExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "session has expired"})
	case errors.Is(err, model.ErrSessionClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "session is no longer active"})
	case errors.Is(err, model.ErrScheduleNotPublishable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "schedule cannot be published in its current state"})
	case errors.Is(err, model.ErrBookingNotCancellable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled in its current state"})
	case errors.Is(err, model.ErrSeatNotBlockable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat cannot be blocked or unblocked in its current state"})
	case errors.Is(err, model.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, model.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	case errors.Is(err, model.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case errors.Is(err, model.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, model.ErrLedgerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "fare ledger entry not found"})
	default:
		log.Printf("handler: internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
