package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type publishScheduleRequest struct {
	// BaseFares maps seat class id to base fare in cents.  Every class
	// present in the airplane's catalog must have an entry.
	BaseFares map[uint64]uint32 `json:"base_fares" validate:"required,min=1"`
}

// PublishSchedule handles POST /v1/admin/schedules/:id/publish.  It
// materialises the seat inventory of a draft schedule and opens it for
// sale.
func (h *ReservationHandler) PublishSchedule(c echo.Context) error {
	scheduleID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body publishScheduleRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_fares must map each seat class to a fare"})
	}
	if err := h.engine.PublishSchedule(c.Request().Context(), scheduleID, body.BaseFares); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"schedule_id": scheduleID, "status": "PUBLISHED"})
}

// CancelBooking handles POST /v1/admin/bookings/:id/cancel.  Booked
// seats return to the open pool and the fare ledger is restored.
func (h *ReservationHandler) CancelBooking(c echo.Context) error {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.engine.CancelBooking(c.Request().Context(), bookingID); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": bookingID, "status": "CANCELLED"})
}

// BlockSeat handles POST /v1/admin/schedules/:scheduleID/seats/:seatID/block.
// A blocked seat is withdrawn from sale without counting as booked.
func (h *ReservationHandler) BlockSeat(c echo.Context) error {
	scheduleID, ok := pathID(c, "scheduleID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	seatID, ok := pathID(c, "seatID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	if err := h.engine.BlockSeat(c.Request().Context(), scheduleID, seatID); err != nil {
		return engineError(c, err)
	}
	h.cache.Invalidate(c.Request().Context(), scheduleID)
	return c.NoContent(http.StatusNoContent)
}

// UnblockSeat handles DELETE /v1/admin/schedules/:scheduleID/seats/:seatID/block.
func (h *ReservationHandler) UnblockSeat(c echo.Context) error {
	scheduleID, ok := pathID(c, "scheduleID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	seatID, ok := pathID(c, "seatID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	if err := h.engine.UnblockSeat(c.Request().Context(), scheduleID, seatID); err != nil {
		return engineError(c, err)
	}
	h.cache.Invalidate(c.Request().Context(), scheduleID)
	return c.NoContent(http.StatusNoContent)
}
