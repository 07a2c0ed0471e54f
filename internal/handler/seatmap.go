package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// seatMapEntry is the public view of one seat instance.  Holder and
// version details stay internal.
type seatMapEntry struct {
	CatalogSeatID uint64  `json:"catalog_seat_id"`
	SeatClassID   uint64  `json:"seat_class_id"`
	Status        string  `json:"status"`
	HoldExpiresAt *string `json:"hold_expires_at,omitempty"`
}

// SeatMap handles GET /v1/schedules/:id/seats.  It serves the cached
// seat map when one exists, otherwise renders from the database and
// caches the result.
func (h *ReservationHandler) SeatMap(c echo.Context) error {
	scheduleID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}

	ctx := c.Request().Context()
	if payload, hit := h.cache.Get(ctx, scheduleID); hit {
		return c.JSONBlob(http.StatusOK, payload)
	}

	seats, err := h.seats.ListScheduleSeats(ctx, scheduleID)
	if err != nil {
		return engineError(c, err)
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule has no seat inventory"})
	}

	entries := make([]seatMapEntry, 0, len(seats))
	for _, s := range seats {
		e := seatMapEntry{
			CatalogSeatID: s.CatalogSeatID,
			SeatClassID:   s.SeatClassID,
			Status:        s.Status,
		}
		if s.Status == model.SeatStatusHeld && s.HoldExpiresAt != nil {
			ts := s.HoldExpiresAt.Format(time.RFC3339)
			e.HoldExpiresAt = &ts
		}
		entries = append(entries, e)
	}

	payload, err := json.Marshal(echo.Map{"schedule_id": scheduleID, "seats": entries})
	if err != nil {
		return engineError(c, err)
	}
	h.cache.Set(ctx, scheduleID, payload)
	return c.JSONBlob(http.StatusOK, payload)
}
