// Package handler translates HTTP requests into reservation engine
// calls and engine error kinds into status codes.  All business rules
// live in the engine; handlers only bind, validate and map.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-inventory/internal/cache"
	"github.com/iliyamo/flight-seat-inventory/internal/model"
	"github.com/iliyamo/flight-seat-inventory/internal/queue"
	"github.com/iliyamo/flight-seat-inventory/internal/reservation"
	queue_publisher "github.com/iliyamo/flight-seat-inventory/internal/service"
)

// Engine is the surface of the reservation engine the handlers use.
// It is satisfied by *reservation.Engine and by fakes in tests.
type Engine interface {
	OpenSession(ctx context.Context, accountID *uint64) (model.BookingSession, error)
	GetSession(ctx context.Context, sessionID string) (model.BookingSession, []model.SessionItem, error)
	HoldSeat(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) (reservation.HoldResult, error)
	ReleaseSeat(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) error
	ExtendHold(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64, ttl time.Duration) (time.Time, error)
	ConfirmSession(ctx context.Context, sessionID string) (model.ConfirmedBooking, []model.BookingSeat, error)
	AddService(ctx context.Context, sessionID, serviceCode string, priceCents uint32) (model.BookingSession, error)
	PublishSchedule(ctx context.Context, scheduleID uint64, baseFares map[uint64]uint32) error
	CancelBooking(ctx context.Context, bookingID uint64) error
	BlockSeat(ctx context.Context, scheduleID, catalogSeatID uint64) error
	UnblockSeat(ctx context.Context, scheduleID, catalogSeatID uint64) error
}

// SeatMapSource reads the seat instances of a schedule for the public
// seat map endpoint.
type SeatMapSource interface {
	ListScheduleSeats(ctx context.Context, scheduleID uint64) ([]model.SeatInstance, error)
}

// ReservationHandler wires the engine, the seat map source and the
// seat map cache into Echo handlers.
type ReservationHandler struct {
	engine   Engine
	seats    SeatMapSource
	cache    *cache.SeatMapCache
	validate *validator.Validate
}

// NewReservationHandler constructs a ReservationHandler.  engine and
// seats must be non-nil; cache may be nil to disable caching.
func NewReservationHandler(engine Engine, seats SeatMapSource, seatMapCache *cache.SeatMapCache) *ReservationHandler {
	if engine == nil || seats == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		engine:   engine,
		seats:    seats,
		cache:    seatMapCache,
		validate: validator.New(),
	}
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// OpenSession handles POST /v1/sessions.  It starts a new booking
// session, optionally bound to an account, and returns the session id
// and expiry.
func (h *ReservationHandler) OpenSession(c echo.Context) error {
	var body struct {
		AccountID *uint64 `json:"account_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sess, err := h.engine.OpenSession(c.Request().Context(), body.AccountID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": sess.ID,
		"expires_at": sess.ExpiresAt.Format(time.RFC3339),
	})
}

// GetSession handles GET /v1/sessions/:id.  It returns the session
// with its line items and running total.
func (h *ReservationHandler) GetSession(c echo.Context) error {
	sess, items, err := h.engine.GetSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id":  sess.ID,
		"status":      sess.Status,
		"total_cents": sess.TotalCents,
		"expires_at":  sess.ExpiresAt.Format(time.RFC3339),
		"items":       items,
	})
}

type holdSeatRequest struct {
	FlightScheduleID uint64 `json:"flight_schedule_id" validate:"required"`
	CatalogSeatID    uint64 `json:"catalog_seat_id" validate:"required"`
}

// HoldSeat handles POST /v1/sessions/:id/seats.  It places a
// time-boxed hold on one seat for the session.  Of two concurrent
// requests for the same seat exactly one receives 201; the other
// receives 409 with a seat-unavailable error.
func (h *ReservationHandler) HoldSeat(c echo.Context) error {
	var body holdSeatRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_schedule_id and catalog_seat_id are required"})
	}
	result, err := h.engine.HoldSeat(c.Request().Context(), c.Param("id"), body.FlightScheduleID, body.CatalogSeatID)
	if err != nil {
		return engineError(c, err)
	}
	h.cache.Invalidate(c.Request().Context(), body.FlightScheduleID)
	return c.JSON(http.StatusCreated, result)
}

// ReleaseSeat handles DELETE /v1/sessions/:id/schedules/:scheduleID/seats/:seatID.
// Releasing a seat the session does not hold is a no-op, so the
// response is 204 either way.
func (h *ReservationHandler) ReleaseSeat(c echo.Context) error {
	scheduleID, ok := pathID(c, "scheduleID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	seatID, ok := pathID(c, "seatID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	if err := h.engine.ReleaseSeat(c.Request().Context(), c.Param("id"), scheduleID, seatID); err != nil {
		return engineError(c, err)
	}
	h.cache.Invalidate(c.Request().Context(), scheduleID)
	return c.NoContent(http.StatusNoContent)
}

type extendHoldRequest struct {
	TTLSeconds int64 `json:"ttl_seconds" validate:"gte=0"`
}

// ExtendHold handles POST /v1/sessions/:id/schedules/:scheduleID/seats/:seatID/extend.
// A zero or omitted TTL extends by the engine's default hold TTL.
func (h *ReservationHandler) ExtendHold(c echo.Context) error {
	scheduleID, ok := pathID(c, "scheduleID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	seatID, ok := pathID(c, "seatID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	var body extendHoldRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ttl_seconds must not be negative"})
	}
	expiresAt, err := h.engine.ExtendHold(c.Request().Context(), c.Param("id"), scheduleID, seatID,
		time.Duration(body.TTLSeconds)*time.Second)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hold_expires_at": expiresAt.Format(time.RFC3339),
	})
}

// ConfirmSession handles POST /v1/sessions/:id/confirm.  On success
// every held seat is booked atomically and a confirmation event is
// published for downstream consumers; publish failures are ignored
// because the booking has already committed.
func (h *ReservationHandler) ConfirmSession(c echo.Context) error {
	booking, seats, err := h.engine.ConfirmSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return engineError(c, err)
	}

	event := queue.BookingConfirmedEvent{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		SessionID:   booking.SessionID,
		AccountID:   booking.AccountID,
		TotalCents:  booking.TotalCents,
		ConfirmedAt: booking.CreatedAt.Format(time.RFC3339),
	}
	for _, seat := range seats {
		event.Seats = append(event.Seats, queue.ConfirmedSeatEvent{
			FlightScheduleID: seat.FlightScheduleID,
			CatalogSeatID:    seat.CatalogSeatID,
			PriceCents:       seat.PriceCents,
		})
		h.cache.Invalidate(c.Request().Context(), seat.FlightScheduleID)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingConfirmed(ctx, event)
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":  booking.ID,
		"reference":   booking.Reference,
		"total_cents": booking.TotalCents,
	})
}

type addServiceRequest struct {
	ServiceCode string `json:"service_code" validate:"required"`
	PriceCents  uint32 `json:"price_cents"`
}

// AddService handles POST /v1/sessions/:id/services.  It appends a
// service selection to the session's line items.
func (h *ReservationHandler) AddService(c echo.Context) error {
	var body addServiceRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_code is required"})
	}
	sess, err := h.engine.AddService(c.Request().Context(), c.Param("id"), body.ServiceCode, body.PriceCents)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"total_cents": sess.TotalCents,
	})
}
