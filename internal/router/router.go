// Package router wires handlers onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-seat-inventory/internal/config"
	"github.com/iliyamo/flight-seat-inventory/internal/handler"
	"github.com/iliyamo/flight-seat-inventory/internal/middleware"
)

// RegisterRoutes attaches all endpoints.  The /v1 group carries the
// Redis rate limiter; health stays outside it so probes are never
// throttled.
func RegisterRoutes(e *echo.Echo, h *handler.ReservationHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1", middleware.RateLimit(rlCfg, rdb))

	v1.GET("/schedules/:id/seats", h.SeatMap)

	v1.POST("/sessions", h.OpenSession)
	v1.GET("/sessions/:id", h.GetSession)
	v1.POST("/sessions/:id/seats", h.HoldSeat)
	v1.DELETE("/sessions/:id/schedules/:scheduleID/seats/:seatID", h.ReleaseSeat)
	v1.POST("/sessions/:id/schedules/:scheduleID/seats/:seatID/extend", h.ExtendHold)
	v1.POST("/sessions/:id/services", h.AddService)
	v1.POST("/sessions/:id/confirm", h.ConfirmSession)

	admin := v1.Group("/admin")
	admin.POST("/schedules/:id/publish", h.PublishSchedule)
	admin.POST("/bookings/:id/cancel", h.CancelBooking)
	admin.POST("/schedules/:scheduleID/seats/:seatID/block", h.BlockSeat)
	admin.DELETE("/schedules/:scheduleID/seats/:seatID/block", h.UnblockSeat)
}
