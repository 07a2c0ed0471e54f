package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-inventory/internal/cache"
	"github.com/iliyamo/flight-seat-inventory/internal/clock"
	"github.com/iliyamo/flight-seat-inventory/internal/config"
	"github.com/iliyamo/flight-seat-inventory/internal/database"
	"github.com/iliyamo/flight-seat-inventory/internal/handler"
	"github.com/iliyamo/flight-seat-inventory/internal/queue"
	"github.com/iliyamo/flight-seat-inventory/internal/repository"
	"github.com/iliyamo/flight-seat-inventory/internal/reservation"
	"github.com/iliyamo/flight-seat-inventory/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and seat-map cache disabled")
	}

	store := repository.NewStore(db)
	clk := clock.NewSystem()

	engine := reservation.NewEngine(store, clk,
		reservation.WithHoldTTL(cfg.HoldTTL),
		reservation.WithSessionTTL(cfg.SessionTTL),
		reservation.WithMaxSessionLifetime(cfg.MaxSessionLifetime),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reclaimer := reservation.NewReclaimer(store, engine, clk,
		reservation.WithSweepInterval(cfg.SweepInterval),
		reservation.WithSweepBatch(cfg.SweepBatch),
	)
	go reclaimer.Run(ctx)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	seatMapCache := cache.NewSeatMapCache(rdb, config.LoadCacheConfig())

	e := echo.New()
	e.HideBanner = true
	h := handler.NewReservationHandler(engine, store, seatMapCache)
	router.RegisterRoutes(e, h, config.LoadRateLimitConfig(), rdb)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start failed: %v", err)
		}
	}()
	log.Printf("flight-seat-inventory listening on :%s (env=%s)", cfg.Port, cfg.Env)

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
