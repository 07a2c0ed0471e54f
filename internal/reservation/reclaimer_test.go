package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

func TestSweepReclaimsExpiredHolds(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	clk := newStepClock(start)
	engine, store := newTestEngine(t, clk, WithSessionTTL(time.Hour))
	reclaimer := NewReclaimer(store, engine, clk)

	sessID := openTestSession(t, engine)
	for _, seatID := range []uint64{seatEco1, seatEco2} {
		if _, err := engine.HoldSeat(ctx, sessID, testScheduleID, seatID); err != nil {
			t.Fatalf("hold %d: %v", seatID, err)
		}
	}
	checkLedger(t, store, classEconomy, 3, 2, 1)

	clk.Advance(defaultHoldTTL + time.Second)
	seats, sessions := reclaimer.Sweep(ctx)
	if seats != 2 || sessions != 0 {
		t.Fatalf("sweep = (%d seats, %d sessions), want (2, 0)", seats, sessions)
	}

	for _, seatID := range []uint64{seatEco1, seatEco2} {
		seat := seatState(store, seatID)
		if seat.Status != model.SeatStatusAvailable || seat.HolderSessionID != nil {
			t.Fatalf("seat %d after sweep: %+v", seatID, seat)
		}
	}
	checkLedger(t, store, classEconomy, 3, 0, 3)

	// The session outlives its holds; the seat items are gone and the
	// total is back to zero.
	sess := store.sessions[sessID]
	if sess.Status != model.SessionStatusActive || sess.TotalCents != 0 {
		t.Fatalf("session after sweep: %+v", sess)
	}
	if items := store.items[sessID]; len(items) != 0 {
		t.Fatalf("items after sweep: %+v", items)
	}

	// With every hold reclaimed the session has nothing to confirm.
	if _, _, err := engine.ConfirmSession(ctx, sessID); !errors.Is(err, model.ErrNoSeatsHeld) {
		t.Fatalf("confirm after sweep: %v, want ErrNoSeatsHeld", err)
	}
}

func TestSweepExpiresSessions(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	clk := newStepClock(start)

	// Holds outlive the session so the session sweep, not the seat
	// sweep, does the releasing.
	engine, store := newTestEngine(t, clk,
		WithHoldTTL(2*time.Hour),
		WithSessionTTL(10*time.Minute),
	)
	reclaimer := NewReclaimer(store, engine, clk)

	sessID := openTestSession(t, engine)
	if _, err := engine.HoldSeat(ctx, sessID, testScheduleID, seatEco1); err != nil {
		t.Fatalf("hold: %v", err)
	}

	clk.Advance(11 * time.Minute)
	seats, sessions := reclaimer.Sweep(ctx)
	if seats != 0 || sessions != 1 {
		t.Fatalf("sweep = (%d seats, %d sessions), want (0, 1)", seats, sessions)
	}

	if got := store.sessions[sessID].Status; got != model.SessionStatusExpired {
		t.Fatalf("session status = %s, want EXPIRED", got)
	}
	if seat := seatState(store, seatEco1); seat.Status != model.SeatStatusAvailable {
		t.Fatalf("seat after session expiry: %+v", seat)
	}
	checkLedger(t, store, classEconomy, 3, 0, 3)

	// An expired session rejects further mutation.
	if _, err := engine.HoldSeat(ctx, sessID, testScheduleID, seatEco2); !errors.Is(err, model.ErrSessionClosed) {
		t.Fatalf("hold on expired session: %v, want ErrSessionClosed", err)
	}
}

func TestSweepLeavesBookingsAlone(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	clk := newStepClock(start)
	engine, store := newTestEngine(t, clk)
	reclaimer := NewReclaimer(store, engine, clk)

	sessID := openTestSession(t, engine)
	if _, err := engine.HoldSeat(ctx, sessID, testScheduleID, seatEco1); err != nil {
		t.Fatalf("hold: %v", err)
	}
	if _, _, err := engine.ConfirmSession(ctx, sessID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	clk.Advance(24 * time.Hour)
	seats, sessions := reclaimer.Sweep(ctx)
	if seats != 0 || sessions != 0 {
		t.Fatalf("sweep = (%d seats, %d sessions), want (0, 0)", seats, sessions)
	}
	if seat := seatState(store, seatEco1); seat.Status != model.SeatStatusBooked {
		t.Fatalf("booked seat touched by sweep: %+v", seat)
	}
	if got := store.sessions[sessID].Status; got != model.SessionStatusConfirmed {
		t.Fatalf("confirmed session touched by sweep: %s", got)
	}
	checkLedger(t, store, classEconomy, 3, 1, 2)
}

func TestSweepIsIdempotent(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	clk := newStepClock(start)
	engine, store := newTestEngine(t, clk)
	reclaimer := NewReclaimer(store, engine, clk)

	sessID := openTestSession(t, engine)
	if _, err := engine.HoldSeat(ctx, sessID, testScheduleID, seatEco1); err != nil {
		t.Fatalf("hold: %v", err)
	}

	clk.Advance(defaultHoldTTL + time.Second)
	if seats, _ := reclaimer.Sweep(ctx); seats != 1 {
		t.Fatalf("first sweep reclaimed %d seats, want 1", seats)
	}
	if seats, _ := reclaimer.Sweep(ctx); seats != 0 {
		t.Fatalf("second sweep reclaimed %d seats, want 0", seats)
	}
	checkLedger(t, store, classEconomy, 3, 0, 3)
}

func TestSweepBatchLimit(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	clk := newStepClock(start)
	engine, store := newTestEngine(t, clk)
	reclaimer := NewReclaimer(store, engine, clk, WithSweepBatch(1))

	sessID := openTestSession(t, engine)
	for _, seatID := range []uint64{seatEco1, seatEco2} {
		if _, err := engine.HoldSeat(ctx, sessID, testScheduleID, seatID); err != nil {
			t.Fatalf("hold %d: %v", seatID, err)
		}
	}

	clk.Advance(defaultHoldTTL + time.Second)
	if seats, _ := reclaimer.Sweep(ctx); seats != 1 {
		t.Fatalf("batched sweep reclaimed %d seats, want 1", seats)
	}
	// The leftover row is picked up next cycle.
	if seats, _ := reclaimer.Sweep(ctx); seats != 1 {
		t.Fatalf("second sweep reclaimed %d seats, want 1", seats)
	}
	checkLedger(t, store, classEconomy, 3, 0, 3)
}
