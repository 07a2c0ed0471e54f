package reservation

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/flight-seat-inventory/internal/clock"
	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// Default reclaimer parameters.
const (
	defaultSweepInterval = 15 * time.Second
	defaultSweepBatch    = 200
)

// Reclaimer is the background process that releases stale seat holds
// and expires abandoned sessions, restoring the fare ledger counters.
// Each seat is reclaimed in its own transaction with the same per-seat
// lock customer operations use, so a racing confirmation either
// commits first (and the sweep skips the seat) or loses and observes
// the hold as gone.  The reclaimer never touches BOOKED seats or
// CONFIRMED sessions.
type Reclaimer struct {
	store    Store
	engine   *Engine
	clock    clock.Clock
	interval time.Duration
	batch    int
}

// ReclaimerOption customises a Reclaimer.
type ReclaimerOption func(*Reclaimer)

// WithSweepInterval overrides how often the reclaimer sweeps.
func WithSweepInterval(d time.Duration) ReclaimerOption {
	return func(r *Reclaimer) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithSweepBatch caps how many rows one sweep picks up per query.
func WithSweepBatch(n int) ReclaimerOption {
	return func(r *Reclaimer) {
		if n > 0 {
			r.batch = n
		}
	}
}

// NewReclaimer constructs a Reclaimer sharing the engine's store and
// clock so reclamation applies exactly the same release semantics as
// ReleaseSeat.
func NewReclaimer(store Store, engine *Engine, clk clock.Clock, opts ...ReclaimerOption) *Reclaimer {
	r := &Reclaimer{
		store:    store,
		engine:   engine,
		clock:    clk,
		interval: defaultSweepInterval,
		batch:    defaultSweepBatch,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sweeps on a fixed interval until ctx is cancelled.  Errors from
// a sweep are logged and the loop keeps going; a failed row is retried
// on the next cycle.
func (r *Reclaimer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs one reclamation cycle: expired seat holds first, then
// expired sessions.  It returns how many seats were reclaimed and how
// many sessions were expired.  A single row failing does not stop the
// sweep; the error is logged and the row picked up again next cycle.
func (r *Reclaimer) Sweep(ctx context.Context) (seatsReclaimed, sessionsExpired int) {
	now := r.clock.Now()

	seats, err := r.store.ListExpiredHeldSeats(ctx, now, r.batch)
	if err != nil {
		log.Printf("reclaimer: list expired holds failed: %v", err)
	}
	for _, stale := range seats {
		if err := r.reclaimSeat(ctx, stale.FlightScheduleID, stale.CatalogSeatID, now); err != nil {
			log.Printf("reclaimer: reclaim seat schedule=%d seat=%d failed: %v",
				stale.FlightScheduleID, stale.CatalogSeatID, err)
			continue
		}
		seatsReclaimed++
	}

	sessions, err := r.store.ListExpiredSessions(ctx, now, r.batch)
	if err != nil {
		log.Printf("reclaimer: list expired sessions failed: %v", err)
	}
	for _, sess := range sessions {
		if err := r.expireSession(ctx, sess.ID, now); err != nil {
			log.Printf("reclaimer: expire session %s failed: %v", sess.ID, err)
			continue
		}
		sessionsExpired++
	}
	return seatsReclaimed, sessionsExpired
}

// reclaimSeat releases one expired hold inside its own transaction.
// The seat is re-read under the per-seat lock: if a confirmation or a
// release committed in between, the seat is no longer an expired hold
// and the sweep skips it.
func (r *Reclaimer) reclaimSeat(ctx context.Context, scheduleID, catalogSeatID uint64, now time.Time) error {
	return r.store.WithTx(ctx, func(txCtx context.Context) error {
		seat, err := r.store.GetSeatForUpdate(txCtx, scheduleID, catalogSeatID)
		if err != nil {
			if errors.Is(err, model.ErrSeatNotFound) {
				return nil
			}
			return err
		}
		if seat.Status != model.SeatStatusHeld || seat.HoldExpiresAt == nil || seat.HoldExpiresAt.After(now) {
			return nil
		}
		return r.engine.releaseHeldSeat(txCtx, &seat)
	})
}

// expireSession marks an ACTIVE session whose expiry has passed as
// EXPIRED and releases any seats it still holds.  Seats already
// reclaimed by the per-seat sweep are skipped, making the two sweeps
// idempotent with each other.
func (r *Reclaimer) expireSession(ctx context.Context, sessionID string, now time.Time) error {
	return r.store.WithTx(ctx, func(txCtx context.Context) error {
		sess, err := r.store.GetSession(txCtx, sessionID)
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				return nil
			}
			return err
		}
		if sess.Status != model.SessionStatusActive || sess.ExpiresAt.After(now) {
			return nil
		}

		sess.Status = model.SessionStatusExpired
		if err := r.store.UpdateSession(txCtx, &sess); err != nil {
			return err
		}

		items, err := r.store.ListSessionItems(txCtx, sessionID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Kind != model.ItemKindSeat {
				continue
			}
			seat, err := r.store.GetSeatForUpdate(txCtx, item.FlightScheduleID, item.CatalogSeatID)
			if err != nil {
				if errors.Is(err, model.ErrSeatNotFound) {
					continue
				}
				return err
			}
			if !seat.HeldBy(sessionID) {
				continue
			}
			if err := r.engine.releaseHeldSeat(txCtx, &seat); err != nil {
				return err
			}
		}
		return nil
	})
}
