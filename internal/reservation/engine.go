// Package reservation implements the seat inventory reservation
// engine: time-boxed seat holds tied to a booking session, atomic
// fare-ledger counter adjustments, confirmation into bookings and the
// background reclamation of expired holds and sessions.
package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/flight-seat-inventory/internal/clock"
	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// Default engine parameters.  All of them can be overridden with the
// corresponding Option.
const (
	defaultHoldTTL            = 5 * time.Minute
	defaultSessionTTL         = 30 * time.Minute
	defaultMaxSessionLifetime = 2 * time.Hour
	defaultConflictRetries    = 3
)

// Engine orchestrates hold acquisition, release, extension and
// confirmation across seat instances and the fare ledger.  Every
// operation runs as one short transaction; per-seat mutual exclusion
// comes from the optimistic version column on seat_instances, and a
// lost version race is retried up to the configured number of times
// before model.ErrConcurrencyConflict reaches the caller.
type Engine struct {
	store              Store
	clock              clock.Clock
	holdTTL            time.Duration
	sessionTTL         time.Duration
	maxSessionLifetime time.Duration
	conflictRetries    int
}

// Option customises an Engine.
type Option func(*Engine)

// WithHoldTTL overrides the default lifetime of a new seat hold.
func WithHoldTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.holdTTL = d
		}
	}
}

// WithSessionTTL overrides the default sliding session expiry window.
func WithSessionTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.sessionTTL = d
		}
	}
}

// WithMaxSessionLifetime caps how far a session's sliding expiry may
// move past its creation time.
func WithMaxSessionLifetime(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.maxSessionLifetime = d
		}
	}
}

// WithConflictRetries overrides how many times a lost optimistic
// version race is retried before surfacing to the caller.
func WithConflictRetries(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.conflictRetries = n
		}
	}
}

// NewEngine constructs an Engine bound to the given store and clock.
func NewEngine(store Store, clk clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		store:              store,
		clock:              clk,
		holdTTL:            defaultHoldTTL,
		sessionTTL:         defaultSessionTTL,
		maxSessionLifetime: defaultMaxSessionLifetime,
		conflictRetries:    defaultConflictRetries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HoldResult reports a successful seat hold back to the caller.
type HoldResult struct {
	FlightScheduleID uint64    `json:"flight_schedule_id"`
	CatalogSeatID    uint64    `json:"catalog_seat_id"`
	PriceCents       uint32    `json:"price_cents"`
	HoldExpiresAt    time.Time `json:"hold_expires_at"`
	SessionExpiresAt time.Time `json:"session_expires_at"`
}

// withRetry runs fn in a transaction, retrying the whole unit when the
// optimistic seat version check lost a race.  Anything else aborts
// immediately.
func (e *Engine) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= e.conflictRetries; attempt++ {
		err = e.store.WithTx(ctx, fn)
		if !errors.Is(err, model.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// activeSession loads a session and verifies it still accepts
// mutation: model.ErrSessionClosed for EXPIRED/CONFIRMED sessions and
// model.ErrSessionExpired once expires_at has passed.
func (e *Engine) activeSession(ctx context.Context, sessionID string, now time.Time) (model.BookingSession, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return model.BookingSession{}, err
	}
	if sess.Status != model.SessionStatusActive {
		return model.BookingSession{}, model.ErrSessionClosed
	}
	if !sess.ExpiresAt.After(now) {
		return model.BookingSession{}, model.ErrSessionExpired
	}
	return sess, nil
}

// slideSessionExpiry moves the session's expiry forward to now plus
// the session TTL, never backwards and never past the maximum session
// lifetime measured from creation.
func (e *Engine) slideSessionExpiry(sess *model.BookingSession, now time.Time) {
	next := now.Add(e.sessionTTL)
	if limit := sess.CreatedAt.Add(e.maxSessionLifetime); next.After(limit) {
		next = limit
	}
	if next.After(sess.ExpiresAt) {
		sess.ExpiresAt = next
	}
}

// OpenSession starts a new booking session.  accountID may be nil for
// anonymous carts.
func (e *Engine) OpenSession(ctx context.Context, accountID *uint64) (model.BookingSession, error) {
	now := e.clock.Now()
	sess := model.BookingSession{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Status:    model.SessionStatusActive,
		ExpiresAt: now.Add(e.sessionTTL),
		CreatedAt: now,
	}
	if err := e.store.CreateSession(ctx, &sess); err != nil {
		return model.BookingSession{}, err
	}
	return sess, nil
}

// GetSession returns an ACTIVE session together with its line items.
// Reading an EXPIRED or CONFIRMED session fails with
// model.ErrSessionClosed; a lapsed ACTIVE session fails with
// model.ErrSessionExpired.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (model.BookingSession, []model.SessionItem, error) {
	sess, err := e.activeSession(ctx, sessionID, e.clock.Now())
	if err != nil {
		return model.BookingSession{}, nil, err
	}
	items, err := e.store.ListSessionItems(ctx, sessionID)
	if err != nil {
		return model.BookingSession{}, nil, err
	}
	return sess, items, nil
}

// HoldSeat places a time-boxed hold on one seat for the session.  The
// seat transitions AVAILABLE -> HELD and the paired fare ledger row
// gives up one available seat, both inside the same transaction.  Of
// two concurrent calls for the same seat exactly one succeeds; the
// other observes model.ErrSeatUnavailable.
func (e *Engine) HoldSeat(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) (HoldResult, error) {
	now := e.clock.Now()
	var result HoldResult

	err := e.withRetry(ctx, func(txCtx context.Context) error {
		sess, err := e.activeSession(txCtx, sessionID, now)
		if err != nil {
			return err
		}

		seat, err := e.store.GetSeatForUpdate(txCtx, scheduleID, catalogSeatID)
		if err != nil {
			return err
		}
		if seat.Status != model.SeatStatusAvailable {
			return model.ErrSeatUnavailable
		}

		ledger, err := e.store.GetLedger(txCtx, scheduleID, seat.SeatClassID)
		if err != nil {
			return err
		}

		expiresAt := now.Add(e.holdTTL)
		seat.Status = model.SeatStatusHeld
		seat.HolderSessionID = &sess.ID
		seat.HoldExpiresAt = &expiresAt
		if err := e.store.UpdateSeat(txCtx, &seat); err != nil {
			return err
		}
		// booked counts seats committed to a hold or a confirmed
		// booking, so the decrement happens here, not at confirmation.
		if err := e.store.AdjustLedger(txCtx, scheduleID, seat.SeatClassID, +1, -1, 0); err != nil {
			return err
		}

		price := seatPriceCents(ledger.BaseFareCents, seat.PriceAdjustmentCents)
		item := model.SessionItem{
			SessionID:        sess.ID,
			Kind:             model.ItemKindSeat,
			FlightScheduleID: scheduleID,
			CatalogSeatID:    catalogSeatID,
			PriceCents:       price,
		}
		if err := e.store.AddSessionItem(txCtx, &item); err != nil {
			return err
		}

		sess.TotalCents += price
		e.slideSessionExpiry(&sess, now)
		if err := e.store.UpdateSession(txCtx, &sess); err != nil {
			return err
		}

		result = HoldResult{
			FlightScheduleID: scheduleID,
			CatalogSeatID:    catalogSeatID,
			PriceCents:       price,
			HoldExpiresAt:    expiresAt,
			SessionExpiresAt: sess.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return HoldResult{}, err
	}
	return result, nil
}

// ReleaseSeat returns a seat held by the session to the AVAILABLE pool
// and reverses the ledger decrement.  It is idempotent: when the seat
// is not currently HELD by this session the call is a no-op.  No
// session liveness check is made so the payment-failure path can still
// release seats.
func (e *Engine) ReleaseSeat(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) error {
	return e.withRetry(ctx, func(txCtx context.Context) error {
		seat, err := e.store.GetSeatForUpdate(txCtx, scheduleID, catalogSeatID)
		if err != nil {
			if errors.Is(err, model.ErrSeatNotFound) {
				return nil
			}
			return err
		}
		if !seat.HeldBy(sessionID) {
			return nil
		}
		return e.releaseHeldSeat(txCtx, &seat)
	})
}

// releaseHeldSeat transitions a HELD seat back to AVAILABLE, reverses
// the ledger decrement, removes the session's seat line item and
// shrinks the session total.  Callers must have loaded the seat for
// update inside the current transaction.
func (e *Engine) releaseHeldSeat(txCtx context.Context, seat *model.SeatInstance) error {
	sessionID := *seat.HolderSessionID
	seat.Status = model.SeatStatusAvailable
	seat.HolderSessionID = nil
	seat.HoldExpiresAt = nil
	if err := e.store.UpdateSeat(txCtx, seat); err != nil {
		return err
	}
	if err := e.store.AdjustLedger(txCtx, seat.FlightScheduleID, seat.SeatClassID, -1, +1, 0); err != nil {
		return err
	}

	sess, err := e.store.GetSession(txCtx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	items, err := e.store.ListSessionItems(txCtx, sessionID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Kind != model.ItemKindSeat {
			continue
		}
		if item.FlightScheduleID != seat.FlightScheduleID || item.CatalogSeatID != seat.CatalogSeatID {
			continue
		}
		if err := e.store.RemoveSeatItem(txCtx, sessionID, seat.FlightScheduleID, seat.CatalogSeatID); err != nil {
			return err
		}
		if sess.TotalCents >= item.PriceCents {
			sess.TotalCents -= item.PriceCents
		} else {
			sess.TotalCents = 0
		}
		if err := e.store.UpdateSession(txCtx, &sess); err != nil {
			return err
		}
		break
	}
	return nil
}

// ExtendHold resets the hold expiry of a seat held by the session to
// now plus ttl.  It fails with model.ErrNotHeld unless the seat is
// currently HELD by this session, and slides the session expiry like
// any other hold operation.
func (e *Engine) ExtendHold(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64, ttl time.Duration) (time.Time, error) {
	if ttl <= 0 {
		ttl = e.holdTTL
	}
	now := e.clock.Now()
	var expiresAt time.Time

	err := e.withRetry(ctx, func(txCtx context.Context) error {
		sess, err := e.activeSession(txCtx, sessionID, now)
		if err != nil {
			return err
		}
		seat, err := e.store.GetSeatForUpdate(txCtx, scheduleID, catalogSeatID)
		if err != nil {
			if errors.Is(err, model.ErrSeatNotFound) {
				return model.ErrNotHeld
			}
			return err
		}
		if !seat.HeldBy(sessionID) {
			return model.ErrNotHeld
		}

		expiresAt = now.Add(ttl)
		seat.HoldExpiresAt = &expiresAt
		if err := e.store.UpdateSeat(txCtx, &seat); err != nil {
			return err
		}

		e.slideSessionExpiry(&sess, now)
		return e.store.UpdateSession(txCtx, &sess)
	})
	if err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// ConfirmSession finalises a session.  Every seat in the session's
// hold set is re-validated inside the transaction: if any hold has
// lapsed or the seat is no longer held by this session, the whole
// confirmation fails with model.ErrHoldExpired and nothing is booked.
// Otherwise all held seats transition HELD -> BOOKED with holder and
// expiry cleared, the ledger stays untouched (seats were counted as
// booked at hold time), the session becomes CONFIRMED and a
// ConfirmedBooking is produced together with its frozen seats.
func (e *Engine) ConfirmSession(ctx context.Context, sessionID string) (model.ConfirmedBooking, []model.BookingSeat, error) {
	now := e.clock.Now()
	var booking model.ConfirmedBooking
	var confirmedSeats []model.BookingSeat

	err := e.withRetry(ctx, func(txCtx context.Context) error {
		sess, err := e.activeSession(txCtx, sessionID, now)
		if err != nil {
			return err
		}
		items, err := e.store.ListSessionItems(txCtx, sessionID)
		if err != nil {
			return err
		}

		seatItems := make([]model.SessionItem, 0, len(items))
		for _, item := range items {
			if item.Kind == model.ItemKindSeat {
				seatItems = append(seatItems, item)
			}
		}
		if len(seatItems) == 0 {
			return model.ErrNoSeatsHeld
		}

		bookingSeats := make([]model.BookingSeat, 0, len(seatItems))
		for _, item := range seatItems {
			seat, err := e.store.GetSeatForUpdate(txCtx, item.FlightScheduleID, item.CatalogSeatID)
			if err != nil {
				return err
			}
			if !seat.HeldBy(sessionID) || seat.HoldExpiresAt == nil || !seat.HoldExpiresAt.After(now) {
				return model.ErrHoldExpired
			}
			seat.Status = model.SeatStatusBooked
			seat.HolderSessionID = nil
			seat.HoldExpiresAt = nil
			if err := e.store.UpdateSeat(txCtx, &seat); err != nil {
				return err
			}
			bookingSeats = append(bookingSeats, model.BookingSeat{
				FlightScheduleID: item.FlightScheduleID,
				CatalogSeatID:    item.CatalogSeatID,
				PriceCents:       item.PriceCents,
			})
		}

		booking = model.ConfirmedBooking{
			Reference:  uuid.NewString(),
			SessionID:  sess.ID,
			AccountID:  sess.AccountID,
			Status:     model.BookingStatusConfirmed,
			TotalCents: sess.TotalCents,
			CreatedAt:  now,
		}
		if err := e.store.CreateBooking(txCtx, &booking, bookingSeats); err != nil {
			return err
		}
		confirmedSeats = bookingSeats

		sess.Status = model.SessionStatusConfirmed
		return e.store.UpdateSession(txCtx, &sess)
	})
	if err != nil {
		return model.ConfirmedBooking{}, nil, err
	}
	return booking, confirmedSeats, nil
}

// AddService appends a service selection to the session and bumps the
// running total.  Service pricing and catalogues live outside the
// core; the caller supplies the price.
func (e *Engine) AddService(ctx context.Context, sessionID, serviceCode string, priceCents uint32) (model.BookingSession, error) {
	now := e.clock.Now()
	var updated model.BookingSession

	err := e.store.WithTx(ctx, func(txCtx context.Context) error {
		sess, err := e.activeSession(txCtx, sessionID, now)
		if err != nil {
			return err
		}
		item := model.SessionItem{
			SessionID:   sess.ID,
			Kind:        model.ItemKindService,
			ServiceCode: serviceCode,
			PriceCents:  priceCents,
		}
		if err := e.store.AddSessionItem(txCtx, &item); err != nil {
			return err
		}
		sess.TotalCents += priceCents
		if err := e.store.UpdateSession(txCtx, &sess); err != nil {
			return err
		}
		updated = sess
		return nil
	})
	if err != nil {
		return model.BookingSession{}, err
	}
	return updated, nil
}

// seatPriceCents applies a seat's signed adjustment to the class base
// fare, clamping at zero.
func seatPriceCents(baseFare uint32, adjustment int32) uint32 {
	price := int64(baseFare) + int64(adjustment)
	if price < 0 {
		return 0
	}
	return uint32(price)
}
