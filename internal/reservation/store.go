package reservation

import (
	"context"
	"time"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// SessionStore persists booking sessions and their line items.
type SessionStore interface {
	CreateSession(ctx context.Context, s *model.BookingSession) error
	GetSession(ctx context.Context, id string) (model.BookingSession, error)
	// UpdateSession writes status, total and expiry of an existing session.
	UpdateSession(ctx context.Context, s *model.BookingSession) error
	AddSessionItem(ctx context.Context, item *model.SessionItem) error
	// RemoveSeatItem deletes the SEAT line item for the given seat, if
	// present.  Removing an absent item is not an error.
	RemoveSeatItem(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) error
	ListSessionItems(ctx context.Context, sessionID string) ([]model.SessionItem, error)
	// ListExpiredSessions returns up to limit ACTIVE sessions whose
	// expires_at is at or before now.
	ListExpiredSessions(ctx context.Context, now time.Time, limit int) ([]model.BookingSession, error)
}

// SeatStore persists seat instances.  GetSeatForUpdate is expected to
// take a row-level lock when called inside a transaction; UpdateSeat
// must fail with model.ErrConcurrencyConflict when the version read by
// the caller no longer matches the row.
type SeatStore interface {
	GetSeatForUpdate(ctx context.Context, scheduleID, catalogSeatID uint64) (model.SeatInstance, error)
	UpdateSeat(ctx context.Context, seat *model.SeatInstance) error
	ListScheduleSeats(ctx context.Context, scheduleID uint64) ([]model.SeatInstance, error)
	// ListExpiredHeldSeats returns up to limit HELD seats whose
	// hold_expires_at is at or before now.
	ListExpiredHeldSeats(ctx context.Context, now time.Time, limit int) ([]model.SeatInstance, error)
}

// LedgerStore persists per-class availability counters.  AdjustLedger
// applies the deltas atomically and must fail with
// model.ErrSeatUnavailable when a negative delta would take
// seats_available below zero.
type LedgerStore interface {
	GetLedger(ctx context.Context, scheduleID, classID uint64) (model.FareLedgerEntry, error)
	AdjustLedger(ctx context.Context, scheduleID, classID uint64, bookedDelta, availableDelta, allocatedDelta int32) error
}

// BookingStore persists confirmed bookings.
type BookingStore interface {
	CreateBooking(ctx context.Context, b *model.ConfirmedBooking, seats []model.BookingSeat) error
	GetBooking(ctx context.Context, id uint64) (model.ConfirmedBooking, error)
	ListBookingSeats(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error)
	UpdateBookingStatus(ctx context.Context, id uint64, status string) error
}

// ScheduleStore reads flight schedules and the seat catalog, and
// materialises seat instances and ledger entries at publish time.
type ScheduleStore interface {
	GetSchedule(ctx context.Context, id uint64) (model.FlightSchedule, error)
	SetScheduleStatus(ctx context.Context, id uint64, status string) error
	ListCatalogSeats(ctx context.Context, airplaneID uint64) ([]model.SeatCatalogEntry, error)
	CreateSeatInstances(ctx context.Context, seats []model.SeatInstance) error
	CreateLedgerEntries(ctx context.Context, entries []model.FareLedgerEntry) error
}

// Store is the storage handle the engine and the reclaimer work
// against.  WithTx runs fn inside a single transaction; every store
// call made with the context passed to fn joins that transaction, and
// an error from fn rolls the whole unit back.  The engine never holds
// a transaction open across operations, only within one.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	SessionStore
	SeatStore
	LedgerStore
	BookingStore
	ScheduleStore
}
