// Package model defines the persisted entities of the seat inventory
// system together with the sentinel errors shared by the engine, the
// storage layer and the HTTP handlers.  Handlers compare these values
// with errors.Is to pick response status codes.
package model

import "errors"

var (
	// ErrSeatUnavailable is returned when a hold targets a seat that is
	// not in the AVAILABLE state.  The losing side of two concurrent
	// hold attempts on the same seat observes this error.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrSessionExpired is returned when an operation reaches a session
	// whose expires_at has passed but which has not been reclaimed yet.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionClosed is returned when an operation reaches a session
	// in the EXPIRED or CONFIRMED state.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionNotFound is returned when no session exists for an id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrHoldExpired is returned by confirmation when any seat's hold
	// lapsed before the session was confirmed.  The whole confirmation
	// is rejected; no partial booking is produced.
	ErrHoldExpired = errors.New("hold expired")

	// ErrNotHeld is returned when an operation targets a seat that is
	// not currently held by the caller's session.
	ErrNotHeld = errors.New("seat not held by session")

	// ErrConcurrencyConflict is returned by the storage layer when an
	// optimistic version check loses a race.  The engine retries a
	// bounded number of times before surfacing it to the caller.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrSeatNotFound is returned when a seat instance lookup yields no row.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrLedgerNotFound is returned when no fare ledger entry exists
	// for a (flight schedule, seat class) pair.
	ErrLedgerNotFound = errors.New("fare ledger entry not found")

	// ErrBookingNotFound is returned when a booking lookup yields no row.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrScheduleNotFound is returned when a flight schedule lookup yields no row.
	ErrScheduleNotFound = errors.New("flight schedule not found")

	// ErrNoSeatsHeld is returned by confirmation when the session
	// carries no seat line items.
	ErrNoSeatsHeld = errors.New("no seats held by session")

	// ErrScheduleNotPublishable is returned when publishing a schedule
	// that is not in the DRAFT state.
	ErrScheduleNotPublishable = errors.New("schedule not publishable")

	// ErrBookingNotCancellable is returned when cancelling a booking
	// that is not in the CONFIRMED state.
	ErrBookingNotCancellable = errors.New("booking not cancellable")

	// ErrSeatNotBlockable is returned when an operator block targets a
	// seat that is not AVAILABLE, or an unblock targets a seat that is
	// not BLOCKED.
	ErrSeatNotBlockable = errors.New("seat not blockable")
)
