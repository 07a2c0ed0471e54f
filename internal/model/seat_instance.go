package model

import "time"

// Seat status values.  A seat instance moves AVAILABLE -> HELD on a
// successful hold, HELD -> AVAILABLE on release or expiry reclamation,
// and HELD -> BOOKED on confirmation.  BLOCKED is reachable only
// through an operator action and never through customer traffic.
const (
	SeatStatusAvailable = "AVAILABLE"
	SeatStatusHeld      = "HELD"
	SeatStatusBooked    = "BOOKED"
	SeatStatusBlocked   = "BLOCKED"
)

// SeatInstance is the per-flight-schedule instantiation of a catalog
// seat.  Exactly one row exists per (flight schedule, catalog seat)
// pair once a schedule is published, and rows are never deleted while
// the schedule exists.  A HELD seat is exclusively referenced by its
// holder session; no two sessions may hold the same seat concurrently.
//
// Fields:
//  ID                   – primary key identifier.
//  FlightScheduleID     – schedule this seat is sold for.
//  CatalogSeatID        – physical seat in the airplane's catalog.
//  SeatClassID          – class, denormalised from the catalog so the
//                         paired fare ledger row can be adjusted in the
//                         same statement batch.
//  Status               – AVAILABLE, HELD, BOOKED or BLOCKED.
//  HolderSessionID      – booking session holding the seat (nil unless HELD).
//  HoldExpiresAt        – when the hold lapses (nil unless HELD).
//  PriceAdjustmentCents – surcharge or discount relative to the class base fare.
//  Version              – optimistic locking counter; every mutation
//                         increments it and writers must match the value
//                         they read.
//  CreatedAt            – creation timestamp.
//  UpdatedAt            – last update timestamp.
type SeatInstance struct {
	ID                   uint64     // seat_instances.id
	FlightScheduleID     uint64     // seat_instances.flight_schedule_id
	CatalogSeatID        uint64     // seat_instances.catalog_seat_id
	SeatClassID          uint64     // seat_instances.seat_class_id
	Status               string     // seat_instances.status
	HolderSessionID      *string    // seat_instances.holder_session_id (nullable)
	HoldExpiresAt        *time.Time // seat_instances.hold_expires_at (nullable)
	PriceAdjustmentCents int32      // seat_instances.price_adjustment_cents
	Version              uint32     // seat_instances.version
	CreatedAt            time.Time  // seat_instances.created_at
	UpdatedAt            time.Time  // seat_instances.updated_at
}

// HeldBy reports whether the seat is currently HELD by the given
// session.  It does not consider expiry; callers compare HoldExpiresAt
// against the clock themselves.
func (s *SeatInstance) HeldBy(sessionID string) bool {
	return s.Status == SeatStatusHeld && s.HolderSessionID != nil && *s.HolderSessionID == sessionID
}
