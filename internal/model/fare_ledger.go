package model

import "time"

// FareLedgerEntry is the authoritative per-class availability counter
// for one flight schedule.  SeatsBooked counts seats committed to a
// hold or a confirmed booking; the identity
//
//	SeatsBooked + SeatsAvailable == SeatsAllocated
//
// holds at all times and SeatsAvailable never goes negative.  Counter
// adjustments always commit in the same transaction as the paired seat
// state transition so class-level availability cannot drift from the
// true set of live holds and bookings.
//
// Fields:
//  ID               – primary key identifier.
//  FlightScheduleID – schedule the counters belong to.
//  SeatClassID      – seat class the counters belong to.
//  SeatsAllocated   – seats offered for sale in this class.
//  SeatsBooked      – seats committed to a hold or confirmed booking.
//  SeatsAvailable   – seats still open for holds.
//  BaseFareCents    – class base fare; read for price estimates only.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type FareLedgerEntry struct {
	ID               uint64    // fare_ledger.id
	FlightScheduleID uint64    // fare_ledger.flight_schedule_id
	SeatClassID      uint64    // fare_ledger.seat_class_id
	SeatsAllocated   uint32    // fare_ledger.seats_allocated
	SeatsBooked      uint32    // fare_ledger.seats_booked
	SeatsAvailable   uint32    // fare_ledger.seats_available
	BaseFareCents    uint32    // fare_ledger.base_fare_cents
	CreatedAt        time.Time // fare_ledger.created_at
	UpdatedAt        time.Time // fare_ledger.updated_at
}
