package model

import "time"

// FlightScheduleStatus enumerates the lifecycle of a scheduled flight.
// Seat instances and fare ledger entries exist only for PUBLISHED
// schedules.
const (
	ScheduleStatusDraft     = "DRAFT"
	ScheduleStatusPublished = "PUBLISHED"
	ScheduleStatusDeparted  = "DEPARTED"
	ScheduleStatusCancelled = "CANCELLED"
)

// FlightSchedule represents one dated departure of a flight operated
// by a specific airplane.  Publishing a schedule materialises one
// SeatInstance per catalog seat of the airplane and one FareLedgerEntry
// per seat class.
//
// Fields:
//  ID           – primary key identifier.
//  AirplaneID   – airplane operating this departure.
//  FlightNumber – marketing flight number, e.g. "IL402".
//  Origin       – IATA code of the departure airport.
//  Destination  – IATA code of the arrival airport.
//  DepartsAt    – scheduled departure time (UTC).
//  ArrivesAt    – scheduled arrival time (UTC).
//  Status       – DRAFT, PUBLISHED, DEPARTED or CANCELLED.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type FlightSchedule struct {
	ID           uint64    // flight_schedules.id
	AirplaneID   uint64    // flight_schedules.airplane_id
	FlightNumber string    // flight_schedules.flight_number
	Origin       string    // flight_schedules.origin
	Destination  string    // flight_schedules.destination
	DepartsAt    time.Time // flight_schedules.departs_at
	ArrivesAt    time.Time // flight_schedules.arrives_at
	Status       string    // flight_schedules.status
	CreatedAt    time.Time // flight_schedules.created_at
	UpdatedAt    time.Time // flight_schedules.updated_at
}
