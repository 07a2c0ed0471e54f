package model

import "time"

// Booking status values.  A confirmed booking stays CONFIRMED until an
// explicit cancellation flow reverses it.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// ConfirmedBooking freezes the seat assignments of a finalised
// booking session.  It is produced by confirmation, detaches from the
// session (which may then be discarded) and records the totals at the
// moment of purchase.
//
// Fields:
//  ID         – primary key identifier.
//  Reference  – opaque booking reference handed to the customer (UUID).
//  SessionID  – session this booking was converted from.
//  AccountID  – owning account, nil for anonymous purchases.
//  Status     – CONFIRMED or CANCELLED.
//  TotalCents – total charged for seats and services.
//  PaymentRef – external payment reference, if any.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type ConfirmedBooking struct {
	ID         uint64    // bookings.id
	Reference  string    // bookings.reference
	SessionID  string    // bookings.session_id
	AccountID  *uint64   // bookings.account_id (nullable)
	Status     string    // bookings.status
	TotalCents uint32    // bookings.total_cents
	PaymentRef *string   // bookings.payment_ref (nullable)
	CreatedAt  time.Time // bookings.created_at
	UpdatedAt  time.Time // bookings.updated_at
}

// BookingSeat links a confirmed booking to one booked seat instance
// together with the price it was sold at.
//
// Fields:
//  ID               – primary key identifier.
//  BookingID        – reference to the booking.
//  FlightScheduleID – schedule of the booked seat.
//  CatalogSeatID    – catalog seat that was booked.
//  PriceCents       – price for this seat at confirmation time.
//  CreatedAt        – creation timestamp.
type BookingSeat struct {
	ID               uint64    // booking_seats.id
	BookingID        uint64    // booking_seats.booking_id
	FlightScheduleID uint64    // booking_seats.flight_schedule_id
	CatalogSeatID    uint64    // booking_seats.catalog_seat_id
	PriceCents       uint32    // booking_seats.price_cents
	CreatedAt        time.Time // booking_seats.created_at
}
