package model

import "time"

// Session status values.  ACTIVE sessions accept hold/release
// operations; EXPIRED sessions have had all holds reclaimed and reject
// further mutation; CONFIRMED is terminal and means the session was
// converted into a ConfirmedBooking.
const (
	SessionStatusActive    = "ACTIVE"
	SessionStatusExpired   = "EXPIRED"
	SessionStatusConfirmed = "CONFIRMED"
)

// Line item kinds carried by a booking session.
const (
	ItemKindSeat    = "SEAT"
	ItemKindService = "SERVICE"
)

// BookingSession is a customer's in-progress cart.  It accumulates
// seat holds and service selections together with a running total
// estimate.  ExpiresAt slides forward on every hold or extend
// operation, capped at CreatedAt plus a maximum session lifetime.
// Anonymous carts are allowed, so AccountID may be nil.
//
// Fields:
//  ID         – opaque session identifier (UUID).
//  AccountID  – owning account, nil for anonymous carts.
//  Status     – ACTIVE, EXPIRED or CONFIRMED.
//  TotalCents – running price estimate over all line items.
//  ExpiresAt  – when the session stops accepting mutation.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type BookingSession struct {
	ID         string    // booking_sessions.id
	AccountID  *uint64   // booking_sessions.account_id (nullable)
	Status     string    // booking_sessions.status
	TotalCents uint32    // booking_sessions.total_cents
	ExpiresAt  time.Time // booking_sessions.expires_at
	CreatedAt  time.Time // booking_sessions.created_at
	UpdatedAt  time.Time // booking_sessions.updated_at
}

// SessionItem is one line item of a booking session: either a seat
// hold (Kind SEAT, seat columns set) or a service selection (Kind
// SERVICE, ServiceCode set).  The set of SEAT items is always a subset
// of the seat instances whose holder is this session.
//
// Fields:
//  ID               – primary key identifier.
//  SessionID        – owning booking session.
//  Kind             – SEAT or SERVICE.
//  FlightScheduleID – schedule of the held seat (SEAT items).
//  CatalogSeatID    – catalog seat of the held seat (SEAT items).
//  ServiceCode      – selected ancillary service (SERVICE items).
//  PriceCents       – price contribution of this item.
//  CreatedAt        – creation timestamp.
type SessionItem struct {
	ID               uint64    // session_items.id
	SessionID        string    // session_items.session_id
	Kind             string    // session_items.kind
	FlightScheduleID uint64    // session_items.flight_schedule_id
	CatalogSeatID    uint64    // session_items.catalog_seat_id
	ServiceCode      string    // session_items.service_code
	PriceCents       uint32    // session_items.price_cents
	CreatedAt        time.Time // session_items.created_at
}
