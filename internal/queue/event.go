// Package queue defines message payloads exchanged over the message broker.
package queue

// ConfirmedSeatEvent identifies one seat inside a confirmation event.
type ConfirmedSeatEvent struct {
	FlightScheduleID uint64 `json:"flight_schedule_id"`
	CatalogSeatID    uint64 `json:"catalog_seat_id"`
	PriceCents       uint32 `json:"price_cents"`
}

// BookingConfirmedEvent is published after a booking session is
// successfully confirmed.  It carries enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64               `json:"booking_id"`
	Reference   string               `json:"reference"`
	SessionID   string               `json:"session_id"`
	AccountID   *uint64              `json:"account_id,omitempty"`
	Seats       []ConfirmedSeatEvent `json:"seats"`
	TotalCents  uint32               `json:"total_cents"`
	ConfirmedAt string               `json:"confirmed_at"`
}
