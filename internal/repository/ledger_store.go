package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// GetLedger loads the fare ledger entry for one (flight schedule,
// seat class) pair.
func (s *Store) GetLedger(ctx context.Context, scheduleID, classID uint64) (model.FareLedgerEntry, error) {
	const q = `SELECT id, flight_schedule_id, seat_class_id, seats_allocated, seats_booked,
	                  seats_available, base_fare_cents, created_at, updated_at
	           FROM fare_ledger
	           WHERE flight_schedule_id = ? AND seat_class_id = ?`
	var e model.FareLedgerEntry
	err := s.q(ctx).QueryRowContext(ctx, q, scheduleID, classID).Scan(
		&e.ID, &e.FlightScheduleID, &e.SeatClassID, &e.SeatsAllocated, &e.SeatsBooked,
		&e.SeatsAvailable, &e.BaseFareCents, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FareLedgerEntry{}, model.ErrLedgerNotFound
		}
		return model.FareLedgerEntry{}, err
	}
	return e, nil
}

// AdjustLedger applies the counter deltas in one guarded UPDATE.  The
// WHERE clause refuses any adjustment that would drive a counter
// negative, so seats_available can never go below zero even when two
// writers race; a refused adjustment surfaces as
// model.ErrSeatUnavailable.  Callers always pair this with the seat
// state change inside the same transaction.
func (s *Store) AdjustLedger(ctx context.Context, scheduleID, classID uint64, bookedDelta, availableDelta, allocatedDelta int32) error {
	const q = `UPDATE fare_ledger
	           SET seats_booked = seats_booked + ?,
	               seats_available = seats_available + ?,
	               seats_allocated = seats_allocated + ?,
	               updated_at = UTC_TIMESTAMP()
	           WHERE flight_schedule_id = ? AND seat_class_id = ?
	             AND CAST(seats_booked AS SIGNED) + ? >= 0
	             AND CAST(seats_available AS SIGNED) + ? >= 0
	             AND CAST(seats_allocated AS SIGNED) + ? >= 0`
	res, err := s.q(ctx).ExecContext(ctx, q,
		bookedDelta, availableDelta, allocatedDelta,
		scheduleID, classID,
		bookedDelta, availableDelta, allocatedDelta,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrSeatUnavailable
	}
	return nil
}

// CreateLedgerEntries inserts the per-class counters of a freshly
// published schedule in a single statement.
func (s *Store) CreateLedgerEntries(ctx context.Context, entries []model.FareLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT INTO fare_ledger (flight_schedule_id, seat_class_id, seats_allocated,
	          seats_booked, seats_available, base_fare_cents) VALUES `
	args := make([]interface{}, 0, len(entries)*6)
	for i, e := range entries {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, e.FlightScheduleID, e.SeatClassID, e.SeatsAllocated,
			e.SeatsBooked, e.SeatsAvailable, e.BaseFareCents)
	}
	_, err := s.q(ctx).ExecContext(ctx, query, args...)
	return err
}
