package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

const seatColumns = `id, flight_schedule_id, catalog_seat_id, seat_class_id, status,
	holder_session_id, hold_expires_at, price_adjustment_cents, version, created_at, updated_at`

func scanSeat(row interface{ Scan(dest ...interface{}) error }) (model.SeatInstance, error) {
	var seat model.SeatInstance
	var holder sql.NullString
	var expires sql.NullTime
	err := row.Scan(
		&seat.ID, &seat.FlightScheduleID, &seat.CatalogSeatID, &seat.SeatClassID, &seat.Status,
		&holder, &expires, &seat.PriceAdjustmentCents, &seat.Version, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err != nil {
		return model.SeatInstance{}, err
	}
	if holder.Valid {
		h := holder.String
		seat.HolderSessionID = &h
	}
	if expires.Valid {
		t := expires.Time.UTC()
		seat.HoldExpiresAt = &t
	}
	return seat, nil
}

// GetSeatForUpdate loads one seat instance by its (flight schedule,
// catalog seat) key.  Inside a transaction the row is locked with
// SELECT ... FOR UPDATE so concurrent writers on the same seat
// serialize; together with the version column this gives the per-seat
// mutual exclusion the engine relies on.
func (s *Store) GetSeatForUpdate(ctx context.Context, scheduleID, catalogSeatID uint64) (model.SeatInstance, error) {
	q := `SELECT ` + seatColumns + ` FROM seat_instances WHERE flight_schedule_id = ? AND catalog_seat_id = ?`
	if s.inTx(ctx) {
		q += ` FOR UPDATE`
	}
	seat, err := scanSeat(s.q(ctx).QueryRowContext(ctx, q, scheduleID, catalogSeatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SeatInstance{}, model.ErrSeatNotFound
		}
		return model.SeatInstance{}, err
	}
	return seat, nil
}

// UpdateSeat writes status, holder and hold expiry guarded by the
// optimistic version check.  A zero row count means another writer got
// there first and the caller must retry against fresh state.  On
// success the in-memory version is advanced to match the row.
func (s *Store) UpdateSeat(ctx context.Context, seat *model.SeatInstance) error {
	const q = `UPDATE seat_instances
	           SET status = ?, holder_session_id = ?, hold_expires_at = ?, version = version + 1,
	               updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND version = ?`
	var holder interface{}
	if seat.HolderSessionID != nil {
		holder = *seat.HolderSessionID
	}
	var expires interface{}
	if seat.HoldExpiresAt != nil {
		expires = seat.HoldExpiresAt.UTC()
	}
	res, err := s.q(ctx).ExecContext(ctx, q, seat.Status, holder, expires, seat.ID, seat.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrConcurrencyConflict
	}
	seat.Version++
	return nil
}

// ListScheduleSeats returns every seat instance of a schedule, ordered
// by catalog seat for deterministic seat maps.
func (s *Store) ListScheduleSeats(ctx context.Context, scheduleID uint64) ([]model.SeatInstance, error) {
	q := `SELECT ` + seatColumns + ` FROM seat_instances WHERE flight_schedule_id = ? ORDER BY catalog_seat_id`
	rows, err := s.q(ctx).QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.SeatInstance
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// ListExpiredHeldSeats returns up to limit HELD seats whose hold has
// lapsed at the given instant.  The reclaimer re-reads each row under
// lock before touching it, so this query needs no locking clause.
func (s *Store) ListExpiredHeldSeats(ctx context.Context, now time.Time, limit int) ([]model.SeatInstance, error) {
	q := `SELECT ` + seatColumns + ` FROM seat_instances
	      WHERE status = ? AND hold_expires_at <= ?
	      ORDER BY hold_expires_at LIMIT ?`
	rows, err := s.q(ctx).QueryContext(ctx, q, model.SeatStatusHeld, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.SeatInstance
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}
