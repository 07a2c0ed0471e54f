package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// CreateBooking inserts a confirmed booking together with its seats.
// The booking's generated id is populated on the passed record.
func (s *Store) CreateBooking(ctx context.Context, b *model.ConfirmedBooking, seats []model.BookingSeat) error {
	const q = `INSERT INTO bookings (reference, session_id, account_id, status, total_cents)
	           VALUES (?, ?, ?, ?, ?)`
	var account interface{}
	if b.AccountID != nil {
		account = *b.AccountID
	}
	res, err := s.q(ctx).ExecContext(ctx, q, b.Reference, b.SessionID, account, b.Status, b.TotalCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, flight_schedule_id, catalog_seat_id, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, b.ID, seat.FlightScheduleID, seat.CatalogSeatID, seat.PriceCents)
	}
	_, err = s.q(ctx).ExecContext(ctx, query, args...)
	return err
}

// GetBooking loads one booking by id.
func (s *Store) GetBooking(ctx context.Context, id uint64) (model.ConfirmedBooking, error) {
	q := `SELECT id, reference, session_id, account_id, status, total_cents, payment_ref,
	             created_at, updated_at
	      FROM bookings WHERE id = ?`
	if s.inTx(ctx) {
		q += ` FOR UPDATE`
	}
	var b model.ConfirmedBooking
	var account sql.NullInt64
	var payRef sql.NullString
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Reference, &b.SessionID, &account, &b.Status, &b.TotalCents, &payRef,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ConfirmedBooking{}, model.ErrBookingNotFound
		}
		return model.ConfirmedBooking{}, err
	}
	if account.Valid {
		a := uint64(account.Int64)
		b.AccountID = &a
	}
	if payRef.Valid {
		p := payRef.String
		b.PaymentRef = &p
	}
	return b, nil
}

// ListBookingSeats returns the seats of a booking.
func (s *Store) ListBookingSeats(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error) {
	const q = `SELECT id, booking_id, flight_schedule_id, catalog_seat_id, price_cents, created_at
	           FROM booking_seats WHERE booking_id = ? ORDER BY id`
	rows, err := s.q(ctx).QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.BookingSeat
	for rows.Next() {
		var seat model.BookingSeat
		if err := rows.Scan(&seat.ID, &seat.BookingID, &seat.FlightScheduleID,
			&seat.CatalogSeatID, &seat.PriceCents, &seat.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

// UpdateBookingStatus writes a booking's status column.
func (s *Store) UpdateBookingStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	_, err := s.q(ctx).ExecContext(ctx, q, status, id)
	return err
}
