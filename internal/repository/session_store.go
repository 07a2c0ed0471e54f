package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// CreateSession inserts a new booking session.
func (s *Store) CreateSession(ctx context.Context, sess *model.BookingSession) error {
	const q = `INSERT INTO booking_sessions (id, account_id, status, total_cents, expires_at)
	           VALUES (?, ?, ?, ?, ?)`
	var account interface{}
	if sess.AccountID != nil {
		account = *sess.AccountID
	}
	_, err := s.q(ctx).ExecContext(ctx, q, sess.ID, account, sess.Status, sess.TotalCents, sess.ExpiresAt.UTC())
	return err
}

// GetSession loads one session by id.
func (s *Store) GetSession(ctx context.Context, id string) (model.BookingSession, error) {
	q := `SELECT id, account_id, status, total_cents, expires_at, created_at, updated_at
	      FROM booking_sessions WHERE id = ?`
	if s.inTx(ctx) {
		q += ` FOR UPDATE`
	}
	var sess model.BookingSession
	var account sql.NullInt64
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&sess.ID, &account, &sess.Status, &sess.TotalCents,
		&sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookingSession{}, model.ErrSessionNotFound
		}
		return model.BookingSession{}, err
	}
	if account.Valid {
		a := uint64(account.Int64)
		sess.AccountID = &a
	}
	return sess, nil
}

// UpdateSession writes the mutable columns of a session.
func (s *Store) UpdateSession(ctx context.Context, sess *model.BookingSession) error {
	const q = `UPDATE booking_sessions
	           SET status = ?, total_cents = ?, expires_at = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ?`
	_, err := s.q(ctx).ExecContext(ctx, q, sess.Status, sess.TotalCents, sess.ExpiresAt.UTC(), sess.ID)
	return err
}

// AddSessionItem appends one line item and populates its generated id.
func (s *Store) AddSessionItem(ctx context.Context, item *model.SessionItem) error {
	const q = `INSERT INTO session_items (session_id, kind, flight_schedule_id, catalog_seat_id,
	           service_code, price_cents) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := s.q(ctx).ExecContext(ctx, q, item.SessionID, item.Kind,
		item.FlightScheduleID, item.CatalogSeatID, item.ServiceCode, item.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	return nil
}

// RemoveSeatItem deletes the SEAT line item for the given seat.
// Deleting an absent item is not an error.
func (s *Store) RemoveSeatItem(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) error {
	const q = `DELETE FROM session_items
	           WHERE session_id = ? AND kind = ? AND flight_schedule_id = ? AND catalog_seat_id = ?`
	_, err := s.q(ctx).ExecContext(ctx, q, sessionID, model.ItemKindSeat, scheduleID, catalogSeatID)
	return err
}

// ListSessionItems returns every line item of a session in insertion
// order.
func (s *Store) ListSessionItems(ctx context.Context, sessionID string) ([]model.SessionItem, error) {
	const q = `SELECT id, session_id, kind, flight_schedule_id, catalog_seat_id, service_code,
	                  price_cents, created_at
	           FROM session_items WHERE session_id = ? ORDER BY id`
	rows, err := s.q(ctx).QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.SessionItem
	for rows.Next() {
		var item model.SessionItem
		if err := rows.Scan(&item.ID, &item.SessionID, &item.Kind, &item.FlightScheduleID,
			&item.CatalogSeatID, &item.ServiceCode, &item.PriceCents, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListExpiredSessions returns up to limit ACTIVE sessions whose
// expiry has passed.
func (s *Store) ListExpiredSessions(ctx context.Context, now time.Time, limit int) ([]model.BookingSession, error) {
	const q = `SELECT id, account_id, status, total_cents, expires_at, created_at, updated_at
	           FROM booking_sessions
	           WHERE status = ? AND expires_at <= ?
	           ORDER BY expires_at LIMIT ?`
	rows, err := s.q(ctx).QueryContext(ctx, q, model.SessionStatusActive, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []model.BookingSession
	for rows.Next() {
		var sess model.BookingSession
		var account sql.NullInt64
		if err := rows.Scan(&sess.ID, &account, &sess.Status, &sess.TotalCents,
			&sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		if account.Valid {
			a := uint64(account.Int64)
			sess.AccountID = &a
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
