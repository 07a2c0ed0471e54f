package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// GetSchedule loads one flight schedule by id.
func (s *Store) GetSchedule(ctx context.Context, id uint64) (model.FlightSchedule, error) {
	q := `SELECT id, airplane_id, flight_number, origin, destination, departs_at, arrives_at,
	             status, created_at, updated_at
	      FROM flight_schedules WHERE id = ?`
	if s.inTx(ctx) {
		q += ` FOR UPDATE`
	}
	var sched model.FlightSchedule
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&sched.ID, &sched.AirplaneID, &sched.FlightNumber, &sched.Origin, &sched.Destination,
		&sched.DepartsAt, &sched.ArrivesAt, &sched.Status, &sched.CreatedAt, &sched.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FlightSchedule{}, model.ErrScheduleNotFound
		}
		return model.FlightSchedule{}, err
	}
	return sched, nil
}

// SetScheduleStatus writes a schedule's status column.
func (s *Store) SetScheduleStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE flight_schedules SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	_, err := s.q(ctx).ExecContext(ctx, q, status, id)
	return err
}

// ListCatalogSeats returns the full seat catalog of an airplane,
// ordered by row and column for deterministic publishing.
func (s *Store) ListCatalogSeats(ctx context.Context, airplaneID uint64) ([]model.SeatCatalogEntry, error) {
	const q = `SELECT id, airplane_id, seat_class_id, seat_number, row_num, column_label,
	                  is_window, is_aisle, is_exit_row, created_at
	           FROM seat_catalog WHERE airplane_id = ?
	           ORDER BY row_num, column_label`
	rows, err := s.q(ctx).QueryContext(ctx, q, airplaneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.SeatCatalogEntry
	for rows.Next() {
		var e model.SeatCatalogEntry
		if err := rows.Scan(&e.ID, &e.AirplaneID, &e.SeatClassID, &e.SeatNumber, &e.RowNumber,
			&e.ColumnLabel, &e.IsWindow, &e.IsAisle, &e.IsExitRow, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateSeatInstances inserts the seat instances of a freshly
// published schedule in a single statement.
func (s *Store) CreateSeatInstances(ctx context.Context, seats []model.SeatInstance) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seat_instances (flight_schedule_id, catalog_seat_id, seat_class_id,
	          status, price_adjustment_cents, version) VALUES `
	args := make([]interface{}, 0, len(seats)*6)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, seat.FlightScheduleID, seat.CatalogSeatID, seat.SeatClassID,
			seat.Status, seat.PriceAdjustmentCents, seat.Version)
	}
	_, err := s.q(ctx).ExecContext(ctx, query, args...)
	return err
}
