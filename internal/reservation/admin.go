package reservation

import (
	"context"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// Operator-facing operations.  None of these are reachable from
// customer traffic; they exist so published inventory can be
// materialised, withheld for maintenance, and unwound after a refund.

// PublishSchedule materialises the sellable inventory of a DRAFT
// flight schedule: one seat instance per catalog seat of the operating
// airplane and one fare ledger entry per seat class, with allocated =
// available = the class seat count and booked = 0.  baseFares maps
// seat class id to the class base fare in cents.
func (e *Engine) PublishSchedule(ctx context.Context, scheduleID uint64, baseFares map[uint64]uint32) error {
	return e.store.WithTx(ctx, func(txCtx context.Context) error {
		sched, err := e.store.GetSchedule(txCtx, scheduleID)
		if err != nil {
			return err
		}
		if sched.Status != model.ScheduleStatusDraft {
			return model.ErrScheduleNotPublishable
		}

		catalog, err := e.store.ListCatalogSeats(txCtx, sched.AirplaneID)
		if err != nil {
			return err
		}

		seats := make([]model.SeatInstance, 0, len(catalog))
		allocated := make(map[uint64]uint32)
		for _, entry := range catalog {
			seats = append(seats, model.SeatInstance{
				FlightScheduleID: scheduleID,
				CatalogSeatID:    entry.ID,
				SeatClassID:      entry.SeatClassID,
				Status:           model.SeatStatusAvailable,
			})
			allocated[entry.SeatClassID]++
		}
		if err := e.store.CreateSeatInstances(txCtx, seats); err != nil {
			return err
		}

		entries := make([]model.FareLedgerEntry, 0, len(allocated))
		for classID, count := range allocated {
			entries = append(entries, model.FareLedgerEntry{
				FlightScheduleID: scheduleID,
				SeatClassID:      classID,
				SeatsAllocated:   count,
				SeatsBooked:      0,
				SeatsAvailable:   count,
				BaseFareCents:    baseFares[classID],
			})
		}
		if err := e.store.CreateLedgerEntries(txCtx, entries); err != nil {
			return err
		}

		return e.store.SetScheduleStatus(txCtx, scheduleID, model.ScheduleStatusPublished)
	})
}

// CancelBooking reverses a confirmed booking after a refund: every
// booked seat transitions BOOKED -> AVAILABLE and the ledger gives the
// seat back (booked -1, available +1), the exact inverse of
// confirmation.  Only CONFIRMED bookings can be cancelled.
func (e *Engine) CancelBooking(ctx context.Context, bookingID uint64) error {
	return e.withRetry(ctx, func(txCtx context.Context) error {
		booking, err := e.store.GetBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != model.BookingStatusConfirmed {
			return model.ErrBookingNotCancellable
		}

		seats, err := e.store.ListBookingSeats(txCtx, bookingID)
		if err != nil {
			return err
		}
		for _, bs := range seats {
			seat, err := e.store.GetSeatForUpdate(txCtx, bs.FlightScheduleID, bs.CatalogSeatID)
			if err != nil {
				return err
			}
			if seat.Status != model.SeatStatusBooked {
				// Already reopened through another path; skip.
				continue
			}
			seat.Status = model.SeatStatusAvailable
			if err := e.store.UpdateSeat(txCtx, &seat); err != nil {
				return err
			}
			if err := e.store.AdjustLedger(txCtx, seat.FlightScheduleID, seat.SeatClassID, -1, +1, 0); err != nil {
				return err
			}
		}

		return e.store.UpdateBookingStatus(txCtx, bookingID, model.BookingStatusCancelled)
	})
}

// BlockSeat withdraws an AVAILABLE seat from sale, e.g. for
// maintenance.  The seat leaves the sellable pool entirely, so both
// seats_allocated and seats_available shrink by one and the ledger
// identity is preserved.
func (e *Engine) BlockSeat(ctx context.Context, scheduleID, catalogSeatID uint64) error {
	return e.withRetry(ctx, func(txCtx context.Context) error {
		seat, err := e.store.GetSeatForUpdate(txCtx, scheduleID, catalogSeatID)
		if err != nil {
			return err
		}
		if seat.Status != model.SeatStatusAvailable {
			return model.ErrSeatNotBlockable
		}
		seat.Status = model.SeatStatusBlocked
		if err := e.store.UpdateSeat(txCtx, &seat); err != nil {
			return err
		}
		return e.store.AdjustLedger(txCtx, scheduleID, seat.SeatClassID, 0, -1, -1)
	})
}

// UnblockSeat returns a BLOCKED seat to sale, reversing BlockSeat.
func (e *Engine) UnblockSeat(ctx context.Context, scheduleID, catalogSeatID uint64) error {
	return e.withRetry(ctx, func(txCtx context.Context) error {
		seat, err := e.store.GetSeatForUpdate(txCtx, scheduleID, catalogSeatID)
		if err != nil {
			return err
		}
		if seat.Status != model.SeatStatusBlocked {
			return model.ErrSeatNotBlockable
		}
		seat.Status = model.SeatStatusAvailable
		if err := e.store.UpdateSeat(txCtx, &seat); err != nil {
			return err
		}
		return e.store.AdjustLedger(txCtx, scheduleID, seat.SeatClassID, 0, +1, +1)
	})
}
