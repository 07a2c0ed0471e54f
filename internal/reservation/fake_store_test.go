package reservation

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
)

// fakeStore is an in-memory Store for engine and reclaimer tests.  A
// transaction holds the store lock for its whole duration, mirroring
// the row locks a real database would take, and restores a snapshot
// when the transaction function fails so partial writes never leak.
type fakeStore struct {
	mu sync.Mutex

	sessions     map[string]model.BookingSession
	items        map[string][]model.SessionItem
	seats        map[seatKey]model.SeatInstance
	ledgers      map[ledgerKey]model.FareLedgerEntry
	bookings     map[uint64]model.ConfirmedBooking
	bookingSeats map[uint64][]model.BookingSeat
	schedules    map[uint64]model.FlightSchedule
	catalog      map[uint64][]model.SeatCatalogEntry

	nextID uint64

	// seatUpdateConflicts makes the next N UpdateSeat calls lose the
	// optimistic version check, for retry tests.
	seatUpdateConflicts int
}

type seatKey struct {
	scheduleID    uint64
	catalogSeatID uint64
}

type ledgerKey struct {
	scheduleID uint64
	classID    uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:     make(map[string]model.BookingSession),
		items:        make(map[string][]model.SessionItem),
		seats:        make(map[seatKey]model.SeatInstance),
		ledgers:      make(map[ledgerKey]model.FareLedgerEntry),
		bookings:     make(map[uint64]model.ConfirmedBooking),
		bookingSeats: make(map[uint64][]model.BookingSeat),
		schedules:    make(map[uint64]model.FlightSchedule),
		catalog:      make(map[uint64][]model.SeatCatalogEntry),
	}
}

type fakeTxKey struct{}

// lock takes the store lock unless the context already runs inside a
// transaction, which holds the lock for its whole duration.
func (f *fakeStore) lock(ctx context.Context) func() {
	if ctx.Value(fakeTxKey{}) != nil {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.snapshot()
	if err := fn(context.WithValue(ctx, fakeTxKey{}, true)); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	sessions     map[string]model.BookingSession
	items        map[string][]model.SessionItem
	seats        map[seatKey]model.SeatInstance
	ledgers      map[ledgerKey]model.FareLedgerEntry
	bookings     map[uint64]model.ConfirmedBooking
	bookingSeats map[uint64][]model.BookingSeat
	schedules    map[uint64]model.FlightSchedule
	nextID       uint64
}

func (f *fakeStore) snapshot() storeSnapshot {
	s := storeSnapshot{
		sessions:     make(map[string]model.BookingSession, len(f.sessions)),
		items:        make(map[string][]model.SessionItem, len(f.items)),
		seats:        make(map[seatKey]model.SeatInstance, len(f.seats)),
		ledgers:      make(map[ledgerKey]model.FareLedgerEntry, len(f.ledgers)),
		bookings:     make(map[uint64]model.ConfirmedBooking, len(f.bookings)),
		bookingSeats: make(map[uint64][]model.BookingSeat, len(f.bookingSeats)),
		schedules:    make(map[uint64]model.FlightSchedule, len(f.schedules)),
		nextID:       f.nextID,
	}
	for k, v := range f.sessions {
		s.sessions[k] = v
	}
	for k, v := range f.items {
		s.items[k] = append([]model.SessionItem(nil), v...)
	}
	for k, v := range f.seats {
		s.seats[k] = v
	}
	for k, v := range f.ledgers {
		s.ledgers[k] = v
	}
	for k, v := range f.bookings {
		s.bookings[k] = v
	}
	for k, v := range f.bookingSeats {
		s.bookingSeats[k] = append([]model.BookingSeat(nil), v...)
	}
	for k, v := range f.schedules {
		s.schedules[k] = v
	}
	return s
}

func (f *fakeStore) restore(s storeSnapshot) {
	f.sessions = s.sessions
	f.items = s.items
	f.seats = s.seats
	f.ledgers = s.ledgers
	f.bookings = s.bookings
	f.bookingSeats = s.bookingSeats
	f.schedules = s.schedules
	f.nextID = s.nextID
}

func (f *fakeStore) id() uint64 {
	f.nextID++
	return f.nextID
}

// SessionStore

func (f *fakeStore) CreateSession(ctx context.Context, s *model.BookingSession) error {
	defer f.lock(ctx)()
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeStore) GetSession(ctx context.Context, id string) (model.BookingSession, error) {
	defer f.lock(ctx)()
	sess, ok := f.sessions[id]
	if !ok {
		return model.BookingSession{}, model.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeStore) UpdateSession(ctx context.Context, s *model.BookingSession) error {
	defer f.lock(ctx)()
	if _, ok := f.sessions[s.ID]; !ok {
		return model.ErrSessionNotFound
	}
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeStore) AddSessionItem(ctx context.Context, item *model.SessionItem) error {
	defer f.lock(ctx)()
	item.ID = f.id()
	f.items[item.SessionID] = append(f.items[item.SessionID], *item)
	return nil
}

func (f *fakeStore) RemoveSeatItem(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) error {
	defer f.lock(ctx)()
	items := f.items[sessionID]
	for i, item := range items {
		if item.Kind == model.ItemKindSeat && item.FlightScheduleID == scheduleID && item.CatalogSeatID == catalogSeatID {
			f.items[sessionID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) ListSessionItems(ctx context.Context, sessionID string) ([]model.SessionItem, error) {
	defer f.lock(ctx)()
	return append([]model.SessionItem(nil), f.items[sessionID]...), nil
}

func (f *fakeStore) ListExpiredSessions(ctx context.Context, now time.Time, limit int) ([]model.BookingSession, error) {
	defer f.lock(ctx)()
	var out []model.BookingSession
	for _, sess := range f.sessions {
		if sess.Status == model.SessionStatusActive && !sess.ExpiresAt.After(now) {
			out = append(out, sess)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// SeatStore

func (f *fakeStore) GetSeatForUpdate(ctx context.Context, scheduleID, catalogSeatID uint64) (model.SeatInstance, error) {
	defer f.lock(ctx)()
	seat, ok := f.seats[seatKey{scheduleID, catalogSeatID}]
	if !ok {
		return model.SeatInstance{}, model.ErrSeatNotFound
	}
	return seat, nil
}

func (f *fakeStore) UpdateSeat(ctx context.Context, seat *model.SeatInstance) error {
	defer f.lock(ctx)()
	if f.seatUpdateConflicts > 0 {
		f.seatUpdateConflicts--
		return model.ErrConcurrencyConflict
	}
	key := seatKey{seat.FlightScheduleID, seat.CatalogSeatID}
	current, ok := f.seats[key]
	if !ok {
		return model.ErrSeatNotFound
	}
	if current.Version != seat.Version {
		return model.ErrConcurrencyConflict
	}
	seat.Version++
	f.seats[key] = *seat
	return nil
}

func (f *fakeStore) ListScheduleSeats(ctx context.Context, scheduleID uint64) ([]model.SeatInstance, error) {
	defer f.lock(ctx)()
	var out []model.SeatInstance
	for k, seat := range f.seats {
		if k.scheduleID == scheduleID {
			out = append(out, seat)
		}
	}
	return out, nil
}

func (f *fakeStore) ListExpiredHeldSeats(ctx context.Context, now time.Time, limit int) ([]model.SeatInstance, error) {
	defer f.lock(ctx)()
	var out []model.SeatInstance
	for _, seat := range f.seats {
		if seat.Status == model.SeatStatusHeld && seat.HoldExpiresAt != nil && !seat.HoldExpiresAt.After(now) {
			out = append(out, seat)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// LedgerStore

func (f *fakeStore) GetLedger(ctx context.Context, scheduleID, classID uint64) (model.FareLedgerEntry, error) {
	defer f.lock(ctx)()
	entry, ok := f.ledgers[ledgerKey{scheduleID, classID}]
	if !ok {
		return model.FareLedgerEntry{}, model.ErrLedgerNotFound
	}
	return entry, nil
}

func (f *fakeStore) AdjustLedger(ctx context.Context, scheduleID, classID uint64, bookedDelta, availableDelta, allocatedDelta int32) error {
	defer f.lock(ctx)()
	key := ledgerKey{scheduleID, classID}
	entry, ok := f.ledgers[key]
	if !ok {
		return model.ErrLedgerNotFound
	}
	booked := int64(entry.SeatsBooked) + int64(bookedDelta)
	available := int64(entry.SeatsAvailable) + int64(availableDelta)
	allocated := int64(entry.SeatsAllocated) + int64(allocatedDelta)
	if booked < 0 || available < 0 || allocated < 0 {
		return model.ErrSeatUnavailable
	}
	entry.SeatsBooked = uint32(booked)
	entry.SeatsAvailable = uint32(available)
	entry.SeatsAllocated = uint32(allocated)
	f.ledgers[key] = entry
	return nil
}

// BookingStore

func (f *fakeStore) CreateBooking(ctx context.Context, b *model.ConfirmedBooking, seats []model.BookingSeat) error {
	defer f.lock(ctx)()
	b.ID = f.id()
	f.bookings[b.ID] = *b
	for i := range seats {
		seats[i].BookingID = b.ID
	}
	f.bookingSeats[b.ID] = append([]model.BookingSeat(nil), seats...)
	return nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id uint64) (model.ConfirmedBooking, error) {
	defer f.lock(ctx)()
	b, ok := f.bookings[id]
	if !ok {
		return model.ConfirmedBooking{}, model.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeStore) ListBookingSeats(ctx context.Context, bookingID uint64) ([]model.BookingSeat, error) {
	defer f.lock(ctx)()
	return append([]model.BookingSeat(nil), f.bookingSeats[bookingID]...), nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, id uint64, status string) error {
	defer f.lock(ctx)()
	b, ok := f.bookings[id]
	if !ok {
		return model.ErrBookingNotFound
	}
	b.Status = status
	f.bookings[id] = b
	return nil
}

// ScheduleStore

func (f *fakeStore) GetSchedule(ctx context.Context, id uint64) (model.FlightSchedule, error) {
	defer f.lock(ctx)()
	sched, ok := f.schedules[id]
	if !ok {
		return model.FlightSchedule{}, model.ErrScheduleNotFound
	}
	return sched, nil
}

func (f *fakeStore) SetScheduleStatus(ctx context.Context, id uint64, status string) error {
	defer f.lock(ctx)()
	sched, ok := f.schedules[id]
	if !ok {
		return model.ErrScheduleNotFound
	}
	sched.Status = status
	f.schedules[id] = sched
	return nil
}

func (f *fakeStore) ListCatalogSeats(ctx context.Context, airplaneID uint64) ([]model.SeatCatalogEntry, error) {
	defer f.lock(ctx)()
	return append([]model.SeatCatalogEntry(nil), f.catalog[airplaneID]...), nil
}

func (f *fakeStore) CreateSeatInstances(ctx context.Context, seats []model.SeatInstance) error {
	defer f.lock(ctx)()
	for _, seat := range seats {
		seat.ID = f.id()
		f.seats[seatKey{seat.FlightScheduleID, seat.CatalogSeatID}] = seat
	}
	return nil
}

func (f *fakeStore) CreateLedgerEntries(ctx context.Context, entries []model.FareLedgerEntry) error {
	defer f.lock(ctx)()
	for _, entry := range entries {
		entry.ID = f.id()
		f.ledgers[ledgerKey{entry.FlightScheduleID, entry.SeatClassID}] = entry
	}
	return nil
}

var _ Store = (*fakeStore)(nil)
