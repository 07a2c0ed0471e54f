package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-inventory/internal/model"
	"github.com/iliyamo/flight-seat-inventory/internal/reservation"
)

// fakeEngine satisfies Engine with canned responses so handler tests
// only exercise binding, validation and status mapping.
type fakeEngine struct {
	err     error
	session model.BookingSession
	items   []model.SessionItem
	hold    reservation.HoldResult
	booking model.ConfirmedBooking
	seats   []model.BookingSeat
}

func (f *fakeEngine) OpenSession(ctx context.Context, accountID *uint64) (model.BookingSession, error) {
	return f.session, f.err
}

func (f *fakeEngine) GetSession(ctx context.Context, sessionID string) (model.BookingSession, []model.SessionItem, error) {
	return f.session, f.items, f.err
}

func (f *fakeEngine) HoldSeat(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) (reservation.HoldResult, error) {
	return f.hold, f.err
}

func (f *fakeEngine) ReleaseSeat(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64) error {
	return f.err
}

func (f *fakeEngine) ExtendHold(ctx context.Context, sessionID string, scheduleID, catalogSeatID uint64, ttl time.Duration) (time.Time, error) {
	return f.hold.HoldExpiresAt, f.err
}

func (f *fakeEngine) ConfirmSession(ctx context.Context, sessionID string) (model.ConfirmedBooking, []model.BookingSeat, error) {
	return f.booking, f.seats, f.err
}

func (f *fakeEngine) AddService(ctx context.Context, sessionID, serviceCode string, priceCents uint32) (model.BookingSession, error) {
	return f.session, f.err
}

func (f *fakeEngine) PublishSchedule(ctx context.Context, scheduleID uint64, baseFares map[uint64]uint32) error {
	return f.err
}

func (f *fakeEngine) CancelBooking(ctx context.Context, bookingID uint64) error { return f.err }

func (f *fakeEngine) BlockSeat(ctx context.Context, scheduleID, catalogSeatID uint64) error {
	return f.err
}

func (f *fakeEngine) UnblockSeat(ctx context.Context, scheduleID, catalogSeatID uint64) error {
	return f.err
}

type fakeSeatSource struct {
	seats []model.SeatInstance
	err   error
}

func (f *fakeSeatSource) ListScheduleSeats(ctx context.Context, scheduleID uint64) ([]model.SeatInstance, error) {
	return f.seats, f.err
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHoldSeatHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		eng := &fakeEngine{hold: reservation.HoldResult{
			FlightScheduleID: 1,
			CatalogSeatID:    101,
			PriceCents:       10000,
		}}
		h := NewReservationHandler(eng, &fakeSeatSource{}, nil)

		c, rec := newTestContext(http.MethodPost, "/v1/sessions/s1/seats",
			`{"flight_schedule_id":1,"catalog_seat_id":101}`)
		c.SetParamNames("id")
		c.SetParamValues("s1")

		if err := h.HoldSeat(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		var got reservation.HoldResult
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if got.PriceCents != 10000 {
			t.Fatalf("price = %d, want 10000", got.PriceCents)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		h := NewReservationHandler(&fakeEngine{}, &fakeSeatSource{}, nil)
		c, rec := newTestContext(http.MethodPost, "/v1/sessions/s1/seats", `{}`)
		c.SetParamNames("id")
		c.SetParamValues("s1")

		if err := h.HoldSeat(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("seat unavailable maps to conflict", func(t *testing.T) {
		h := NewReservationHandler(&fakeEngine{err: model.ErrSeatUnavailable}, &fakeSeatSource{}, nil)
		c, rec := newTestContext(http.MethodPost, "/v1/sessions/s1/seats",
			`{"flight_schedule_id":1,"catalog_seat_id":101}`)
		c.SetParamNames("id")
		c.SetParamValues("s1")

		if err := h.HoldSeat(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})
}

func TestEngineErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"seat unavailable", model.ErrSeatUnavailable, http.StatusConflict},
		{"concurrency conflict", model.ErrConcurrencyConflict, http.StatusConflict},
		{"hold expired", model.ErrHoldExpired, http.StatusConflict},
		{"not held", model.ErrNotHeld, http.StatusConflict},
		{"no seats held", model.ErrNoSeatsHeld, http.StatusConflict},
		{"session expired", model.ErrSessionExpired, http.StatusGone},
		{"session closed", model.ErrSessionClosed, http.StatusConflict},
		{"session not found", model.ErrSessionNotFound, http.StatusNotFound},
		{"seat not found", model.ErrSeatNotFound, http.StatusNotFound},
		{"schedule not found", model.ErrScheduleNotFound, http.StatusNotFound},
		{"booking not found", model.ErrBookingNotFound, http.StatusNotFound},
		{"not publishable", model.ErrScheduleNotPublishable, http.StatusConflict},
		{"not cancellable", model.ErrBookingNotCancellable, http.StatusConflict},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodGet, "/", "")
			if err := engineError(c, tc.err); err != nil {
				t.Fatalf("engineError: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestReleaseSeatHandler(t *testing.T) {
	h := NewReservationHandler(&fakeEngine{}, &fakeSeatSource{}, nil)

	t.Run("no content", func(t *testing.T) {
		c, rec := newTestContext(http.MethodDelete, "/v1/sessions/s1/schedules/1/seats/101", "")
		c.SetParamNames("id", "scheduleID", "seatID")
		c.SetParamValues("s1", "1", "101")

		if err := h.ReleaseSeat(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("bad schedule id", func(t *testing.T) {
		c, rec := newTestContext(http.MethodDelete, "/v1/sessions/s1/schedules/x/seats/101", "")
		c.SetParamNames("id", "scheduleID", "seatID")
		c.SetParamValues("s1", "x", "101")

		if err := h.ReleaseSeat(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestConfirmSessionHandler(t *testing.T) {
	eng := &fakeEngine{
		booking: model.ConfirmedBooking{
			ID:         42,
			Reference:  "ref-42",
			SessionID:  "s1",
			Status:     model.BookingStatusConfirmed,
			TotalCents: 35000,
			CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		seats: []model.BookingSeat{
			{BookingID: 42, FlightScheduleID: 1, CatalogSeatID: 101, PriceCents: 10000},
			{BookingID: 42, FlightScheduleID: 1, CatalogSeatID: 201, PriceCents: 25000},
		},
	}
	h := NewReservationHandler(eng, &fakeSeatSource{}, nil)

	c, rec := newTestContext(http.MethodPost, "/v1/sessions/s1/confirm", "")
	c.SetParamNames("id")
	c.SetParamValues("s1")

	if err := h.ConfirmSession(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var body struct {
		BookingID  uint64 `json:"booking_id"`
		Reference  string `json:"reference"`
		TotalCents uint32 `json:"total_cents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.BookingID != 42 || body.Reference != "ref-42" || body.TotalCents != 35000 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSeatMapHandler(t *testing.T) {
	holdExpiry := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	source := &fakeSeatSource{seats: []model.SeatInstance{
		{FlightScheduleID: 1, CatalogSeatID: 101, SeatClassID: 1, Status: model.SeatStatusAvailable},
		{FlightScheduleID: 1, CatalogSeatID: 102, SeatClassID: 1, Status: model.SeatStatusHeld, HoldExpiresAt: &holdExpiry},
	}}
	h := NewReservationHandler(&fakeEngine{}, source, nil)

	c, rec := newTestContext(http.MethodGet, "/v1/schedules/1/seats", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.SeatMap(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		ScheduleID uint64         `json:"schedule_id"`
		Seats      []seatMapEntry `json:"seats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Seats) != 2 {
		t.Fatalf("seats = %d, want 2", len(body.Seats))
	}
	for _, seat := range body.Seats {
		if seat.Status == model.SeatStatusHeld && seat.HoldExpiresAt == nil {
			t.Fatalf("held seat missing expiry: %+v", seat)
		}
	}

	t.Run("empty schedule", func(t *testing.T) {
		h := NewReservationHandler(&fakeEngine{}, &fakeSeatSource{}, nil)
		c, rec := newTestContext(http.MethodGet, "/v1/schedules/9/seats", "")
		c.SetParamNames("id")
		c.SetParamValues("9")
		if err := h.SeatMap(c); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
