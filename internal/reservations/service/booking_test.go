package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	reserrors "innkeep/internal/reservations/errors"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/events"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
)

// --- Func-field mocks ---

type mockGuestView struct {
	existsFn       func(ctx context.Context, guestID string, date time.Time) (bool, error)
	insertFn       func(ctx context.Context, record *model.GuestDateRecord) error
	findOneFn      func(ctx context.Context, guestID string, date time.Time) (*model.GuestDateRecord, error)
	findByGuestFn  func(ctx context.Context, guestID string, limit int, offset int64) ([]*model.GuestDateRecord, error)
	countByGuestFn func(ctx context.Context, guestID string) (int64, error)
}

func (m *mockGuestView) Exists(ctx context.Context, guestID string, date time.Time) (bool, error) {
	return m.existsFn(ctx, guestID, date)
}

func (m *mockGuestView) Insert(ctx context.Context, record *model.GuestDateRecord) error {
	return m.insertFn(ctx, record)
}

func (m *mockGuestView) FindOne(ctx context.Context, guestID string, date time.Time) (*model.GuestDateRecord, error) {
	return m.findOneFn(ctx, guestID, date)
}

func (m *mockGuestView) FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.GuestDateRecord, error) {
	return m.findByGuestFn(ctx, guestID, limit, offset)
}

func (m *mockGuestView) CountByGuest(ctx context.Context, guestID string) (int64, error) {
	return m.countByGuestFn(ctx, guestID)
}

type mockHotelView struct {
	existsFn             func(ctx context.Context, hotelID string, date time.Time, roomNumber int) (bool, error)
	insertFn             func(ctx context.Context, record *model.HotelDateRecord) error
	findOneFn            func(ctx context.Context, hotelID string, date time.Time, roomNumber int) (*model.HotelDateRecord, error)
	transitionFn         func(ctx context.Context, hotelID string, date time.Time, roomNumber int, from, to string) error
	findByHotelAndDateFn func(ctx context.Context, hotelID string, date time.Time, limit int, offset int64) ([]*model.HotelDateRecord, error)
	countFn              func(ctx context.Context, hotelID string, date time.Time) (int64, error)
}

func (m *mockHotelView) Exists(ctx context.Context, hotelID string, date time.Time, roomNumber int) (bool, error) {
	return m.existsFn(ctx, hotelID, date, roomNumber)
}

func (m *mockHotelView) Insert(ctx context.Context, record *model.HotelDateRecord) error {
	return m.insertFn(ctx, record)
}

func (m *mockHotelView) FindOne(ctx context.Context, hotelID string, date time.Time, roomNumber int) (*model.HotelDateRecord, error) {
	return m.findOneFn(ctx, hotelID, date, roomNumber)
}

func (m *mockHotelView) TransitionStatus(ctx context.Context, hotelID string, date time.Time, roomNumber int, from, to string) error {
	return m.transitionFn(ctx, hotelID, date, roomNumber, from, to)
}

func (m *mockHotelView) FindByHotelAndDate(ctx context.Context, hotelID string, date time.Time, limit int, offset int64) ([]*model.HotelDateRecord, error) {
	return m.findByHotelAndDateFn(ctx, hotelID, date, limit, offset)
}

func (m *mockHotelView) CountByHotelAndDate(ctx context.Context, hotelID string, date time.Time) (int64, error) {
	return m.countFn(ctx, hotelID, date)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []events.ReservationConfirmed
	err    error
}

func (p *mockPublisher) PublishReservationConfirmed(_ context.Context, event events.ReservationConfirmed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) published() []events.ReservationConfirmed {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.ReservationConfirmed, len(p.events))
	copy(out, p.events)
	return out
}

// --- Test fixtures ---

func testConfig() *config.Config {
	return &config.Config{
		MaxStayNights: 30,
		Log:           logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
}

func newTestService(guestView *mockGuestView, hotelView *mockHotelView, publisher events.Publisher) ReservationService {
	cfg := testConfig()
	v := validator.NewReservationValidator(cfg.MaxStayNights)
	return NewReservationService(guestView, hotelView, v, publisher, cfg)
}

func validRequest() *model.BookingRequest {
	start := time.Now().UTC().AddDate(0, 0, 7)
	return &model.BookingRequest{
		GuestID:    "G1",
		HotelID:    "H1",
		RoomNumber: 101,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
	}
}

func freeSlot(req *model.BookingRequest) *model.HotelDateRecord {
	date := req.BookingDate()
	return &model.HotelDateRecord{
		ID:         model.HotelDateKey(req.HotelID, date, req.RoomNumber),
		HotelID:    req.HotelID,
		Date:       date,
		RoomNumber: req.RoomNumber,
		Status:     model.StatusFree,
	}
}

// --- Book ---

func TestBookSuccess(t *testing.T) {
	req := validRequest()
	var inserted *model.GuestDateRecord
	var transitioned bool

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return nil, reserrors.ErrNotFound
		},
		insertFn: func(_ context.Context, record *model.GuestDateRecord) error {
			inserted = record
			return nil
		},
	}
	hotelView := &mockHotelView{
		findOneFn: func(_ context.Context, _ string, _ time.Time, _ int) (*model.HotelDateRecord, error) {
			return freeSlot(req), nil
		},
		transitionFn: func(_ context.Context, _ string, _ time.Time, _ int, from, to string) error {
			assert.Equal(t, model.StatusFree, from)
			assert.Equal(t, model.StatusBooked, to)
			transitioned = true
			return nil
		},
	}
	publisher := &mockPublisher{}

	svc := newTestService(guestView, hotelView, publisher)
	res, err := svc.Book(context.Background(), req)

	assert.NoError(t, err)
	assert.NotNil(t, res)
	assert.True(t, transitioned)
	assert.NotNil(t, inserted)
	assert.Equal(t, "g1", res.GuestID)
	assert.Equal(t, "h1", res.HotelID)
	assert.Equal(t, 101, res.RoomNumber)
	assert.Positive(t, res.ConfirmationNumber)
	assert.Equal(t, res.ConfirmationNumber, inserted.ConfirmationNumber)

	published := publisher.published()
	assert.Len(t, published, 1)
	assert.Equal(t, res.ConfirmationNumber, published[0].ConfirmationNumber)
}

func TestBookInvalidRequestWritesNothing(t *testing.T) {
	cases := []struct {
		name string
		req  *model.BookingRequest
	}{
		{"nil request", nil},
		{"missing guest", &model.BookingRequest{HotelID: "H1", RoomNumber: 101, StartDate: time.Now().AddDate(0, 0, 1), EndDate: time.Now().AddDate(0, 0, 2)}},
		{"inverted dates", &model.BookingRequest{GuestID: "G1", HotelID: "H1", RoomNumber: 101, StartDate: time.Now().AddDate(0, 0, 2), EndDate: time.Now().AddDate(0, 0, 1)}},
		{"zero room", &model.BookingRequest{GuestID: "G1", HotelID: "H1", StartDate: time.Now().AddDate(0, 0, 1), EndDate: time.Now().AddDate(0, 0, 2)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guestView := &mockGuestView{
				findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
					t.Fatal("guest view must not be read for an invalid request")
					return nil, nil
				},
				insertFn: func(_ context.Context, _ *model.GuestDateRecord) error {
					t.Fatal("guest view must not be written for an invalid request")
					return nil
				},
			}
			hotelView := &mockHotelView{
				findOneFn: func(_ context.Context, _ string, _ time.Time, _ int) (*model.HotelDateRecord, error) {
					t.Fatal("hotel view must not be read for an invalid request")
					return nil, nil
				},
				transitionFn: func(_ context.Context, _ string, _ time.Time, _ int, _, _ string) error {
					t.Fatal("hotel view must not be written for an invalid request")
					return nil
				},
			}

			svc := newTestService(guestView, hotelView, &mockPublisher{})
			res, err := svc.Book(context.Background(), tc.req)

			assert.Nil(t, res)
			assert.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
		})
	}
}

func TestBookGuestAlreadyHasBooking(t *testing.T) {
	req := validRequest()
	date := req.BookingDate()

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return &model.GuestDateRecord{
				ID:         model.GuestDateKey("g1", date),
				GuestID:    "g1",
				Date:       date,
				HotelID:    "h9",
				RoomNumber: 404,
			}, nil
		},
	}
	hotelView := &mockHotelView{
		transitionFn: func(_ context.Context, _ string, _ time.Time, _ int, _, _ string) error {
			t.Fatal("hotel view must not be written when the guest already holds a booking")
			return nil
		},
	}

	svc := newTestService(guestView, hotelView, &mockPublisher{})
	res, err := svc.Book(context.Background(), req)

	assert.Nil(t, res)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "h9")
}

func TestBookSlotNotRegistered(t *testing.T) {
	req := validRequest()

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return nil, reserrors.ErrNotFound
		},
	}
	hotelView := &mockHotelView{
		findOneFn: func(_ context.Context, _ string, _ time.Time, _ int) (*model.HotelDateRecord, error) {
			return nil, reserrors.ErrSlotNotRegistered
		},
	}

	svc := newTestService(guestView, hotelView, &mockPublisher{})
	res, err := svc.Book(context.Background(), req)

	assert.Nil(t, res)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestBookSlotAlreadyBooked(t *testing.T) {
	req := validRequest()
	slot := freeSlot(req)
	slot.Status = model.StatusBooked

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return nil, reserrors.ErrNotFound
		},
	}
	hotelView := &mockHotelView{
		findOneFn: func(_ context.Context, _ string, _ time.Time, _ int) (*model.HotelDateRecord, error) {
			return slot, nil
		},
		transitionFn: func(_ context.Context, _ string, _ time.Time, _ int, _, _ string) error {
			t.Fatal("no transition should be attempted on a booked slot")
			return nil
		},
	}

	svc := newTestService(guestView, hotelView, &mockPublisher{})
	res, err := svc.Book(context.Background(), req)

	assert.Nil(t, res)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestBookLosesTransitionRace(t *testing.T) {
	req := validRequest()

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return nil, reserrors.ErrNotFound
		},
		insertFn: func(_ context.Context, _ *model.GuestDateRecord) error {
			t.Fatal("guest view must not be written after losing the transition")
			return nil
		},
	}
	hotelView := &mockHotelView{
		findOneFn: func(_ context.Context, _ string, _ time.Time, _ int) (*model.HotelDateRecord, error) {
			return freeSlot(req), nil
		},
		transitionFn: func(_ context.Context, _ string, _ time.Time, _ int, _, _ string) error {
			return reserrors.ErrStatusConflict
		},
	}
	publisher := &mockPublisher{}

	svc := newTestService(guestView, hotelView, publisher)
	res, err := svc.Book(context.Background(), req)

	assert.Nil(t, res)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Empty(t, publisher.published())
}

func TestBookGuestInsertFailureSurfacesInternal(t *testing.T) {
	req := validRequest()

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return nil, reserrors.ErrNotFound
		},
		insertFn: func(_ context.Context, _ *model.GuestDateRecord) error {
			return context.DeadlineExceeded
		},
	}
	hotelView := &mockHotelView{
		findOneFn: func(_ context.Context, _ string, _ time.Time, _ int) (*model.HotelDateRecord, error) {
			return freeSlot(req), nil
		},
		transitionFn: func(_ context.Context, _ string, _ time.Time, _ int, _, _ string) error {
			return nil
		},
	}
	publisher := &mockPublisher{}

	svc := newTestService(guestView, hotelView, publisher)
	res, err := svc.Book(context.Background(), req)

	assert.Nil(t, res)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
	assert.Empty(t, publisher.published())
}

func TestBookPublishFailureDoesNotFailBooking(t *testing.T) {
	req := validRequest()

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return nil, reserrors.ErrNotFound
		},
		insertFn: func(_ context.Context, _ *model.GuestDateRecord) error { return nil },
	}
	hotelView := &mockHotelView{
		findOneFn: func(_ context.Context, _ string, _ time.Time, _ int) (*model.HotelDateRecord, error) {
			return freeSlot(req), nil
		},
		transitionFn: func(_ context.Context, _ string, _ time.Time, _ int, _, _ string) error {
			return nil
		},
	}

	svc := newTestService(guestView, hotelView, &mockPublisher{err: events.ErrProducerClosed})
	res, err := svc.Book(context.Background(), req)

	assert.NoError(t, err)
	assert.NotNil(t, res)
}

// --- Concurrency ---

// fakeSlotStore backs both views with mutex-guarded maps and enforces the
// same atomicity the real store gives: conditional update per hotel-date
// record, unique key per guest-date record.
type fakeSlotStore struct {
	mu    sync.Mutex
	slots map[string]*model.HotelDateRecord
	guest map[string]*model.GuestDateRecord
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{
		slots: make(map[string]*model.HotelDateRecord),
		guest: make(map[string]*model.GuestDateRecord),
	}
}

func (f *fakeSlotStore) registerFree(hotelID string, date time.Time, roomNumber int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := model.HotelDateKey(hotelID, date, roomNumber)
	f.slots[key] = &model.HotelDateRecord{
		ID:         key,
		HotelID:    hotelID,
		Date:       model.Day(date),
		RoomNumber: roomNumber,
		Status:     model.StatusFree,
	}
}

func (f *fakeSlotStore) guestView() *mockGuestView {
	return &mockGuestView{
		findOneFn: func(_ context.Context, guestID string, date time.Time) (*model.GuestDateRecord, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			record, ok := f.guest[model.GuestDateKey(guestID, date)]
			if !ok {
				return nil, reserrors.ErrNotFound
			}
			return record, nil
		},
		insertFn: func(_ context.Context, record *model.GuestDateRecord) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			key := model.GuestDateKey(record.GuestID, record.Date)
			if _, ok := f.guest[key]; ok {
				return reserrors.ErrDuplicateKey
			}
			record.ID = key
			f.guest[key] = record
			return nil
		},
	}
}

func (f *fakeSlotStore) hotelView() *mockHotelView {
	return &mockHotelView{
		findOneFn: func(_ context.Context, hotelID string, date time.Time, roomNumber int) (*model.HotelDateRecord, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			slot, ok := f.slots[model.HotelDateKey(hotelID, date, roomNumber)]
			if !ok {
				return nil, reserrors.ErrSlotNotRegistered
			}
			copied := *slot
			return &copied, nil
		},
		transitionFn: func(_ context.Context, hotelID string, date time.Time, roomNumber int, from, to string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			slot, ok := f.slots[model.HotelDateKey(hotelID, date, roomNumber)]
			if !ok || slot.Status != from {
				return reserrors.ErrStatusConflict
			}
			slot.Status = to
			return nil
		},
	}
}

func TestBookConcurrentRequestsExactlyOneWins(t *testing.T) {
	const attempts = 20

	start := model.Day(time.Now().UTC().AddDate(0, 0, 30))
	store := newFakeSlotStore()
	store.registerFree("h1", start, 101)

	svc := newTestService(store.guestView(), store.hotelView(), &mockPublisher{})

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		guestID := string(rune('a' + i%attempts))
		go func(guest string) {
			defer wg.Done()
			req := &model.BookingRequest{
				GuestID:    guest,
				HotelID:    "H1",
				RoomNumber: 101,
				StartDate:  start,
				EndDate:    start.AddDate(0, 0, 1),
			}
			_, err := svc.Book(context.Background(), req)
			results <- err
		}(guestID)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case apperrors.IsCode(err, apperrors.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error class: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one concurrent booking must succeed")
	assert.Equal(t, attempts-1, conflicts)
}

func TestBookSameGuestRepeatedRequestConflicts(t *testing.T) {
	start := model.Day(time.Now().UTC().AddDate(0, 0, 30))
	store := newFakeSlotStore()
	store.registerFree("h1", start, 101)
	store.registerFree("h1", start, 102)

	svc := newTestService(store.guestView(), store.hotelView(), &mockPublisher{})

	first := &model.BookingRequest{
		GuestID:    "G1",
		HotelID:    "H1",
		RoomNumber: 101,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 1),
	}
	res, err := svc.Book(context.Background(), first)
	assert.NoError(t, err)
	assert.NotNil(t, res)

	// Same guest, same date, different room: the one-booking-per-guest-date
	// rule rejects it before touching the second slot.
	second := &model.BookingRequest{
		GuestID:    "G1",
		HotelID:    "H1",
		RoomNumber: 102,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 1),
	}
	_, err = svc.Book(context.Background(), second)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	slot, err := store.hotelView().findOneFn(context.Background(), "h1", start, 102)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusFree, slot.Status)
}

// --- Reads ---

func TestGetByGuestAndDate(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	record := &model.GuestDateRecord{
		ID:         model.GuestDateKey("g1", date),
		GuestID:    "g1",
		Date:       date,
		HotelID:    "h1",
		RoomNumber: 101,
	}

	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, guestID string, _ time.Time) (*model.GuestDateRecord, error) {
			assert.Equal(t, "g1", guestID)
			return record, nil
		},
	}

	svc := newTestService(guestView, &mockHotelView{}, &mockPublisher{})
	got, err := svc.GetByGuestAndDate(context.Background(), "  G1 ", date)

	assert.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestGetByGuestAndDateNotFound(t *testing.T) {
	guestView := &mockGuestView{
		findOneFn: func(_ context.Context, _ string, _ time.Time) (*model.GuestDateRecord, error) {
			return nil, reserrors.ErrNotFound
		},
	}

	svc := newTestService(guestView, &mockHotelView{}, &mockPublisher{})
	got, err := svc.GetByGuestAndDate(context.Background(), "g1", time.Now())

	assert.Nil(t, got)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestGetByGuestAndDateEmptyID(t *testing.T) {
	svc := newTestService(&mockGuestView{}, &mockHotelView{}, &mockPublisher{})
	_, err := svc.GetByGuestAndDate(context.Background(), "   ", time.Now())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestListByGuest(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	records := []*model.GuestDateRecord{
		{ID: model.GuestDateKey("g1", date), GuestID: "g1", Date: date, HotelID: "h1", RoomNumber: 101},
		{ID: model.GuestDateKey("g1", date.AddDate(0, 0, 3)), GuestID: "g1", Date: date.AddDate(0, 0, 3), HotelID: "h2", RoomNumber: 7},
	}

	guestView := &mockGuestView{
		findByGuestFn: func(_ context.Context, _ string, _ int, _ int64) ([]*model.GuestDateRecord, error) {
			return records, nil
		},
		countByGuestFn: func(_ context.Context, _ string) (int64, error) {
			return int64(len(records)), nil
		},
	}

	svc := newTestService(guestView, &mockHotelView{}, &mockPublisher{})
	got, count, err := svc.ListByGuest(context.Background(), "g1", 10, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, records, got)
}

func TestListHotelDay(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	records := []*model.HotelDateRecord{
		{ID: model.HotelDateKey("h1", date, 101), HotelID: "h1", Date: date, RoomNumber: 101, Status: model.StatusBooked},
		{ID: model.HotelDateKey("h1", date, 102), HotelID: "h1", Date: date, RoomNumber: 102, Status: model.StatusFree},
	}

	hotelView := &mockHotelView{
		findByHotelAndDateFn: func(_ context.Context, _ string, _ time.Time, _ int, _ int64) ([]*model.HotelDateRecord, error) {
			return records, nil
		},
		countFn: func(_ context.Context, _ string, _ time.Time) (int64, error) {
			return int64(len(records)), nil
		},
	}

	svc := newTestService(&mockGuestView{}, hotelView, &mockPublisher{})
	got, count, err := svc.ListHotelDay(context.Background(), "h1", date, 10, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, records, got)
}
