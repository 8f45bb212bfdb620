package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stays/config"
	"stays/infras/otel/mocks"
	availability "stays/internal/domains/availability/service"
	bookingMocks "stays/internal/domains/booking/mocks"
	"stays/internal/domains/booking/model"
	"stays/internal/domains/booking/model/dto"
	"stays/internal/domains/booking/repository"
	"stays/internal/domains/booking/service"
	discountMocks "stays/internal/domains/discount/mocks"
	roomMocks "stays/internal/domains/room/mocks"
	roomModel "stays/internal/domains/room/model"
	"stays/shared"
	cacheMocks "stays/shared/cache/mocks"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	"stays/shared/failure"
	"stays/shared/locker"
	lockerMocks "stays/shared/locker/mocks"
	"stays/shared/notify"
	notifyMocks "stays/shared/notify/mocks"
)

var gardenSuite = roomModel.Room{
	ID:            "room-1",
	Name:          "Garden Suite",
	RoomType:      roomModel.RoomTypeSuite,
	PricePerDay:   10000,
	PricePerWeek:  60000,
	PricePerMonth: 200000,
	IsAvailable:   true,
}

type harness struct {
	store      *memoryStore
	rooms      *roomMocks.MockRoom
	discounts  *discountMocks.MockEligibility
	dispatcher *notifyMocks.MockDispatcher
	svc        service.Booking
}

func newHarness(t *testing.T, lock locker.Locker) harness {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := harness{
		store:      &memoryStore{},
		rooms:      roomMocks.NewMockRoom(ctrl),
		discounts:  discountMocks.NewMockEligibility(ctrl),
		dispatcher: notifyMocks.NewMockDispatcher(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	if lock == nil {
		lock = locker.NewLocal(time.Second)
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Booking.DiscountBasisPoints = 500

	otl := mocks.NewOtel()
	avail := availability.New(h.store, h.rooms, otl)
	h.svc = service.New(h.store, h.rooms, avail, h.discounts, lock, h.dispatcher, cfg, mockCache, otl)

	return h
}

func (h harness) roomExists(room roomModel.Room) {
	h.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil).AnyTimes()
	h.rooms.EXPECT().
		GetByIDs(gomock.Any(), gomock.Any()).
		Return(map[string]roomModel.Room{room.ID: room}, nil).
		AnyTimes()
}

func (h harness) quiet() {
	h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).AnyTimes()
	h.discounts.EXPECT().MarkEligible(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func asUser(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func asSystem() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, constant.ContextSystem)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func asAdmin() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func bookingRequest(checkIn, checkOut string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:       gardenSuite.ID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		BookingType:  string(model.BookingTypeDaily),
		GuestName:    "Ana Guest",
		GuestEmail:   "ana@example.com",
		GuestPhone:   "+100200300",
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("prices a daily stay and stores it as draft", func(t *testing.T) {
		h := newHarness(t, nil)
		h.roomExists(gardenSuite)

		var sent notify.Message

		h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, msg notify.Message) {
			sent = msg
		})
		h.discounts.EXPECT().MarkEligible(gomock.Any(), "guest-1").Return(nil)

		res, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-06-01", "2026-06-04"))
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusDraft), res.Status)
		assert.Equal(t, int64(30000), res.TotalAmount)
		assert.Equal(t, int64(0), res.DiscountApplied)
		assert.Equal(t, int64(30000), res.FinalAmount)
		assert.Equal(t, "guest-1", res.UserID)
		assert.Equal(t, string(model.GuestKindAccount), res.GuestKind)
		assert.Regexp(t, `^BK-[0-9A-F]{8}$`, res.BookingCode)
		require.NotNil(t, res.Room)
		assert.Equal(t, "Garden Suite", res.Room.Name)

		assert.Equal(t, notify.KindBookingCreated, sent.Kind)
		assert.Equal(t, "ana@example.com", sent.To)
		assert.Contains(t, sent.Subject, res.BookingCode)
	})

	t.Run("eligible prior guest gets the discount and owns the booking", func(t *testing.T) {
		h := newHarness(t, nil)
		h.roomExists(gardenSuite)
		h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		h.discounts.EXPECT().IsEligible(gomock.Any(), "returning-1").Return(true, nil)

		req := bookingRequest("2026-06-01", "2026-06-02")
		req.PriorGuestID = "returning-1"

		res, err := h.svc.Create(asUser("guest-1"), req)
		require.NoError(t, err)

		assert.Equal(t, int64(10000), res.TotalAmount)
		assert.Equal(t, int64(500), res.DiscountApplied)
		assert.Equal(t, int64(9500), res.FinalAmount)
		assert.Equal(t, "returning-1", res.UserID)
	})

	t.Run("ineligible prior guest pays full price and is not marked", func(t *testing.T) {
		h := newHarness(t, nil)
		h.roomExists(gardenSuite)
		h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		h.discounts.EXPECT().IsEligible(gomock.Any(), "new-1").Return(false, nil)

		req := bookingRequest("2026-06-01", "2026-06-02")
		req.PriorGuestID = "new-1"

		res, err := h.svc.Create(asUser("guest-1"), req)
		require.NoError(t, err)

		assert.Equal(t, int64(0), res.DiscountApplied)
		assert.Equal(t, int64(10000), res.FinalAmount)
		assert.Equal(t, "guest-1", res.UserID)
	})

	t.Run("anonymous caller books as an ad hoc contact", func(t *testing.T) {
		h := newHarness(t, nil)
		h.roomExists(gardenSuite)
		h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())

		res, err := h.svc.Create(context.Background(), bookingRequest("2026-06-01", "2026-06-02"))
		require.NoError(t, err)

		assert.Equal(t, string(model.GuestKindContact), res.GuestKind)
		assert.Empty(t, res.UserID)
	})

	t.Run("api key caller books as a contact and is never marked eligible", func(t *testing.T) {
		h := newHarness(t, nil)
		h.roomExists(gardenSuite)
		h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		h.discounts.EXPECT().MarkEligible(gomock.Any(), gomock.Any()).Times(0)

		res, err := h.svc.Create(asSystem(), bookingRequest("2026-06-01", "2026-06-02"))
		require.NoError(t, err)

		assert.Equal(t, string(model.GuestKindContact), res.GuestKind)
		assert.Empty(t, res.UserID)
		assert.Equal(t, constant.ContextSystem, h.store.createdBy(res.ID))
	})

	t.Run("api key caller can still pass an eligible prior guest", func(t *testing.T) {
		h := newHarness(t, nil)
		h.roomExists(gardenSuite)
		h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		h.discounts.EXPECT().IsEligible(gomock.Any(), "returning-1").Return(true, nil)

		req := bookingRequest("2026-06-01", "2026-06-02")
		req.PriorGuestID = "returning-1"

		res, err := h.svc.Create(asSystem(), req)
		require.NoError(t, err)

		assert.Equal(t, string(model.GuestKindAccount), res.GuestKind)
		assert.Equal(t, "returning-1", res.UserID)
		assert.Equal(t, int64(500), res.DiscountApplied)
	})

	t.Run("failing eligibility write does not fail the booking", func(t *testing.T) {
		h := newHarness(t, nil)
		h.roomExists(gardenSuite)
		h.discounts.EXPECT().MarkEligible(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())

		_, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-06-01", "2026-06-02"))
		assert.NoError(t, err)
	})
}

func TestBookingService_CreateRejections(t *testing.T) {
	unavailable := gardenSuite
	unavailable.IsAvailable = false

	tests := []struct {
		name     string
		room     roomModel.Room
		req      func() dto.CreateBookingRequest
		wantKind failure.Kind
	}{
		{
			name:     "missing room",
			room:     roomModel.Room{},
			req:      func() dto.CreateBookingRequest { return bookingRequest("2026-06-01", "2026-06-04") },
			wantKind: failure.KindNotFound,
		},
		{
			name:     "room switched off",
			room:     unavailable,
			req:      func() dto.CreateBookingRequest { return bookingRequest("2026-06-01", "2026-06-04") },
			wantKind: failure.KindConflict,
		},
		{
			name:     "check-out before check-in",
			room:     gardenSuite,
			req:      func() dto.CreateBookingRequest { return bookingRequest("2026-06-04", "2026-06-01") },
			wantKind: failure.KindInvalidInput,
		},
		{
			name:     "same day check-in and check-out",
			room:     gardenSuite,
			req:      func() dto.CreateBookingRequest { return bookingRequest("2026-06-04", "2026-06-04") },
			wantKind: failure.KindInvalidInput,
		},
		{
			name:     "unparseable date",
			room:     gardenSuite,
			req:      func() dto.CreateBookingRequest { return bookingRequest("June first", "2026-06-04") },
			wantKind: failure.KindInvalidInput,
		},
		{
			name: "unknown booking type",
			room: gardenSuite,
			req: func() dto.CreateBookingRequest {
				req := bookingRequest("2026-06-01", "2026-06-04")
				req.BookingType = "hourly"

				return req
			},
			wantKind: failure.KindInvalidInput,
		},
		{
			name: "missing room is reported before an unknown booking type",
			room: roomModel.Room{},
			req: func() dto.CreateBookingRequest {
				req := bookingRequest("2026-06-01", "2026-06-04")
				req.BookingType = "hourly"

				return req
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "switched off room is reported before an unknown booking type",
			room: unavailable,
			req: func() dto.CreateBookingRequest {
				req := bookingRequest("2026-06-01", "2026-06-04")
				req.BookingType = "hourly"

				return req
			},
			wantKind: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.roomExists(tt.room)

			_, err := h.svc.Create(asUser("guest-1"), tt.req())
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failure.GetKind(err))
			assert.Zero(t, h.store.inserts)
		})
	}
}

func TestBookingService_CreateOverlap(t *testing.T) {
	h := newHarness(t, nil)
	h.roomExists(gardenSuite)
	h.quiet()

	_, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-06-01", "2026-06-05"))
	require.NoError(t, err)

	tests := []struct {
		name         string
		checkIn      string
		checkOut     string
		wantConflict bool
	}{
		{name: "inside", checkIn: "2026-06-02", checkOut: "2026-06-03", wantConflict: true},
		{name: "starts on the existing check-out day", checkIn: "2026-06-05", checkOut: "2026-06-07", wantConflict: true},
		{name: "ends on the existing check-in day", checkIn: "2026-05-28", checkOut: "2026-06-01", wantConflict: true},
		{name: "covers the existing stay", checkIn: "2026-05-20", checkOut: "2026-06-20", wantConflict: true},
		{name: "day after check-out", checkIn: "2026-06-06", checkOut: "2026-06-08", wantConflict: false},
		{name: "day before check-in", checkIn: "2026-05-25", checkOut: "2026-05-31", wantConflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.svc.Create(asUser("guest-2"), bookingRequest(tt.checkIn, tt.checkOut))

			if tt.wantConflict {
				require.Error(t, err)
				assert.True(t, failure.Is(err, failure.KindConflict))

				return
			}

			require.NoError(t, err)

			// free the dates again so the next case only sees the first booking
			_, err = h.svc.Cancel(asUser("guest-2"), res.ID)
			require.NoError(t, err)
		})
	}
}

func TestBookingService_CancelledBookingFreesDates(t *testing.T) {
	h := newHarness(t, nil)
	h.roomExists(gardenSuite)
	h.quiet()

	first, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-06-01", "2026-06-05"))
	require.NoError(t, err)

	_, err = h.svc.Cancel(asUser("guest-1"), first.ID)
	require.NoError(t, err)

	_, err = h.svc.Create(asUser("guest-2"), bookingRequest("2026-06-01", "2026-06-05"))
	assert.NoError(t, err)
}

func TestBookingService_ConcurrentAdmission(t *testing.T) {
	const attempts = 12

	h := newHarness(t, locker.NewLocal(5*time.Second))
	h.roomExists(gardenSuite)
	h.quiet()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)

	start := make(chan struct{})

	for i := range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			_, err := h.svc.Create(asUser("guest-"+string(rune('a'+i))), bookingRequest("2026-07-01", "2026-07-08"))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				successes++
			case failure.Is(err, failure.KindConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, h.store.inserts)
}

func TestBookingService_CreateLockAndStorage(t *testing.T) {
	t.Run("lock held elsewhere", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		lock := lockerMocks.NewMockLocker(ctrl)
		lock.EXPECT().Acquire(gomock.Any(), "booking:room:room-1").Return(nil, locker.ErrNotAcquired)

		h := newHarness(t, lock)
		h.roomExists(gardenSuite)

		_, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-06-01", "2026-06-04"))
		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindConflict))
		assert.Equal(t, "This room is currently being booked by another request. Please try again.", err.Error())
	})

	t.Run("storage overlap maps to conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		rooms := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)
		avail := availability.New(repo, rooms, mocks.NewOtel())

		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(gardenSuite, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().InsertIfNoConflict(gomock.Any(), gomock.Any()).Return(repository.ErrOverlap)

		cfg := &config.Config{}
		svc := service.New(repo, rooms, avail, discountMocks.NewMockEligibility(ctrl), locker.NewLocal(time.Second),
			notifyMocks.NewMockDispatcher(ctrl), cfg, mockCache, mocks.NewOtel())

		_, err := svc.Create(context.Background(), bookingRequest("2026-06-01", "2026-06-04"))
		assert.True(t, failure.Is(err, failure.KindConflict))
	})

	t.Run("booking for a removed account is not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		rooms := roomMocks.NewMockRoom(ctrl)
		eligibility := discountMocks.NewMockEligibility(ctrl)
		avail := availability.New(repo, rooms, mocks.NewOtel())

		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(gardenSuite, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().InsertIfNoConflict(gomock.Any(), gomock.Any()).Return(repository.ErrUnknownGuest)
		eligibility.EXPECT().MarkEligible(gomock.Any(), gomock.Any()).Times(0)

		svc := service.New(repo, rooms, avail, eligibility, locker.NewLocal(time.Second),
			notifyMocks.NewMockDispatcher(ctrl), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

		_, err := svc.Create(asUser("deleted-guest"), bookingRequest("2026-06-01", "2026-06-04"))
		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindNotFound))
		assert.Equal(t, "guest account not found", err.Error())
	})

	t.Run("booking code collision is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		rooms := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		dispatcher := notifyMocks.NewMockDispatcher(ctrl)
		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())
		avail := availability.New(repo, rooms, mocks.NewOtel())

		var codes []string

		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(gardenSuite, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		gomock.InOrder(
			repo.EXPECT().InsertIfNoConflict(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b model.Booking) error {
				codes = append(codes, b.BookingCode)

				return repository.ErrDuplicateCode
			}),
			repo.EXPECT().InsertIfNoConflict(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b model.Booking) error {
				codes = append(codes, b.BookingCode)

				return nil
			}),
		)

		cfg := &config.Config{}
		svc := service.New(repo, rooms, avail, discountMocks.NewMockEligibility(ctrl), locker.NewLocal(time.Second),
			dispatcher, cfg, mockCache, mocks.NewOtel())

		res, err := svc.Create(context.Background(), bookingRequest("2026-06-01", "2026-06-04"))
		require.NoError(t, err)
		require.Len(t, codes, 2)
		assert.Equal(t, codes[1], res.BookingCode)
	})

	t.Run("booking code collisions give up after three attempts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		rooms := roomMocks.NewMockRoom(ctrl)
		avail := availability.New(repo, rooms, mocks.NewOtel())

		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(gardenSuite, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().InsertIfNoConflict(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicateCode).Times(3)

		cfg := &config.Config{}
		svc := service.New(repo, rooms, avail, discountMocks.NewMockEligibility(ctrl), locker.NewLocal(time.Second),
			notifyMocks.NewMockDispatcher(ctrl), cfg, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

		_, err := svc.Create(context.Background(), bookingRequest("2026-06-01", "2026-06-04"))
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrDuplicateCode)
		assert.False(t, failure.IsClassified(err))
	})
}

func TestBookingService_Lifecycle(t *testing.T) {
	h := newHarness(t, nil)
	h.roomExists(gardenSuite)
	h.quiet()

	create := func(checkIn, checkOut string) string {
		res, err := h.svc.Create(asUser("guest-1"), bookingRequest(checkIn, checkOut))
		require.NoError(t, err)

		return res.ID
	}

	setStatus := func(id string, status model.Status) error {
		_, err := h.svc.UpdateStatus(asAdmin(), id, dto.UpdateStatusRequest{Status: string(status)})

		return err
	}

	t.Run("draft to confirmed to completed", func(t *testing.T) {
		id := create("2026-08-01", "2026-08-03")

		require.NoError(t, setStatus(id, model.StatusConfirmed))
		require.NoError(t, setStatus(id, model.StatusCompleted))
		assert.Equal(t, model.StatusCompleted, h.store.status(id))
	})

	t.Run("draft to cancelled", func(t *testing.T) {
		id := create("2026-08-10", "2026-08-12")

		require.NoError(t, setStatus(id, model.StatusCancelled))
		assert.Equal(t, model.StatusCancelled, h.store.status(id))
	})

	t.Run("cancelled cannot be confirmed", func(t *testing.T) {
		id := create("2026-08-20", "2026-08-22")
		require.NoError(t, setStatus(id, model.StatusCancelled))

		err := setStatus(id, model.StatusConfirmed)
		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindConflict))
		assert.Equal(t, "booking with status cancelled cannot be transitioned", err.Error())
	})

	t.Run("cancelling twice", func(t *testing.T) {
		id := create("2026-09-01", "2026-09-02")

		_, err := h.svc.Cancel(asUser("guest-1"), id)
		require.NoError(t, err)

		_, err = h.svc.Cancel(asUser("guest-1"), id)
		assert.True(t, failure.Is(err, failure.KindConflict))
	})

	t.Run("draft cannot jump to completed", func(t *testing.T) {
		id := create("2026-09-10", "2026-09-11")

		err := setStatus(id, model.StatusCompleted)
		require.Error(t, err)
		assert.Equal(t, "booking cannot transition from draft to completed", err.Error())
		assert.Equal(t, model.StatusDraft, h.store.status(id))
	})
}

func TestBookingService_UpdateStatusGuards(t *testing.T) {
	h := newHarness(t, nil)
	h.roomExists(gardenSuite)
	h.quiet()

	created, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-10-01", "2026-10-03"))
	require.NoError(t, err)

	_, err = h.svc.UpdateStatus(asUser("guest-1"), created.ID, dto.UpdateStatusRequest{Status: "confirmed"})
	assert.True(t, failure.Is(err, failure.KindForbidden))

	_, err = h.svc.UpdateStatus(asAdmin(), created.ID, dto.UpdateStatusRequest{Status: "approved"})
	assert.True(t, failure.Is(err, failure.KindInvalidInput))

	_, err = h.svc.UpdateStatus(asAdmin(), "missing", dto.UpdateStatusRequest{Status: "confirmed"})
	assert.True(t, failure.Is(err, failure.KindNotFound))
}

func TestBookingService_UpdateStatusLostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)
	rooms := roomMocks.NewMockRoom(ctrl)
	avail := availability.New(repo, rooms, mocks.NewOtel())

	draft := model.Booking{ID: "b-1", RoomID: gardenSuite.ID, Status: model.StatusDraft}
	cancelled := draft
	cancelled.Status = model.StatusCancelled

	gomock.InOrder(
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draft, nil),
		repo.EXPECT().UpdateStatus(gomock.Any(), "b-1", model.StatusDraft, model.StatusConfirmed, "admin-1").Return(false, nil),
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil),
	)

	svc := service.New(repo, rooms, avail, discountMocks.NewMockEligibility(ctrl), locker.NewLocal(time.Second),
		notifyMocks.NewMockDispatcher(ctrl), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	_, err := svc.UpdateStatus(asAdmin(), "b-1", dto.UpdateStatusRequest{Status: "confirmed"})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindConflict))
	assert.Equal(t, "booking status changed concurrently", err.Error())
}

func TestBookingService_CacheVersion(t *testing.T) {
	getKey := shared.BuildCacheKey("booking:get", "b-1")
	versionKey := shared.BuildCacheKey("booking:version", "b-1")
	draft := model.Booking{ID: "b-1", RoomID: gardenSuite.ID, Status: model.StatusDraft}

	setToken := func(token string) func(context.Context, string, any) error {
		return func(_ context.Context, _ string, value any) error {
			*value.(*string) = token

			return nil
		}
	}

	newService := func(ctrl *gomock.Controller, repo *bookingMocks.MockBooking, rooms *roomMocks.MockRoom,
		dispatcher *notifyMocks.MockDispatcher, mockCache *cacheMocks.MockRedisCache,
	) service.Booking {
		cfg := &config.Config{}
		cfg.Cache.TTL = 60

		return service.New(repo, rooms, availability.New(repo, rooms, mocks.NewOtel()), discountMocks.NewMockEligibility(ctrl),
			locker.NewLocal(time.Second), dispatcher, cfg, mockCache, mocks.NewOtel())
	}

	tests := []struct {
		name        string
		after       string
		wantDropped bool
	}{
		{name: "row changed while loading is dropped from cache", after: "v2", wantDropped: true},
		{name: "unchanged row stays cached", after: "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := bookingMocks.NewMockBooking(ctrl)
			rooms := roomMocks.NewMockRoom(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			done := make(chan struct{})

			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draft, nil)
			rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(gardenSuite, nil)

			calls := []any{
				mockCache.EXPECT().Get(gomock.Any(), getKey, gomock.Any()).Return(errors.New("miss")),
				mockCache.EXPECT().Get(gomock.Any(), versionKey, gomock.Any()).DoAndReturn(setToken("v1")),
				mockCache.EXPECT().Save(gomock.Any(), getKey, gomock.Any(), 60).Return(nil),
			}

			if tt.wantDropped {
				calls = append(calls,
					mockCache.EXPECT().Get(gomock.Any(), versionKey, gomock.Any()).DoAndReturn(setToken(tt.after)),
					mockCache.EXPECT().Delete(gomock.Any(), getKey).DoAndReturn(func(context.Context, string) error {
						close(done)

						return nil
					}),
				)
			} else {
				calls = append(calls,
					mockCache.EXPECT().Get(gomock.Any(), versionKey, gomock.Any()).DoAndReturn(
						func(ctx context.Context, key string, value any) error {
							defer close(done)

							return setToken(tt.after)(ctx, key, value)
						}),
				)
				mockCache.EXPECT().Delete(gomock.Any(), getKey).Times(0)
			}

			gomock.InOrder(calls...)

			svc := newService(ctrl, repo, rooms, notifyMocks.NewMockDispatcher(ctrl), mockCache)

			res, err := svc.Get(asAdmin(), "b-1")
			require.NoError(t, err)
			assert.Equal(t, "b-1", res.ID)

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("cache write-back did not finish")
			}
		})
	}

	t.Run("status change bumps the version before dropping the entry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := bookingMocks.NewMockBooking(ctrl)
		rooms := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)
		dispatcher := notifyMocks.NewMockDispatcher(ctrl)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draft, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "b-1", model.StatusDraft, model.StatusConfirmed, "admin-1").Return(true, nil)
		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(gardenSuite, nil)
		dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		var token string

		gomock.InOrder(
			mockCache.EXPECT().Save(gomock.Any(), versionKey, gomock.Any(), 60).DoAndReturn(
				func(_ context.Context, _ string, value any, _ int) error {
					token, _ = value.(string)

					return nil
				}),
			mockCache.EXPECT().Delete(gomock.Any(), getKey).Return(nil),
		)

		svc := newService(ctrl, repo, rooms, dispatcher, mockCache)

		_, err := svc.UpdateStatus(asAdmin(), "b-1", dto.UpdateStatusRequest{Status: "confirmed"})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

func TestBookingService_StatusNotification(t *testing.T) {
	h := newHarness(t, nil)
	h.roomExists(gardenSuite)
	h.discounts.EXPECT().MarkEligible(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	var sent []notify.Message

	h.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, msg notify.Message) {
		sent = append(sent, msg)
	}).Times(2)

	created, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-11-01", "2026-11-03"))
	require.NoError(t, err)

	res, err := h.svc.UpdateStatus(asAdmin(), created.ID, dto.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusConfirmed), res.Status)

	require.Len(t, sent, 2)
	assert.Equal(t, notify.KindBookingStatus, sent[1].Kind)
	assert.Contains(t, sent[1].Body, "We look forward to welcoming you!")
}

func TestBookingService_Access(t *testing.T) {
	h := newHarness(t, nil)
	h.roomExists(gardenSuite)
	h.quiet()

	own, err := h.svc.Create(asUser("guest-1"), bookingRequest("2026-12-01", "2026-12-03"))
	require.NoError(t, err)

	other, err := h.svc.Create(asUser("guest-2"), bookingRequest("2026-12-10", "2026-12-12"))
	require.NoError(t, err)

	t.Run("owner reads own booking with its room", func(t *testing.T) {
		res, err := h.svc.Get(asUser("guest-1"), own.ID)
		require.NoError(t, err)
		require.NotNil(t, res.Room)
		assert.Equal(t, gardenSuite.ID, res.Room.ID)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := h.svc.Get(asUser("guest-1"), other.ID)
		assert.True(t, failure.Is(err, failure.KindForbidden))
	})

	t.Run("admin reads any booking", func(t *testing.T) {
		_, err := h.svc.Get(asAdmin(), other.ID)
		assert.NoError(t, err)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := h.svc.Get(asAdmin(), "missing")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})

	t.Run("other user cannot cancel", func(t *testing.T) {
		_, err := h.svc.Cancel(asUser("guest-2"), own.ID)
		assert.True(t, failure.Is(err, failure.KindForbidden))
	})

	t.Run("list is scoped to the owner", func(t *testing.T) {
		res, err := h.svc.GetAll(asUser("guest-1"), gDto.QueryParams{Limit: 10, Page: 1}, gDto.FilterGroup{})
		require.NoError(t, err)
		require.Len(t, res.Bookings, 1)
		assert.Equal(t, own.ID, res.Bookings[0].ID)
		assert.Equal(t, gardenSuite.Name, res.Bookings[0].Room.Name)
	})

	t.Run("admin lists everything", func(t *testing.T) {
		res, err := h.svc.GetAll(asAdmin(), gDto.QueryParams{Limit: 10, Page: 1}, gDto.FilterGroup{})
		require.NoError(t, err)
		assert.Len(t, res.Bookings, 2)
	})

	t.Run("pending lists drafts for admins only", func(t *testing.T) {
		_, err := h.svc.UpdateStatus(asAdmin(), other.ID, dto.UpdateStatusRequest{Status: "confirmed"})
		require.NoError(t, err)

		res, err := h.svc.Pending(asAdmin(), gDto.QueryParams{Limit: 10, Page: 1})
		require.NoError(t, err)
		require.Len(t, res.Bookings, 1)
		assert.Equal(t, own.ID, res.Bookings[0].ID)

		_, err = h.svc.Pending(asUser("guest-1"), gDto.QueryParams{})
		assert.True(t, failure.Is(err, failure.KindForbidden))
	})
}
