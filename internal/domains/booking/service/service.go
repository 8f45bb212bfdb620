package service

import (
	"context"
	"errors"
	"fmt"
	"stays/config"
	"stays/infras/otel"
	availability "stays/internal/domains/availability/service"
	"stays/internal/domains/booking/model"
	"stays/internal/domains/booking/model/dto"
	"stays/internal/domains/booking/pricing"
	"stays/internal/domains/booking/repository"
	discount "stays/internal/domains/discount/service"
	roomModel "stays/internal/domains/room/model"
	roomRepo "stays/internal/domains/room/repository"
	"stays/shared"
	"stays/shared/cache"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	"stays/shared/failure"
	"stays/shared/locker"
	gModel "stays/shared/model"
	"stays/shared/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheVersion       = "booking:version"

	maxCodeAttempts = 3
)

const (
	msgRoomBusy          = "This room is currently being booked by another request. Please try again."
	msgRoomUnavailable   = "This room is currently not available for booking."
	msgDatesUnavailable  = "Room is not available for the selected dates"
	msgConcurrentChange  = "booking status changed concurrently"
	msgBookingNotFound   = "booking not found"
	msgBookingNotAllowed = "you are not allowed to access this booking"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Pending(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	availability availability.Availability
	eligibility  discount.Eligibility
	locker       locker.Locker
	notifier     notify.Dispatcher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	availability availability.Availability,
	eligibility discount.Eligibility,
	locker locker.Locker,
	notifier notify.Dispatcher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		availability: availability,
		eligibility:  eligibility,
		locker:       locker,
		notifier:     notifier,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Create admits a draft booking. The overlap check and the insert run while the room lock
// is held; the repository repeats the check inside its transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := gModel.CallerFromContext(ctx)

	checkIn, checkOut, err := req.Range()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequest(pricing.ErrInvalidRange) // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if !room.IsAvailable {
		return res, failure.Conflict(msgRoomUnavailable) // nolint:wrapcheck
	}

	release, err := s.locker.Acquire(ctx, locker.RoomKey(room.ID))
	if err != nil {
		if errors.Is(err, locker.ErrNotAcquired) {
			return res, failure.Conflict(msgRoomBusy) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to lock room")

		return res, fmt.Errorf("failed to lock room: %w", err)
	}
	defer release()

	conflict, err := s.availability.HasConflict(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return res, fmt.Errorf("failed to check availability: %w", err)
	}

	if conflict {
		return res, failure.Conflict(msgDatesUnavailable) // nolint:wrapcheck
	}

	if !model.BookingType(req.BookingType).Valid() {
		return res, failure.BadRequest(pricing.ErrUnknownBookingType) // nolint:wrapcheck
	}

	guest, eligible, err := s.resolveGuest(ctx, caller, req.PriorGuestID)
	if err != nil {
		return res, err
	}

	rates := pricing.Rates{PerDay: room.PricePerDay, PerWeek: room.PricePerWeek, PerMonth: room.PricePerMonth}

	quote, err := pricing.Calculate(rates, checkIn, checkOut, model.BookingType(req.BookingType), eligible, s.cfg.Booking.DiscountBasisPoints)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	booking := req.ToModel(guest, checkIn, checkOut, quote, caller.Actor())

	for range maxCodeAttempts {
		booking.BookingCode = model.NewBookingCode()

		err = s.repo.InsertIfNoConflict(ctx, booking)
		if !errors.Is(err, repository.ErrDuplicateCode) {
			break
		}

		log.Warn().Str("booking_code", booking.BookingCode).Msg("booking code collision, regenerating")
	}

	switch {
	case errors.Is(err, repository.ErrOverlap):
		return res, failure.Conflict(msgDatesUnavailable) // nolint:wrapcheck
	case errors.Is(err, repository.ErrUnknownGuest):
		return res, failure.NotFound("guest account not found") // nolint:wrapcheck
	case err != nil:
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	release()

	if req.PriorGuestID == constant.Empty && caller.HasAccount() {
		if err := s.eligibility.MarkEligible(ctx, caller.ID); err != nil {
			log.Error().Err(err).Str("guest_id", caller.ID).Msg("failed to record discount eligibility")
		}
	}

	s.invalidate(ctx, constant.Empty)
	s.notify(ctx, booking, room, notify.BookingCreated)

	res.FromModel(booking)
	res.WithRoom(room)

	return res, nil
}

// resolveGuest attributes the booking and decides the discount. A prior guest id counts only
// when that account is eligible; otherwise the booking belongs to the caller at full price.
// Callers without a user account (anonymous or the internal system identity) book as contacts.
func (s *serviceImpl) resolveGuest(ctx context.Context, caller gModel.Caller, priorGuestID string) (model.GuestRef, bool, error) {
	if priorGuestID != constant.Empty {
		eligible, err := s.eligibility.IsEligible(ctx, priorGuestID)
		if err != nil {
			return model.GuestRef{}, false, fmt.Errorf("failed to check discount eligibility: %w", err)
		}

		if eligible {
			return model.RegisteredAccount(priorGuestID), true, nil
		}
	}

	if !caller.HasAccount() {
		return model.AdHocContact(), false, nil
	}

	return model.RegisteredAccount(caller.ID), false, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := gModel.CallerFromContext(ctx)
	if !caller.IsAdmin() {
		return res, failure.Forbidden("only administrators can change a booking status") // nolint:wrapcheck
	}

	next := model.Status(req.Status)
	if !next.Valid() {
		return res, failure.BadRequestFromString("status must be one of draft, confirmed, cancelled, completed") // nolint:wrapcheck
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	return s.transition(ctx, booking, next, caller)
}

// Cancel is open to the booking's owner as well as administrators.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := gModel.CallerFromContext(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !caller.IsAdmin() && !booking.Guest().OwnedBy(caller.ID) {
		return res, failure.Forbidden(msgBookingNotAllowed) // nolint:wrapcheck
	}

	return s.transition(ctx, booking, model.StatusCancelled, caller)
}

func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, next model.Status, caller gModel.Caller) (res dto.BookingResponse, err error) {
	if err = booking.Status.Transition(next); err != nil {
		return res, err
	}

	updated, err := s.repo.UpdateStatus(ctx, booking.ID, booking.Status, next, caller.Actor())
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	if !updated {
		current, err := s.load(ctx, booking.ID)
		if err != nil {
			return res, err
		}

		log.Warn().
			Str("booking_id", booking.ID).
			Str("expected", string(booking.Status)).
			Str("actual", string(current.Status)).
			Msg("booking status changed concurrently")

		return res, failure.Conflict(msgConcurrentChange) // nolint:wrapcheck
	}

	booking.Status = next
	booking.ModifiedBy = caller.Actor()

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Warn().Err(err).Str("room_id", booking.RoomID).Msg("failed to load room for booking")
	}

	s.invalidate(ctx, booking.ID)
	s.notify(ctx, booking, room, notify.BookingStatusChanged)

	res.FromModel(booking)
	res.WithRoom(room)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := gModel.CallerFromContext(ctx)

	res, err = s.fetch(ctx, id)
	if err != nil {
		return res, err
	}

	if !caller.IsAdmin() && !res.Guest().OwnedBy(caller.ID) {
		return dto.BookingResponse{}, failure.Forbidden(msgBookingNotAllowed) // nolint:wrapcheck
	}

	return res, nil
}

// fetch reads a booking with its room summary, through the cache. A write-back whose version
// token moved while the row was loading is dropped again.
func (s *serviceImpl) fetch(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	version := s.version(ctx, id)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	res.FromModel(booking)
	res.WithRoom(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")

			return
		}

		if s.version(c, id) == version {
			return
		}

		if err := s.cache.Delete(c, cacheKey); err != nil {
			log.Error().Err(err).Msg("failed to drop stale booking from cache")
		}
	}()

	return res, nil
}

// version returns the booking's cache token, empty when none is stored.
func (s *serviceImpl) version(ctx context.Context, id string) string {
	var token string
	if err := s.cache.Get(ctx, shared.BuildCacheKey(cacheVersion, id), &token); err != nil {
		return constant.Empty
	}

	return token
}

// GetAll lists every booking for administrators and only the caller's own bookings otherwise.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller := gModel.CallerFromContext(ctx)
	if !caller.IsAdmin() {
		filter = ownerFilter(caller.ID, filter)
	}

	return s.list(ctx, req, filter)
}

// Pending lists draft bookings awaiting an administrator's decision.
func (s *serviceImpl) Pending(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pending")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !gModel.CallerFromContext(ctx).IsAdmin() {
		return res, failure.Forbidden("only administrators can list pending bookings") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusDraft, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	if req.SortBy == constant.Empty {
		req.SortBy = constant.FieldCreatedAt
		req.SortDir = gDto.SortDirAsc
	}

	return s.list(ctx, req, filter)
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	bookings, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	roomIDs := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		roomIDs = append(roomIDs, booking.RoomID)
	}

	rooms, err := s.roomRepo.GetByIDs(ctx, roomIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms for bookings")

		return res, fmt.Errorf("failed to get rooms for bookings: %w", err)
	}

	res.FromModels(bookings, rooms, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	return booking, nil
}

// invalidate bumps the booking's version token before dropping its entry, so a fetch that read
// the old row cannot leave it cached. List caches are cleared in the background.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if id != constant.Empty {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, shared.BuildCacheKey(cacheVersion, id), uuid.NewString(), s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to bump booking cache version")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) notify(ctx context.Context, booking model.Booking, room roomModel.Room, render func(notify.BookingNotice) (notify.Message, error)) {
	msg, err := render(notify.BookingNotice{
		GuestID:         booking.UserID.String,
		GuestName:       booking.GuestName,
		GuestEmail:      booking.GuestEmail,
		BookingCode:     booking.BookingCode,
		RoomName:        room.Name,
		RoomType:        string(room.RoomType),
		BookingType:     string(booking.BookingType),
		Status:          string(booking.Status),
		CheckIn:         booking.CheckInDate,
		CheckOut:        booking.CheckOutDate,
		TotalAmount:     booking.TotalAmount,
		DiscountApplied: booking.DiscountApplied,
		FinalAmount:     booking.FinalAmount,
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to render notification")

		return
	}

	s.notifier.Dispatch(ctx, msg)
}

func ownerFilter(userID string, filter gDto.FilterGroup) gDto.FilterGroup {
	owner := gDto.Filter{
		Field:    model.FieldUserID,
		Value:    userID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
		ArgName:  "owner_user_id",
	}

	if len(filter.Filters) == 0 {
		return gDto.FilterGroup{Filters: []any{owner}}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{owner, filter},
	}
}
