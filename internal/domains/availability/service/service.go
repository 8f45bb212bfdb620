// Package service answers whether a room's dates are free. It reads bookings only;
// the atomic check-and-insert lives in the booking repository.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stays/infras/otel"
	"stays/internal/domains/availability/model/dto"
	bookingModel "stays/internal/domains/booking/model"
	bookingRepo "stays/internal/domains/booking/repository"
	roomModel "stays/internal/domains/room/model"
	roomRepo "stays/internal/domains/room/repository"
	"stays/shared"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	"stays/shared/failure"
	"time"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	HasConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	Check(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
	HasActiveBookings(ctx context.Context, roomID string) (bool, error)
	ActiveBookings(ctx context.Context, roomID string) ([]bookingModel.Booking, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	roomRepo    roomRepo.Room
	otel        otel.Otel
}

func New(bookingRepo bookingRepo.Booking, roomRepo roomRepo.Room, otel otel.Otel) Availability {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		otel:        otel,
	}
}

func (s *serviceImpl) HasConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time) (conflict bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HasConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	conflict, err = s.bookingRepo.Exist(ctx, bookingRepo.OverlapFilter(roomID, checkIn, checkOut))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to check booking overlap")

		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	return conflict, nil
}

func (s *serviceImpl) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsRoomAvailable")
	defer scope.End()

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return false, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || !room.IsAvailable {
		return false, nil
	}

	conflict, err := s.HasConflict(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}

	return !conflict, nil
}

func (s *serviceImpl) Check(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Check")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.Range()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
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
		return dto.AvailabilityResponse{Available: false, Reason: dto.ReasonRoomUnavailable}, nil
	}

	conflict, err := s.HasConflict(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return res, err
	}

	if conflict {
		return dto.AvailabilityResponse{Available: false, Reason: dto.ReasonDatesUnavailable}, nil
	}

	return dto.AvailabilityResponse{Available: true, Reason: dto.ReasonDatesAvailable}, nil
}

func (s *serviceImpl) HasActiveBookings(ctx context.Context, roomID string) (active bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HasActiveBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	active, err = s.bookingRepo.Exist(ctx, bookingRepo.ActiveFilter(roomID))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to check active bookings")

		return false, fmt.Errorf("failed to check active bookings: %w", err)
	}

	return active, nil
}

func (s *serviceImpl) ActiveBookings(ctx context.Context, roomID string) (bookings []bookingModel.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ActiveBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{SortBy: bookingModel.FieldCheckInDate, SortDir: gDto.SortDirAsc}

	bookings, err = s.bookingRepo.GetAll(ctx, params, bookingRepo.ActiveFilter(roomID))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to list active bookings")

		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}

	return bookings, nil
}
