package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stays/infras/otel/mocks"
	"stays/internal/domains/availability/model/dto"
	"stays/internal/domains/availability/service"
	bookingMocks "stays/internal/domains/booking/mocks"
	bookingModel "stays/internal/domains/booking/model"
	roomMocks "stays/internal/domains/room/mocks"
	roomModel "stays/internal/domains/room/model"
	"stays/shared/failure"
)

const roomID = "room-1"

func newService(t *testing.T) (*roomMocks.MockRoom, *bookingMocks.MockBooking, service.Availability) {
	t.Helper()

	ctrl := gomock.NewController(t)
	rooms := roomMocks.NewMockRoom(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)

	return rooms, bookings, service.New(bookings, rooms, mocks.NewOtel())
}

func TestAvailabilityService_Check(t *testing.T) {
	errDB := errors.New("connection refused")

	tests := []struct {
		name      string
		req       dto.CheckAvailabilityRequest
		setupMock func(rooms *roomMocks.MockRoom, bookings *bookingMocks.MockBooking)
		want      dto.AvailabilityResponse
		wantKind  failure.Kind
		wantErr   error
	}{
		{
			name: "free dates",
			req:  dto.CheckAvailabilityRequest{RoomID: roomID, CheckInDate: "2026-05-01", CheckOutDate: "2026-05-04"},
			setupMock: func(rooms *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID, IsAvailable: true}, nil)
				bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			want: dto.AvailabilityResponse{Available: true, Reason: dto.ReasonDatesAvailable},
		},
		{
			name: "overlapping booking",
			req:  dto.CheckAvailabilityRequest{RoomID: roomID, CheckInDate: "2026-05-01", CheckOutDate: "2026-05-04"},
			setupMock: func(rooms *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID, IsAvailable: true}, nil)
				bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			want: dto.AvailabilityResponse{Available: false, Reason: dto.ReasonDatesUnavailable},
		},
		{
			name: "room switched off",
			req:  dto.CheckAvailabilityRequest{RoomID: roomID, CheckInDate: "2026-05-01", CheckOutDate: "2026-05-04"},
			setupMock: func(rooms *roomMocks.MockRoom, _ *bookingMocks.MockBooking) {
				rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID}, nil)
			},
			want: dto.AvailabilityResponse{Available: false, Reason: dto.ReasonRoomUnavailable},
		},
		{
			name: "room missing",
			req:  dto.CheckAvailabilityRequest{RoomID: roomID, CheckInDate: "2026-05-01", CheckOutDate: "2026-05-04"},
			setupMock: func(rooms *roomMocks.MockRoom, _ *bookingMocks.MockBooking) {
				rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:      "check-out before check-in",
			req:       dto.CheckAvailabilityRequest{RoomID: roomID, CheckInDate: "2026-05-04", CheckOutDate: "2026-05-01"},
			setupMock: func(*roomMocks.MockRoom, *bookingMocks.MockBooking) {},
			wantKind:  failure.KindInvalidInput,
		},
		{
			name:      "unparseable date",
			req:       dto.CheckAvailabilityRequest{RoomID: roomID, CheckInDate: "tomorrow", CheckOutDate: "2026-05-01"},
			setupMock: func(*roomMocks.MockRoom, *bookingMocks.MockBooking) {},
			wantKind:  failure.KindInvalidInput,
		},
		{
			name: "storage error",
			req:  dto.CheckAvailabilityRequest{RoomID: roomID, CheckInDate: "2026-05-01", CheckOutDate: "2026-05-04"},
			setupMock: func(rooms *roomMocks.MockRoom, bookings *bookingMocks.MockBooking) {
				rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID, IsAvailable: true}, nil)
				bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errDB)
			},
			wantErr: errDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, bookings, svc := newService(t)
			tt.setupMock(rooms, bookings)

			res, err := svc.Check(context.Background(), tt.req)

			switch {
			case tt.wantKind != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, res)
			}
		})
	}
}

func TestAvailabilityService_IsRoomAvailable(t *testing.T) {
	checkIn := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)

	t.Run("missing room is never available", func(t *testing.T) {
		rooms, _, svc := newService(t)
		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		ok, err := svc.IsRoomAvailable(context.Background(), roomID, checkIn, checkOut)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("conflict makes room unavailable", func(t *testing.T) {
		rooms, bookings, svc := newService(t)
		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID, IsAvailable: true}, nil)
		bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		ok, err := svc.IsRoomAvailable(context.Background(), roomID, checkIn, checkOut)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("free room", func(t *testing.T) {
		rooms, bookings, svc := newService(t)
		rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomID, IsAvailable: true}, nil)
		bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		ok, err := svc.IsRoomAvailable(context.Background(), roomID, checkIn, checkOut)

		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestAvailabilityService_ActiveBookings(t *testing.T) {
	_, bookings, svc := newService(t)

	active := []bookingModel.Booking{{ID: "b-1", RoomID: roomID, Status: bookingModel.StatusDraft}}
	bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(active, nil)

	has, err := svc.HasActiveBookings(context.Background(), roomID)
	require.NoError(t, err)
	assert.True(t, has)

	list, err := svc.ActiveBookings(context.Background(), roomID)
	require.NoError(t, err)
	assert.Equal(t, active, list)
}
