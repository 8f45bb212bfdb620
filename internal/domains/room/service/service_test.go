package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stays/config"
	"stays/infras/otel/mocks"
	s3Mocks "stays/infras/s3/mocks"
	availability "stays/internal/domains/availability/service"
	bookingMocks "stays/internal/domains/booking/mocks"
	bookingModel "stays/internal/domains/booking/model"
	roomMocks "stays/internal/domains/room/mocks"
	"stays/internal/domains/room/model"
	"stays/internal/domains/room/model/dto"
	"stays/internal/domains/room/service"
	cacheMocks "stays/shared/cache/mocks"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	"stays/shared/failure"
	"stays/shared/locker"
)

const (
	testBucket  = "rooms-bucket"
	pngDataURL  = "data:image/png;base64,iVBORw0KGgo="
	uploadedURL = "https://cdn.example.com/room/a.png"
	existingURL = "https://images.example.com/lobby.jpg"
)

type fixture struct {
	repo     *roomMocks.MockRoom
	bookings *bookingMocks.MockBooking
	cache    *cacheMocks.MockRedisCache
	s3       *s3Mocks.MockS3
	lock     locker.Locker
	svc      service.Room
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     roomMocks.NewMockRoom(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
		lock:     locker.NewLocal(20 * time.Millisecond),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = testBucket

	otl := mocks.NewOtel()
	avail := availability.New(f.bookings, f.repo, otl)
	f.svc = service.New(f.repo, avail, f.lock, cfg, f.cache, otl, f.s3)

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
}

func createRequest(images ...string) dto.CreateRoomRequest {
	return dto.CreateRoomRequest{
		Name:          "Garden Suite",
		RoomType:      string(model.RoomTypeSuite),
		PricePerDay:   3500,
		PricePerWeek:  21000,
		PricePerMonth: 80000,
		Capacity:      2,
		Images:        images,
		Amenities:     []string{"wifi", "balcony"},
	}
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.CreateRoomRequest
		setupMock  func(f fixture)
		wantKind   failure.Kind
		wantErr    bool
		wantImages []string
	}{
		{
			name: "uploads data url images and keeps plain urls",
			req:  createRequest(existingURL, pngDataURL),
			setupMock: func(f fixture) {
				f.s3.EXPECT().
					UploadFileBytes(gomock.Any(), testBucket, model.EntityName, gomock.Any(), "image/png", gomock.Any()).
					Return(uploadedURL, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "admin-id", room.CreatedBy)
						assert.True(t, room.IsAvailable)

						return nil
					})
			},
			wantImages: []string{existingURL, uploadedURL},
		},
		{
			name:      "requires at least one image",
			req:       createRequest(),
			setupMock: func(fixture) {},
			wantErr:   true,
			wantKind:  failure.KindInvalidInput,
		},
		{
			name: "upload failure stops the insert",
			req:  createRequest(pngDataURL),
			setupMock: func(f fixture) {
				f.s3.EXPECT().
					UploadFileBytes(gomock.Any(), testBucket, model.EntityName, gomock.Any(), "image/png", gomock.Any()).
					Return("", errors.New("s3 down"))
			},
			wantErr: true,
		},
		{
			name: "repository error removes uploaded objects",
			req:  createRequest(pngDataURL),
			setupMock: func(f fixture) {
				f.s3.EXPECT().
					UploadFileBytes(gomock.Any(), testBucket, model.EntityName, gomock.Any(), "image/png", gomock.Any()).
					Return(uploadedURL, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
				f.s3.EXPECT().
					DeleteFile(gomock.Any(), testBucket, model.EntityName, gomock.Any()).
					Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(adminCtx(), tt.req)

			if tt.wantErr {
				require.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, tt.wantImages, res.Images)
			assert.Equal(t, int64(3500), res.PricePerDay)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	t.Run("cache hit skips the repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), "room:get:room-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*dto.RoomResponse) = dto.RoomResponse{ID: "room-1", Name: "Cached"}

				return nil
			})

		res, err := f.svc.Get(context.Background(), "room-1")
		require.NoError(t, err)
		assert.Equal(t, "Cached", res.Name)
	})

	t.Run("missing room", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := f.svc.Get(context.Background(), "room-1")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})

	t.Run("loads from the repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{ID: "room-1", Name: "Garden Suite", Capacity: 2}, nil)

		res, err := f.svc.Get(context.Background(), "room-1")
		require.NoError(t, err)
		assert.Equal(t, "Garden Suite", res.Name)
	})
}

func TestRoomService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Room{{ID: "a"}, {ID: "b"}}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Limit: 2, Page: 1}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, res.Rooms, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestRoomService_Update(t *testing.T) {
	t.Run("empty patch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(adminCtx(), dto.UpdateRoomRequest{}, "room-1")
		assert.True(t, failure.Is(err, failure.KindInvalidInput))
	})

	t.Run("missing room", func(t *testing.T) {
		f := newFixture(t)
		name := "Renamed"

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := f.svc.Update(adminCtx(), dto.UpdateRoomRequest{Name: name}, "room-1")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})

	t.Run("replacing images removes the old objects", func(t *testing.T) {
		f := newFixture(t)
		price := int64(4000)

		current := model.Room{ID: "room-1", Images: []string{uploadedURL}}
		updated := model.Room{ID: "room-1", PricePerDay: price, Images: []string{existingURL}}

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil),
			f.repo.EXPECT().
				Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, price, fields[model.FieldPricePerDay])
					assert.Contains(t, fields, model.FieldImages)
					assert.NotContains(t, fields, model.FieldAmenities)

					return nil
				}),
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil),
		)
		f.s3.EXPECT().GetObjectNameFromURL(testBucket, uploadedURL).Return("room/a.png")
		f.s3.EXPECT().DeleteFile(gomock.Any(), testBucket, model.EntityName, "a.png").Return(nil)

		res, err := f.svc.Update(adminCtx(), dto.UpdateRoomRequest{
			PricePerDay: &price,
			Images:      []string{existingURL},
		}, "room-1")
		require.NoError(t, err)
		assert.Equal(t, price, res.PricePerDay)
		assert.Equal(t, []string{existingURL}, res.Images)
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("missing room", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := f.svc.Delete(adminCtx(), "room-1")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})

	t.Run("blocked by a draft booking until it is cancelled", func(t *testing.T) {
		f := newFixture(t)
		status := bookingModel.StatusDraft
		room := model.Room{ID: "room-1", Images: []string{uploadedURL}}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil).Times(2)
		f.bookings.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.FilterGroup) (bool, error) {
				return status.IsActive(), nil
			}).
			Times(2)

		err := f.svc.Delete(adminCtx(), "room-1")
		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindConflict))
		assert.Equal(t, "cannot delete room with active bookings", err.Error())

		status = bookingModel.StatusCancelled

		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().GetObjectNameFromURL(testBucket, uploadedURL).Return("room/a.png")
		f.s3.EXPECT().DeleteFile(gomock.Any(), testBucket, model.EntityName, "a.png").Return(nil)

		assert.NoError(t, f.svc.Delete(adminCtx(), "room-1"))
	})

	t.Run("waits out an admission holding the room", func(t *testing.T) {
		f := newFixture(t)

		release, err := f.lock.Acquire(context.Background(), locker.RoomKey("room-1"))
		require.NoError(t, err)

		defer release()

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1"}, nil)
		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Times(0)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		err = f.svc.Delete(adminCtx(), "room-1")
		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindConflict))
		assert.Equal(t, "room is being booked, try again", err.Error())
	})

	t.Run("releases the room once deleted", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1"}, nil)
		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Delete(adminCtx(), "room-1"))

		release, err := f.lock.Acquire(context.Background(), locker.RoomKey("room-1"))
		require.NoError(t, err)
		release()
	})

	t.Run("image cleanup failure does not fail the delete", func(t *testing.T) {
		f := newFixture(t)
		room := model.Room{ID: "room-1", Images: []string{uploadedURL}}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.s3.EXPECT().GetObjectNameFromURL(testBucket, uploadedURL).Return("room/a.png")
		f.s3.EXPECT().DeleteFile(gomock.Any(), testBucket, model.EntityName, "a.png").Return(errors.New("s3 down"))

		assert.NoError(t, f.svc.Delete(adminCtx(), "room-1"))
	})
}
