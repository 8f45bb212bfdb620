package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stays/infras/otel/mocks"
	"stays/internal/domains/discount/service"
	userMocks "stays/internal/domains/user/mocks"
	"stays/internal/domains/user/model"
	cacheMocks "stays/shared/cache/mocks"
	gDto "stays/shared/dto"
)

func TestEligibility_IsEligible(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	svc := service.New(mockRepo, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	tests := []struct {
		name      string
		guestID   string
		setupMock func()
		want      bool
		wantErr   bool
	}{
		{
			name:      "anonymous guest",
			guestID:   "",
			setupMock: func() {},
			want:      false,
		},
		{
			name:    "unknown guest",
			guestID: "ghost",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldDiscountEligible).
					Return(model.User{}, nil)
			},
			want: false,
		},
		{
			name:    "eligible guest",
			guestID: "guest-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldDiscountEligible).
					Return(model.User{ID: "guest-1", DiscountEligible: true}, nil)
			},
			want: true,
		},
		{
			name:    "repository error",
			guestID: "guest-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.User{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			got, err := svc.IsEligible(context.Background(), tt.guestID)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEligibility_MarkEligibleIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Delete(gomock.Any(), "user:get:guest-1").Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockCache, mocks.NewOtel())
	eligible := false

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, gDto.FilterGroup, ...string) (model.User, error) {
			return model.User{ID: "guest-1", DiscountEligible: eligible}, nil
		}).
		Times(3)

	mockRepo.EXPECT().
		MarkDiscountEligible(gomock.Any(), "guest-1").
		DoAndReturn(func(context.Context, string) (bool, error) {
			eligible = true

			return true, nil
		}).
		Times(1)

	require.NoError(t, svc.MarkEligible(context.Background(), "guest-1"))
	require.NoError(t, svc.MarkEligible(context.Background(), "guest-1"))

	got, err := svc.IsEligible(context.Background(), "guest-1")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEligibility_MarkEligibleLostRace(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	svc := service.New(mockRepo, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.User{ID: "guest-1"}, nil)
	mockRepo.EXPECT().MarkDiscountEligible(gomock.Any(), "guest-1").Return(false, nil)

	assert.NoError(t, svc.MarkEligible(context.Background(), "guest-1"))
}

func TestEligibility_MarkEligibleError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	svc := service.New(mockRepo, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(model.User{ID: "guest-1"}, nil)
	mockRepo.EXPECT().MarkDiscountEligible(gomock.Any(), "guest-1").Return(false, errors.New("database error"))

	assert.Error(t, svc.MarkEligible(context.Background(), "guest-1"))
}
