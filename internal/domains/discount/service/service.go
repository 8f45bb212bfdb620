// Package service tracks which guests have earned the returning-guest discount.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stays/infras/otel"
	"stays/internal/domains/user/model"
	"stays/internal/domains/user/repository"
	"stays/shared"
	"stays/shared/cache"
	"stays/shared/constant"

	"github.com/rs/zerolog/log"
)

// cached user responses carry the eligibility flag
const cacheGetUser = "user:get"

type Eligibility interface {
	IsEligible(ctx context.Context, guestID string) (bool, error)
	MarkEligible(ctx context.Context, guestID string) error
}

type serviceImpl struct {
	repo  repository.User
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cache cache.RedisCache, otel otel.Otel) Eligibility {
	return &serviceImpl{
		repo:  repo,
		cache: cache,
		otel:  otel,
	}
}

// IsEligible is false for unknown guests.
func (s *serviceImpl) IsEligible(ctx context.Context, guestID string) (eligible bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsEligible")
	defer scope.End()
	defer scope.TraceIfError(err)

	if guestID == constant.Empty {
		return false, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(guestID, model.FieldID, model.TableName), model.FieldID, model.FieldDiscountEligible)
	if err != nil {
		log.Error().Err(err).Str("guest_id", guestID).Msg("failed to read discount eligibility")

		return false, fmt.Errorf("failed to read discount eligibility: %w", err)
	}

	return user.ID != constant.Empty && user.DiscountEligible, nil
}

// MarkEligible is idempotent: an already eligible guest is left untouched.
func (s *serviceImpl) MarkEligible(ctx context.Context, guestID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkEligible")
	defer scope.End()
	defer scope.TraceIfError(err)

	eligible, err := s.IsEligible(ctx, guestID)
	if err != nil {
		return err
	}

	if eligible || guestID == constant.Empty {
		return nil
	}

	changed, err := s.repo.MarkDiscountEligible(ctx, guestID)
	if err != nil {
		log.Error().Err(err).Str("guest_id", guestID).Msg("failed to mark guest eligible")

		return fmt.Errorf("failed to mark guest eligible: %w", err)
	}

	if !changed {
		return nil
	}

	log.Info().Str("guest_id", guestID).Msg("guest is now eligible for the returning-guest discount")

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, guestID)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}
	}()

	return nil
}
