package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stays/infras/otel"
	"stays/infras/postgres"
	"stays/internal/domains/room/model"
	"stays/shared"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	gRepo "stays/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetByIDs loads the rooms referenced by a page of bookings, keyed by id.
func (r *repositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetByIDs")
	defer scope.End()

	res := make(map[string]model.Room, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	rooms, err := r.GetAll(ctx, gDto.QueryParams{}, shared.FilterByIDs(ids, model.FieldID, model.TableName))
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get rooms by ids: %w", err)
	}

	for _, room := range rooms {
		res[room.ID] = room
	}

	return res, nil
}
