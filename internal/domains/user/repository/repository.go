package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"stays/infras/otel"
	"stays/infras/postgres"
	"stays/internal/domains/user/model"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	gRepo "stays/shared/repository"
	"stays/shared/timezone"

	"github.com/lib/pq"
)

// ErrHasBookings means bookings still reference the user, so the row cannot be removed.
var ErrHasBookings = errors.New("user is referenced by bookings")

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	MarkDiscountEligible(ctx context.Context, id string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Delete removes the matching users. Accounts that own bookings are kept and reported as ErrHasBookings.
func (r *repositoryImpl) Delete(ctx context.Context, filter gDto.FilterGroup) error {
	err := r.Repository.Delete(ctx, filter)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeFkViolation {
		return ErrHasBookings
	}

	return err //nolint:wrapcheck
}

// MarkDiscountEligible sets discount_eligible on a user that does not have it yet.
// It reports whether a row changed.
func (r *repositoryImpl) MarkDiscountEligible(ctx context.Context, id string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.MarkDiscountEligible")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq},
			gDto.Filter{Field: model.FieldDiscountEligible, Value: false, Operator: gDto.FilterOperatorEq, ArgName: "current_eligible"},
		},
	}

	affected, err := r.UpdateCount(ctx, map[string]any{
		model.FieldDiscountEligible: true,
		constant.FieldModifiedAt:    timezone.Now(),
		constant.FieldModifiedBy:    id,
	}, filter)
	if err != nil {
		scope.TraceError(err)

		return false, err //nolint:wrapcheck
	}

	return affected > 0, nil
}
