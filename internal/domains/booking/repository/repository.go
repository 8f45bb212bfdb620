package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"stays/infras/otel"
	"stays/infras/postgres"
	"stays/internal/domains/booking/model"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	gRepo "stays/shared/repository"
	"stays/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	argCheckIn        = "overlap_check_in"
	argCheckOut       = "overlap_check_out"
	argActiveStatus   = "active_status"
	argExpectedStatus = "expected_status"

	constraintBookingCode = "bookings_booking_code_key"
)

var (
	// ErrOverlap means another draft or confirmed booking holds some of the requested dates.
	ErrOverlap = errors.New("booking dates overlap an active booking")
	// ErrDuplicateCode means the generated booking code is already taken.
	ErrDuplicateCode = errors.New("booking code already exists")
	// ErrUnknownGuest means the booking references a user that does not exist.
	ErrUnknownGuest = errors.New("guest account does not exist")
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	InsertIfNoConflict(ctx context.Context, booking model.Booking) error
	UpdateStatus(ctx context.Context, id string, from, to model.Status, user string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveFilter matches the draft and confirmed bookings of a room.
func ActiveFilter(roomID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.ActiveStatuses(),
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
				ArgName:  argActiveStatus,
			},
		},
	}
}

// OverlapFilter matches active bookings of roomID whose stay touches [checkIn, checkOut],
// boundaries included.
func OverlapFilter(roomID string, checkIn, checkOut time.Time) gDto.FilterGroup {
	filter := ActiveFilter(roomID)
	filter.Filters = append(filter.Filters,
		gDto.Filter{
			Field:    model.FieldCheckInDate,
			Value:    checkOut,
			Operator: gDto.FilterOperatorLessEq,
			Table:    model.TableName,
			ArgName:  argCheckOut,
		},
		gDto.Filter{
			Field:    model.FieldCheckOutDate,
			Value:    checkIn,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
			ArgName:  argCheckIn,
		},
	)

	return filter
}

// InsertIfNoConflict re-checks the overlap and inserts in one transaction while holding a
// transaction-scoped advisory lock on the room, so concurrent API replicas cannot both pass
// the check. The bookings exclusion constraint backs this up.
func (r *repositoryImpl) InsertIfNoConflict(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertIfNoConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", booking.RoomID); err != nil {
			return fmt.Errorf("failed to lock room %s: %w", booking.RoomID, err)
		}

		overlap, err := r.ExistTx(ctx, tx, OverlapFilter(booking.RoomID, booking.CheckInDate, booking.CheckOutDate))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if overlap {
			return ErrOverlap
		}

		return r.InsertTx(ctx, tx, booking) //nolint:wrapcheck
	})

	return mapConstraintError(err)
}

// UpdateStatus moves booking id from one status to another only if it is still in from.
// It reports false when another request changed the status first.
func (r *repositoryImpl) UpdateStatus(ctx context.Context, id string, from, to model.Status, user string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatus")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq},
			gDto.Filter{Field: model.FieldStatus, Value: from, Operator: gDto.FilterOperatorEq, ArgName: argExpectedStatus},
		},
	}

	affected, err := r.UpdateCount(ctx, map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, filter)
	if err != nil {
		scope.TraceError(err)

		return false, mapConstraintError(err)
	}

	return affected == 1, nil
}

func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeExclusionViolation:
		return fmt.Errorf("%w: %s", ErrOverlap, pqErr.Constraint)
	case constant.PqErrorCodeUniqueViolation:
		if pqErr.Constraint == constraintBookingCode {
			return ErrDuplicateCode
		}
	case constant.PqErrorCodeFkViolation:
		return ErrUnknownGuest
	}

	return err
}
