package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stays/infras/otel"
	"stays/infras/postgres"
	bookingModel "stays/internal/domains/booking/model"
	"stays/internal/domains/report/model"
	roomModel "stays/internal/domains/room/model"
	userModel "stays/internal/domains/user/model"
	"stays/shared/constant"
	"stays/shared/logger"
	"strings"
	"time"
)

// Report runs read-only aggregate queries across bookings, rooms and users.
type Report interface {
	StatusCounts(ctx context.Context) ([]model.StatusCount, error)
	ConfirmedRevenue(ctx context.Context) (int64, error)
	Inventory(ctx context.Context) (model.Inventory, error)
	GuestCount(ctx context.Context) (int, error)
	RecentBookings(ctx context.Context, limit int) ([]model.RecentBooking, error)
	RevenueRows(ctx context.Context, start, end *time.Time) ([]model.RevenueRow, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) StatusCounts(ctx context.Context) (res []model.StatusCount, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.StatusCounts")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT %[1]s AS status, COUNT(*) AS count FROM %[2]s GROUP BY %[1]s",
		bookingModel.FieldStatus, bookingModel.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, &res, query); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) ConfirmedRevenue(ctx context.Context) (res int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.ConfirmedRevenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = $1",
		bookingModel.FieldFinalAmount, bookingModel.TableName, bookingModel.FieldStatus)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.GetContext(ctx, &res, query, bookingModel.StatusConfirmed); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum confirmed revenue: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) Inventory(ctx context.Context) (res model.Inventory, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.Inventory")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE %s) AS available FROM %s",
		roomModel.FieldIsAvailable, roomModel.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.GetContext(ctx, &res, query); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) GuestCount(ctx context.Context) (res int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.GuestCount")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", userModel.TableName, userModel.FieldLevel)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.GetContext(ctx, &res, query, constant.RoleUser); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count guests: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) RecentBookings(ctx context.Context, limit int) (res []model.RecentBooking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.RecentBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT b.id, b.booking_code, r.name AS room_name, b.guest_name, b.status, b.final_amount,
		b.check_in_date, b.check_out_date, b.created_at
		FROM %s b LEFT JOIN %s r ON r.id = b.room_id
		ORDER BY b.created_at DESC LIMIT $1`, bookingModel.TableName, roomModel.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, &res, query, limit); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	return res, nil
}

// RevenueRows returns confirmed bookings created within [start, end]; a nil bound is open.
func (r *repositoryImpl) RevenueRows(ctx context.Context, start, end *time.Time) (res []model.RevenueRow, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.RevenueRows")
	defer scope.End()
	defer scope.TraceIfError(err)

	conditions := []string{"b.status = :status"}
	args := map[string]any{"status": bookingModel.StatusConfirmed}

	if start != nil {
		conditions = append(conditions, "b.created_at >= :start_date")
		args["start_date"] = *start
	}

	if end != nil {
		conditions = append(conditions, "b.created_at <= :end_date")
		args["end_date"] = *end
	}

	query := fmt.Sprintf(`SELECT b.id, r.room_type, b.booking_type, b.final_amount, b.created_at
		FROM %s b LEFT JOIN %s r ON r.id = b.room_id
		WHERE %s ORDER BY b.created_at`, bookingModel.TableName, roomModel.TableName, strings.Join(conditions, " AND "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := r.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to prepare revenue query: %w", err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &res, args); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get revenue rows: %w", err)
	}

	return res, nil
}
