package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"stays/config"
	"stays/infras/otel"
	bookingModel "stays/internal/domains/booking/model"
	"stays/internal/domains/report/model"
	"stays/internal/domains/report/model/dto"
	"stays/internal/domains/report/repository"
	"stays/shared/constant"
	"stays/shared/failure"
	gModel "stays/shared/model"

	"github.com/rs/zerolog/log"
)

const (
	recentBookingsLimit = 5
	unknownRoomType     = "unknown"
)

type Report interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	Revenue(ctx context.Context, req dto.RevenueRequest) (dto.RevenueResponse, error)
}

type serviceImpl struct {
	repo repository.Report
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Report, cfg *config.Config, otel otel.Otel) Report {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) Dashboard(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !gModel.CallerFromContext(ctx).IsAdmin() {
		return res, failure.ForbiddenError
	}

	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings by status")

		return res, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	res.Bookings = tally(counts)

	if res.Revenue, err = s.repo.ConfirmedRevenue(ctx); err != nil {
		log.Error().Err(err).Msg("failed to sum confirmed revenue")

		return res, fmt.Errorf("failed to sum confirmed revenue: %w", err)
	}

	inventory, err := s.repo.Inventory(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	res.Rooms = dto.RoomCounts{Total: inventory.Total, Available: inventory.Available}

	if res.Guests, err = s.repo.GuestCount(ctx); err != nil {
		log.Error().Err(err).Msg("failed to count guests")

		return res, fmt.Errorf("failed to count guests: %w", err)
	}

	recent, err := s.repo.RecentBookings(ctx, recentBookingsLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get recent bookings")

		return res, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	res.RecentBookings = make([]dto.RecentBooking, len(recent))
	for i, booking := range recent {
		res.RecentBookings[i].FromModel(booking)
	}

	return res, nil
}

func (s *serviceImpl) Revenue(ctx context.Context, req dto.RevenueRequest) (res dto.RevenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Revenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !gModel.CallerFromContext(ctx).IsAdmin() {
		return res, failure.ForbiddenError
	}

	start, end, err := req.Range()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if start != nil && end != nil && end.Before(*start) {
		return res, failure.BadRequestFromString("end_date must not be before start_date") // nolint:wrapcheck
	}

	rows, err := s.repo.RevenueRows(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to get revenue rows")

		return res, fmt.Errorf("failed to get revenue rows: %w", err)
	}

	res = Summarize(rows)
	res.StartDate = start
	res.EndDate = end

	return res, nil
}

func tally(counts []model.StatusCount) (res dto.BookingCounts) {
	for _, c := range counts {
		res.Total += c.Count

		switch bookingModel.Status(c.Status) {
		case bookingModel.StatusDraft:
			res.Draft = c.Count
		case bookingModel.StatusConfirmed:
			res.Confirmed = c.Count
		case bookingModel.StatusCancelled:
			res.Cancelled = c.Count
		case bookingModel.StatusCompleted:
			res.Completed = c.Count
		}
	}

	return res
}

// Summarize totals revenue rows and breaks them down by room type and booking type.
// Breakdowns are ordered by revenue, highest first, then by key.
func Summarize(rows []model.RevenueRow) dto.RevenueResponse {
	var res dto.RevenueResponse

	byRoom := map[string]*dto.Breakdown{}
	byType := map[string]*dto.Breakdown{}

	for _, row := range rows {
		res.TotalRevenue += row.FinalAmount
		res.BookingCount++

		roomType := unknownRoomType
		if row.RoomType != nil {
			roomType = *row.RoomType
		}

		add(byRoom, roomType, row.FinalAmount)
		add(byType, row.BookingType, row.FinalAmount)
	}

	res.ByRoomType = flatten(byRoom)
	res.ByBookingType = flatten(byType)

	return res
}

func add(into map[string]*dto.Breakdown, key string, amount int64) {
	b, ok := into[key]
	if !ok {
		b = &dto.Breakdown{Key: key}
		into[key] = b
	}

	b.Bookings++
	b.Revenue += amount
}

func flatten(from map[string]*dto.Breakdown) []dto.Breakdown {
	res := make([]dto.Breakdown, 0, len(from))
	for _, b := range from {
		res = append(res, *b)
	}

	slices.SortFunc(res, func(a, b dto.Breakdown) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}

		return cmp.Compare(a.Key, b.Key)
	})

	return res
}
