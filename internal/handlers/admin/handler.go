package admin

import (
	"net/http"
	"stays/infras/otel"
	bookingService "stays/internal/domains/booking/service"
	"stays/internal/domains/report/model/dto"
	reportService "stays/internal/domains/report/service"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	"stays/shared/validator"
	"stays/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryStartDate = "start_date"
	queryEndDate   = "end_date"
)

type Handler struct {
	report  reportService.Report
	booking bookingService.Booking
	otel    otel.Otel
}

func New(report reportService.Report, booking bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		report:  report,
		booking: booking,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin", func(routerGroup chi.Router) {
		routerGroup.Get("/dashboard", handler.Dashboard)
		routerGroup.Get("/revenue", handler.Revenue)
		routerGroup.Get("/bookings/pending", handler.PendingBookings)
	})
}

// Dashboard returns headline counts for the back office.
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[dto.DashboardResponse]
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/dashboard [get]
// @Security BearerAuth
func (handler *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dashboard")
	defer scope.End()

	res, err := handler.report.Dashboard(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build dashboard")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Revenue reports confirmed revenue created within an optional date range.
// @Summary Revenue report
// @Tags Admin
// @Produce json
// @Param start_date query string false "First day, YYYY-MM-DD"
// @Param end_date query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.RevenueResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/admin/revenue [get]
// @Security BearerAuth
func (handler *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Revenue")
	defer scope.End()

	req := dto.RevenueRequest{
		StartDate: r.URL.Query().Get(queryStartDate),
		EndDate:   r.URL.Query().Get(queryEndDate),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.report.Revenue(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build revenue report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// PendingBookings lists draft bookings, oldest first unless sorted otherwise.
// @Summary Pending bookings
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} map[string]any "Paginated bookings"
// @Failure 403 {object} response.Error
// @Router /v1/admin/bookings/pending [get]
// @Security BearerAuth
func (handler *Handler) PendingBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PendingBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.booking.Pending(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pending bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
