package room

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"stays/infras/otel"
	availabilityDto "stays/internal/domains/availability/model/dto"
	availability "stays/internal/domains/availability/service"
	"stays/internal/domains/room/model"
	"stays/internal/domains/room/model/dto"
	"stays/internal/domains/room/service"
	"stays/shared"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	"stays/shared/failure"
	"stays/shared/validator"
	"stays/transport/http/response"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formName          = "name"
	formDescription   = "description"
	formRoomType      = "room_type"
	formPricePerDay   = "price_per_day"
	formPricePerWeek  = "price_per_week"
	formPricePerMonth = "price_per_month"
	formCapacity      = "capacity"
	formAmenities     = "amenities"
	formIsAvailable   = "is_available"
	formImageURLs     = "image_urls"
)

type Handler struct {
	service      service.Room
	availability availability.Availability
	otel         otel.Otel
}

func New(service service.Room, availability availability.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRoom)
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Post("/availability", handler.CheckAvailability)
		routerGroup.Get("/{id}", handler.GetRoomByID)
		routerGroup.Patch("/{id}", handler.UpdateRoom)
		routerGroup.Delete("/{id}", handler.DeleteRoom)
	})
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get(constant.RequestHeaderContentType), constant.ContentTypeMultipartFormData)
}

func uploads(form *multipart.Form) []dto.Upload {
	if form == nil {
		return nil
	}

	res := []dto.Upload{}

	for _, header := range form.File[constant.FormImages] {
		file, err := header.Open()
		if err != nil {
			log.Error().Err(err).Str("filename", header.Filename).Msg("failed to open uploaded image")

			continue
		}

		res = append(res, dto.Upload{Header: header, File: file})
	}

	return res
}

func closeUploads(files []dto.Upload) {
	for _, upload := range files {
		if err := upload.File.Close(); err != nil {
			log.Warn().Err(err).Str("filename", upload.Header.Filename).Msg("failed to close uploaded image")
		}
	}
}

func formInt64(r *http.Request, key string) (*int64, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return nil, nil
	}

	value, err := shared.ConvertStringToInt64(raw)
	if err != nil {
		return nil, failure.BadRequestFromString(fmt.Sprintf("%s must be a whole number", key)) // nolint:wrapcheck
	}

	return &value, nil
}

func formInt(r *http.Request, key string) (*int, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return nil, nil
	}

	value, err := shared.ConvertStringToInt(raw)
	if err != nil {
		return nil, failure.BadRequestFromString(fmt.Sprintf("%s must be a whole number", key)) // nolint:wrapcheck
	}

	return &value, nil
}

type formPrices struct {
	day, week, month *int64
	capacity         *int
}

func readPrices(r *http.Request) (res formPrices, err error) {
	if res.day, err = formInt64(r, formPricePerDay); err != nil {
		return res, err
	}

	if res.week, err = formInt64(r, formPricePerWeek); err != nil {
		return res, err
	}

	if res.month, err = formInt64(r, formPricePerMonth); err != nil {
		return res, err
	}

	res.capacity, err = formInt(r, formCapacity)

	return res, err
}

func createFromForm(r *http.Request) (dto.CreateRoomRequest, error) {
	req := dto.CreateRoomRequest{
		Name:        r.FormValue(formName),
		Description: r.FormValue(formDescription),
		RoomType:    r.FormValue(formRoomType),
		Amenities:   shared.SplitCSV(r.FormValue(formAmenities)),
		Images:      shared.SplitCSV(r.FormValue(formImageURLs)),
		IsAvailable: shared.ConvertStringToBool(r.FormValue(formIsAvailable)),
		Uploads:     uploads(r.MultipartForm),
	}

	prices, err := readPrices(r)
	if err != nil {
		return req, err
	}

	if prices.day != nil {
		req.PricePerDay = *prices.day
	}

	if prices.week != nil {
		req.PricePerWeek = *prices.week
	}

	if prices.month != nil {
		req.PricePerMonth = *prices.month
	}

	if prices.capacity != nil {
		req.Capacity = *prices.capacity
	}

	return req, nil
}

func updateFromForm(r *http.Request) (dto.UpdateRoomRequest, error) {
	req := dto.UpdateRoomRequest{
		Name:        r.FormValue(formName),
		Description: r.FormValue(formDescription),
		RoomType:    r.FormValue(formRoomType),
		IsAvailable: shared.ConvertStringToBool(r.FormValue(formIsAvailable)),
		Uploads:     uploads(r.MultipartForm),
	}

	if amenities := shared.SplitCSV(r.FormValue(formAmenities)); len(amenities) > 0 {
		req.Amenities = amenities
	}

	if images := shared.SplitCSV(r.FormValue(formImageURLs)); len(images) > 0 {
		req.Images = images
	}

	prices, err := readPrices(r)
	if err != nil {
		return req, err
	}

	req.PricePerDay = prices.day
	req.PricePerWeek = prices.week
	req.PricePerMonth = prices.month
	req.Capacity = prices.capacity

	return req, nil
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a room from JSON (image URLs or data URLs) or multipart form data (image files under "images").
// @Tags Room
// @Accept json,mpfd
// @Produce json
// @Param request body dto.CreateRoomRequest false "Create Room Request (JSON)"
// @Param name formData string false "Room name"
// @Param room_type formData string false "standard, deluxe, suite or family"
// @Param price_per_day formData integer false "Daily rate in minor units"
// @Param price_per_week formData integer false "Weekly rate in minor units"
// @Param price_per_month formData integer false "Monthly rate in minor units"
// @Param capacity formData integer false "Guest capacity"
// @Param amenities formData string false "Comma separated amenities"
// @Param images formData file false "Room images"
// @Success 201 {object} response.Data[dto.RoomResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	req := dto.CreateRoomRequest{}

	if isMultipart(request) {
		if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to parse multipart form")
			response.WithError(writer, failure.BadRequest(err))

			return
		}

		var err error
		req, err = createFromForm(request)
		defer closeUploads(req.Uploads)

		if err != nil {
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		if err = validator.ValidateStruct(&req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request")
			response.WithError(writer, err)

			return
		}
	} else if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Room created successfully")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetRooms retrieves rooms based on query parameters.
// @Summary Get all rooms
// @Description Retrieve rooms with optional filtering and pagination.
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param room_type query string false "Filter by room type"
// @Param is_available query boolean false "Filter by availability flag"
// @Param capacity query integer false "Minimum capacity"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := query.Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if roomType := query.Get(model.FieldRoomType); roomType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomType,
			Operator: gDto.FilterOperatorEq,
			Value:    roomType,
			Table:    model.TableName,
		})
	}

	if available := shared.ConvertStringToBool(query.Get(model.FieldIsAvailable)); available != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsAvailable,
			Operator: gDto.FilterOperatorEq,
			Value:    *available,
			Table:    model.TableName,
		})
	}

	if raw := query.Get(model.FieldCapacity); raw != "" {
		capacity, err := shared.ConvertStringToInt(raw)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("capacity must be a whole number"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCapacity,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    capacity,
			Table:    model.TableName,
		})
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom patches an existing room.
// @Summary Update a room by ID
// @Description Partial update from JSON or multipart form data. New images replace the current set.
// @Tags Room
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomRequest false "Update Room Request (JSON)"
// @Param images formData file false "Replacement room images"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateRoomRequest{}

	if isMultipart(r) {
		if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to parse multipart form")
			response.WithError(w, failure.BadRequest(err))

			return
		}

		var err error
		req, err = updateFromForm(r)
		defer closeUploads(req.Uploads)

		if err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}

		if err = validator.ValidateStruct(&req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request")
			response.WithError(w, err)

			return
		}
	} else if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room updated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Description Rooms with draft or confirmed bookings cannot be deleted.
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete room")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room deleted successfully")

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}

// CheckAvailability reports whether a room can be booked for a date range.
// @Summary Check room availability
// @Tags Room
// @Accept json
// @Produce json
// @Param request body availabilityDto.CheckAvailabilityRequest true "Availability Request"
// @Success 200 {object} response.Data[availabilityDto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/availability [post]
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	req := availabilityDto.CheckAvailabilityRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.availability.Check(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
