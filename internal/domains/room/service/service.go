package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"

	"stays/config"
	"stays/infras/otel"
	"stays/infras/s3"
	availability "stays/internal/domains/availability/service"
	"stays/internal/domains/room/model"
	"stays/internal/domains/room/model/dto"
	"stays/internal/domains/room/repository"
	"stays/shared"
	"stays/shared/base64"
	"stays/shared/cache"
	"stays/shared/constant"
	gDto "stays/shared/dto"
	"stays/shared/failure"
	"stays/shared/locker"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Room
	availability availability.Availability
	locker       locker.Locker
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	s3           s3.S3
}

func New(repo repository.Room, availability availability.Availability, locker locker.Locker, cfg *config.Config,
	cache cache.RedisCache, otel otel.Otel, s3 s3.S3,
) Room {
	return &serviceImpl{
		repo:         repo,
		availability: availability,
		locker:       locker,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		s3:           s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.HasImages() {
		return res, failure.BadRequestFromString("at least one image is required") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	images, uploaded, err := s.storeImages(ctx, req.Images, req.Uploads)
	if err != nil {
		return res, err
	}

	room := req.ToModel(user, images)

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")
		s.removeObjects(ctx, uploaded)

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	var uploaded []string

	if req.ReplacesImages() {
		var images []string

		images, uploaded, err = s.storeImages(ctx, req.Images, req.Uploads)
		if err != nil {
			return res, err
		}

		updatedFields[model.FieldImages] = pq.StringArray(images)
	}

	if len(req.Amenities) > 0 {
		updatedFields[model.FieldAmenities] = pq.StringArray(req.Amenities)
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")
		s.removeObjects(ctx, uploaded)

		return res, fmt.Errorf("failed to update room: %w", err)
	}

	updated, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if req.ReplacesImages() {
		s.removeImages(ctx, current.Images, updated.Images)
	}

	s.invalidate(ctx, id)

	res.FromModel(updated)

	return res, nil
}

// Delete removes a room that holds no draft or confirmed booking. The check and the delete hold
// the same room lock as booking admission.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	release, err := s.locker.Acquire(ctx, locker.RoomKey(room.ID))
	if err != nil {
		if errors.Is(err, locker.ErrNotAcquired) {
			return failure.Conflict("room is being booked, try again") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to lock room")

		return fmt.Errorf("failed to lock room: %w", err)
	}
	defer release()

	active, err := s.availability.HasActiveBookings(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check active bookings: %w", err)
	}

	if active {
		return failure.Conflict("cannot delete room with active bookings") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.removeImages(ctx, room.Images, nil)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}

// storeImages keeps plain URLs, uploads data URLs and multipart files to S3, and returns the
// final URL list plus the object names it created.
func (s *serviceImpl) storeImages(ctx context.Context, refs []string, uploads []dto.Upload) (urls, objects []string, err error) {
	bucketName := s.cfg.External.S3.BucketName

	defer func() {
		if err != nil {
			s.removeObjects(ctx, objects)
		}
	}()

	for _, ref := range refs {
		if !base64.IsDataURL(ref) {
			urls = append(urls, ref)

			continue
		}

		contentType, data, decodeErr := base64.Decode(ref)
		if decodeErr != nil {
			return nil, objects, failure.BadRequest(decodeErr) // nolint:wrapcheck
		}

		fileName := uuid.NewString() + extensionFor(contentType)

		url, uploadErr := s.s3.UploadFileBytes(ctx, bucketName, model.EntityName, fileName, contentType, data)
		if uploadErr != nil {
			log.Error().Err(uploadErr).Msg("failed to upload image to S3")

			return nil, objects, fmt.Errorf("failed to upload image: %w", uploadErr)
		}

		urls = append(urls, url)
		objects = append(objects, fileName)
	}

	for _, upload := range uploads {
		fileName := uuid.NewString() + path.Ext(upload.Header.Filename)

		url, uploadErr := s.s3.UploadFile(ctx, bucketName, model.EntityName, upload.File, upload.Header, fileName)
		if uploadErr != nil {
			log.Error().Err(uploadErr).Msg("failed to upload image to S3")

			return nil, objects, fmt.Errorf("failed to upload image: %w", uploadErr)
		}

		urls = append(urls, url)
		objects = append(objects, fileName)
	}

	return urls, objects, nil
}

// removeImages deletes the S3 objects behind old URLs that are no longer referenced by keep.
func (s *serviceImpl) removeImages(ctx context.Context, old, keep []string) {
	bucketName := s.cfg.External.S3.BucketName
	kept := make(map[string]struct{}, len(keep))

	for _, url := range keep {
		kept[url] = struct{}{}
	}

	objects := []string{}

	for _, url := range old {
		if _, ok := kept[url]; ok {
			continue
		}

		if name := s.s3.GetObjectNameFromURL(bucketName, url); name != constant.Empty {
			objects = append(objects, path.Base(name))
		}
	}

	s.removeObjects(ctx, objects)
}

func (s *serviceImpl) removeObjects(ctx context.Context, objects []string) {
	bucketName := s.cfg.External.S3.BucketName

	for _, name := range objects {
		if err := s.s3.DeleteFile(ctx, bucketName, model.EntityName, name); err != nil {
			log.Warn().Err(err).Str("object", name).Msg("failed to remove room image")
		}
	}
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return constant.Empty
	}

	return exts[0]
}
