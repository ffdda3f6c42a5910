package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/internal/domains/roomimage/model"
	"hotel/internal/domains/roomimage/model/dto"
	"hotel/internal/domains/roomimage/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"
	"path"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheListRoomImage = "room_image:list"

	msgRoomNotFound  = "room not found"
	msgImageNotFound = "image not found"
	msgPrimaryTaken  = "room already has a primary image"
)

// RoomImage owns the primary flag and the ordering of a room's images.
type RoomImage interface {
	Add(ctx context.Context, req dto.AddImageRequest) (dto.RoomImageResponse, error)
	List(ctx context.Context, roomID string) (dto.RoomImagesResponse, error)
	Update(ctx context.Context, roomID, imageID string, req dto.UpdateImageRequest) (dto.RoomImageResponse, error)
	Delete(ctx context.Context, roomID, imageID string) error
	SetPrimary(ctx context.Context, roomID, imageID string) (dto.RoomImageResponse, error)
	Reorder(ctx context.Context, roomID string, req dto.ReorderRequest) (dto.RoomImagesResponse, error)
}

type serviceImpl struct {
	repo     repository.RoomImage
	roomRepo roomRepo.Room
	tx       gRepo.Transaction
	s3       s3.S3
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.RoomImage,
	roomRepo roomRepo.Room,
	tx gRepo.Transaction,
	s3 s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) RoomImage {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		tx:       tx,
		s3:       s3,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Add uploads the file and records it. The first image of a room always becomes primary.
// The uploaded object is removed again when the row cannot be written.
func (s *serviceImpl) Add(ctx context.Context, req dto.AddImageRequest) (res dto.RoomImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.roomExists(ctx, req.RoomID); err != nil {
		return res, err
	}

	object, err := s.s3.Upload(ctx, path.Join(model.StorageDirectory, req.RoomID), req.ObjectName(), req.ContentType(), req.Content)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return res, failure.StorageError(err) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var image model.RoomImage

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.lockRoom(ctx, tx, req.RoomID); err != nil {
			return err
		}

		existing, err := s.repo.CountTx(ctx, tx, shared.FilterByField(model.FieldRoomID, model.TableName, req.RoomID))
		if err != nil {
			return fmt.Errorf("failed to count room images: %w", err)
		}

		isPrimary := model.StartsPrimary(req.IsPrimary, existing)
		if isPrimary && existing > 0 {
			if err := s.clearPrimary(ctx, tx, req.RoomID, user); err != nil {
				return err
			}
		}

		order := 0
		if req.Order != nil {
			order = *req.Order
		} else {
			maxOrder, err := s.repo.MaxOrderTx(ctx, tx, req.RoomID)
			if err != nil {
				return fmt.Errorf("failed to get next image order: %w", err)
			}

			order = model.NextOrder(maxOrder)
		}

		image = req.ToModel(user, object.URL, isPrimary, order)

		if err := s.repo.InsertTx(ctx, tx, image); err != nil {
			if gRepo.ConstraintName(err) == model.ConstraintSinglePrimary {
				return failure.Conflict(msgPrimaryTaken) // nolint:wrapcheck
			}

			return fmt.Errorf("failed to insert room image: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("key", object.Key).Msg("failed to add room image, removing upload")

		if delErr := s.s3.Delete(context.WithoutCancel(ctx), object.Key); delErr != nil {
			log.Error().Err(delErr).Str("key", object.Key).Msg("failed to remove orphaned room image")
		}

		return res, err
	}

	s.invalidate(ctx, req.RoomID)

	res.FromModel(image)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, roomID string) (res dto.RoomImagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListImages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheListRoomImage, roomID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	if err = s.roomExists(ctx, roomID); err != nil {
		return res, err
	}

	images, err := s.images(ctx, roomID)
	if err != nil {
		return res, err
	}

	res.FromModels(roomID, images)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room images to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, roomID, imageID string, req dto.UpdateImageRequest) (res dto.RoomImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Check(); err != nil {
		return res, err
	}

	image, err := s.image(ctx, roomID, imageID)
	if err != nil {
		return res, err
	}

	if req.Order != nil && *req.Order != image.SortOrder {
		user, _ := ctx.Value(constant.ContextKeyUserID).(string)

		err = s.repo.Update(ctx, map[string]any{
			model.FieldSortOrder:     *req.Order,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, imageFilter(roomID, imageID))
		if err != nil {
			log.Error().Err(err).Msg("failed to update image order")

			return res, fmt.Errorf("failed to update image order: %w", err)
		}

		image.SortOrder = *req.Order
	}

	if req.IsPrimary != nil && !image.IsPrimary {
		return s.SetPrimary(ctx, roomID, imageID)
	}

	s.invalidate(ctx, roomID)

	res.FromModel(image)

	return res, nil
}

// Delete removes the stored object first, then the row. When the deleted image was primary
// and promotion is enabled, the lowest-ordered remaining image takes its place.
func (s *serviceImpl) Delete(ctx context.Context, roomID, imageID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	image, err := s.image(ctx, roomID, imageID)
	if err != nil {
		return err
	}

	if err = s.removeObject(ctx, image.Path); err != nil {
		return failure.StorageError(err) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.lockRoom(ctx, tx, roomID); err != nil {
			return err
		}

		if err := s.repo.DeleteTx(ctx, tx, imageFilter(roomID, imageID)); err != nil {
			return failure.StorageError(err) // nolint:wrapcheck
		}

		if !image.IsPrimary || !s.cfg.App.Images.PromoteOnPrimaryDelete {
			return nil
		}

		next, err := s.repo.FirstByOrderTx(ctx, tx, roomID)
		if err != nil {
			return fmt.Errorf("failed to find image to promote: %w", err)
		}

		if next.ID == constant.Empty {
			return nil
		}

		return s.markPrimary(ctx, tx, roomID, next.ID, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete room image")

		return err
	}

	s.invalidate(ctx, roomID)

	return nil
}

// SetPrimary clears the room's primary image and promotes imageID in one transaction.
func (s *serviceImpl) SetPrimary(ctx context.Context, roomID, imageID string) (res dto.RoomImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetPrimary")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var image model.RoomImage

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.lockRoom(ctx, tx, roomID); err != nil {
			return err
		}

		var err error

		image, err = s.repo.GetForUpdateTx(ctx, tx, imageFilter(roomID, imageID))
		if err != nil {
			return fmt.Errorf("failed to get room image: %w", err)
		}

		if image.ID == constant.Empty {
			return failure.NotFound(msgImageNotFound) // nolint:wrapcheck
		}

		if image.IsPrimary {
			return nil
		}

		if err := s.clearPrimary(ctx, tx, roomID, user); err != nil {
			return err
		}

		image.IsPrimary = true

		return s.markPrimary(ctx, tx, roomID, imageID, user)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to set primary image")

		return res, err
	}

	s.invalidate(ctx, roomID)

	res.FromModel(image)

	return res, nil
}

// Reorder applies each requested order on its own; running the same request twice leaves
// the same ordering.
func (s *serviceImpl) Reorder(ctx context.Context, roomID string, req dto.ReorderRequest) (res dto.RoomImagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reorder")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Check(); err != nil {
		return res, err
	}

	if err = s.roomExists(ctx, roomID); err != nil {
		return res, err
	}

	images, err := s.images(ctx, roomID)
	if err != nil {
		return res, err
	}

	current := make(map[string]int, len(images))
	for _, image := range images {
		current[image.ID] = image.SortOrder
	}

	for _, item := range req.Images {
		if _, ok := current[item.ID]; !ok {
			return res, failure.BadRequestFromString("image " + item.ID + " does not belong to this room") // nolint:wrapcheck
		}
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	for _, item := range req.Images {
		if current[item.ID] == item.Order {
			continue
		}

		err = s.repo.Update(ctx, map[string]any{
			model.FieldSortOrder:     item.Order,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, imageFilter(roomID, item.ID))
		if err != nil {
			log.Error().Err(err).Str("image", item.ID).Msg("failed to reorder room image")

			return res, fmt.Errorf("failed to reorder room image: %w", err)
		}
	}

	s.invalidate(ctx, roomID)

	images, err = s.images(ctx, roomID)
	if err != nil {
		return res, err
	}

	res.FromModels(roomID, images)

	return res, nil
}

func (s *serviceImpl) roomExists(ctx context.Context, roomID string) error {
	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, roomID string) error {
	room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) image(ctx context.Context, roomID, imageID string) (model.RoomImage, error) {
	image, err := s.repo.Get(ctx, imageFilter(roomID, imageID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room image")

		return image, fmt.Errorf("failed to get room image: %w", err)
	}

	if image.ID == constant.Empty {
		return image, failure.NotFound(msgImageNotFound) // nolint:wrapcheck
	}

	return image, nil
}

func (s *serviceImpl) images(ctx context.Context, roomID string) ([]model.RoomImage, error) {
	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldSortOrder + " ASC, " + model.TableName + "." + constant.FieldCreatedAt,
		SortDir: "ASC",
	}

	images, err := s.repo.GetAll(ctx, params, shared.FilterByField(model.FieldRoomID, model.TableName, roomID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room images")

		return nil, fmt.Errorf("failed to get room images: %w", err)
	}

	return images, nil
}

func (s *serviceImpl) clearPrimary(ctx context.Context, tx *sqlx.Tx, roomID, user string) error {
	filter := gDto.And(
		gDto.Eq(model.TableName, model.FieldRoomID, roomID),
		gDto.Eq(model.TableName, model.FieldIsPrimary, true),
	)

	err := s.repo.UpdateTx(ctx, tx, map[string]any{
		model.FieldIsPrimary:     false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, filter)
	if err != nil {
		return fmt.Errorf("failed to clear primary image: %w", err)
	}

	return nil
}

func (s *serviceImpl) markPrimary(ctx context.Context, tx *sqlx.Tx, roomID, imageID, user string) error {
	err := s.repo.UpdateTx(ctx, tx, map[string]any{
		model.FieldIsPrimary:     true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, imageFilter(roomID, imageID))
	if err != nil {
		return fmt.Errorf("failed to set primary image: %w", err)
	}

	return nil
}

// removeObject deletes the stored file behind url. Files outside the bucket or already gone
// are skipped.
func (s *serviceImpl) removeObject(ctx context.Context, url string) error {
	key := s.s3.KeyFromURL(url)
	if key == constant.Empty {
		log.Warn().Str("path", url).Msg("room image is not stored in the bucket, skipping object removal")

		return nil
	}

	exist, err := s.s3.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check room image object: %w", err)
	}

	if !exist {
		log.Warn().Str("key", key).Msg("room image object already missing")

		return nil
	}

	if err = s.s3.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete room image object: %w", err)
	}

	return nil
}

func imageFilter(roomID, imageID string) gDto.FilterGroup {
	return gDto.And(
		gDto.Eq(model.TableName, model.FieldID, imageID),
		gDto.Eq(model.TableName, model.FieldRoomID, roomID),
	)
}

func (s *serviceImpl) invalidate(ctx context.Context, roomID string) {
	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(cacheListRoomImage, roomID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room images cache")
		}
	}()
}
