package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/roomimage/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"

	"github.com/jmoiron/sqlx"
)

const maxOrderQuery = `SELECT COALESCE(MAX(sort_order), -1) FROM room_images WHERE room_id = $1`

const firstByOrderQuery = `SELECT id, room_id, path, is_primary, sort_order, created_at, modified_at, created_by, modified_by
	FROM room_images WHERE room_id = $1 ORDER BY sort_order, created_at LIMIT 1 FOR UPDATE`

type RoomImage interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.RoomImage) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomImage, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.RoomImage, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomImage, error)
	CountTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	// MaxOrderTx returns the highest sort_order of the room's images, or -1 when it has none.
	MaxOrderTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (int, error)
	// FirstByOrderTx locks and returns the room's lowest-ordered image. The zero value means
	// the room has no images.
	FirstByOrderTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (model.RoomImage, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.RoomImage]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) RoomImage {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RoomImage](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) MaxOrderTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (maxOrder int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_image.MaxOrderTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, maxOrderQuery)

	if err = sqltx.GetContext(ctx, &maxOrder, maxOrderQuery, roomID); err != nil {
		logger.ErrorWithStack(err)

		return maxOrder, fmt.Errorf("failed to get max image order: %w", err)
	}

	return maxOrder, nil
}

func (repo *repositoryImpl) FirstByOrderTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (image model.RoomImage, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_image.FirstByOrderTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, firstByOrderQuery)

	err = sqltx.GetContext(ctx, &image, firstByOrderQuery, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return image, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return image, fmt.Errorf("failed to get first room image: %w", err)
	}

	return image, nil
}
