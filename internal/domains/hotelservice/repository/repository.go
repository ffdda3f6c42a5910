package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/hotelservice/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"

	"github.com/shopspring/decimal"
)

// upsertQuery adds quantity to an existing line instead of creating a second one.
// The line keeps the unit price it was first added with.
const upsertQuery = `INSERT INTO booking_services
	(id, booking_id, service_id, quantity, unit_price, total_price, created_at, modified_at, created_by, modified_by)
	VALUES (:id, :booking_id, :service_id, :quantity, :unit_price, :total_price, :created_at, :modified_at, :created_by, :modified_by)
	ON CONFLICT (booking_id, service_id) DO UPDATE SET
		quantity = booking_services.quantity + EXCLUDED.quantity,
		total_price = ROUND(booking_services.unit_price * (booking_services.quantity + EXCLUDED.quantity), 2),
		modified_at = EXCLUDED.modified_at,
		modified_by = EXCLUDED.modified_by
	RETURNING id, booking_id, service_id, quantity, unit_price, total_price, created_at, modified_at, created_by, modified_by`

const sumQuery = `SELECT COALESCE(SUM(total_price), 0) FROM booking_services WHERE booking_id = $1`

type Service interface {
	Insert(ctx context.Context, model model.Service) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Service, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Service, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type serviceRepositoryImpl struct {
	gRepo.Repository[model.Service]
}

func New(db *postgres.Connection, otel otel.Otel) Service {
	return &serviceRepositoryImpl{
		Repository: gRepo.NewRepository[model.Service](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type BookingService interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.BookingService, error)
	// Upsert inserts the line or merges its quantity into the existing line for the same
	// booking and service, returning the stored row.
	Upsert(ctx context.Context, line model.BookingService) (model.BookingService, error)
	// Total sums the line totals of a booking.
	Total(ctx context.Context, bookingID string) (decimal.Decimal, error)
}

type bookingServiceRepositoryImpl struct {
	gRepo.Repository[model.BookingService]
	db   *postgres.Connection
	otel otel.Otel
}

func NewBookingService(db *postgres.Connection, otel otel.Otel) BookingService {
	return &bookingServiceRepositoryImpl{
		Repository: gRepo.NewRepository[model.BookingService](model.BookingServiceEntityName, model.BookingServiceTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *bookingServiceRepositoryImpl) Upsert(ctx context.Context, line model.BookingService) (res model.BookingService, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking_service.Upsert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertQuery)

	stmt, err := repo.db.Write.PrepareNamedContext(ctx, upsertQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to prepare booking service upsert: %w", err)
	}
	defer stmt.Close()

	if err = stmt.GetContext(ctx, &res, line); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to upsert booking service: %w", err)
	}

	res.ServiceName = line.ServiceName

	return res, nil
}

func (repo *bookingServiceRepositoryImpl) Total(ctx context.Context, bookingID string) (total decimal.Decimal, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking_service.Total")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, sumQuery)

	if err = repo.db.Read.GetContext(ctx, &total, sumQuery, bookingID); err != nil {
		logger.ErrorWithStack(err)

		return total, fmt.Errorf("failed to sum booking services: %w", err)
	}

	return total, nil
}
