package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/discount/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/logger"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
)

const redeemQuery = `UPDATE discounts
	SET used_count = used_count + 1, modified_at = :modified_at, modified_by = :modified_by
	WHERE id = :id AND (usage_limit IS NULL OR used_count < usage_limit)`

type Discount interface {
	Insert(ctx context.Context, model model.Discount) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Discount, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Discount, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// Redeem consumes one use of the discount. It reports false when the usage
	// limit was already reached, including by a concurrent redemption.
	Redeem(ctx context.Context, sqltx *sqlx.Tx, id, user string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Discount]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Discount {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Discount](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *repositoryImpl) Redeem(ctx context.Context, sqltx *sqlx.Tx, id, user string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".discount.Redeem")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, redeemQuery)

	result, err := sqltx.NamedExecContext(ctx, redeemQuery, map[string]any{
		model.FieldID:            id,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to redeem discount: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read redeemed rows: %w", err)
	}

	return affected == 1, nil
}
