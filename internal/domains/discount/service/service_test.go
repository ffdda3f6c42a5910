package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	discountMocks "hotel/internal/domains/discount/mocks"
	"hotel/internal/domains/discount/model"
	"hotel/internal/domains/discount/model/dto"
	"hotel/internal/domains/discount/service"
	cacheMocks "hotel/shared/cache/mocks"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

var now = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (service.Discount, *discountMocks.MockDiscount) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := discountMocks.NewMockDiscount(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, timezone.FixedClock(now), mocks.NewOtel()), mockRepo
}

func TestDiscountService_Check(t *testing.T) {
	save10 := model.Discount{
		ID:        "d-1",
		Code:      "SAVE10",
		Type:      model.TypePercentage,
		Value:     decimal.NewFromInt(10),
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
		IsActive:  true,
	}

	t.Run("unknown code is not an error", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Discount{}, nil)

		res, err := svc.Check(context.Background(), dto.CheckDiscountRequest{Code: "nope", Amount: decimal.NewFromInt(100)})

		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, model.ReasonNotFound, res.Reason)
		assert.Equal(t, "0.00", res.DiscountAmount)
	})

	t.Run("code is matched case-insensitively", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Discount, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "SAVE10", args[model.FieldCode])

				return save10, nil
			})

		res, err := svc.Check(context.Background(), dto.CheckDiscountRequest{Code: "save10", Amount: decimal.NewFromInt(300)})

		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, "30.00", res.DiscountAmount)
	})

	t.Run("exhausted code", func(t *testing.T) {
		svc, mockRepo := newService(t)

		limit := 1
		exhausted := save10
		exhausted.UsageLimit = &limit
		exhausted.UsedCount = 1

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(exhausted, nil)

		res, err := svc.Check(context.Background(), dto.CheckDiscountRequest{Code: "SAVE10", Amount: decimal.NewFromInt(300)})

		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, model.ReasonUsageLimit, res.Reason)
	})
}

func TestDiscountService_Create(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreateDiscountRequest
		wantCode int
	}{
		{
			name: "percentage above 100",
			req: dto.CreateDiscountRequest{
				Code: "BIG", Name: "Big", Type: "percentage", Value: decimal.NewFromInt(120),
				StartDate: "2025-01-01", EndDate: "2025-12-31",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "window ends before it starts",
			req: dto.CreateDiscountRequest{
				Code: "BACK", Name: "Back", Type: "fixed", Value: decimal.NewFromInt(10),
				StartDate: "2025-12-31", EndDate: "2025-01-01",
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			_, err := svc.Create(context.Background(), tt.req)

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}

	t.Run("code is stored upper-cased", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Create(context.Background(), dto.CreateDiscountRequest{
			Code: "save10", Name: "Save 10", Type: "percentage", Value: decimal.NewFromInt(10),
			StartDate: "2025-01-01", EndDate: "2025-12-31",
		})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "SAVE10", res.Code)
		assert.True(t, res.IsActive)
		assert.Equal(t, 0, res.UsedCount)
	})
}
