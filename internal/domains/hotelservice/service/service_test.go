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
	bookingMocks "hotel/internal/domains/booking/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	hotelServiceMocks "hotel/internal/domains/hotelservice/mocks"
	"hotel/internal/domains/hotelservice/model"
	"hotel/internal/domains/hotelservice/model/dto"
	"hotel/internal/domains/hotelservice/service"
	cacheMocks "hotel/shared/cache/mocks"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

const (
	bookingID = "7d3c2a4e-9f61-4c55-8d7e-2c0a9b1f6e11"
	serviceID = "0b6f1f4e-3f7a-4a3d-9a9c-6e2d8c5b7a21"
)

type fixture struct {
	svc            service.HotelService
	repo           *hotelServiceMocks.MockService
	bookingService *hotelServiceMocks.MockBookingService
	booking        *bookingMocks.MockBooking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:           hotelServiceMocks.NewMockService(ctrl),
		bookingService: hotelServiceMocks.NewMockBookingService(ctrl),
		booking:        bookingMocks.NewMockBooking(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bookingService, f.booking, cfg, mockCache, mocks.NewOtel())

	return f
}

func laundry(active bool) model.Service {
	return model.Service{
		ID:       serviceID,
		Name:     "Laundry",
		Price:    decimal.RequireFromString("15.50"),
		IsActive: active,
	}
}

func TestHotelService_AddToBooking(t *testing.T) {
	req := dto.AddToBookingRequest{BookingID: bookingID, ServiceID: serviceID, Quantity: 1}

	t.Run("same service twice merges into one line", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusConfirmed}, nil).Times(2)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(laundry(true), nil).Times(2)

		stored := model.BookingService{}

		f.bookingService.EXPECT().Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, line model.BookingService) (model.BookingService, error) {
				if stored.ID == "" {
					stored = line
				} else {
					stored.Quantity += line.Quantity
					stored.TotalPrice = model.LineTotal(stored.UnitPrice, stored.Quantity)
				}

				return stored, nil
			}).Times(2)

		first, err := f.svc.AddToBooking(context.Background(), req)
		require.NoError(t, err)

		second, err := f.svc.AddToBooking(context.Background(), req)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 2, second.Quantity)
		assert.Equal(t, "15.50", second.UnitPrice)
		assert.Equal(t, "31.00", second.TotalPrice)
		assert.Equal(t, "Laundry", second.ServiceName)
	})

	t.Run("booking not found", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

		_, err := f.svc.AddToBooking(context.Background(), req)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("finished booking", func(t *testing.T) {
		for _, status := range []bookingModel.Status{bookingModel.StatusCheckedOut, bookingModel.StatusCancelled} {
			f := newFixture(t)

			f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{ID: bookingID, Status: status}, nil)

			_, err := f.svc.AddToBooking(context.Background(), req)

			assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err), status)
		}
	})

	t.Run("inactive service", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusCheckedIn}, nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(laundry(false), nil)

		_, err := f.svc.AddToBooking(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("service not found", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusPending}, nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)

		_, err := f.svc.AddToBooking(context.Background(), req)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestHotelService_ListByBooking(t *testing.T) {
	f := newFixture(t)

	f.booking.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.bookingService.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.BookingService{
		{ID: "line-1", BookingID: bookingID, Quantity: 2, UnitPrice: decimal.RequireFromString("15.50"), TotalPrice: decimal.RequireFromString("31.00")},
		{ID: "line-2", BookingID: bookingID, Quantity: 1, UnitPrice: decimal.RequireFromString("40"), TotalPrice: decimal.RequireFromString("40")},
	}, nil)

	res, err := f.svc.ListByBooking(context.Background(), bookingID)

	require.NoError(t, err)
	assert.Len(t, res.Services, 2)
	assert.Equal(t, "71.00", res.ServicesTotal)
}

func TestHotelService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(context.Background(), dto.UpdateServiceRequest{}, serviceID)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("price rounded", func(t *testing.T) {
		f := newFixture(t)

		price := decimal.RequireFromString("20.005")

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "20.01", fields[model.FieldPrice].(decimal.Decimal).StringFixed(2))

				return nil
			})

		err := f.svc.Update(context.Background(), dto.UpdateServiceRequest{Price: &price}, serviceID)

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
	})
}
