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
	paymentMocks "hotel/internal/domains/payment/mocks"
	"hotel/internal/domains/payment/model"
	"hotel/internal/domains/payment/model/dto"
	"hotel/internal/domains/payment/service"
	cacheMocks "hotel/shared/cache/mocks"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

const bookingID = "5f0e3c1a-8b2d-4e6f-9a1b-3c4d5e6f7a8b"

type fixture struct {
	svc            service.Payment
	repo           *paymentMocks.MockPayment
	booking        *bookingMocks.MockBooking
	bookingService *hotelServiceMocks.MockBookingService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:           paymentMocks.NewMockPayment(ctrl),
		booking:        bookingMocks.NewMockBooking(ctrl),
		bookingService: hotelServiceMocks.NewMockBookingService(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.booking, f.bookingService, cfg, mockCache, mocks.NewOtel())

	return f
}

func payment(amount string, status model.Status) model.Payment {
	return model.Payment{
		ID:            "payment-" + amount,
		BookingID:     bookingID,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: model.MethodCard,
		Status:        status,
	}
}

func TestPaymentService_Balance(t *testing.T) {
	f := newFixture(t)

	f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
		ID:            bookingID,
		BookingNumber: "BK20250110A1B2C3",
		TotalAmount:   decimal.RequireFromString("270.00"),
		Status:        bookingModel.StatusCheckedIn,
	}, nil)
	f.bookingService.EXPECT().Total(gomock.Any(), bookingID).Return(decimal.RequireFromString("31.00"), nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Payment{
		payment("100.00", model.StatusCompleted),
		payment("50.00", model.StatusPending),
		payment("20.00", model.StatusFailed),
		payment("70.00", model.StatusRefunded),
		payment("1.00", model.StatusCompleted),
	}, nil)

	res, err := f.svc.Balance(context.Background(), bookingID)

	require.NoError(t, err)
	assert.Equal(t, "270.00", res.TotalAmount)
	assert.Equal(t, "31.00", res.ServicesTotal)
	assert.Equal(t, "101.00", res.TotalPaid)
	assert.Equal(t, "200.00", res.BalanceDue)
}

func TestPaymentService_Balance_BookingNotFound(t *testing.T) {
	f := newFixture(t)

	f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

	_, err := f.svc.Balance(context.Background(), bookingID)

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestPaymentService_Create(t *testing.T) {
	req := dto.CreatePaymentRequest{
		BookingID:     bookingID,
		Amount:        decimal.RequireFromString("120.456"),
		PaymentMethod: string(model.MethodCash),
		PaymentDate:   "2025-01-10",
	}

	t.Run("recorded as pending", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusConfirmed}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(context.Background(), req)

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "120.46", res.Amount)
		assert.Equal(t, string(model.StatusPending), res.Status)
		assert.Nil(t, res.TransactionID)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{ID: bookingID, Status: bookingModel.StatusCancelled}, nil)

		_, err := f.svc.Create(context.Background(), req)

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestPaymentService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    model.Status
		to      model.Status
		wantErr bool
	}{
		{name: "pending to completed", from: model.StatusPending, to: model.StatusCompleted},
		{name: "pending to failed", from: model.StatusPending, to: model.StatusFailed},
		{name: "completed to refunded", from: model.StatusCompleted, to: model.StatusRefunded},
		{name: "pending to refunded", from: model.StatusPending, to: model.StatusRefunded, wantErr: true},
		{name: "failed to completed", from: model.StatusFailed, to: model.StatusCompleted, wantErr: true},
		{name: "refunded to completed", from: model.StatusRefunded, to: model.StatusCompleted, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(payment("80.00", tt.from), nil)

			if !tt.wantErr {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, tt.to, fields[model.FieldStatus])
						assert.Equal(t, "TX-1", fields[model.FieldTransactionID])

						return nil
					})
			}

			res, err := f.svc.UpdateStatus(context.Background(), dto.UpdatePaymentStatusRequest{
				Status:        string(tt.to),
				TransactionID: "TX-1",
			}, "payment-80.00")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(tt.to), res.Status)
			require.NotNil(t, res.TransactionID)
			assert.Equal(t, "TX-1", *res.TransactionID)
		})
	}
}

func TestBalanceDue(t *testing.T) {
	assert.Equal(t, "0.00", model.BalanceDue(
		decimal.RequireFromString("300"),
		decimal.Zero,
		decimal.RequireFromString("300"),
	).StringFixed(2))

	assert.Equal(t, "-20.00", model.BalanceDue(
		decimal.RequireFromString("100"),
		decimal.RequireFromString("30"),
		decimal.RequireFromString("150"),
	).StringFixed(2))
}
