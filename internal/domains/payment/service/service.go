package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepo "hotel/internal/domains/booking/repository"
	hotelServiceRepo "hotel/internal/domains/hotelservice/repository"
	"hotel/internal/domains/payment/model"
	"hotel/internal/domains/payment/model/dto"
	"hotel/internal/domains/payment/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetPayment    = "payment:get"
	cacheGetAllPayment = "payment:get_all"
	cacheCountPayment  = "payment:count"

	msgPaymentNotFound = "payment not found"
	msgBookingNotFound = "booking not found"
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) (dto.PaymentResponse, error)
	ListByBooking(ctx context.Context, bookingID string) (dto.BookingPaymentsResponse, error)
	Balance(ctx context.Context, bookingID string) (dto.BalanceResponse, error)
}

type serviceImpl struct {
	repo               repository.Payment
	bookingRepo        bookingRepo.Booking
	bookingServiceRepo hotelServiceRepo.BookingService
	cfg                *config.Config
	cache              cache.RedisCache
	otel               otel.Otel
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	bookingServiceRepo hotelServiceRepo.BookingService,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:               repo,
		bookingRepo:        bookingRepo,
		bookingServiceRepo: bookingServiceRepo,
		cfg:                cfg,
		cache:              cache,
		otel:               otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.booking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.Status == bookingModel.StatusCancelled {
		return res, failure.Unprocessable("cannot take a payment for a cancelled booking") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	payment := req.ToModel(user)

	if err = s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to create payment")

		return res, fmt.Errorf("failed to create payment: %w", err)
	}

	s.invalidate(ctx, payment.ID)

	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPayment, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	payments, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(payments, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPayment, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		return total, fmt.Errorf("failed to count payments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetPayment, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	payment, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(payment)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment to cache")
		}
	}()

	return res, nil
}

// UpdateStatus settles a pending payment or refunds a completed one.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payment, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	next := model.Status(req.Status)
	if !payment.Status.CanMoveTo(next) {
		return res, failure.Conflict(fmt.Sprintf("cannot change payment status from %s to %s", payment.Status, next)) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	fields := map[string]any{
		model.FieldStatus:        next,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.TransactionID != constant.Empty {
		fields[model.FieldTransactionID] = req.TransactionID
		payment.TransactionID = &req.TransactionID
	}

	if req.Notes != constant.Empty {
		fields[model.FieldNotes] = req.Notes
		payment.Notes = req.Notes
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update payment status")

		return res, fmt.Errorf("failed to update payment status: %w", err)
	}

	s.invalidate(ctx, id)

	payment.Status = next
	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) ListByBooking(ctx context.Context, bookingID string) (res dto.BookingPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.booking(ctx, bookingID); err != nil {
		return res, err
	}

	payments, err := s.byBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	res.FromModels(bookingID, payments)

	return res, nil
}

// Balance reports what is still owed on a booking, services included.
func (s *serviceImpl) Balance(ctx context.Context, bookingID string) (res dto.BalanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Balance")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.booking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	servicesTotal, err := s.bookingServiceRepo.Total(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum booking services")

		return res, fmt.Errorf("failed to sum booking services: %w", err)
	}

	payments, err := s.byBooking(ctx, bookingID)
	if err != nil {
		return res, err
	}

	paid := model.Paid(payments)

	res = dto.BalanceResponse{
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		TotalAmount:   booking.TotalAmount.StringFixed(2),
		ServicesTotal: servicesTotal.StringFixed(2),
		TotalPaid:     paid.StringFixed(2),
		BalanceDue:    model.BalanceDue(booking.TotalAmount, servicesTotal, paid).StringFixed(2),
	}

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Payment, error) {
	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound(msgPaymentNotFound) // nolint:wrapcheck
	}

	return payment, nil
}

func (s *serviceImpl) booking(ctx context.Context, id string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) byBooking(ctx context.Context, bookingID string) ([]model.Payment, error) {
	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldPaymentDate,
		SortDir: "ASC",
	}

	payments, err := s.repo.GetAll(ctx, params, shared.FilterByField(model.FieldBookingID, model.TableName, bookingID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking payments")

		return nil, fmt.Errorf("failed to get booking payments: %w", err)
	}

	return payments, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPayment, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete payment cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPayment)
		shared.InvalidateCaches(c, s.cache, cacheCountPayment)
	}()
}
