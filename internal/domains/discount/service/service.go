package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/discount/model"
	"hotel/internal/domains/discount/model/dto"
	"hotel/internal/domains/discount/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

const (
	cacheGetDiscount    = constant.CachePrefixDiscount + "get"
	cacheGetAllDiscount = constant.CachePrefixDiscount + "get_all"
	cacheCountDiscount  = constant.CachePrefixDiscount + "count"

	msgDiscountNotFound = "discount not found"
	msgCodeConflict     = "discount code already exists"
)

type Discount interface {
	Create(ctx context.Context, req dto.CreateDiscountRequest) (dto.DiscountResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetDiscountsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.DiscountResponse, error)
	Update(ctx context.Context, req dto.UpdateDiscountRequest, id string) error
	Delete(ctx context.Context, id string) error
	// Check evaluates a code against an amount without redeeming it.
	Check(ctx context.Context, req dto.CheckDiscountRequest) (dto.CheckDiscountResponse, error)
}

type serviceImpl struct {
	repo  repository.Discount
	cfg   *config.Config
	cache cache.RedisCache
	clock timezone.Clock
	otel  otel.Otel
}

func New(repo repository.Discount, cfg *config.Config, cache cache.RedisCache, clock timezone.Clock, otel otel.Otel) Discount {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		clock: clock,
		otel:  otel,
	}
}

func validateRules(discount model.Discount) error {
	if discount.Type == model.TypePercentage && discount.Value.GreaterThan(decimalHundred) {
		return failure.BadRequestFromString("percentage value must not exceed 100") // nolint:wrapcheck
	}

	if discount.Type == model.TypeFixed && discount.MaxDiscount.Valid {
		return failure.BadRequestFromString("max_discount only applies to percentage discounts") // nolint:wrapcheck
	}

	if discount.EndDate.Before(discount.StartDate) {
		return failure.BadRequestFromString("end_date must not be before start_date") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateDiscountRequest) (res dto.DiscountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	discount := req.ToModel(user)

	if err = validateRules(discount); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, discount); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, failure.Conflict(msgCodeConflict) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create discount")

		return res, fmt.Errorf("failed to create discount: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllDiscount)
		shared.InvalidateCaches(c, s.cache, cacheCountDiscount)
	}()

	res.FromModel(discount)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetDiscountsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDiscount, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	discounts, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get discounts")

		return res, fmt.Errorf("failed to get discounts: %w", err)
	}

	res.FromModels(discounts, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save discounts to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountDiscount, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		return total, fmt.Errorf("failed to count discounts: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save discount count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.DiscountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetDiscount, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	discount, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get discount")

		return res, fmt.Errorf("failed to get discount: %w", err)
	}

	if discount.ID == constant.Empty {
		return res, failure.NotFound(msgDiscountNotFound) // nolint:wrapcheck
	}

	res.FromModel(discount)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save discount to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateDiscountRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	discount, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get discount")

		return fmt.Errorf("failed to get discount: %w", err)
	}

	if discount.ID == constant.Empty {
		return failure.NotFound(msgDiscountNotFound) // nolint:wrapcheck
	}

	fields := req.Apply(&discount)
	if len(fields) == 0 {
		return failure.BadRequestFromString("no fields to update") // nolint:wrapcheck
	}

	if err = validateRules(discount); err != nil {
		return err
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = user

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update discount")

		return fmt.Errorf("failed to update discount: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check discount existence: %w", err)
	}

	if !exist {
		return failure.NotFound(msgDiscountNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict("discount was applied to bookings; deactivate it instead") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete discount")

		return fmt.Errorf("failed to delete discount: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Check(ctx context.Context, req dto.CheckDiscountRequest) (res dto.CheckDiscountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Check")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	discount, err := s.repo.Get(ctx, shared.FilterByField(model.FieldCode, model.TableName, model.NormalizeCode(req.Code)))
	if err != nil {
		log.Error().Err(err).Msg("failed to get discount by code")

		return res, fmt.Errorf("failed to get discount by code: %w", err)
	}

	if discount.ID == constant.Empty {
		res.FromEvaluation(model.Evaluation{Reason: model.ReasonNotFound})

		return res, nil
	}

	res.FromEvaluation(discount.Evaluate(req.Amount, s.clock.Now()))

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDiscount, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete discount cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDiscount)
		shared.InvalidateCaches(c, s.cache, cacheCountDiscount)
	}()
}
