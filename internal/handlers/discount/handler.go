package discount

import (
	"hotel/infras/otel"
	"hotel/internal/domains/discount/model"
	"hotel/internal/domains/discount/model/dto"
	"hotel/internal/domains/discount/service"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/validator"
	"hotel/transport/http/response"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortableFields = []string{model.FieldCode, model.FieldName, model.FieldStartDate, model.FieldEndDate, constant.FieldCreatedAt}

type Handler struct {
	service service.Discount
	otel    otel.Otel
}

func New(service service.Discount, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/discounts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateDiscount)
		routerGroup.Get("/", handler.GetDiscounts)
		routerGroup.Post("/check", handler.CheckDiscount)
		routerGroup.Get("/{id}", handler.GetDiscountByID)
		routerGroup.Patch("/{id}", handler.UpdateDiscount)
		routerGroup.Delete("/{id}", handler.DeleteDiscount)
	})
}

// CreateDiscount creates a discount code.
// @Summary Create a discount
// @Tags Discount
// @Accept json
// @Produce json
// @Param request body dto.CreateDiscountRequest true "Discount"
// @Success 201 {object} response.Data[dto.DiscountResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/discounts [post]
// @Security BearerAuth
func (handler *Handler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateDiscount")
	defer scope.End()

	var req dto.CreateDiscountRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create discount")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetDiscounts lists discounts.
// @Summary List discounts
// @Tags Discount
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param code query string false "Filter by code"
// @Param type query string false "percentage or fixed"
// @Param is_active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetDiscountsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/discounts [get]
// @Security BearerAuth
func (handler *Handler) GetDiscounts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDiscounts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.TableName, sortableFields...)

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if code := r.URL.Query().Get(model.FieldCode); code != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCode,
			Operator: gDto.FilterOperatorLike,
			Value:    strings.ToUpper(code),
			Table:    model.TableName,
		})
	}

	if discountType := r.URL.Query().Get(model.FieldType); discountType != constant.Empty {
		if err := validator.ValidateVar(discountType, "oneof=percentage fixed"); err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    discountType,
			Table:    model.TableName,
		})
	}

	if isActive := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsActive)); isActive != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *isActive,
			Table:    model.TableName,
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get discounts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CheckDiscount evaluates a code against an amount without redeeming it.
// @Summary Check a discount code
// @Tags Discount
// @Accept json
// @Produce json
// @Param request body dto.CheckDiscountRequest true "Code and amount"
// @Success 200 {object} response.Data[dto.CheckDiscountResponse]
// @Failure 400 {object} response.Error
// @Router /v1/discounts/check [post]
// @Security BearerAuth
func (handler *Handler) CheckDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckDiscount")
	defer scope.End()

	var req dto.CheckDiscountRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Check(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check discount")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetDiscountByID returns one discount.
// @Summary Get a discount
// @Tags Discount
// @Produce json
// @Param id path string true "Discount ID"
// @Success 200 {object} response.Data[dto.DiscountResponse]
// @Failure 404 {object} response.Error
// @Router /v1/discounts/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetDiscountByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDiscountByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateDiscount patches a discount.
// @Summary Update a discount
// @Tags Discount
// @Accept json
// @Produce json
// @Param id path string true "Discount ID"
// @Param request body dto.UpdateDiscountRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/discounts/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateDiscount")
	defer scope.End()

	var req dto.UpdateDiscountRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update discount")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Discount updated successfully")
}

// DeleteDiscount removes a discount that no booking references.
// @Summary Delete a discount
// @Tags Discount
// @Produce json
// @Param id path string true "Discount ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/discounts/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteDiscount")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete discount")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Discount deleted successfully")
}
