package dto

import (
	"hotel/internal/domains/discount/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateDiscountRequest struct {
	Code        string           `json:"code"         validate:"required,alphanum,max=50"`
	Name        string           `json:"name"         validate:"required,max=100"`
	Type        string           `json:"type"         validate:"required,oneof=percentage fixed"`
	Value       decimal.Decimal  `json:"value"        validate:"gt=0"`
	MinAmount   *decimal.Decimal `json:"min_amount"   validate:"omitempty,gte=0"`
	MaxDiscount *decimal.Decimal `json:"max_discount" validate:"omitempty,gt=0"`
	UsageLimit  *int             `json:"usage_limit"  validate:"omitempty,gt=0"`
	StartDate   string           `json:"start_date"   validate:"required,date"`
	EndDate     string           `json:"end_date"     validate:"required,date"`
	IsActive    *bool            `json:"is_active"`
}

func (c *CreateDiscountRequest) ToModel(user string) model.Discount {
	startDate, _ := time.Parse(constant.DateOnlyFormat, c.StartDate)
	endDate, _ := time.Parse(constant.DateOnlyFormat, c.EndDate)

	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}

	return model.Discount{
		ID:          uuid.NewString(),
		Code:        model.NormalizeCode(c.Code),
		Name:        c.Name,
		Type:        model.Type(c.Type),
		Value:       c.Value.Round(2),
		MinAmount:   nullDecimal(c.MinAmount),
		MaxDiscount: nullDecimal(c.MaxDiscount),
		UsageLimit:  c.UsageLimit,
		StartDate:   startDate,
		EndDate:     endDate,
		IsActive:    active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateDiscountRequest never touches used_count.
type UpdateDiscountRequest struct {
	Name        string           `json:"name"         validate:"omitempty,max=100"`
	Value       *decimal.Decimal `json:"value"        validate:"omitempty,gt=0"`
	MinAmount   *decimal.Decimal `json:"min_amount"   validate:"omitempty,gte=0"`
	MaxDiscount *decimal.Decimal `json:"max_discount" validate:"omitempty,gt=0"`
	UsageLimit  *int             `json:"usage_limit"  validate:"omitempty,gt=0"`
	StartDate   string           `json:"start_date"   validate:"omitempty,date"`
	EndDate     string           `json:"end_date"     validate:"omitempty,date"`
	IsActive    *bool            `json:"is_active"`
}

// Apply overlays the request on current and returns the changed columns.
func (u *UpdateDiscountRequest) Apply(current *model.Discount) map[string]any {
	fields := map[string]any{}

	if u.Name != "" {
		current.Name = u.Name
		fields[model.FieldName] = u.Name
	}

	if u.Value != nil {
		current.Value = u.Value.Round(2)
		fields[model.FieldValue] = current.Value
	}

	if u.MinAmount != nil {
		current.MinAmount = nullDecimal(u.MinAmount)
		fields[model.FieldMinAmount] = current.MinAmount
	}

	if u.MaxDiscount != nil {
		current.MaxDiscount = nullDecimal(u.MaxDiscount)
		fields[model.FieldMaxDiscount] = current.MaxDiscount
	}

	if u.UsageLimit != nil {
		current.UsageLimit = u.UsageLimit
		fields[model.FieldUsageLimit] = *u.UsageLimit
	}

	if u.StartDate != "" {
		current.StartDate, _ = time.Parse(constant.DateOnlyFormat, u.StartDate)
		fields[model.FieldStartDate] = u.StartDate
	}

	if u.EndDate != "" {
		current.EndDate, _ = time.Parse(constant.DateOnlyFormat, u.EndDate)
		fields[model.FieldEndDate] = u.EndDate
	}

	if u.IsActive != nil {
		current.IsActive = *u.IsActive
		fields[model.FieldIsActive] = *u.IsActive
	}

	return fields
}

type CheckDiscountRequest struct {
	Code   string          `json:"code"   validate:"required,max=50"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

type CheckDiscountResponse struct {
	Valid          bool   `json:"valid"`
	DiscountAmount string `json:"discount_amount"`
	Reason         string `json:"reason,omitempty"`
}

func (r *CheckDiscountResponse) FromEvaluation(evaluation model.Evaluation) {
	r.Valid = evaluation.Valid
	r.DiscountAmount = evaluation.Amount.StringFixed(2)
	r.Reason = evaluation.Reason
}

type DiscountResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Value       string  `json:"value"`
	MinAmount   *string `json:"min_amount"`
	MaxDiscount *string `json:"max_discount"`
	UsageLimit  *int    `json:"usage_limit"`
	UsedCount   int     `json:"used_count"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	IsActive    bool    `json:"is_active"`
	gDto.Metadata
}

func (r *DiscountResponse) FromModel(m model.Discount) {
	r.ID = m.ID
	r.Code = m.Code
	r.Name = m.Name
	r.Type = string(m.Type)
	r.Value = m.Value.StringFixed(2)
	r.MinAmount = nullDecimalString(m.MinAmount)
	r.MaxDiscount = nullDecimalString(m.MaxDiscount)
	r.UsageLimit = m.UsageLimit
	r.UsedCount = m.UsedCount
	r.StartDate = m.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = m.EndDate.Format(constant.DateOnlyFormat)
	r.IsActive = m.IsActive
	r.Metadata.FromModel(m.Metadata)
}

type GetDiscountsResponse struct {
	Discounts []DiscountResponse `json:"discounts"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetDiscountsResponse) FromModels(models []model.Discount, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Discounts = make([]DiscountResponse, len(models))
	for i, m := range models {
		r.Discounts[i].FromModel(m)
	}
}

func nullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(value.Round(2))
}

func nullDecimalString(value decimal.NullDecimal) *string {
	if !value.Valid {
		return nil
	}

	str := value.Decimal.StringFixed(2)

	return &str
}
