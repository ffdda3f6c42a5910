package model

import (
	"hotel/shared/model"
	"hotel/shared/timezone"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "discounts"
	EntityName = "discount"

	FieldID          = "id"
	FieldCode        = "code"
	FieldName        = "name"
	FieldType        = "type"
	FieldValue       = "value"
	FieldMinAmount   = "min_amount"
	FieldMaxDiscount = "max_discount"
	FieldUsageLimit  = "usage_limit"
	FieldUsedCount   = "used_count"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldIsActive    = "is_active"
)

type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

const (
	ReasonNotFound     = "discount code not found"
	ReasonInactive     = "discount is inactive"
	ReasonOutOfPeriod  = "discount is not valid on this date"
	ReasonUsageLimit   = "discount usage limit reached"
	ReasonBelowMinimum = "amount is below discount minimum"
)

var hundred = decimal.NewFromInt(100)

type Discount struct {
	ID          string              `db:"id"`
	Code        string              `db:"code"`
	Name        string              `db:"name"`
	Type        Type                `db:"type"`
	Value       decimal.Decimal     `db:"value"`
	MinAmount   decimal.NullDecimal `db:"min_amount"`
	MaxDiscount decimal.NullDecimal `db:"max_discount"`
	UsageLimit  *int                `db:"usage_limit"`
	UsedCount   int                 `db:"used_count"`
	StartDate   time.Time           `db:"start_date"`
	EndDate     time.Time           `db:"end_date"`
	IsActive    bool                `db:"is_active"`
	model.Metadata
}

// Evaluation is the outcome of applying a discount to an amount.
type Evaluation struct {
	Valid  bool
	Amount decimal.Decimal
	Reason string
}

func invalid(reason string) Evaluation {
	return Evaluation{Amount: decimal.Zero, Reason: reason}
}

// Evaluate checks the discount rules in order (active, date window, usage, minimum) and
// computes the reduction on amount. The first failing rule is reported as the reason.
func (d Discount) Evaluate(amount decimal.Decimal, asOf time.Time) Evaluation {
	day := timezone.DateOf(asOf)

	switch {
	case !d.IsActive:
		return invalid(ReasonInactive)
	case day.Before(timezone.DateOf(d.StartDate)) || day.After(timezone.DateOf(d.EndDate)):
		return invalid(ReasonOutOfPeriod)
	case d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit:
		return invalid(ReasonUsageLimit)
	case d.MinAmount.Valid && amount.LessThan(d.MinAmount.Decimal):
		return invalid(ReasonBelowMinimum)
	}

	return Evaluation{Valid: true, Amount: d.compute(amount)}
}

func (d Discount) compute(amount decimal.Decimal) decimal.Decimal {
	var reduction decimal.Decimal

	switch d.Type {
	case TypePercentage:
		reduction = amount.Mul(d.Value).Div(hundred).Round(2)

		if d.MaxDiscount.Valid && reduction.GreaterThan(d.MaxDiscount.Decimal) {
			reduction = d.MaxDiscount.Decimal
		}
	case TypeFixed:
		reduction = decimal.Min(d.Value, amount)
	}

	// never more than the amount itself
	return decimal.Min(reduction, amount)
}

// NormalizeCode is the stored form of a discount code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
