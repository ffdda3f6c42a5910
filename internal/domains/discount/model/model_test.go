package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hotel/internal/domains/discount/model"
)

func date(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func intPtr(v int) *int {
	return &v
}

func TestDiscount_Evaluate(t *testing.T) {
	base := model.Discount{
		Type:      model.TypePercentage,
		Value:     decimal.NewFromInt(10),
		StartDate: date("2025-01-01"),
		EndDate:   date("2025-12-31"),
		IsActive:  true,
	}
	asOf := date("2025-06-01").Add(15 * time.Hour)

	tests := []struct {
		name       string
		mutate     func(d *model.Discount)
		amount     string
		asOf       time.Time
		wantValid  bool
		wantAmount string
		wantReason string
	}{
		{
			name:       "ten percent of 300",
			amount:     "300",
			asOf:       asOf,
			wantValid:  true,
			wantAmount: "30.00",
		},
		{
			name: "percentage capped by max discount",
			mutate: func(d *model.Discount) {
				d.Value = decimal.NewFromInt(20)
				d.MaxDiscount = decimal.NewNullDecimal(decimal.NewFromInt(30))
			},
			amount:     "500",
			asOf:       asOf,
			wantValid:  true,
			wantAmount: "30.00",
		},
		{
			name: "percentage rounds to cents",
			mutate: func(d *model.Discount) {
				d.Value = decimal.RequireFromString("12.5")
			},
			amount:     "99.99",
			asOf:       asOf,
			wantValid:  true,
			wantAmount: "12.50",
		},
		{
			name: "fixed never exceeds the amount",
			mutate: func(d *model.Discount) {
				d.Type = model.TypeFixed
				d.Value = decimal.NewFromInt(50)
			},
			amount:     "30",
			asOf:       asOf,
			wantValid:  true,
			wantAmount: "30.00",
		},
		{
			name: "inactive",
			mutate: func(d *model.Discount) {
				d.IsActive = false
			},
			amount:     "300",
			asOf:       asOf,
			wantAmount: "0.00",
			wantReason: model.ReasonInactive,
		},
		{
			name:       "before start date",
			amount:     "300",
			asOf:       date("2024-12-31"),
			wantAmount: "0.00",
			wantReason: model.ReasonOutOfPeriod,
		},
		{
			name:       "last day is inclusive",
			amount:     "100",
			asOf:       date("2025-12-31").Add(23 * time.Hour),
			wantValid:  true,
			wantAmount: "10.00",
		},
		{
			name:       "after end date",
			amount:     "100",
			asOf:       date("2026-01-01"),
			wantAmount: "0.00",
			wantReason: model.ReasonOutOfPeriod,
		},
		{
			name: "usage limit reached",
			mutate: func(d *model.Discount) {
				d.UsageLimit = intPtr(1)
				d.UsedCount = 1
			},
			amount:     "300",
			asOf:       asOf,
			wantAmount: "0.00",
			wantReason: model.ReasonUsageLimit,
		},
		{
			name: "below minimum",
			mutate: func(d *model.Discount) {
				d.MinAmount = decimal.NewNullDecimal(decimal.NewFromInt(500))
			},
			amount:     "300",
			asOf:       asOf,
			wantAmount: "0.00",
			wantReason: model.ReasonBelowMinimum,
		},
		{
			name: "inactive is reported before the date window",
			mutate: func(d *model.Discount) {
				d.IsActive = false
			},
			amount:     "300",
			asOf:       date("2030-01-01"),
			wantAmount: "0.00",
			wantReason: model.ReasonInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount := base
			if tt.mutate != nil {
				tt.mutate(&discount)
			}

			got := discount.Evaluate(decimal.RequireFromString(tt.amount), tt.asOf)

			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantAmount, got.Amount.StringFixed(2))
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", model.NormalizeCode("  save10 "))
}
