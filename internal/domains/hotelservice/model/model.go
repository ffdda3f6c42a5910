package model

import (
	"hotel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "services"
	EntityName = "service"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldIsActive    = "is_active"
)

const (
	BookingServiceTableName  = "booking_services"
	BookingServiceEntityName = "booking_service"

	FieldBookingID  = "booking_id"
	FieldServiceID  = "service_id"
	FieldQuantity   = "quantity"
	FieldUnitPrice  = "unit_price"
	FieldTotalPrice = "total_price"
)

// Service is an extra a guest can order during a stay, such as laundry.
type Service struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	IsActive    bool            `db:"is_active"`
	model.Metadata
}

// BookingService is one service line on a booking. UnitPrice is the service price
// when the line was first added.
type BookingService struct {
	ID         string          `db:"id"`
	BookingID  string          `db:"booking_id"`
	ServiceID  string          `db:"service_id"`
	Quantity   int             `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	TotalPrice decimal.Decimal `db:"total_price"`

	ServiceName string `column:"name" db:"service_name" table:"services"`
	model.Metadata
}

func (BookingService) GetJoinQuery() string {
	return "LEFT JOIN services ON services.id = booking_services.service_id"
}

// LineTotal is the price of quantity units at unitPrice.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
