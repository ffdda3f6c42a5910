package model

import (
	"hotel/shared/model"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TableName  = "room_types"
	EntityName = "room_type"

	FieldID          = "id"
	FieldName        = "name"
	FieldCapacity    = "capacity"
	FieldBasePrice   = "base_price"
	FieldAmenities   = "amenities"
	FieldDescription = "description"
)

type RoomType struct {
	ID          string                      `db:"id"`
	Name        string                      `db:"name"`
	Capacity    int                         `db:"capacity"`
	BasePrice   decimal.Decimal             `db:"base_price"`
	Amenities   datatypes.JSONSlice[string] `db:"amenities"`
	Description string                      `db:"description"`
	model.Metadata
}
