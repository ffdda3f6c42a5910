package model

import (
	"hotel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID               = "id"
	FieldRoomNumber       = "room_number"
	FieldRoomTypeID       = "room_type_id"
	FieldFloor            = "floor"
	FieldStatus           = "status"
	FieldUnderMaintenance = "under_maintenance"
	FieldDescription      = "description"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// RecomputeRoomStatus derives the stored room status. An occupied room stays occupied
// even while flagged for maintenance.
func RecomputeRoomStatus(underMaintenance bool, checkedInCount int) Status {
	switch {
	case checkedInCount > 0:
		return StatusOccupied
	case underMaintenance:
		return StatusMaintenance
	default:
		return StatusAvailable
	}
}

type Room struct {
	ID               string `db:"id"`
	RoomNumber       string `db:"room_number"`
	RoomTypeID       string `db:"room_type_id"`
	Floor            int    `db:"floor"`
	Status           Status `db:"status"`
	UnderMaintenance bool   `db:"under_maintenance"`
	Description      string `db:"description"`

	RoomTypeName      string          `column:"name"       db:"room_type_name"       table:"room_types"`
	RoomTypeCapacity  int             `column:"capacity"   db:"room_type_capacity"   table:"room_types"`
	RoomTypeBasePrice decimal.Decimal `column:"base_price" db:"room_type_base_price" table:"room_types"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "LEFT JOIN room_types ON room_types.id = rooms.room_type_id"
}
