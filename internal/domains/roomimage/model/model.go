package model

import (
	"hotel/shared/model"
)

const (
	TableName  = "room_images"
	EntityName = "room_image"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldPath      = "path"
	FieldIsPrimary = "is_primary"
	FieldSortOrder = "sort_order"

	// StorageDirectory is the object key prefix of uploaded room images.
	StorageDirectory = "rooms"

	// ConstraintSinglePrimary is the partial unique index allowing one primary image per room.
	ConstraintSinglePrimary = "uq_room_images_primary"
)

type RoomImage struct {
	ID        string `db:"id"`
	RoomID    string `db:"room_id"`
	Path      string `db:"path"`
	IsPrimary bool   `db:"is_primary"`
	SortOrder int    `db:"sort_order"`
	model.Metadata
}

// NextOrder is the order given to an image added without one: one past the highest
// existing order, or 0 for a room without images. maxOrder is -1 when there are none.
func NextOrder(maxOrder int) int {
	if maxOrder < 0 {
		return 0
	}

	return maxOrder + 1
}

// StartsPrimary reports whether a new image becomes the room's primary image.
// The first image of a room is always primary.
func StartsPrimary(requested bool, existing int) bool {
	return requested || existing == 0
}
