package dto

import (
	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomNumber       string `json:"room_number"       validate:"required,max=20"`
	RoomTypeID       string `json:"room_type_id"      validate:"required,uuid"`
	Floor            int    `json:"floor"             validate:"gte=0"`
	UnderMaintenance bool   `json:"under_maintenance"`
	Description      string `json:"description"       validate:"omitempty,max=1000"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	return model.Room{
		ID:               uuid.NewString(),
		RoomNumber:       c.RoomNumber,
		RoomTypeID:       c.RoomTypeID,
		Floor:            c.Floor,
		Status:           model.RecomputeRoomStatus(c.UnderMaintenance, 0),
		UnderMaintenance: c.UnderMaintenance,
		Description:      c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateRoomRequest has no status field: status follows bookings and the maintenance flag.
type UpdateRoomRequest struct {
	RoomNumber       string  `json:"room_number"       validate:"omitempty,max=20"`
	RoomTypeID       string  `json:"room_type_id"      validate:"omitempty,uuid"`
	Floor            *int    `json:"floor"             validate:"omitempty,gte=0"`
	UnderMaintenance *bool   `json:"under_maintenance"`
	Description      *string `json:"description"       validate:"omitempty,max=1000"`
}

// ToFields returns the plain columns to update. The maintenance flag is handled by the
// service together with the status recomputation.
func (u *UpdateRoomRequest) ToFields() map[string]any {
	fields := map[string]any{}

	if u.RoomNumber != "" {
		fields[model.FieldRoomNumber] = u.RoomNumber
	}

	if u.RoomTypeID != "" {
		fields[model.FieldRoomTypeID] = u.RoomTypeID
	}

	if u.Floor != nil {
		fields[model.FieldFloor] = *u.Floor
	}

	if u.Description != nil {
		fields[model.FieldDescription] = *u.Description
	}

	return fields
}

type AvailableRoomsRequest struct {
	CheckInDate  string `json:"check_in_date"  validate:"required,date"`
	CheckOutDate string `json:"check_out_date" validate:"required,date"`
	RoomTypeID   string `json:"room_type_id"   validate:"omitempty,uuid"`
}

type RoomTypeSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	BasePrice string `json:"base_price"`
}

type RoomResponse struct {
	ID               string          `json:"id"`
	RoomNumber       string          `json:"room_number"`
	Floor            int             `json:"floor"`
	Status           string          `json:"status"`
	UnderMaintenance bool            `json:"under_maintenance"`
	Description      string          `json:"description"`
	RoomType         RoomTypeSummary `json:"room_type"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(m model.Room) {
	r.ID = m.ID
	r.RoomNumber = m.RoomNumber
	r.Floor = m.Floor
	r.Status = string(m.Status)
	r.UnderMaintenance = m.UnderMaintenance
	r.Description = m.Description
	r.RoomType = RoomTypeSummary{
		ID:        m.RoomTypeID,
		Name:      m.RoomTypeName,
		Capacity:  m.RoomTypeCapacity,
		BasePrice: m.RoomTypeBasePrice.StringFixed(2),
	}
	r.Metadata.FromModel(m.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type AvailableRoomsResponse struct {
	CheckInDate  string         `json:"check_in_date"`
	CheckOutDate string         `json:"check_out_date"`
	Rooms        []RoomResponse `json:"rooms"`
}
