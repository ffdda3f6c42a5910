package dto

import (
	"hotel/internal/domains/roomtype/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CreateRoomTypeRequest struct {
	Name        string          `json:"name"        validate:"required,max=100"`
	Capacity    int             `json:"capacity"    validate:"required,gt=0"`
	BasePrice   decimal.Decimal `json:"base_price"  validate:"gt=0"`
	Amenities   []string        `json:"amenities"   validate:"omitempty,unique,dive,required,max=50"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
}

func (c *CreateRoomTypeRequest) ToModel(user string) model.RoomType {
	amenities := c.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return model.RoomType{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Capacity:    c.Capacity,
		BasePrice:   c.BasePrice.Round(2),
		Amenities:   datatypes.NewJSONSlice(amenities),
		Description: c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomTypeRequest struct {
	Name        string           `json:"name"        validate:"omitempty,max=100"`
	Capacity    int              `json:"capacity"    validate:"omitempty,gt=0"`
	BasePrice   *decimal.Decimal `json:"base_price"  validate:"omitempty,gt=0"`
	Amenities   []string         `json:"amenities"   validate:"omitempty,unique,dive,required,max=50"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
}

// ToFields returns the columns to update. Amenities replace the whole list when sent.
func (u *UpdateRoomTypeRequest) ToFields() map[string]any {
	fields := map[string]any{}

	if u.Name != "" {
		fields[model.FieldName] = u.Name
	}

	if u.Capacity > 0 {
		fields[model.FieldCapacity] = u.Capacity
	}

	if u.BasePrice != nil {
		fields[model.FieldBasePrice] = u.BasePrice.Round(2)
	}

	if u.Amenities != nil {
		fields[model.FieldAmenities] = datatypes.NewJSONSlice(u.Amenities)
	}

	if u.Description != nil {
		fields[model.FieldDescription] = *u.Description
	}

	return fields
}

type RoomTypeResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Capacity    int      `json:"capacity"`
	BasePrice   string   `json:"base_price"`
	Amenities   []string `json:"amenities"`
	Description string   `json:"description"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(m model.RoomType) {
	r.ID = m.ID
	r.Name = m.Name
	r.Capacity = m.Capacity
	r.BasePrice = m.BasePrice.StringFixed(2)
	r.Amenities = []string(m.Amenities)
	r.Description = m.Description
	r.Metadata.FromModel(m.Metadata)

	if r.Amenities == nil {
		r.Amenities = []string{}
	}
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, m := range models {
		r.RoomTypes[i].FromModel(m)
	}
}
