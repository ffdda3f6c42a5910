package dto

import (
	"hotel/internal/domains/roomimage/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type AddImageRequest struct {
	RoomID    string                `json:"-"          validate:"required,uuid"`
	File      *multipart.FileHeader `json:"file"       swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	Content   multipart.File        `json:"-"`
	IsPrimary bool                  `json:"is_primary"`
	Order     *int                  `json:"order"      validate:"omitempty,gte=0"`
}

// ObjectName is a collision-free file name that keeps the upload's extension.
func (a *AddImageRequest) ObjectName() string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(a.File.Filename))
}

func (a *AddImageRequest) ContentType() string {
	return a.File.Header.Get(constant.RequestHeaderContentType)
}

func (a *AddImageRequest) ToModel(user, path string, isPrimary bool, order int) model.RoomImage {
	now := timezone.Now()

	return model.RoomImage{
		ID:        uuid.NewString(),
		RoomID:    a.RoomID,
		Path:      path,
		IsPrimary: isPrimary,
		SortOrder: order,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateImageRequest can move an image or make it primary. An image stops being primary
// only when another one is promoted.
type UpdateImageRequest struct {
	Order     *int  `json:"order"      validate:"omitempty,gte=0"`
	IsPrimary *bool `json:"is_primary"`
}

func (u *UpdateImageRequest) Check() error {
	if u.Order == nil && u.IsPrimary == nil {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if u.IsPrimary != nil && !*u.IsPrimary {
		return failure.BadRequestFromString("is_primary can only be set to true; promote another image instead") // nolint:wrapcheck
	}

	return nil
}

type ReorderItem struct {
	ID    string `json:"id"    validate:"required,uuid"`
	Order int    `json:"order" validate:"gte=0"`
}

type ReorderRequest struct {
	Images []ReorderItem `json:"images" validate:"required,min=1,dive"`
}

// Check rejects payloads that name an image twice or give two images the same order.
func (r *ReorderRequest) Check() error {
	ids := make(map[string]struct{}, len(r.Images))
	orders := make(map[int]struct{}, len(r.Images))

	for _, item := range r.Images {
		if item.Order < 0 {
			return failure.BadRequestFromString("order must be greater than or equal to 0") // nolint:wrapcheck
		}

		if _, ok := ids[item.ID]; ok {
			return failure.BadRequestFromString("image " + item.ID + " is listed more than once") // nolint:wrapcheck
		}

		if _, ok := orders[item.Order]; ok {
			return failure.BadRequestFromString("two images cannot share the same order") // nolint:wrapcheck
		}

		ids[item.ID] = struct{}{}
		orders[item.Order] = struct{}{}
	}

	return nil
}

type RoomImageResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Path      string `json:"path"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
	gDto.Metadata
}

func (r *RoomImageResponse) FromModel(m model.RoomImage) {
	r.ID = m.ID
	r.RoomID = m.RoomID
	r.Path = m.Path
	r.IsPrimary = m.IsPrimary
	r.SortOrder = m.SortOrder
	r.Metadata.FromModel(m.Metadata)
}

type RoomImagesResponse struct {
	RoomID string              `json:"room_id"`
	Images []RoomImageResponse `json:"images"`
}

func (r *RoomImagesResponse) FromModels(roomID string, models []model.RoomImage) {
	r.RoomID = roomID
	r.Images = make([]RoomImageResponse, len(models))

	for i, m := range models {
		r.Images[i].FromModel(m)
	}
}
