package dto

import (
	"hotel/internal/domains/hotelservice/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateServiceRequest struct {
	Name        string          `json:"name"        validate:"required,max=100"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price"       validate:"gt=0"`
	IsActive    *bool           `json:"is_active"`
}

func (c *CreateServiceRequest) ToModel(user string) model.Service {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return model.Service{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price.Round(2),
		IsActive:    isActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateServiceRequest changes the catalogue price only; existing booking lines keep theirs.
type UpdateServiceRequest struct {
	Name        string           `json:"name"        validate:"omitempty,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gt=0"`
	IsActive    *bool            `json:"is_active"`
}

func (u *UpdateServiceRequest) ToFields() map[string]any {
	fields := map[string]any{}

	if u.Name != "" {
		fields[model.FieldName] = u.Name
	}

	if u.Description != nil {
		fields[model.FieldDescription] = *u.Description
	}

	if u.Price != nil {
		fields[model.FieldPrice] = u.Price.Round(2)
	}

	if u.IsActive != nil {
		fields[model.FieldIsActive] = *u.IsActive
	}

	return fields
}

type AddToBookingRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

func (a *AddToBookingRequest) ToModel(user string, service model.Service) model.BookingService {
	now := timezone.Now()

	return model.BookingService{
		ID:          uuid.NewString(),
		BookingID:   a.BookingID,
		ServiceID:   a.ServiceID,
		Quantity:    a.Quantity,
		UnitPrice:   service.Price,
		TotalPrice:  model.LineTotal(service.Price, a.Quantity),
		ServiceName: service.Name,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ServiceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsActive    bool   `json:"is_active"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(m model.Service) {
	r.ID = m.ID
	r.Name = m.Name
	r.Description = m.Description
	r.Price = m.Price.StringFixed(2)
	r.IsActive = m.IsActive
	r.Metadata.FromModel(m.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, m := range models {
		r.Services[i].FromModel(m)
	}
}

type BookingServiceResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
	gDto.Metadata
}

func (r *BookingServiceResponse) FromModel(m model.BookingService) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.ServiceID = m.ServiceID
	r.ServiceName = m.ServiceName
	r.Quantity = m.Quantity
	r.UnitPrice = m.UnitPrice.StringFixed(2)
	r.TotalPrice = m.TotalPrice.StringFixed(2)
	r.Metadata.FromModel(m.Metadata)
}

type BookingServicesResponse struct {
	BookingID     string                   `json:"booking_id"`
	Services      []BookingServiceResponse `json:"services"`
	ServicesTotal string                   `json:"services_total"`
}

func (r *BookingServicesResponse) FromModels(bookingID string, models []model.BookingService) {
	r.BookingID = bookingID
	r.Services = make([]BookingServiceResponse, len(models))

	total := decimal.Zero

	for i, m := range models {
		r.Services[i].FromModel(m)
		total = total.Add(m.TotalPrice)
	}

	r.ServicesTotal = total.StringFixed(2)
}
