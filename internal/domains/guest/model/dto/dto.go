package dto

import (
	"hotel/internal/domains/guest/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateGuestRequest struct {
	FirstName      string `json:"first_name"      validate:"required,max=100"`
	LastName       string `json:"last_name"       validate:"required,max=100"`
	Email          string `json:"email"           validate:"required,email,max=255"`
	Phone          string `json:"phone"           validate:"omitempty,max=30"`
	PassportNumber string `json:"passport_number" validate:"omitempty,max=50"`
	DateOfBirth    string `json:"date_of_birth"   validate:"omitempty,date"`
	Nationality    string `json:"nationality"     validate:"omitempty,max=100"`
	Address        string `json:"address"         validate:"omitempty,max=500"`
}

func (c *CreateGuestRequest) ToModel(user string) model.Guest {
	return model.Guest{
		ID:             uuid.NewString(),
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          strings.ToLower(c.Email),
		Phone:          c.Phone,
		PassportNumber: c.PassportNumber,
		DateOfBirth:    parseDate(c.DateOfBirth),
		Nationality:    c.Nationality,
		Address:        c.Address,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateGuestRequest struct {
	FirstName      string `db:"first_name"      json:"first_name"      validate:"omitempty,max=100"`
	LastName       string `db:"last_name"       json:"last_name"       validate:"omitempty,max=100"`
	Email          string `db:"email"           json:"email"           validate:"omitempty,email,max=255"`
	Phone          string `db:"phone"           json:"phone"           validate:"omitempty,max=30"`
	PassportNumber string `db:"passport_number" json:"passport_number" validate:"omitempty,max=50"`
	DateOfBirth    string `db:"date_of_birth"   json:"date_of_birth"   validate:"omitempty,date"`
	Nationality    string `db:"nationality"     json:"nationality"     validate:"omitempty,max=100"`
	Address        string `db:"address"         json:"address"         validate:"omitempty,max=500"`
}

type GuestResponse struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	PassportNumber string  `json:"passport_number"`
	DateOfBirth    *string `json:"date_of_birth"`
	Nationality    string  `json:"nationality"`
	Address        string  `json:"address"`
	gDto.Metadata
}

func (r *GuestResponse) FromModel(m model.Guest) {
	r.ID = m.ID
	r.FirstName = m.FirstName
	r.LastName = m.LastName
	r.Email = m.Email
	r.Phone = m.Phone
	r.PassportNumber = m.PassportNumber
	r.Nationality = m.Nationality
	r.Address = m.Address
	r.Metadata.FromModel(m.Metadata)

	if m.DateOfBirth != nil {
		dob := m.DateOfBirth.Format(constant.DateOnlyFormat)
		r.DateOfBirth = &dob
	}
}

type GetGuestsResponse struct {
	Guests    []GuestResponse `json:"guests"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetGuestsResponse) FromModels(models []model.Guest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Guests = make([]GuestResponse, len(models))
	for i, m := range models {
		r.Guests[i].FromModel(m)
	}
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}

	date, err := time.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return nil
	}

	return &date
}
