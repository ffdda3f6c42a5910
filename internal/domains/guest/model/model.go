package model

import (
	"hotel/shared/model"
	"time"
)

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID             = "id"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldPassportNumber = "passport_number"
	FieldDateOfBirth    = "date_of_birth"
	FieldNationality    = "nationality"
	FieldAddress        = "address"
)

type Guest struct {
	ID             string     `db:"id"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Email          string     `db:"email"`
	Phone          string     `db:"phone"`
	PassportNumber string     `db:"passport_number"`
	DateOfBirth    *time.Time `db:"date_of_birth"`
	Nationality    string     `db:"nationality"`
	Address        string     `db:"address"`
	model.Metadata
}
