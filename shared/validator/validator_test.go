package validator_test

import (
	"hotel/shared/failure"
	"hotel/shared/validator"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stayRequest struct {
	RoomID         string          `json:"room_id"          validate:"required,uuid"`
	CheckInDate    string          `json:"check_in_date"    validate:"required,date"`
	NumberOfGuests int             `json:"number_of_guests" validate:"gte=1,lte=10"`
	Amount         decimal.Decimal `json:"amount"           validate:"gt=0"`
	Method         string          `json:"method"           validate:"oneof=cash card"`
}

func validStay() stayRequest {
	return stayRequest{
		RoomID:         "0b6f4c4e-2a53-4c43-9d1d-1c1a6d3f5e11",
		CheckInDate:    "2025-03-10",
		NumberOfGuests: 2,
		Amount:         decimal.RequireFromString("300.00"),
		Method:         "cash",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *stayRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(_ *stayRequest) {},
		},
		{
			name:    "missing room id uses json name",
			mutate:  func(r *stayRequest) { r.RoomID = "" },
			wantErr: "room_id is required",
		},
		{
			name:    "malformed date",
			mutate:  func(r *stayRequest) { r.CheckInDate = "10/03/2025" },
			wantErr: "check_in_date must be a date in YYYY-MM-DD format",
		},
		{
			name:    "zero decimal amount",
			mutate:  func(r *stayRequest) { r.Amount = decimal.Zero },
			wantErr: "amount must be greater than 0",
		},
		{
			name:    "negative decimal amount",
			mutate:  func(r *stayRequest) { r.Amount = decimal.RequireFromString("-1.50") },
			wantErr: "amount must be greater than 0",
		},
		{
			name:    "guests over limit",
			mutate:  func(r *stayRequest) { r.NumberOfGuests = 11 },
			wantErr: "number_of_guests must be less than or equal to 10",
		},
		{
			name:    "unknown method",
			mutate:  func(r *stayRequest) { r.Method = "cheque" },
			wantErr: "method must be one of cash card",
		},
		{
			name: "every failing field is reported",
			mutate: func(r *stayRequest) {
				r.RoomID = "room-101"
				r.NumberOfGuests = 0
			},
			wantErr: "room_id must be a valid UUID; number_of_guests must be greater than or equal to 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validStay()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("decodes and validates body", func(t *testing.T) {
		body := `{"room_id":"0b6f4c4e-2a53-4c43-9d1d-1c1a6d3f5e11","check_in_date":"2025-03-10","number_of_guests":1,"amount":"99.90","method":"card"}`

		var req stayRequest
		err := validator.Validate(strings.NewReader(body), &req)

		assert.NoError(t, err)
		assert.True(t, req.Amount.Equal(decimal.RequireFromString("99.90")))
	})

	t.Run("invalid json is a bad request", func(t *testing.T) {
		var req stayRequest
		err := validator.Validate(strings.NewReader(`{"room_id":`), &req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode request body")
	})
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-02-28", "date"))
	assert.Error(t, validator.ValidateVar("2025-02-30", "date"))
	assert.NoError(t, validator.ValidateVar("staff@hotel.test", "required,email"))
	assert.Error(t, validator.ValidateVar("", "required"))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(validator.ValidateVar("", "required")))
}

type uploadRequest struct {
	File *multipart.FileHeader `json:"file" validate:"required,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

func TestValidateUpload(t *testing.T) {
	file := func(contentType string, size int64) *multipart.FileHeader {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", contentType)

		return &multipart.FileHeader{Filename: "room.png", Header: header, Size: size}
	}

	tests := []struct {
		name    string
		req     uploadRequest
		wantErr string
	}{
		{name: "png within limit", req: uploadRequest{File: file("image/png", 512*1024)}},
		{name: "missing file", req: uploadRequest{}, wantErr: "file is required"},
		{name: "pdf rejected", req: uploadRequest{File: file("application/pdf", 1024)}, wantErr: "file must be one of these types: image/png image/jpeg"},
		{name: "too large", req: uploadRequest{File: file("image/jpeg", 2*1024*1024)}, wantErr: "file must not be larger than 1 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}
