package dto

import (
	"hotel/internal/domains/booking/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	GuestID         string `json:"guest_id"         validate:"required,uuid"`
	RoomID          string `json:"room_id"          validate:"required,uuid"`
	CheckInDate     string `json:"check_in_date"    validate:"required,date"`
	CheckOutDate    string `json:"check_out_date"   validate:"required,date"`
	NumberOfGuests  int    `json:"number_of_guests" validate:"required,gt=0"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
	DiscountCode    string `json:"discount_code"    validate:"omitempty,max=50"`
	// RequireDiscount turns an invalid discount code into a creation failure.
	RequireDiscount bool   `json:"require_discount"`
	Status          string `json:"status"           validate:"omitempty,oneof=pending confirmed"`
}

// Stay parses the requested dates. Check-out must fall after check-in.
func (c *CreateBookingRequest) Stay() (checkIn, checkOut time.Time, err error) {
	return model.ParseStay(c.CheckInDate, c.CheckOutDate)
}

// InitialStatus resolves the requested status, falling back to confirmDefault.
func (c *CreateBookingRequest) InitialStatus(confirmDefault bool) model.Status {
	if c.Status == constant.Empty {
		return model.InitialStatus(confirmDefault)
	}

	return model.Status(c.Status)
}

func (c *CreateBookingRequest) ToModel(user string, checkIn, checkOut, now time.Time, status model.Status) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		BookingNumber:   model.NewBookingNumber(now),
		GuestID:         c.GuestID,
		RoomID:          c.RoomID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  c.NumberOfGuests,
		SubtotalAmount:  decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TotalAmount:     decimal.Zero,
		Status:          status,
		SpecialRequests: c.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type AvailabilityRequest struct {
	RoomID           string `json:"room_id"            validate:"required,uuid"`
	CheckInDate      string `json:"check_in_date"      validate:"required,date"`
	CheckOutDate     string `json:"check_out_date"     validate:"required,date"`
	ExcludeBookingID string `json:"exclude_booking_id" validate:"omitempty,uuid"`
}

type AvailabilityResponse struct {
	RoomID       string `json:"room_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Available    bool   `json:"available"`
}

type BookingResponse struct {
	ID              string  `json:"id"`
	BookingNumber   string  `json:"booking_number"`
	GuestID         string  `json:"guest_id"`
	GuestName       string  `json:"guest_name"`
	RoomID          string  `json:"room_id"`
	RoomNumber      string  `json:"room_number"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	Nights          int     `json:"nights"`
	NumberOfGuests  int     `json:"number_of_guests"`
	SubtotalAmount  string  `json:"subtotal_amount"`
	DiscountID      *string `json:"discount_id"`
	DiscountAmount  string  `json:"discount_amount"`
	TotalAmount     string  `json:"total_amount"`
	Status          string  `json:"status"`
	SpecialRequests string  `json:"special_requests"`
	CheckedInAt     *string `json:"checked_in_at"`
	CheckedOutAt    *string `json:"checked_out_at"`
	CancelledAt     *string `json:"cancelled_at"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.BookingNumber = m.BookingNumber
	r.GuestID = m.GuestID
	r.GuestName = joinName(m.GuestFirstName, m.GuestLastName)
	r.RoomID = m.RoomID
	r.RoomNumber = m.RoomNumber
	r.CheckInDate = m.CheckInDate.Format(constant.DateOnlyFormat)
	r.CheckOutDate = m.CheckOutDate.Format(constant.DateOnlyFormat)
	r.Nights = m.Nights()
	r.NumberOfGuests = m.NumberOfGuests
	r.SubtotalAmount = m.SubtotalAmount.StringFixed(2)
	r.DiscountID = m.DiscountID
	r.DiscountAmount = m.DiscountAmount.StringFixed(2)
	r.TotalAmount = m.TotalAmount.StringFixed(2)
	r.Status = string(m.Status)
	r.SpecialRequests = m.SpecialRequests
	r.CheckedInAt = formatTimestamp(m.CheckedInAt)
	r.CheckedOutAt = formatTimestamp(m.CheckedOutAt)
	r.CancelledAt = formatTimestamp(m.CancelledAt)
	r.Metadata.FromModel(m.Metadata)
}

type CreateBookingResponse struct {
	BookingResponse
	DiscountApplied bool   `json:"discount_applied"`
	DiscountMessage string `json:"discount_message,omitempty"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is the payload published on the booking events topic.
type BookingEvent struct {
	Event         string `json:"event"`
	BookingID     string `json:"booking_id"`
	BookingNumber string `json:"booking_number"`
	GuestID       string `json:"guest_id"`
	RoomID        string `json:"room_id"`
	Status        string `json:"status"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	TotalAmount   string `json:"total_amount"`
	OccurredAt    string `json:"occurred_at"`
}

func NewBookingEvent(event string, m model.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Event:         event,
		BookingID:     m.ID,
		BookingNumber: m.BookingNumber,
		GuestID:       m.GuestID,
		RoomID:        m.RoomID,
		Status:        string(m.Status),
		CheckInDate:   m.CheckInDate.Format(constant.DateOnlyFormat),
		CheckOutDate:  m.CheckOutDate.Format(constant.DateOnlyFormat),
		TotalAmount:   m.TotalAmount.StringFixed(2),
		OccurredAt:    occurredAt.Format(constant.DateFormat),
	}
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := t.Format(constant.DateFormat)

	return &formatted
}

func joinName(first, last string) string {
	if last == constant.Empty {
		return first
	}

	if first == constant.Empty {
		return last
	}

	return first + " " + last
}
