package dto

import (
	"hotel/internal/domains/payment/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	BookingID     string          `json:"booking_id"     validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"         validate:"gt=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash card bank_transfer online"`
	Status        string          `json:"status"         validate:"omitempty,oneof=pending completed"`
	TransactionID string          `json:"transaction_id" validate:"omitempty,max=100"`
	Notes         string          `json:"notes"          validate:"omitempty,max=1000"`
	PaymentDate   string          `json:"payment_date"   validate:"omitempty,date"`
}

func (c *CreatePaymentRequest) ToModel(user string) model.Payment {
	now := timezone.Now()

	status := model.StatusPending
	if c.Status != constant.Empty {
		status = model.Status(c.Status)
	}

	paymentDate := now
	if c.PaymentDate != constant.Empty {
		if parsed, err := timezone.Parse(constant.DateOnlyFormat, c.PaymentDate); err == nil {
			paymentDate = parsed
		}
	}

	var transactionID *string
	if c.TransactionID != constant.Empty {
		transactionID = &c.TransactionID
	}

	return model.Payment{
		ID:            uuid.NewString(),
		BookingID:     c.BookingID,
		Amount:        c.Amount.Round(2),
		PaymentMethod: model.Method(c.PaymentMethod),
		Status:        status,
		TransactionID: transactionID,
		Notes:         c.Notes,
		PaymentDate:   paymentDate,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdatePaymentStatusRequest struct {
	Status        string `json:"status"         validate:"required,oneof=completed failed refunded"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=100"`
	Notes         string `json:"notes"          validate:"omitempty,max=1000"`
}

type PaymentResponse struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	Amount        string  `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id"`
	Notes         string  `json:"notes"`
	PaymentDate   string  `json:"payment_date"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(m model.Payment) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.Amount = m.Amount.StringFixed(2)
	r.PaymentMethod = string(m.PaymentMethod)
	r.Status = string(m.Status)
	r.TransactionID = m.TransactionID
	r.Notes = m.Notes
	r.PaymentDate = m.PaymentDate.Format(constant.DateFormat)
	r.Metadata.FromModel(m.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, m := range models {
		r.Payments[i].FromModel(m)
	}
}

type BookingPaymentsResponse struct {
	BookingID string            `json:"booking_id"`
	Payments  []PaymentResponse `json:"payments"`
	TotalPaid string            `json:"total_paid"`
}

func (r *BookingPaymentsResponse) FromModels(bookingID string, models []model.Payment) {
	r.BookingID = bookingID
	r.TotalPaid = model.Paid(models).StringFixed(2)

	r.Payments = make([]PaymentResponse, len(models))
	for i, m := range models {
		r.Payments[i].FromModel(m)
	}
}

type BalanceResponse struct {
	BookingID     string `json:"booking_id"`
	BookingNumber string `json:"booking_number"`
	TotalAmount   string `json:"total_amount"`
	ServicesTotal string `json:"services_total"`
	TotalPaid     string `json:"total_paid"`
	BalanceDue    string `json:"balance_due"`
}
