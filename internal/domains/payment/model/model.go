package model

import (
	"hotel/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldAmount        = "amount"
	FieldPaymentMethod = "payment_method"
	FieldStatus        = "status"
	FieldTransactionID = "transaction_id"
	FieldNotes         = "notes"
	FieldPaymentDate   = "payment_date"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodOnline       Method = "online"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// transitions lists the statuses each payment status may move to.
var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: {StatusRefunded},
}

// CanMoveTo reports whether a payment in status s may be set to next.
func (s Status) CanMoveTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type Payment struct {
	ID            string          `db:"id"`
	BookingID     string          `db:"booking_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod Method          `db:"payment_method"`
	Status        Status          `db:"status"`
	TransactionID *string         `db:"transaction_id"`
	Notes         string          `db:"notes"`
	PaymentDate   time.Time       `db:"payment_date"`
	model.Metadata
}

// Paid sums the completed payments only.
func Paid(payments []Payment) decimal.Decimal {
	total := decimal.Zero

	for _, p := range payments {
		if p.Status == StatusCompleted {
			total = total.Add(p.Amount)
		}
	}

	return total
}

// BalanceDue is what the guest still owes for the stay and the services ordered.
func BalanceDue(bookingTotal, servicesTotal, paid decimal.Decimal) decimal.Decimal {
	return bookingTotal.Add(servicesTotal).Sub(paid).Round(2)
}
