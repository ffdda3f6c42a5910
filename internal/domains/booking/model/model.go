package model

import (
	"fmt"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/model"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldBookingNumber   = "booking_number"
	FieldGuestID         = "guest_id"
	FieldRoomID          = "room_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldNumberOfGuests  = "number_of_guests"
	FieldSubtotalAmount  = "subtotal_amount"
	FieldDiscountID      = "discount_id"
	FieldDiscountAmount  = "discount_amount"
	FieldTotalAmount     = "total_amount"
	FieldStatus          = "status"
	FieldSpecialRequests = "special_requests"
	FieldCheckedInAt     = "checked_in_at"
	FieldCheckedOutAt    = "checked_out_at"
	FieldCancelledAt     = "cancelled_at"

	bookingNumberPrefix = "BK"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// ActiveStatuses hold the room for their stay.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn}

func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

type Event string

const (
	EventCheckIn  Event = "check_in"
	EventCheckOut Event = "check_out"
	EventCancel   Event = "cancel"
)

// Names of the events published after a booking changes.
const (
	EventNameCreated    = "booking.created"
	EventNameConfirmed  = "booking.confirmed"
	EventNameCheckedIn  = "booking.checked_in"
	EventNameCheckedOut = "booking.checked_out"
	EventNameCancelled  = "booking.cancelled"
)

var eventNames = map[Status]string{
	StatusConfirmed:  EventNameConfirmed,
	StatusCheckedIn:  EventNameCheckedIn,
	StatusCheckedOut: EventNameCheckedOut,
	StatusCancelled:  EventNameCancelled,
}

// EventName is the published name for a booking that just entered status.
func EventName(status Status) string {
	return eventNames[status]
}

var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventCheckIn: StatusCheckedIn,
		EventCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		EventCheckIn: StatusCheckedIn,
		EventCancel:  StatusCancelled,
	},
	StatusCheckedIn: {
		EventCheckOut: StatusCheckedOut,
		EventCancel:   StatusCancelled,
	},
}

// Transition returns the status reached by applying event to from.
// Pairs missing from the table fail with an invalid transition error.
func Transition(from Status, event Event) (Status, error) {
	if to, ok := transitions[from][event]; ok {
		return to, nil
	}

	return from, failure.InvalidTransition(string(from), string(event)) // nolint:wrapcheck
}

// ParseStay parses a YYYY-MM-DD pair and rejects empty or inverted stays.
func ParseStay(checkInDate, checkOutDate string) (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(constant.DateOnlyFormat, checkInDate)
	if err != nil {
		return checkIn, checkOut, failure.Unprocessable("check_in_date must be a YYYY-MM-DD date") // nolint:wrapcheck
	}

	checkOut, err = time.Parse(constant.DateOnlyFormat, checkOutDate)
	if err != nil {
		return checkIn, checkOut, failure.Unprocessable("check_out_date must be a YYYY-MM-DD date") // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return checkIn, checkOut, failure.Unprocessable("check_out_date must be after check_in_date") // nolint:wrapcheck
	}

	return checkIn, checkOut, nil
}

// InitialStatus is the status a new booking starts in.
func InitialStatus(confirm bool) Status {
	if confirm {
		return StatusConfirmed
	}

	return StatusPending
}

type Booking struct {
	ID              string          `db:"id"`
	BookingNumber   string          `db:"booking_number"`
	GuestID         string          `db:"guest_id"`
	RoomID          string          `db:"room_id"`
	CheckInDate     time.Time       `db:"check_in_date"`
	CheckOutDate    time.Time       `db:"check_out_date"`
	NumberOfGuests  int             `db:"number_of_guests"`
	SubtotalAmount  decimal.Decimal `db:"subtotal_amount"`
	DiscountID      *string         `db:"discount_id"`
	DiscountAmount  decimal.Decimal `db:"discount_amount"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Status          Status          `db:"status"`
	SpecialRequests string          `db:"special_requests"`
	CheckedInAt     *time.Time      `db:"checked_in_at"`
	CheckedOutAt    *time.Time      `db:"checked_out_at"`
	CancelledAt     *time.Time      `db:"cancelled_at"`

	GuestFirstName string `column:"first_name"  db:"guest_first_name" table:"guests"`
	GuestLastName  string `column:"last_name"   db:"guest_last_name"  table:"guests"`
	RoomNumber     string `column:"room_number" db:"room_number"      table:"rooms"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN guests ON guests.id = bookings.guest_id LEFT JOIN rooms ON rooms.id = bookings.room_id"
}

// Nights is the number of nights between check-in and check-out.
func (b Booking) Nights() int {
	return Nights(b.CheckInDate, b.CheckOutDate)
}

func Nights(checkIn, checkOut time.Time) int {
	hoursPerDay := 24.0

	return int(math.Round(checkOut.Sub(checkIn).Hours() / hoursPerDay))
}

// NewBookingNumber returns BK followed by the date and six upper-case hex characters.
func NewBookingNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]

	return bookingNumberPrefix + now.Format("20060102") + strings.ToUpper(suffix)
}

const (
	argOverlapRoomID   = "overlap_room_id"
	argOverlapCheckIn  = "overlap_check_in"
	argOverlapCheckOut = "overlap_check_out"
	argOverlapExclude  = "overlap_exclude_id"
)

// overlapCondition matches active bookings under alias whose stay intersects
// [:overlap_check_in, :overlap_check_out).
func overlapCondition(alias string) string {
	statuses := make([]string, len(ActiveStatuses))
	for i, status := range ActiveStatuses {
		statuses[i] = "'" + string(status) + "'"
	}

	return fmt.Sprintf(
		"%[1]s.status IN (%[2]s) AND %[1]s.check_in_date < CAST(:%[3]s AS DATE) AND %[1]s.check_out_date > CAST(:%[4]s AS DATE)",
		alias, strings.Join(statuses, ", "), argOverlapCheckOut, argOverlapCheckIn,
	)
}

func overlapArgs(checkIn, checkOut time.Time) map[string]any {
	return map[string]any{
		argOverlapCheckIn:  checkIn.Format(constant.DateOnlyFormat),
		argOverlapCheckOut: checkOut.Format(constant.DateOnlyFormat),
	}
}

// OverlapFilter selects the active bookings of roomID that collide with the requested stay.
// excludeBookingID, when set, is left out of the match.
func OverlapFilter(roomID string, checkIn, checkOut time.Time, excludeBookingID string) gDto.FilterGroup {
	query := fmt.Sprintf("%s.room_id = :%s AND %s", TableName, argOverlapRoomID, overlapCondition(TableName))
	args := overlapArgs(checkIn, checkOut)
	args[argOverlapRoomID] = roomID

	if excludeBookingID != constant.Empty {
		query += fmt.Sprintf(" AND %s.id != :%s", TableName, argOverlapExclude)
		args[argOverlapExclude] = excludeBookingID
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Operator: gDto.FilterPlainQuery, Value: query, Args: args},
		},
	}
}

// FreeRoomFilter keeps rows of roomTable that have no active booking colliding with the stay.
func FreeRoomFilter(roomTable string, checkIn, checkOut time.Time) gDto.Filter {
	query := fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM %s ob WHERE ob.room_id = %s.id AND %s)",
		TableName, roomTable, overlapCondition("ob"),
	)

	return gDto.Filter{Operator: gDto.FilterPlainQuery, Value: query, Args: overlapArgs(checkIn, checkOut)}
}

// CheckedInFilter selects the bookings currently occupying roomID.
func CheckedInFilter(roomID string) gDto.FilterGroup {
	return gDto.And(
		gDto.Eq(TableName, FieldRoomID, roomID),
		gDto.Eq(TableName, FieldStatus, string(StatusCheckedIn)),
	)
}
