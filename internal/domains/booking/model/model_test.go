package model_test

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domains/booking/model"
	"hotel/shared/failure"
)

func date(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func TestTransition(t *testing.T) {
	allStatuses := []model.Status{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusCheckedIn,
		model.StatusCheckedOut,
		model.StatusCancelled,
	}
	allEvents := []model.Event{model.EventCheckIn, model.EventCheckOut, model.EventCancel}

	allowed := map[model.Status]map[model.Event]model.Status{
		model.StatusPending:   {model.EventCheckIn: model.StatusCheckedIn, model.EventCancel: model.StatusCancelled},
		model.StatusConfirmed: {model.EventCheckIn: model.StatusCheckedIn, model.EventCancel: model.StatusCancelled},
		model.StatusCheckedIn: {model.EventCheckOut: model.StatusCheckedOut, model.EventCancel: model.StatusCancelled},
	}

	for _, from := range allStatuses {
		for _, event := range allEvents {
			t.Run(string(from)+"/"+string(event), func(t *testing.T) {
				to, err := model.Transition(from, event)

				want, ok := allowed[from][event]
				if ok {
					require.NoError(t, err)
					assert.Equal(t, want, to)

					return
				}

				require.Error(t, err)
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
				assert.Equal(t, from, to)
				assert.Contains(t, err.Error(), string(from))
				assert.Contains(t, err.Error(), string(event))
			})
		}
	}
}

func TestTransition_Message(t *testing.T) {
	_, err := model.Transition(model.StatusConfirmed, model.EventCheckOut)

	assert.EqualError(t, err, "invalid transition: cannot check_out booking in status confirmed")
}

func TestStatus(t *testing.T) {
	tests := []struct {
		status   model.Status
		terminal bool
	}{
		{status: model.StatusPending},
		{status: model.StatusConfirmed},
		{status: model.StatusCheckedIn},
		{status: model.StatusCheckedOut, terminal: true},
		{status: model.StatusCancelled, terminal: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, !tt.terminal, slices.Contains(model.ActiveStatuses, tt.status))
		})
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, model.StatusPending, model.InitialStatus(false))
	assert.Equal(t, model.StatusConfirmed, model.InitialStatus(true))
}

func TestEventName(t *testing.T) {
	assert.Equal(t, model.EventNameCheckedIn, model.EventName(model.StatusCheckedIn))
	assert.Equal(t, model.EventNameCancelled, model.EventName(model.StatusCancelled))
	assert.Empty(t, model.EventName(model.StatusPending))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 2, model.Nights(date("2025-01-10"), date("2025-01-12")))
	assert.Equal(t, 1, model.Nights(date("2025-03-31"), date("2025-04-01")))

	booking := model.Booking{CheckInDate: date("2025-01-10"), CheckOutDate: date("2025-01-17")}
	assert.Equal(t, 7, booking.Nights())
}

func TestNewBookingNumber(t *testing.T) {
	number := model.NewBookingNumber(date("2025-01-10"))

	assert.Regexp(t, regexp.MustCompile(`^BK20250110[0-9A-F]{6}$`), number)
	assert.NotEqual(t, number, model.NewBookingNumber(date("2025-01-10")))
}

func TestOverlapFilter(t *testing.T) {
	t.Run("without exclusion", func(t *testing.T) {
		filter := model.OverlapFilter("room-1", date("2025-01-10"), date("2025-01-12"), "")

		where, args := filter.GetWhereClause()

		assert.Contains(t, where, "bookings.room_id = :overlap_room_id")
		assert.Contains(t, where, "bookings.status IN ('pending', 'confirmed', 'checked_in')")
		assert.Contains(t, where, "bookings.check_in_date < CAST(:overlap_check_out AS DATE)")
		assert.Contains(t, where, "bookings.check_out_date > CAST(:overlap_check_in AS DATE)")
		assert.NotContains(t, where, "overlap_exclude_id")
		assert.Equal(t, "room-1", args["overlap_room_id"])
		assert.Equal(t, "2025-01-10", args["overlap_check_in"])
		assert.Equal(t, "2025-01-12", args["overlap_check_out"])
	})

	t.Run("with exclusion", func(t *testing.T) {
		filter := model.OverlapFilter("room-1", date("2025-01-10"), date("2025-01-12"), "booking-1")

		where, args := filter.GetWhereClause()

		assert.Contains(t, where, "bookings.id != :overlap_exclude_id")
		assert.Equal(t, "booking-1", args["overlap_exclude_id"])
	})
}

func TestFreeRoomFilter(t *testing.T) {
	filter := model.FreeRoomFilter("rooms", date("2025-01-10"), date("2025-01-12"))

	where, args := filter.GetWhereClause()

	assert.Contains(t, where, "NOT EXISTS (SELECT 1 FROM bookings ob WHERE ob.room_id = rooms.id")
	assert.Contains(t, where, "ob.status IN ('pending', 'confirmed', 'checked_in')")
	assert.Equal(t, "2025-01-10", args["overlap_check_in"])
}

func TestCheckedInFilter(t *testing.T) {
	filter := model.CheckedInFilter("room-1")

	where, args := filter.GetWhereClause()

	assert.Equal(t, "(bookings.room_id = :room_id AND bookings.status = :status)", where)
	assert.Equal(t, "room-1", args["room_id"])
	assert.Equal(t, "checked_in", args["status"])
}

var (
	stayComparison = regexp.MustCompile(`(\w+)\.(check_in_date|check_out_date) (<=|>=|<|>) CAST\(:(\w+) AS DATE\)`)
	statusList     = regexp.MustCompile(`(\w+)\.status IN \(([^)]*)\)`)
)

// stayPredicate evaluates the date comparisons of a rendered overlap clause
// against one existing booking.
type stayPredicate struct {
	comparisons [][]string
	args        map[string]any
}

func newStayPredicate(t *testing.T, where string, args map[string]any) stayPredicate {
	t.Helper()

	comparisons := stayComparison.FindAllStringSubmatch(where, -1)
	require.Len(t, comparisons, 2, where)

	return stayPredicate{comparisons: comparisons, args: args}
}

func (p stayPredicate) matches(t *testing.T, checkIn, checkOut time.Time) bool {
	t.Helper()

	for _, comparison := range p.comparisons {
		column, operator, arg := comparison[2], comparison[3], comparison[4]

		left := checkIn
		if column == "check_out_date" {
			left = checkOut
		}

		right := date(fmt.Sprint(p.args[arg]))

		var ok bool

		switch operator {
		case "<":
			ok = left.Before(right)
		case "<=":
			ok = !left.After(right)
		case ">":
			ok = left.After(right)
		case ">=":
			ok = !left.Before(right)
		}

		if !ok {
			return false
		}
	}

	return true
}

// shareNight reports whether two stays have at least one night in common.
func shareNight(aIn, aOut, bIn, bOut time.Time) bool {
	for night := aIn; night.Before(aOut); night = night.AddDate(0, 0, 1) {
		if !night.Before(bIn) && night.Before(bOut) {
			return true
		}
	}

	return false
}

func TestOverlapFilter_HalfOpenStays(t *testing.T) {
	base := date("2025-03-01")
	existingIn, existingOut := date("2025-01-10"), date("2025-01-12")

	tests := []struct {
		name     string
		in, out  string
		overlaps bool
	}{
		{name: "same stay", in: "2025-01-10", out: "2025-01-12", overlaps: true},
		{name: "starts on existing check-out", in: "2025-01-12", out: "2025-01-14", overlaps: false},
		{name: "ends on existing check-in", in: "2025-01-08", out: "2025-01-10", overlaps: false},
		{name: "covers existing", in: "2025-01-09", out: "2025-01-13", overlaps: true},
		{name: "inside existing", in: "2025-01-11", out: "2025-01-12", overlaps: true},
		{name: "straddles check-in", in: "2025-01-09", out: "2025-01-11", overlaps: true},
		{name: "far later", in: "2025-02-01", out: "2025-02-03", overlaps: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := model.OverlapFilter("room-1", date(tt.in), date(tt.out), "")
			where, args := filter.GetWhereClause()

			assert.Equal(t, tt.overlaps, newStayPredicate(t, where, args).matches(t, existingIn, existingOut))
		})
	}

	t.Run("random stays", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(2025, 3))

		stay := func() (time.Time, time.Time) {
			start := rng.IntN(30)

			return base.AddDate(0, 0, start), base.AddDate(0, 0, start+1+rng.IntN(7))
		}

		for range 500 {
			reqIn, reqOut := stay()
			bookedIn, bookedOut := stay()

			overlapFilter := model.OverlapFilter("room-1", reqIn, reqOut, "")
			freeFilter := model.FreeRoomFilter("rooms", reqIn, reqOut)
			overlap, overlapArgs := overlapFilter.GetWhereClause()
			free, freeArgs := freeFilter.GetWhereClause()

			want := shareNight(reqIn, reqOut, bookedIn, bookedOut)
			label := fmt.Sprintf("request %s..%s, booked %s..%s",
				reqIn.Format(time.DateOnly), reqOut.Format(time.DateOnly),
				bookedIn.Format(time.DateOnly), bookedOut.Format(time.DateOnly))

			require.Equal(t, want, newStayPredicate(t, overlap, overlapArgs).matches(t, bookedIn, bookedOut), label)
			require.Equal(t, want, newStayPredicate(t, free, freeArgs).matches(t, bookedIn, bookedOut), label)
		}
	})
}

func TestOverlapFilter_OnlyActiveBookingsHoldTheRoom(t *testing.T) {
	overlapFilter := model.OverlapFilter("room-1", date("2025-03-01"), date("2025-03-04"), "")
	freeFilter := model.FreeRoomFilter("rooms", date("2025-03-01"), date("2025-03-04"))
	overlap, _ := overlapFilter.GetWhereClause()
	free, _ := freeFilter.GetWhereClause()

	for _, where := range []string{overlap, free} {
		match := statusList.FindStringSubmatch(where)
		require.NotNil(t, match, where)

		var statuses []string
		for _, quoted := range strings.Split(match[2], ",") {
			statuses = append(statuses, strings.Trim(strings.TrimSpace(quoted), "'"))
		}

		assert.ElementsMatch(t, []string{"pending", "confirmed", "checked_in"}, statuses)
		assert.NotContains(t, statuses, string(model.StatusCancelled))
		assert.NotContains(t, statuses, string(model.StatusCheckedOut))
	}
}
