package service_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/kafka"
	kafkaMocks "hotel/infras/kafka/mocks"
	"hotel/infras/otel/mocks"
	bookingMocks "hotel/internal/domains/booking/mocks"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	discountMocks "hotel/internal/domains/discount/mocks"
	discountModel "hotel/internal/domains/discount/model"
	guestMocks "hotel/internal/domains/guest/mocks"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	repoMocks "hotel/shared/repository/mocks"
)

const (
	roomID    = "0b8f3f52-8d0b-4bb4-9a43-6a0c5e2f1a01"
	guestID   = "5d7a1c0e-3f4b-4e8e-8c1d-2b9e6f7a8c02"
	bookingID = "9c2e4a6b-1d3f-4a5b-8c7d-0e1f2a3b4c03"
	topic     = "booking-events"
)

type fixture struct {
	svc          service.Booking
	repo         *bookingMocks.MockBooking
	roomRepo     *roomMocks.MockRoom
	guestRepo    *guestMocks.MockGuest
	discountRepo *discountMocks.MockDiscount
	kafka        *kafkaMocks.MockClient
	events       chan kafka.Message
	clock        *testClock
	evicted      *keyLog
}

// testClock is a clock the test can move between operations.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

// keyLog records the cache keys deleted by the service.
type keyLog struct {
	mu   sync.Mutex
	keys []string
}

func (l *keyLog) add(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.keys = append(l.keys, key)
}

func (l *keyLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.keys...)
}

func date(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         bookingMocks.NewMockBooking(ctrl),
		roomRepo:     roomMocks.NewMockRoom(ctrl),
		guestRepo:    guestMocks.NewMockGuest(ctrl),
		discountRepo: discountMocks.NewMockDiscount(ctrl),
		kafka:        kafkaMocks.NewMockClient(ctrl),
		events:       make(chan kafka.Message, 10),
		clock:        &testClock{now: now},
		evicted:      &keyLog{},
	}

	tx := repoMocks.NewMockTransaction(ctrl)
	tx.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()

	redisCache := cacheMocks.NewMockRedisCache(ctrl)
	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redisCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			f.evicted.add(key)

			return nil
		}).
		AnyTimes()
	redisCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.kafka.EXPECT().
		SendMessages(gomock.Any(), topic, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			for _, message := range messages {
				f.events <- message
			}

			return nil
		}).
		AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topics.BookingEvents = topic

	f.svc = service.New(
		f.repo,
		f.roomRepo,
		f.guestRepo,
		f.discountRepo,
		tx,
		f.kafka,
		f.clock,
		cfg,
		redisCache,
		mocks.NewOtel(),
	)

	return f
}

func (f fixture) nextEvent(t *testing.T) dto.BookingEvent {
	t.Helper()

	select {
	case message := <-f.events:
		event, ok := message.Value.(dto.BookingEvent)
		require.True(t, ok)

		return event
	case <-time.After(time.Second):
		t.Fatal("no booking event published")

		return dto.BookingEvent{}
	}
}

func room101(status roomModel.Status) roomModel.Room {
	return roomModel.Room{
		ID:                roomID,
		RoomNumber:        "101",
		Status:            status,
		RoomTypeCapacity:  2,
		RoomTypeBasePrice: decimal.RequireFromString("150.00"),
	}
}

func save10() discountModel.Discount {
	return discountModel.Discount{
		ID:        "d-1",
		Code:      "SAVE10",
		Type:      discountModel.TypePercentage,
		Value:     decimal.NewFromInt(10),
		StartDate: date("2025-01-01"),
		EndDate:   date("2025-12-31"),
		IsActive:  true,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		GuestID:        guestID,
		RoomID:         roomID,
		CheckInDate:    "2025-01-10",
		CheckOutDate:   "2025-01-12",
		NumberOfGuests: 2,
	}
}

func TestBookingService_Room101Lifecycle(t *testing.T) {
	f := newFixture(t, date("2025-03-01").Add(9*time.Hour))
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "receptionist-1")

	room := room101(roomModel.StatusAvailable)
	room.RoomTypeBasePrice = decimal.RequireFromString("100.00")

	var stored model.Booking

	// create with SAVE10
	f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room, nil)
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	f.discountRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(save10(), nil)
	f.discountRepo.EXPECT().Redeem(gomock.Any(), gomock.Any(), "d-1", "receptionist-1").Return(true, nil)
	f.repo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			stored = booking

			return nil
		})

	req := createRequest()
	req.CheckInDate = "2025-03-01"
	req.CheckOutDate = "2025-03-04"
	req.DiscountCode = "save10"

	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 3, created.Nights)
	assert.Equal(t, "300.00", created.SubtotalAmount)
	assert.Equal(t, "30.00", created.DiscountAmount)
	assert.Equal(t, "270.00", created.TotalAmount)
	assert.Equal(t, string(model.StatusPending), created.Status)
	assert.True(t, created.DiscountApplied)
	assert.Equal(t, "101", created.RoomNumber)
	require.NotNil(t, stored.DiscountID)
	assert.Equal(t, "d-1", *stored.DiscountID)
	assert.Equal(t, model.EventNameCreated, f.nextEvent(t).Event)

	stored.ID = bookingID

	// check in on 2025-03-01
	f.clock.Set(date("2025-03-01").Add(14 * time.Hour))

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored, nil)
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room, nil)
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil) // nobody else in the room
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, string(model.StatusCheckedIn), fields[model.FieldStatus])
			assert.Contains(t, fields, model.FieldCheckedInAt)

			return nil
		})
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)
	f.roomRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, string(roomModel.StatusOccupied), fields[roomModel.FieldStatus])

			return nil
		})

	checkedIn, err := f.svc.CheckIn(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCheckedIn), checkedIn.Status)
	assert.NotNil(t, checkedIn.CheckedInAt)
	assert.Equal(t, model.EventNameCheckedIn, f.nextEvent(t).Event)

	// cached reads of the booking and its room are gone once CheckIn returns
	assert.Contains(t, f.evicted.snapshot(), "booking:get:"+bookingID)
	assert.Contains(t, f.evicted.snapshot(), "room:get:"+roomID)

	// check out on 2025-03-04
	checkOutAt := date("2025-03-04").Add(11 * time.Hour)
	f.clock.Set(checkOutAt)

	stored.Status = model.StatusCheckedIn
	room.Status = roomModel.StatusOccupied

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored, nil)
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room, nil)
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, string(model.StatusCheckedOut), fields[model.FieldStatus])
			assert.Equal(t, checkOutAt, fields[model.FieldCheckedOutAt])

			return nil
		})
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	f.roomRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, string(roomModel.StatusAvailable), fields[roomModel.FieldStatus])

			return nil
		})

	checkedOut, err := f.svc.CheckOut(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCheckedOut), checkedOut.Status)
	require.NotNil(t, checkedOut.CheckedOutAt)
	assert.Equal(t, "2025-03-04T11:00:00Z", *checkedOut.CheckedOutAt)
	assert.Equal(t, model.EventNameCheckedOut, f.nextEvent(t).Event)
}

var activeStatusList = regexp.MustCompile(`bookings\.status IN \(([^)]*)\)`)

// bookingTable answers booking counts from memory, honouring the rendered status list.
type bookingTable struct {
	mu   sync.Mutex
	rows []model.Booking
}

func (b *bookingTable) count(_ context.Context, filter gDto.FilterGroup) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	where, args := filter.GetWhereClause()

	if roomID, ok := args["overlap_room_id"]; ok {
		match := activeStatusList.FindStringSubmatch(where)
		if match == nil {
			return 0, errors.New("overlap filter without status list")
		}

		checkIn, checkOut := date(args["overlap_check_in"].(string)), date(args["overlap_check_out"].(string))
		total := 0

		for _, row := range b.rows {
			holds := strings.Contains(match[1], "'"+string(row.Status)+"'")
			if row.RoomID == roomID && holds && row.CheckInDate.Before(checkOut) && row.CheckOutDate.After(checkIn) {
				total++
			}
		}

		return total, nil
	}

	total := 0

	for _, row := range b.rows {
		if row.RoomID == args["room_id"] && string(row.Status) == args["status"] {
			total++
		}
	}

	return total, nil
}

func TestBookingService_CancelReleasesRoom(t *testing.T) {
	f := newFixture(t, date("2025-02-20").Add(10*time.Hour))
	ctx := context.Background()
	table := &bookingTable{}
	checkIn, checkOut := date("2025-03-01"), date("2025-03-04")

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(table.count).Times(3)
	f.repo.EXPECT().
		CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int, error) {
			return table.count(ctx, filter)
		}).
		Times(2)

	available, err := f.svc.IsAvailable(ctx, roomID, checkIn, checkOut, "")
	require.NoError(t, err)
	assert.True(t, available)

	// book
	f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil).Times(2)
	f.repo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			table.rows = append(table.rows, booking)

			return nil
		})

	req := createRequest()
	req.CheckInDate = "2025-03-01"
	req.CheckOutDate = "2025-03-04"

	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, model.EventNameCreated, f.nextEvent(t).Event)

	available, err = f.svc.IsAvailable(ctx, roomID, checkIn, checkOut, "")
	require.NoError(t, err)
	assert.False(t, available)

	// cancel
	f.repo.EXPECT().
		GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *sqlx.Tx, gDto.FilterGroup) (model.Booking, error) {
			return table.rows[0], nil
		})
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			table.rows[0].Status = model.Status(fields[model.FieldStatus].(string))

			return nil
		})

	cancelled, err := f.svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusCancelled), cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, model.EventNameCancelled, f.nextEvent(t).Event)

	available, err = f.svc.IsAvailable(ctx, roomID, checkIn, checkOut, "")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestBookingService_Create(t *testing.T) {
	now := date("2025-01-05")

	t.Run("check-out not after check-in", func(t *testing.T) {
		f := newFixture(t, now)

		req := createRequest()
		req.CheckOutDate = req.CheckInDate

		_, err := f.svc.Create(context.Background(), req)

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("guest not found", func(t *testing.T) {
		f := newFixture(t, now)

		f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Create(context.Background(), createRequest())

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("room not found", func(t *testing.T) {
		f := newFixture(t, now)

		f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		_, err := f.svc.Create(context.Background(), createRequest())

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("over capacity", func(t *testing.T) {
		f := newFixture(t, now)

		f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)

		req := createRequest()
		req.NumberOfGuests = 3

		_, err := f.svc.Create(context.Background(), req)

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		assert.Contains(t, err.Error(), "capacity")
	})

	t.Run("overlapping active booking", func(t *testing.T) {
		f := newFixture(t, now)

		f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)

		_, err := f.svc.Create(context.Background(), createRequest())

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		assert.EqualError(t, err, failure.MessageRoomUnavailable)
	})

	t.Run("exclusion constraint catches a concurrent insert", func(t *testing.T) {
		f := newFixture(t, now)

		f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeExclusionViolation})

		_, err := f.svc.Create(context.Background(), createRequest())

		assert.EqualError(t, err, failure.MessageRoomUnavailable)
	})

	t.Run("confirmed on request", func(t *testing.T) {
		f := newFixture(t, now)

		f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		req := createRequest()
		req.Status = string(model.StatusConfirmed)

		res, err := f.svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, string(model.StatusConfirmed), res.Status)
		assert.Equal(t, "300.00", res.TotalAmount)
		assert.Regexp(t, `^BK20250105[0-9A-F]{6}$`, res.BookingNumber)

		names := []string{f.nextEvent(t).Event, f.nextEvent(t).Event}
		assert.ElementsMatch(t, []string{model.EventNameCreated, model.EventNameConfirmed}, names)
	})
}

func TestBookingService_CreateWithDiscount(t *testing.T) {
	now := date("2025-01-05")

	inactive := save10()
	inactive.IsActive = false

	tests := []struct {
		name            string
		discount        discountModel.Discount
		redeemed        bool
		requireDiscount bool
		wantCode        int
		wantMessage     string
	}{
		{
			name:        "unknown code is not fatal",
			discount:    discountModel.Discount{},
			wantMessage: discountModel.ReasonNotFound,
		},
		{
			name:        "inactive code is not fatal",
			discount:    inactive,
			wantMessage: discountModel.ReasonInactive,
		},
		{
			name:        "last use taken concurrently",
			discount:    save10(),
			redeemed:    false,
			wantMessage: discountModel.ReasonUsageLimit,
		},
		{
			name:            "required discount rejects the booking",
			discount:        inactive,
			requireDiscount: true,
			wantCode:        http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, now)

			f.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)
			f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
			f.discountRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.discount, nil)

			if tt.discount.ID != "" && tt.discount.IsActive {
				f.discountRepo.EXPECT().Redeem(gomock.Any(), gomock.Any(), tt.discount.ID, gomock.Any()).Return(tt.redeemed, nil)
			}

			if tt.wantCode == 0 {
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			req := createRequest()
			req.DiscountCode = "SAVE10"
			req.RequireDiscount = tt.requireDiscount

			res, err := f.svc.Create(context.Background(), req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.False(t, res.DiscountApplied)
			assert.Equal(t, tt.wantMessage, res.DiscountMessage)
			assert.Equal(t, "0.00", res.DiscountAmount)
			assert.Equal(t, "300.00", res.TotalAmount)
			assert.Nil(t, res.DiscountID)
		})
	}
}

func TestBookingService_CheckInGuards(t *testing.T) {
	booking := model.Booking{
		ID:           bookingID,
		RoomID:       roomID,
		Status:       model.StatusConfirmed,
		CheckInDate:  date("2025-01-10"),
		CheckOutDate: date("2025-01-12"),
	}

	t.Run("before the stay", func(t *testing.T) {
		f := newFixture(t, date("2025-01-09"))

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)

		_, err := f.svc.CheckIn(context.Background(), bookingID)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("room still occupied", func(t *testing.T) {
		f := newFixture(t, date("2025-01-10"))

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusOccupied), nil)
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)

		_, err := f.svc.CheckIn(context.Background(), bookingID)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.Contains(t, err.Error(), "checked in")
	})

	t.Run("on the check-out date", func(t *testing.T) {
		f := newFixture(t, date("2025-01-12").Add(9*time.Hour))

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)
		f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.CheckIn(context.Background(), bookingID)

		require.NoError(t, err)
		assert.Equal(t, string(model.StatusCheckedIn), res.Status)
	})
}

func TestBookingService_InvalidTransitions(t *testing.T) {
	t.Run("check out a confirmed booking", func(t *testing.T) {
		f := newFixture(t, date("2025-01-10"))

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{ID: bookingID, RoomID: roomID, Status: model.StatusConfirmed}, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)

		_, err := f.svc.CheckOut(context.Background(), bookingID)

		assert.EqualError(t, err, "invalid transition: cannot check_out booking in status confirmed")
	})

	t.Run("cancel a cancelled booking", func(t *testing.T) {
		f := newFixture(t, date("2025-01-10"))

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{ID: bookingID, RoomID: roomID, Status: model.StatusCancelled}, nil)
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(roomModel.StatusAvailable), nil)

		_, err := f.svc.Cancel(context.Background(), bookingID)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t, date("2025-01-10"))

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Cancel(context.Background(), bookingID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_CancelKeepsMaintenance(t *testing.T) {
	f := newFixture(t, date("2025-01-11"))

	room := room101(roomModel.StatusOccupied)
	room.UnderMaintenance = true

	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{ID: bookingID, RoomID: roomID, Status: model.StatusCheckedIn}, nil)
	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room, nil)
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, string(model.StatusCancelled), fields[model.FieldStatus])
			assert.Contains(t, fields, model.FieldCancelledAt)

			return nil
		})
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	f.roomRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, string(roomModel.StatusMaintenance), fields[roomModel.FieldStatus])

			return nil
		})

	res, err := f.svc.Cancel(context.Background(), bookingID)

	require.NoError(t, err)
	assert.NotNil(t, res.CancelledAt)
	assert.Equal(t, model.EventNameCancelled, f.nextEvent(t).Event)
}

func TestBookingService_IsAvailable(t *testing.T) {
	f := newFixture(t, date("2025-01-01"))

	f.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "booking-1", args["overlap_exclude_id"])

			return 0, nil
		})

	available, err := f.svc.IsAvailable(context.Background(), roomID, date("2025-01-10"), date("2025-01-12"), "booking-1")

	require.NoError(t, err)
	assert.True(t, available)
}

func TestBookingService_Availability(t *testing.T) {
	t.Run("room not found", func(t *testing.T) {
		f := newFixture(t, date("2025-01-01"))

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Availability(context.Background(), dto.AvailabilityRequest{
			RoomID:       roomID,
			CheckInDate:  "2025-01-10",
			CheckOutDate: "2025-01-12",
		})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("taken", func(t *testing.T) {
		f := newFixture(t, date("2025-01-01"))

		f.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		res, err := f.svc.Availability(context.Background(), dto.AvailabilityRequest{
			RoomID:       roomID,
			CheckInDate:  "2025-01-10",
			CheckOutDate: "2025-01-12",
		})

		require.NoError(t, err)
		assert.False(t, res.Available)
	})
}

func TestBookingService_Get(t *testing.T) {
	f := newFixture(t, date("2025-01-01"))

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := f.svc.Get(context.Background(), bookingID)

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
