package service

import (
	"context"
	"fmt"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	discountModel "hotel/internal/domains/discount/model"
	discountRepo "hotel/internal/domains/discount/repository"
	guestModel "hotel/internal/domains/guest/model"
	guestRepo "hotel/internal/domains/guest/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetBooking    = constant.CachePrefixBooking + "get"
	cacheGetAllBooking = constant.CachePrefixBooking + "get_all"
	cacheCountBooking  = constant.CachePrefixBooking + "count"
	cacheGetRoom       = constant.CachePrefixRoom + "get"

	msgBookingNotFound = "booking not found"
	msgRoomNotFound    = "room not found"
	msgGuestNotFound   = "guest not found"
)

type Booking interface {
	// IsAvailable reports whether roomID has no active booking overlapping [checkIn, checkOut).
	// excludeBookingID, when not empty, is ignored.
	IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error)
	Availability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	guestRepo    guestRepo.Guest
	discountRepo discountRepo.Discount
	tx           gRepo.Transaction
	kafka        kafka.Client
	clock        timezone.Clock
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	guestRepo guestRepo.Guest,
	discountRepo discountRepo.Discount,
	tx gRepo.Transaction,
	kafka kafka.Client,
	clock timezone.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		guestRepo:    guestRepo,
		discountRepo: discountRepo,
		tx:           tx,
		kafka:        kafka,
		clock:        clock,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (available bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	overlapping, err := s.repo.Count(ctx, model.OverlapFilter(roomID, checkIn, checkOut, excludeBookingID))
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("failed to count overlapping bookings")

		return false, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}

	return overlapping == 0, nil
}

func (s *serviceImpl) Availability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, checkOut, err := model.ParseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return res, err
	}

	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
	}

	available, err := s.IsAvailable(ctx, req.RoomID, checkIn, checkOut, req.ExcludeBookingID)
	if err != nil {
		return res, err
	}

	return dto.AvailabilityResponse{
		RoomID:       req.RoomID,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Available:    available,
	}, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.Stay()
	if err != nil {
		return res, err
	}

	guestExists, err := s.guestRepo.Exist(ctx, shared.FilterByID(req.GuestID, guestModel.FieldID, guestModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guest exists")

		return res, fmt.Errorf("failed to check if guest exists: %w", err)
	}

	if !guestExists {
		return res, failure.NotFound(msgGuestNotFound) // nolint:wrapcheck
	}

	now := s.clock.Now()
	booking := req.ToModel(user, checkIn, checkOut, now, req.InitialStatus(s.cfg.App.Booking.ConfirmOnCreate))

	var (
		discountApplied bool
		discountMessage string
	)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
		}

		if booking.NumberOfGuests > room.RoomTypeCapacity {
			return failure.Unprocessable(fmt.Sprintf("number of guests exceeds room capacity of %d", room.RoomTypeCapacity)) // nolint:wrapcheck
		}

		overlapping, err := s.repo.CountTx(ctx, tx, model.OverlapFilter(room.ID, checkIn, checkOut, constant.Empty))
		if err != nil {
			return fmt.Errorf("failed to count overlapping bookings: %w", err)
		}

		if overlapping > 0 {
			return failure.RoomUnavailable() // nolint:wrapcheck
		}

		booking.RoomNumber = room.RoomNumber
		booking.SubtotalAmount = room.RoomTypeBasePrice.Mul(decimal.NewFromInt(int64(booking.Nights()))).Round(2)

		if req.DiscountCode != constant.Empty {
			discountApplied, discountMessage, err = s.applyDiscount(ctx, tx, &booking, req.DiscountCode, user, now)
			if err != nil {
				return err
			}

			if !discountApplied && req.RequireDiscount {
				return failure.DiscountInvalid(discountMessage) // nolint:wrapcheck
			}
		}

		booking.TotalAmount = booking.SubtotalAmount.Sub(booking.DiscountAmount)

		return s.repo.InsertTx(ctx, tx, booking) //nolint:wrapcheck
	})
	if err != nil {
		if gRepo.IsExclusionViolation(err) {
			return res, failure.RoomUnavailable() // nolint:wrapcheck
		}

		log.Error().Err(err).Str("roomID", req.RoomID).Msg("failed to create booking")

		return res, err
	}

	log.Info().Str("bookingNumber", booking.BookingNumber).Str("status", string(booking.Status)).Msg("booking created")

	s.invalidate(ctx, booking, false, discountApplied)

	s.publish(ctx, booking, model.EventNameCreated)

	if booking.Status == model.StatusConfirmed {
		s.publish(ctx, booking, model.EventNameConfirmed)
	}

	res.FromModel(booking)
	res.DiscountApplied = discountApplied
	res.DiscountMessage = discountMessage

	return res, nil
}

// applyDiscount evaluates code against the booking subtotal and redeems it inside tx.
// A code that cannot be applied is reported through message, never as an error.
func (s *serviceImpl) applyDiscount(ctx context.Context, tx *sqlx.Tx, booking *model.Booking, code, user string, now time.Time) (applied bool, message string, err error) {
	discount, err := s.discountRepo.Get(ctx, shared.FilterByField(discountModel.FieldCode, discountModel.TableName, discountModel.NormalizeCode(code)))
	if err != nil {
		return false, constant.Empty, fmt.Errorf("failed to get discount: %w", err)
	}

	if discount.ID == constant.Empty {
		return false, discountModel.ReasonNotFound, nil
	}

	evaluation := discount.Evaluate(booking.SubtotalAmount, now)
	if !evaluation.Valid {
		return false, evaluation.Reason, nil
	}

	redeemed, err := s.discountRepo.Redeem(ctx, tx, discount.ID, user)
	if err != nil {
		return false, constant.Empty, fmt.Errorf("failed to redeem discount: %w", err)
	}

	// another booking took the last use in between
	if !redeemed {
		return false, discountModel.ReasonUsageLimit, nil
	}

	booking.DiscountID = &discount.ID
	booking.DiscountAmount = evaluation.Amount

	return true, "discount " + discount.Code + " applied", nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.EventCheckIn)
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.EventCheckOut)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.transition(ctx, id, model.EventCancel)
}

// transition applies event to the booking with the booking and room rows locked, then
// recomputes the room status from the bookings still checked in.
func (s *serviceImpl) transition(ctx context.Context, id string, event model.Event) (res dto.BookingResponse, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock.Now()
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	var (
		booking     model.Booking
		roomChanged bool
	)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err = s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound(msgBookingNotFound) // nolint:wrapcheck
		}

		roomFilter := shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName)

		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, roomFilter)
		if err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound(msgRoomNotFound) // nolint:wrapcheck
		}

		next, err := model.Transition(booking.Status, event)
		if err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldStatus:        string(next),
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		switch event {
		case model.EventCheckIn:
			if err := s.guardCheckIn(ctx, tx, booking, now); err != nil {
				return err
			}

			booking.CheckedInAt = &now
			fields[model.FieldCheckedInAt] = now
		case model.EventCheckOut:
			booking.CheckedOutAt = &now
			fields[model.FieldCheckedOutAt] = now
		case model.EventCancel:
			booking.CancelledAt = &now
			fields[model.FieldCancelledAt] = now
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		booking.Status = next
		booking.ModifiedAt = now
		booking.ModifiedBy = user

		checkedIn, err := s.repo.CountTx(ctx, tx, model.CheckedInFilter(room.ID))
		if err != nil {
			return fmt.Errorf("failed to count checked-in bookings: %w", err)
		}

		status := roomModel.RecomputeRoomStatus(room.UnderMaintenance, checkedIn)
		if status == room.Status {
			return nil
		}

		roomChanged = true

		return s.roomRepo.UpdateTx(ctx, tx, map[string]any{ //nolint:wrapcheck
			roomModel.FieldStatus:    string(status),
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, roomFilter)
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Str("event", string(event)).Msg("booking transition failed")

		return res, err
	}

	log.Info().Str("bookingID", id).Str("status", string(booking.Status)).Msg("booking transitioned")

	s.invalidate(ctx, booking, roomChanged, false)
	s.publish(ctx, booking, model.EventName(booking.Status))

	res.FromModel(booking)

	return res, nil
}

// guardCheckIn allows check-in only during the stay and while no other booking occupies the room.
func (s *serviceImpl) guardCheckIn(ctx context.Context, tx *sqlx.Tx, booking model.Booking, now time.Time) error {
	today := timezone.DateOf(now)

	if today.Before(timezone.DateOf(booking.CheckInDate)) || today.After(timezone.DateOf(booking.CheckOutDate)) {
		return failure.InvalidTransitionWithReason(string(booking.Status), string(model.EventCheckIn), //nolint:wrapcheck
			"today is outside the booked stay")
	}

	occupied, err := s.repo.CountTx(ctx, tx, model.CheckedInFilter(booking.RoomID))
	if err != nil {
		return fmt.Errorf("failed to count checked-in bookings: %w", err)
	}

	if occupied > 0 {
		return failure.InvalidTransitionWithReason(string(booking.Status), string(model.EventCheckIn), //nolint:wrapcheck
			"another guest is still checked in to the room")
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, booking model.Booking, eventName string) {
	if eventName == constant.Empty {
		return
	}

	message := kafka.Message{
		Key:   booking.ID,
		Value: dto.NewBookingEvent(eventName, booking, s.clock.Now()),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, message); err != nil {
			log.Error().Err(err).Str("event", eventName).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

// invalidate drops the cached booking, and its room when the status changed, before
// returning so the next read sees the transition. Lists are cleared in the background.
func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking, roomChanged, discountRedeemed bool) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to delete booking from cache")
	}

	if roomChanged {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, booking.RoomID)); err != nil {
			log.Error().Err(err).Str("roomID", booking.RoomID).Msg("failed to delete room from cache")
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		if roomChanged {
			shared.InvalidateCaches(c, s.cache, constant.CachePrefixRoom)
		}

		if discountRedeemed {
			shared.InvalidateCaches(c, s.cache, constant.CachePrefixDiscount)
		}
	}()
}
