//go:build wireinject
// +build wireinject

package di

import (
	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/redis"
	"hotel/infras/s3"
	"hotel/permissions"
	"hotel/shared/cache"
	gRepository "hotel/shared/repository"
	"hotel/shared/timezone"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"

	bookingRepository "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	discountRepository "hotel/internal/domains/discount/repository"
	discountService "hotel/internal/domains/discount/service"
	guestRepository "hotel/internal/domains/guest/repository"
	guestService "hotel/internal/domains/guest/service"
	hotelServiceRepository "hotel/internal/domains/hotelservice/repository"
	hotelServiceService "hotel/internal/domains/hotelservice/service"
	paymentRepository "hotel/internal/domains/payment/repository"
	paymentService "hotel/internal/domains/payment/service"
	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	roomImageRepository "hotel/internal/domains/roomimage/repository"
	roomImageService "hotel/internal/domains/roomimage/service"
	roomTypeRepository "hotel/internal/domains/roomtype/repository"
	roomTypeService "hotel/internal/domains/roomtype/service"

	"github.com/google/wire"

	bookingHandler "hotel/internal/handlers/booking"
	discountHandler "hotel/internal/handlers/discount"
	guestHandler "hotel/internal/handlers/guest"
	hotelServiceHandler "hotel/internal/handlers/hotelservice"
	paymentHandler "hotel/internal/handlers/payment"
	roomHandler "hotel/internal/handlers/room"
	roomImageHandler "hotel/internal/handlers/roomimage"
	roomTypeHandler "hotel/internal/handlers/roomtype"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepository.NewTransaction,
	timezone.NewClock,
)

var roomTypeDomain = wire.NewSet(
	roomTypeRepository.New,
	roomTypeService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var roomImageDomain = wire.NewSet(
	roomImageRepository.New,
	roomImageService.New,
)

var guestDomain = wire.NewSet(
	guestRepository.New,
	guestService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var discountDomain = wire.NewSet(
	discountRepository.New,
	discountService.New,
)

var hotelServiceDomain = wire.NewSet(
	hotelServiceRepository.New,
	hotelServiceRepository.NewBookingService,
	hotelServiceService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var domains = wire.NewSet(
	roomTypeDomain,
	roomDomain,
	roomImageDomain,
	guestDomain,
	bookingDomain,
	discountDomain,
	hotelServiceDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomTypeHandler.New,
	roomHandler.New,
	roomImageHandler.New,
	guestHandler.New,
	bookingHandler.New,
	discountHandler.New,
	hotelServiceHandler.New,
	paymentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
