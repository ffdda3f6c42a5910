package router

import (
	"hotel/internal/handlers/booking"
	"hotel/internal/handlers/discount"
	"hotel/internal/handlers/guest"
	"hotel/internal/handlers/hotelservice"
	"hotel/internal/handlers/payment"
	"hotel/internal/handlers/room"
	"hotel/internal/handlers/roomimage"
	"hotel/internal/handlers/roomtype"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	RoomType     roomtype.Handler
	Room         room.Handler
	RoomImage    roomimage.Handler
	Guest        guest.Handler
	Booking      booking.Handler
	Discount     discount.Handler
	HotelService hotelservice.Handler
	Payment      payment.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.RoomType.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.RoomImage.Router(routerGroup)
		r.DomainHandlers.Guest.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Discount.Router(routerGroup)
		r.DomainHandlers.HotelService.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
