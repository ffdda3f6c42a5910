package main

import (
	"hotel/config"
	"hotel/di"
	"hotel/shared/logger"
)

// @title Hotel API
// @version 1.0
// @description Rooms, bookings, guests, services, payments and discounts for hotel staff.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	http := di.InitializeService()
	http.Serve()
}
