package main

import (
	"innkeep/internal/hotels/handler"
	"innkeep/internal/hotels/repository"
	"innkeep/internal/hotels/service"
	"innkeep/internal/hotels/validator"
	resrepository "innkeep/internal/reservations/repository"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
)

const ServiceName = "hotels"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting Hotels service")
	cfg.SetMongo()

	hotelService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewHotelHandler(hotelService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.HotelService {
	hotelValidator := validator.NewHotelValidator()
	hotelRepo := repository.NewMongoHotelRepository(cfg)
	hotelView := resrepository.NewMongoHotelViewRepository(cfg)

	hotelService := service.NewHotelService(
		hotelRepo,
		hotelView,
		hotelValidator,
		cfg,
	)

	cfg.Log.Info("Hotel service initialized", "database", cfg.MongoDatabaseName)
	return hotelService
}
