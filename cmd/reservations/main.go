package main

import (
	"innkeep/internal/reservations/handler"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/service"
	"innkeep/internal/reservations/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	"innkeep/pkg/events"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting Reservations service")
	cfg.SetMongo()

	reservationService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.MaxStayNights)
	guestView := repository.NewMongoGuestViewRepository(cfg)
	hotelView := repository.NewMongoHotelViewRepository(cfg)

	publisher, err := events.NewProducer(cfg.KafkaBrokers, cfg.ReservationEventTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}

	reservationService := service.NewReservationService(
		guestView,
		hotelView,
		reservationValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
