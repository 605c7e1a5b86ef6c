package main

import (
	"innkeep/internal/guests/handler"
	"innkeep/internal/guests/repository"
	"innkeep/internal/guests/service"
	"innkeep/internal/guests/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
)

const ServiceName = "guests"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting Guests service")
	cfg.SetMongo()

	guestService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewGuestHandler(guestService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.GuestService {
	guestValidator := validator.NewGuestValidator()
	guestRepo := repository.NewMongoGuestRepository(cfg)

	guestService := service.NewGuestService(
		guestRepo,
		guestValidator,
		cfg,
	)

	cfg.Log.Info("Guest service initialized", "database", cfg.MongoDatabaseName)
	return guestService
}
