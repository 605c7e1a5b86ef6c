package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"innkeep/pkg/config"
	"innkeep/pkg/events"
	"innkeep/pkg/model"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()
	cfg.Log.Info("Starting Notifier service")

	consumer, err := events.NewConsumer(
		cfg.KafkaBrokers,
		cfg.ReservationEventTopic,
		ServiceName,
		notifyGuest(cfg),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close consumer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Notifier service stopped")
}

// notifyGuest is the delivery stub: confirmations are logged until a real
// channel (email, SMS) is attached.
func notifyGuest(cfg *config.Config) events.ConfirmationHandler {
	return func(_ context.Context, event events.ReservationConfirmed) error {
		cfg.Log.Info("Reservation confirmed",
			"guest_id", event.GuestID,
			"hotel_id", event.HotelID,
			"room_number", event.RoomNumber,
			"date", event.Date.Format(model.DateLayout),
			"confirmation_number", event.ConfirmationNumber,
		)
		return nil
	}
}
