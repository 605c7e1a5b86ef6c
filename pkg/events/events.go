package events

import (
	"errors"
	"time"
)

// Header keys attached to every published event.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
)

const (
	EventTypeReservationConfirmed = "reservation.confirmed"

	SchemaVersion = "1"
)

var (
	ErrProducerClosed = errors.New("events: producer is closed")
	ErrConsumerClosed = errors.New("events: consumer is closed")
)

// ReservationConfirmed is emitted after both booking views have been
// written. Keyed by the hotel-date slot so per-slot ordering is preserved.
type ReservationConfirmed struct {
	GuestID            string    `json:"guest_id"`
	HotelID            string    `json:"hotel_id"`
	RoomNumber         int       `json:"room_number"`
	Date               time.Time `json:"date"`
	ConfirmationNumber int32     `json:"confirmation_number"`
	ConfirmedAt        time.Time `json:"confirmed_at"`
}
