package model

import (
	"fmt"
	"time"
)

// Room slot status values for the hotel-date view. A slot is created as
// StatusFree by room registration and transitions to StatusBooked exactly
// once. StatusReserved is part of the enumeration for a future hold flow
// and is never written by the booking path.
const (
	StatusFree     = "free"
	StatusBooked   = "booked"
	StatusReserved = "reserved"
)

// DateLayout is the calendar-day format used inside composite view keys.
const DateLayout = "2006-01-02"

// BookingRequest is the transient input to the booking flow. RoomNumber is a
// positive integer; StartDate/EndDate bound the stay and the views are keyed
// by the check-in night (StartDate).
type BookingRequest struct {
	GuestID    string    `json:"guest_id" validate:"required"`
	HotelID    string    `json:"hotel_id" validate:"required"`
	RoomNumber int       `json:"room_number" validate:"required,min=1"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
}

// BookingDate returns the calendar day both views are keyed by.
func (r *BookingRequest) BookingDate() time.Time {
	return Day(r.StartDate)
}

// Reservation is a confirmed booking returned to the caller.
type Reservation struct {
	GuestID            string    `json:"guest_id"`
	HotelID            string    `json:"hotel_id"`
	RoomNumber         int       `json:"room_number"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	ConfirmationNumber int32     `json:"confirmation_number"`
}

// GuestDateRecord is the guest-indexed projection of a booking: "this guest
// has this room booked at this hotel on this date". Write-once; keyed by
// (guest id, date).
type GuestDateRecord struct {
	ID                 string    `json:"id" bson:"_id"`
	GuestID            string    `json:"guest_id" bson:"guest_id"`
	Date               time.Time `json:"date" bson:"date"`
	HotelID            string    `json:"hotel_id" bson:"hotel_id"`
	RoomNumber         int       `json:"room_number" bson:"room_number"`
	ConfirmationNumber int32     `json:"confirmation_number" bson:"confirmation_number"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
}

// HotelDateRecord is the hotel-indexed availability row for one room-night.
// Keyed by (hotel id, date, room number). Room registration creates it as
// free; the booking flow conditionally transitions it to booked.
type HotelDateRecord struct {
	ID         string    `json:"id" bson:"_id"`
	HotelID    string    `json:"hotel_id" bson:"hotel_id"`
	Date       time.Time `json:"date" bson:"date"`
	RoomNumber int       `json:"room_number" bson:"room_number"`
	Status     string    `json:"status" bson:"status"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// GuestDateKey builds the composite guest-view key.
func GuestDateKey(guestID string, date time.Time) string {
	return fmt.Sprintf("%s#%s", guestID, Day(date).Format(DateLayout))
}

// HotelDateKey builds the composite hotel-view key.
func HotelDateKey(hotelID string, date time.Time, roomNumber int) string {
	return fmt.Sprintf("%s#%s#%d", hotelID, Day(date).Format(DateLayout), roomNumber)
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
