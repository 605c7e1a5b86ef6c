package service

import (
	"testing"
	"time"

	"innkeep/pkg/model"
)

func bookingReq(guestID, hotelID string, room int, start, end time.Time) *model.BookingRequest {
	return &model.BookingRequest{
		GuestID:    guestID,
		HotelID:    hotelID,
		RoomNumber: room,
		StartDate:  start,
		EndDate:    end,
	}
}

func TestConfirmationNumberDeterministic(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	a := ConfirmationNumber(bookingReq("G1", "H1", 101, start, end))
	b := ConfirmationNumber(bookingReq("G1", "H1", 101, start, end))

	if a != b {
		t.Errorf("expected identical confirmation numbers for identical requests, got %d and %d", a, b)
	}
}

func TestConfirmationNumberPositive(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	cases := []struct {
		guest string
		hotel string
		room  int
	}{
		{"G1", "H1", 101},
		{"G2", "H1", 101},
		{"G1", "H2", 101},
		{"G1", "H1", 102},
		{"alice", "grand-plaza", 7},
	}

	for _, tc := range cases {
		n := ConfirmationNumber(bookingReq(tc.guest, tc.hotel, tc.room, start, end))
		if n <= 0 {
			t.Errorf("expected positive confirmation number for %s/%s/%d, got %d", tc.guest, tc.hotel, tc.room, n)
		}
	}
}

func TestConfirmationNumberIgnoresTimeOfDay(t *testing.T) {
	midnight := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	afternoon := time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)

	a := ConfirmationNumber(bookingReq("G1", "H1", 101, midnight, midnight.AddDate(0, 0, 1)))
	b := ConfirmationNumber(bookingReq("G1", "H1", 101, afternoon, afternoon.AddDate(0, 0, 1)))

	if a != b {
		t.Errorf("expected time of day to be ignored, got %d and %d", a, b)
	}
}

func TestConfirmationNumberVariesByField(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	base := ConfirmationNumber(bookingReq("G1", "H1", 101, start, end))

	variants := map[string]*model.BookingRequest{
		"guest": bookingReq("G2", "H1", 101, start, end),
		"hotel": bookingReq("G1", "H2", 101, start, end),
		"room":  bookingReq("G1", "H1", 102, start, end),
		"start": bookingReq("G1", "H1", 101, start.AddDate(0, 0, 1), end),
		"end":   bookingReq("G1", "H1", 101, start, end.AddDate(0, 0, 1)),
	}

	for name, req := range variants {
		if n := ConfirmationNumber(req); n == base {
			t.Errorf("expected changing %s to change the confirmation number, both are %d", name, n)
		}
	}
}
