package model

import (
	"testing"
	"time"
)

func TestGuestDateKey(t *testing.T) {
	date := time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)
	key := GuestDateKey("g-1", date)
	if key != "g-1#2024-06-10" {
		t.Errorf("unexpected key: %s", key)
	}
}

func TestHotelDateKey(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	key := HotelDateKey("h-1", date, 101)
	if key != "h-1#2024-06-10#101" {
		t.Errorf("unexpected key: %s", key)
	}
}

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	stamp := time.Date(2024, 6, 10, 1, 30, 0, 0, loc) // 2024-06-09T22:30Z
	day := Day(stamp)
	want := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("Day() = %v, want %v", day, want)
	}
}

func TestBookingDateUsesStartDate(t *testing.T) {
	req := &BookingRequest{
		StartDate: time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 12, 11, 0, 0, 0, time.UTC),
	}
	want := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if !req.BookingDate().Equal(want) {
		t.Errorf("BookingDate() = %v, want %v", req.BookingDate(), want)
	}
}

func TestRoomRegistrationNights(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "three night stay window",
			start: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC),
			want:  3,
		},
		{
			name:  "single day registration",
			start: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			want:  1,
		},
		{
			name:  "inverted range yields nothing",
			start: time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &RoomRegistration{RoomNumber: 101, StartDate: tt.start, EndDate: tt.end}
			nights := reg.Nights()
			if len(nights) != tt.want {
				t.Errorf("Nights() returned %d days, want %d", len(nights), tt.want)
			}
		})
	}
}
