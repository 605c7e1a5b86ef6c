package validator

import (
	"strings"
	"testing"
	"time"

	"innkeep/pkg/model"
)

func newTestValidator() *ReservationValidator {
	return NewReservationValidator(30)
}

func validRequest() *model.BookingRequest {
	start := time.Now().AddDate(0, 1, 0)
	return &model.BookingRequest{
		GuestID:    "g-1",
		HotelID:    "h-1",
		RoomNumber: 101,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 2),
	}
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validRequest()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateNilRequest(t *testing.T) {
	v := newTestValidator()
	err := v.Validate(nil)
	if err == nil {
		t.Fatal("expected an error for a nil request")
	}
	if !strings.Contains(err.Error(), "booking request is required") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		wantField string
	}{
		{"missing guest id", func(r *model.BookingRequest) { r.GuestID = "" }, "GuestID"},
		{"missing hotel id", func(r *model.BookingRequest) { r.HotelID = "" }, "HotelID"},
		{"missing room number", func(r *model.BookingRequest) { r.RoomNumber = 0 }, "RoomNumber"},
		{"missing start date", func(r *model.BookingRequest) { r.StartDate = time.Time{} }, "StartDate"},
		{"missing end date", func(r *model.BookingRequest) { r.EndDate = time.Time{} }, "EndDate"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not name field %s", err.Error(), tt.wantField)
			}
		})
	}
}

func TestValidateDateOrdering(t *testing.T) {
	v := newTestValidator()

	req := validRequest()
	req.EndDate = req.StartDate
	err := v.Validate(req)
	if err == nil || !strings.Contains(err.Error(), "start date must precede end date") {
		t.Errorf("equal dates: got %v", err)
	}

	req = validRequest()
	req.EndDate = req.StartDate.AddDate(0, 0, -1)
	err = v.Validate(req)
	if err == nil || !strings.Contains(err.Error(), "start date must precede end date") {
		t.Errorf("inverted dates: got %v", err)
	}
}

func TestValidateEndDateMustBeFuture(t *testing.T) {
	v := newTestValidator()

	req := validRequest()
	req.StartDate = time.Now().AddDate(0, 0, -10)
	req.EndDate = time.Now().AddDate(0, 0, -8)

	err := v.Validate(req)
	if err == nil || !strings.Contains(err.Error(), "end date must be in the future") {
		t.Errorf("past stay: got %v", err)
	}
}

func TestValidateMaxStayLength(t *testing.T) {
	v := newTestValidator()

	req := validRequest()
	req.EndDate = req.StartDate.AddDate(0, 0, 31)

	err := v.Validate(req)
	if err == nil || !strings.Contains(err.Error(), "exceeds the maximum") {
		t.Errorf("over-long stay: got %v", err)
	}
}

func TestValidateReportsFirstFailureOnly(t *testing.T) {
	v := newTestValidator()

	req := validRequest()
	req.GuestID = ""
	req.HotelID = ""

	err := v.Validate(req)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "1 error(s)") {
		t.Errorf("expected a single reported failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "GuestID") {
		t.Errorf("expected the first field (GuestID) to be reported, got %v", err)
	}
}
