package model

import "time"

type Hotel struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address   string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	City      string    `json:"city" bson:"city" validate:"required,min=2,max=100"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type HotelUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address string `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	City    string `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// RoomRegistration marks a room as bookable for every night in
// [StartDate, EndDate). Each night becomes one free hotel-date row.
type RoomRegistration struct {
	RoomNumber int       `json:"room_number" validate:"required,min=1"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
}

// Nights expands the registration period into its calendar days.
func (r *RoomRegistration) Nights() []time.Time {
	start, end := Day(r.StartDate), Day(r.EndDate)
	if end.Before(start) {
		return nil
	}
	var nights []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	if len(nights) == 0 {
		nights = append(nights, start)
	}
	return nights
}
