package model

import "time"

type Guest struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	FirstName string    `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName  string    `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type GuestUpdate struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
}
