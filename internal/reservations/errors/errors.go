package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation record not found")

	ErrSlotNotRegistered = errors.New("hotel date record not found")

	ErrDuplicateKey = errors.New("record already exists for key")

	ErrStatusConflict = errors.New("room status transition lost to a concurrent write")
)
