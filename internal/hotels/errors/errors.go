package errors

import "errors"

var (
	ErrNotFound = errors.New("hotel not found")

	ErrDuplicate = errors.New("hotel already exists")
)
