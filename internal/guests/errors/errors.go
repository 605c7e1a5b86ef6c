package errors

import "errors"

var (
	ErrNotFound = errors.New("guest not found")

	ErrDuplicate = errors.New("guest already exists")
)
