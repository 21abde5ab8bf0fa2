package errors

import "errors"

var (
	ErrNotFound = errors.New("service request not found")

	ErrInvalidID = errors.New("invalid service request ID format")
)
