package fees

import "errors"

var (
	// ErrHostNotFound indicates the host doesn't exist.
	ErrHostNotFound = errors.New("host not found")
	// ErrYearOutOfRange indicates a year outside the host's lifetime.
	ErrYearOutOfRange = errors.New("year out of range")
	// ErrInvalidInput indicates invalid fee input.
	ErrInvalidInput = errors.New("invalid fee input")
)
