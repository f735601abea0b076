package roster

import "errors"

var (
	// ErrAccountNotFound indicates the account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEntryNotFound indicates no roster entry has the requested key.
	ErrEntryNotFound = errors.New("roster entry not found")
	// ErrDelegated indicates membership is managed by a parent account.
	ErrDelegated = errors.New("roster managed by parent account")
	// ErrInvalidInput indicates invalid roster input.
	ErrInvalidInput = errors.New("invalid roster input")
)
