package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/rpggio/hostboard/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, roster.ErrAccountNotFound):
		return &APIError{Code: "ACCOUNT_NOT_FOUND", Message: "account not found", RecoveryHint: "Check the account slug"}
	case errors.Is(err, roster.ErrEntryNotFound):
		return &APIError{Code: "ENTRY_NOT_FOUND", Message: "roster entry not found", RecoveryHint: "Call get_roster for valid entry keys"}
	case errors.Is(err, roster.ErrDelegated):
		return &APIError{Code: "ROSTER_DELEGATED", Message: "roster managed by parent account", RecoveryHint: "Use the parent account slug"}
	case errors.Is(err, fees.ErrHostNotFound):
		return &APIError{Code: "HOST_NOT_FOUND", Message: "host not found", RecoveryHint: "Check the host slug"}
	case errors.Is(err, fees.ErrYearOutOfRange):
		return &APIError{Code: "YEAR_OUT_OF_RANGE", Message: err.Error(), RecoveryHint: "Call list_fee_years for valid years"}
	case errors.Is(err, roster.ErrInvalidInput), errors.Is(err, fees.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, repository.ErrUnavailable):
		return &APIError{Code: "UPSTREAM_UNAVAILABLE", Message: "data source unavailable", RecoveryHint: "Retry later"}
	default:
		return nil
	}
}

// toolError converts a service error into the error a tool returns.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
