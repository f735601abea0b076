package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/rpggio/hostboard/internal/repository"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a service error to an HTTP status and error code.
func statusFor(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, roster.ErrAccountNotFound):
		return http.StatusNotFound, ErrorResponse{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found"}
	case errors.Is(err, roster.ErrEntryNotFound):
		return http.StatusNotFound, ErrorResponse{Code: "ENTRY_NOT_FOUND", Message: "Roster entry not found"}
	case errors.Is(err, roster.ErrDelegated):
		return http.StatusConflict, ErrorResponse{Code: "ROSTER_DELEGATED", Message: "Roster is managed by the parent account"}
	case errors.Is(err, fees.ErrHostNotFound):
		return http.StatusNotFound, ErrorResponse{Code: "HOST_NOT_FOUND", Message: "Host not found"}
	case errors.Is(err, fees.ErrYearOutOfRange):
		return http.StatusBadRequest, ErrorResponse{Code: "YEAR_OUT_OF_RANGE", Message: err.Error()}
	case errors.Is(err, roster.ErrInvalidInput), errors.Is(err, fees.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusBadGateway, ErrorResponse{Code: "UPSTREAM_UNAVAILABLE", Message: "Data source unavailable"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "Internal error"}
	}
}

// RespondWithError writes the mapped status for err and records it on the
// context for the logging middleware.
func RespondWithError(c *gin.Context, err error) {
	status, body := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, body)
}
