package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mvcastro/currency_exchange_app/internal/apperrors"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
)

// errorStatus maps a domain error to its HTTP status and a stable error code
// that calling layers can branch on without inspecting the message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, apperrors.ErrSameCurrency):
		return http.StatusBadRequest, "SAME_CURRENCY"
	case errors.Is(err, apperrors.ErrInvalidRateInput):
		return http.StatusBadRequest, "INVALID_RATE_INPUT"
	case errors.Is(err, apperrors.ErrNonPositiveNetAmount):
		return http.StatusBadRequest, "NON_POSITIVE_NET_AMOUNT"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, apperrors.ErrCurrencyNotFound):
		return http.StatusNotFound, "CURRENCY_NOT_FOUND"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		return http.StatusConflict, "CONCURRENCY_CONFLICT"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "DUPLICATE"
	case errors.Is(err, apperrors.ErrBankNotConfigured):
		return http.StatusServiceUnavailable, "BANK_NOT_CONFIGURED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// uuidParam reads a path parameter that must hold a UUID and returns its
// canonical lower-case form, so identifiers compare equal regardless of the
// casing the caller used. Writes a validation error and returns false when
// the value is not a UUID.
func uuidParam(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": name + " must be a valid UUID"})
		return "", false
	}
	return id.String(), true
}

// respondError writes the JSON error body for a failed service call.
func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"code": code, "error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"code": code, "error": err.Error()})
}
