// Package apperr defines the conversion error taxonomy and its HTTP mapping.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrUnauthorized     = errors.New("invalid api key")
	ErrInvalidInput     = errors.New("invalid input file")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrEngineFailure    = errors.New("conversion engine failed")
	ErrTimeout          = errors.New("conversion timed out")
	ErrCapacityExceeded = errors.New("conversion capacity exceeded")
	ErrQuotaExceeded    = errors.New("api key quota exceeded")
	ErrStorage          = errors.New("storage failure")
)

// Kind returns the machine-readable error kind for a response body.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"

	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"

	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"

	case errors.Is(err, ErrEngineFailure):
		return "engine_failure"

	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"

	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"

	case errors.Is(err, ErrStorage):
		return "storage_error"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "internal"
	}
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, ErrEngineFailure):
		return http.StatusUnprocessableEntity

	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, ErrCapacityExceeded), errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests

	case errors.Is(err, context.Canceled):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
