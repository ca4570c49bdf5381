package engine

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-workout-keeper/internal/adapter"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// ErrIntegrity marks a queue transition that should never fail, e.g. acking
// a record that is no longer in flight.
var ErrIntegrity = errors.New("sync integrity violation")

// RetryableDeliveryError is a transient failure: timeouts, dropped
// connections, 5xx and 429 responses.
type RetryableDeliveryError struct{ Err error }

func (e *RetryableDeliveryError) Error() string { return "retryable delivery error: " + e.Err.Error() }
func (e *RetryableDeliveryError) Unwrap() error { return e.Err }

// UnauthorizedError means the session is no longer valid.
type UnauthorizedError struct{ Err error }

func (e *UnauthorizedError) Error() string { return "unauthorized delivery: " + e.Err.Error() }
func (e *UnauthorizedError) Unwrap() error { return e.Err }

// PermanentDeliveryError means the service rejected the mutation itself.
// Retrying without a change cannot succeed.
type PermanentDeliveryError struct{ Err error }

func (e *PermanentDeliveryError) Error() string { return "permanent delivery error: " + e.Err.Error() }
func (e *PermanentDeliveryError) Unwrap() error { return e.Err }

// Classify returns the delivery class of err. Errors that carry no status
// are treated as transport failures and therefore retryable.
func Classify(err error) models.ErrorClass {
	if err == nil {
		return models.ErrorClassNone
	}

	var (
		retryable    *RetryableDeliveryError
		unauthorized *UnauthorizedError
		permanent    *PermanentDeliveryError
		status       *adapter.StatusError
	)
	switch {
	case errors.As(err, &unauthorized):
		return models.ErrorClassUnauthorized
	case errors.As(err, &permanent):
		return models.ErrorClassPermanent
	case errors.As(err, &retryable):
		return models.ErrorClassRetryable
	case errors.As(err, &status):
		return classifyStatus(status.Code)
	case errors.Is(err, adapter.ErrUnauthorized):
		return models.ErrorClassUnauthorized
	case errors.Is(err, adapter.ErrUnsupportedEntity), errors.Is(err, adapter.ErrBadRequest):
		return models.ErrorClassPermanent
	case errors.Is(err, context.DeadlineExceeded):
		return models.ErrorClassRetryable
	}

	return models.ErrorClassRetryable
}

func classifyStatus(code int) models.ErrorClass {
	switch {
	case code == http.StatusUnauthorized:
		return models.ErrorClassUnauthorized
	case code == http.StatusRequestTimeout, code == http.StatusTooEarly, code == http.StatusTooManyRequests:
		return models.ErrorClassRetryable
	case code >= http.StatusInternalServerError:
		return models.ErrorClassRetryable
	case code >= http.StatusBadRequest:
		return models.ErrorClassPermanent
	}
	return models.ErrorClassRetryable
}

// Wrap returns err wrapped in the typed error of its class.
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	switch Classify(err) {
	case models.ErrorClassUnauthorized:
		return &UnauthorizedError{Err: err}
	case models.ErrorClassPermanent:
		return &PermanentDeliveryError{Err: err}
	default:
		return &RetryableDeliveryError{Err: err}
	}
}
