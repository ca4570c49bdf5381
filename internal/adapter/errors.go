package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrGatewayTimeout      = errors.New("gateway timeout")
	ErrUnexpectedStatus    = errors.New("unexpected status")

	ErrUnsupportedEntity = errors.New("unsupported entity type")
	ErrInvalidAddress    = errors.New("invalid adapter http address")
)

// StatusError is a non-2xx response of the remote service.
type StatusError struct {
	Code int
	Body string

	sentinel error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (http %d): %s", e.sentinel, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.sentinel
}
