// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-workout-keeper/internal/adapter"
	"github.com/MKhiriev/go-workout-keeper/internal/app"
	"github.com/MKhiriev/go-workout-keeper/internal/store"
)

// mapAuthError translates an auth transport error into a service business
// error. Unknown errors are wrapped in fallback.
func mapAuthError(err error, fallback error) error {
	if err == nil {
		return nil
	}

	var status *adapter.StatusError
	body := ""
	if errors.As(err, &status) {
		body = status.Body
	}

	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return ErrWrongPassword
	case errors.Is(err, adapter.ErrConflict) && body == app.MsgLoginAlreadyExists:
		return store.ErrLoginAlreadyExists
	case errors.Is(err, adapter.ErrBadRequest) && body == app.MsgInvalidDataProvided:
		return ErrInvalidDataProvided
	}

	return fmt.Errorf("%w: %w", fallback, err)
}
