package client

import "errors"

var (
	ErrInvalidDraftFile = errors.New("invalid draft file")
	ErrNoUI             = errors.New("no user interface configured")
)
