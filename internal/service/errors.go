package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("app version is not specified")

	// ErrMutationRejected wraps validation failures of a delivered mutation.
	ErrMutationRejected = errors.New("mutation rejected")
	// ErrStorageUnavailable marks transient storage failures the client may
	// retry.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// Client-side errors.
var (
	ErrRegisterOnServer = errors.New("error registering on server")
	ErrLoginOnServer    = errors.New("error logging in on server")
	ErrNoCredentials    = errors.New("no stored credentials for re-authentication")

	ErrInvalidDraft     = errors.New("invalid draft")
	ErrMutationInFlight = errors.New("mutation is being delivered")
)
