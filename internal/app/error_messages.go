// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// reference server handlers and by the client when it interprets responses.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies. Keeping them in one place keeps wording consistent
// between what the server writes and what the client matches.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgLoginAlreadyExists is returned on registration with a taken login.
	MsgLoginAlreadyExists = "login already exists"

	// MsgRegistrationFailed and MsgLoginFailed are returned when the
	// token for a just authenticated user cannot be issued.
	MsgRegistrationFailed = "registration failed"
	MsgLoginFailed        = "login failed"

	// MsgMissingIdempotencyKey is returned for mutation requests without an
	// Idempotency-Key header.
	MsgMissingIdempotencyKey = "missing idempotency key"

	// MsgInvalidClientTimestamp is returned when X-Client-Timestamp is not
	// an RFC 3339 time.
	MsgInvalidClientTimestamp = "invalid client timestamp"

	// MsgUnknownEntity is returned for a collection path that names no
	// entity type.
	MsgUnknownEntity = "unknown entity type"

	// MsgEntityNotFound is returned when an update or delete targets an
	// entity the user does not have.
	MsgEntityNotFound = "entity not found"

	// MsgEntityAlreadyExists is returned when a create targets an entity id
	// the user already has under a different idempotency key.
	MsgEntityAlreadyExists = "entity already exists"

	// MsgMutationRejected prefixes validation failures of a payload.
	MsgMutationRejected = "mutation rejected"

	// MsgStorageUnavailable is returned when the database is temporarily
	// unreachable. Clients retry.
	MsgStorageUnavailable = "storage temporarily unavailable"

	// MsgHashMismatch is returned when the HashSHA256 header does not match
	// the request body.
	MsgHashMismatch = "payload hash mismatch"
)
