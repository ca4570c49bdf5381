package models

import "time"

// Transport headers shared by the client adapter and the reference server.
const (
	HeaderIdempotencyKey   = "Idempotency-Key"
	HeaderIdempotentReplay = "X-Idempotent-Replay"
	HeaderClientTimestamp  = "X-Client-Timestamp"
	HeaderPayloadHash      = "HashSHA256"
	HeaderAuthorization    = "Authorization"
	HeaderTraceID          = "X-Trace-ID"
	ClientTimestampLayout  = time.RFC3339Nano
)

// DeliveryResponse is the body the remote service returns for an accepted
// mutation.
type DeliveryResponse struct {
	ID       string `json:"id"`
	EntityID string `json:"entity_id"`
}

// DeliveryResult is the outcome of delivering one mutation.
type DeliveryResult struct {
	ServerID string
	// Replayed is true when the service had already applied a mutation with
	// the same idempotency key.
	Replayed bool
}

// ServerMutation is a mutation as received by the remote service.
type ServerMutation struct {
	// ServerID is the identifier assigned to the entity if this mutation
	// creates it.
	ServerID        string
	UserID          int64
	IdempotencyKey  string
	EntityType      EntityType
	EntityID        string
	Operation       Operation
	Payload         Payload
	ClientTimestamp time.Time
}

// AppliedMutation is the result of applying a [ServerMutation].
type AppliedMutation struct {
	ServerID string
	EntityID string
	Replayed bool
}

// PingResponse is returned by the reachability endpoint.
type PingResponse struct {
	Status       string `json:"status"`
	BuildVersion string `json:"build_version"`
}
