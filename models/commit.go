package models

import "encoding/json"

// CommitRequest is a user commit of a draft handed to the mutation service.
type CommitRequest struct {
	// ClientID, when set, is reused as the mutation idempotency key. An empty
	// value gets a freshly generated identifier.
	ClientID  string
	Operation Operation
	Draft     Draft
}

// DraftEnvelope is the on-disk form of a draft accepted by the client
// command line.
type DraftEnvelope struct {
	ClientID   string          `json:"client_id,omitempty"`
	EntityType EntityType      `json:"entity_type"`
	Operation  Operation       `json:"operation"`
	Draft      json.RawMessage `json:"draft"`
}
