// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// EntityType names the kind of domain entity a mutation targets.
type EntityType string

const (
	EntityTemplate       EntityType = "template"
	EntityWorkoutSession EntityType = "workout_session"
	EntityEquipment      EntityType = "equipment"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTemplate, EntityWorkoutSession, EntityEquipment:
		return true
	}
	return false
}

// Operation is the kind of change a mutation carries.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether o is one of the known operations.
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// MutationStatus is the delivery state of a [MutationRecord].
//
// Allowed transitions:
//
//	pending   -> in_flight
//	in_flight -> synced | failed | pending (released, not delivered)
//	failed    -> pending
//
// synced is terminal; a synced record is pruned right after acknowledgement.
type MutationStatus string

const (
	StatusPending  MutationStatus = "pending"
	StatusInFlight MutationStatus = "in_flight"
	StatusFailed   MutationStatus = "failed"
	StatusSynced   MutationStatus = "synced"
)

// ErrorClass is the classification of the last delivery failure.
type ErrorClass string

const (
	ErrorClassNone         ErrorClass = ""
	ErrorClassRetryable    ErrorClass = "retryable"
	ErrorClassUnauthorized ErrorClass = "unauthorized"
	ErrorClassPermanent    ErrorClass = "permanent"
)

// Payload holds canonical serialized entity bytes produced by the serializer.
type Payload []byte

// MutationRecord is a single pending change to a domain entity, persisted in
// the durable mutation store until the remote service acknowledges it.
type MutationRecord struct {
	// ID is the server-assigned identifier. Empty until the first successful
	// delivery.
	ID string `json:"id,omitempty"`

	// ClientID is generated on the device, stable across retries and
	// restarts, and used as the idempotency key. Never reused.
	ClientID string `json:"client_id"`

	EntityType EntityType `json:"entity_type"`

	// EntityID is the client-side identity of the entity the mutation
	// targets. Mutations sharing EntityType and EntityID form a chain that is
	// delivered strictly in order.
	EntityID string `json:"entity_id"`

	Operation Operation `json:"operation"`
	Payload   Payload   `json:"payload"`

	Status  MutationStatus `json:"status"`
	Attempt int            `json:"attempt"`

	LastErrorClass ErrorClass `json:"last_error_class,omitempty"`
	LastError      string     `json:"last_error,omitempty"`

	CreatedAt     time.Time  `json:"created_at"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`

	// NextAttemptAt is set on retryable failures and marks when the record
	// becomes eligible for requeue.
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
}

// MutationPatch describes a partial update of a stored [MutationRecord].
// Nil fields are left unchanged.
type MutationPatch struct {
	// ExpectStatus, when non-empty, makes the update conditional: it only
	// applies if the stored record is currently in one of these states.
	ExpectStatus []MutationStatus

	ID             *string
	Status         *MutationStatus
	Attempt        *int
	LastErrorClass *ErrorClass
	LastError      *string
	LastAttemptAt  *time.Time

	NextAttemptAt      *time.Time
	ClearNextAttemptAt bool
}

// Apply copies the non-nil fields of p onto r.
func (p MutationPatch) Apply(r *MutationRecord) {
	if p.ID != nil {
		r.ID = *p.ID
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Attempt != nil {
		r.Attempt = *p.Attempt
	}
	if p.LastErrorClass != nil {
		r.LastErrorClass = *p.LastErrorClass
	}
	if p.LastError != nil {
		r.LastError = *p.LastError
	}
	if p.LastAttemptAt != nil {
		t := *p.LastAttemptAt
		r.LastAttemptAt = &t
	}
	if p.NextAttemptAt != nil {
		t := *p.NextAttemptAt
		r.NextAttemptAt = &t
	}
	if p.ClearNextAttemptAt {
		r.NextAttemptAt = nil
	}
}

// Allows reports whether the patch precondition accepts status s.
func (p MutationPatch) Allows(s MutationStatus) bool {
	if len(p.ExpectStatus) == 0 {
		return true
	}
	for _, expected := range p.ExpectStatus {
		if expected == s {
			return true
		}
	}
	return false
}

// StatusCounts is the number of stored records per status.
type StatusCounts map[MutationStatus]int

// Pending returns the number of records not yet delivered and not failed.
func (c StatusCounts) Pending() int {
	return c[StatusPending] + c[StatusInFlight]
}

// Failed returns the number of failed records.
func (c StatusCounts) Failed() int {
	return c[StatusFailed]
}

// Total returns the number of stored records.
func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
