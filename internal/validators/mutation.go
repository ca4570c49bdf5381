package validators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-workout-keeper/internal/serializer"
	"github.com/MKhiriev/go-workout-keeper/models"
)

const (
	FieldUserID         = "user_id"
	FieldIdempotencyKey = "idempotency_key"
	FieldEntityType     = "entity_type"
	FieldEntityID       = "entity_id"
	FieldPayload        = "payload"
)

// MutationValidator checks mutations received by the remote service. The
// payload of a create or update must decode into the entity shape, carry
// the entity id of the route and pass draft validation.
type MutationValidator struct {
	drafts Validator
}

func NewMutationValidator() Validator {
	return &MutationValidator{drafts: NewDraftValidator()}
}

func (v *MutationValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ServerMutation:
		return v.validateMutation(ctx, value, fields...)
	case *models.ServerMutation:
		return v.validateMutation(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *MutationValidator) validateMutation(ctx context.Context, m models.ServerMutation, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldIdempotencyKey, FieldEntityType, FieldOperation, FieldEntityID, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if m.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldIdempotencyKey:
			if m.IdempotencyKey == "" {
				return ErrInvalidIdempotencyKey
			}
		case FieldEntityType:
			if !m.EntityType.Valid() {
				return ErrInvalidEntityType
			}
		case FieldOperation:
			if !m.Operation.Valid() {
				return ErrInvalidOperation
			}
		case FieldEntityID:
			if m.EntityID == "" {
				return ErrInvalidEntityID
			}
		case FieldPayload:
			if err := v.validatePayload(ctx, m); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *MutationValidator) validatePayload(ctx context.Context, m models.ServerMutation) error {
	if m.Operation == models.OperationDelete {
		if len(m.Payload) == 0 {
			return nil
		}
		var p models.DeletePayload
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		if p.ID != "" && p.ID != m.EntityID {
			return ErrEntityIDMismatch
		}
		return nil
	}

	draft, err := serializer.Deserialize(m.EntityType, m.Payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if draft.EntityKey() != m.EntityID {
		return ErrEntityIDMismatch
	}

	return v.drafts.Validate(ctx, draft)
}
