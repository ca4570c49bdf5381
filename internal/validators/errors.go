package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEntityID       = errors.New("invalid entity id")
	ErrInvalidEntityType     = errors.New("invalid entity type")
	ErrInvalidOperation      = errors.New("invalid operation")
	ErrEmptyName             = errors.New("name is required")
	ErrEmptyDraft            = errors.New("draft is required")
	ErrInvalidIndex          = errors.New("invalid collection index")
	ErrDuplicateIndex        = errors.New("duplicate collection index")
	ErrEmptyExerciseName     = errors.New("exercise name is required")
	ErrInvalidNumber         = errors.New("invalid numeric value")
	ErrInvalidRest           = errors.New("rest seconds cannot be negative")
	ErrInvalidStartedAt      = errors.New("started at is required")
	ErrInvalidFinishedAt     = errors.New("finished at is before started at")
	ErrInvalidUserID         = errors.New("invalid user ID")
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	ErrInvalidPayload        = errors.New("invalid payload")
	ErrEntityIDMismatch      = errors.New("payload id does not match entity id")
)
