package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-workout-keeper/internal/serializer"
	"github.com/MKhiriev/go-workout-keeper/models"
)

// Field name constants used to specify which fields should be validated.
const (
	// FieldID targets the client-side identity of the entity.
	FieldID = "id"

	// FieldName targets the display name of templates, sessions and equipment.
	FieldName = "name"

	// FieldGroups targets the nested group / entry / set collections,
	// including their indices and numeric text.
	FieldGroups = "groups"

	// FieldStartedAt requires a workout session start time.
	FieldStartedAt = "started_at"

	// FieldFinishedAt checks that a session does not finish before it starts.
	FieldFinishedAt = "finished_at"

	// FieldBaseWeight targets the numeric text of equipment base weight.
	FieldBaseWeight = "base_weight"

	// FieldOperation targets the operation of a commit request or mutation.
	FieldOperation = "operation"

	// FieldDraft targets the draft of a commit request.
	FieldDraft = "draft"
)

// DraftValidator checks drafts before they are serialized and committed.
// Numeric user input must parse as a finite number.
type DraftValidator struct {
}

// NewDraftValidator constructs a DraftValidator and returns it as Validator.
func NewDraftValidator() Validator {
	return &DraftValidator{}
}

// Validate dispatches to the draft-specific checks. It accepts
// [models.CommitRequest] and the concrete draft pointer types.
func (v *DraftValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CommitRequest:
		return v.validateCommit(ctx, value, fields...)
	case *models.CommitRequest:
		return v.validateCommit(ctx, *value, fields...)

	case *models.Template:
		return v.validateTemplate(ctx, value, fields...)
	case *models.WorkoutSession:
		return v.validateSession(ctx, value, fields...)
	case *models.Equipment:
		return v.validateEquipment(ctx, value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *DraftValidator) validateCommit(ctx context.Context, request models.CommitRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOperation, FieldDraft}
	}

	for _, f := range fields {
		switch f {
		case FieldOperation:
			if !request.Operation.Valid() {
				return ErrInvalidOperation
			}
		case FieldDraft:
			if request.Draft == nil {
				return ErrEmptyDraft
			}
			// a delete only needs to know which entity goes away
			if request.Operation == models.OperationDelete {
				if request.Draft.EntityKey() == "" {
					return ErrInvalidEntityID
				}
				continue
			}
			if err := v.Validate(ctx, request.Draft); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DraftValidator) validateTemplate(_ context.Context, t *models.Template, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldName, FieldGroups}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if t.ID == "" {
				return ErrInvalidEntityID
			}
		case FieldName:
			if t.Name == "" {
				return ErrEmptyName
			}
		case FieldGroups:
			if err := validateGroups(t.Groups); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DraftValidator) validateSession(_ context.Context, s *models.WorkoutSession, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldName, FieldStartedAt, FieldFinishedAt, FieldGroups}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if s.ID == "" {
				return ErrInvalidEntityID
			}
		case FieldName:
			if s.Name == "" {
				return ErrEmptyName
			}
		case FieldStartedAt:
			if s.StartedAt.IsZero() {
				return ErrInvalidStartedAt
			}
		case FieldFinishedAt:
			if finished, ok := s.FinishedAt.Get(); ok && finished.Before(s.StartedAt) {
				return ErrInvalidFinishedAt
			}
		case FieldGroups:
			if err := validateGroups(s.Groups); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DraftValidator) validateEquipment(_ context.Context, e *models.Equipment, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldName, FieldBaseWeight}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if e.ID == "" {
				return ErrInvalidEntityID
			}
		case FieldName:
			if e.Name == "" {
				return ErrEmptyName
			}
		case FieldBaseWeight:
			if err := validateNumber(e.BaseWeight); err != nil {
				return fmt.Errorf("base_weight: %w", err)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateGroups(groups []models.ExerciseGroup) error {
	seen := make(map[int]struct{}, len(groups))
	for _, g := range groups {
		if err := checkIndex(seen, g.Index); err != nil {
			return fmt.Errorf("groups[%d]: %w", g.Index, err)
		}
		if err := validateEntries(g.Entries); err != nil {
			return fmt.Errorf("groups[%d]: %w", g.Index, err)
		}
	}
	return nil
}

func validateEntries(entries []models.ExerciseEntry) error {
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if err := checkIndex(seen, e.Index); err != nil {
			return fmt.Errorf("entries[%d]: %w", e.Index, err)
		}
		if e.ExerciseName == "" {
			return fmt.Errorf("entries[%d]: %w", e.Index, ErrEmptyExerciseName)
		}
		if err := validateSets(e.Sets); err != nil {
			return fmt.Errorf("entries[%d]: %w", e.Index, err)
		}
	}
	return nil
}

func validateSets(sets []models.EntrySet) error {
	seen := make(map[int]struct{}, len(sets))
	for _, s := range sets {
		if err := checkIndex(seen, s.Index); err != nil {
			return fmt.Errorf("sets[%d]: %w", s.Index, err)
		}
		if err := validateNumber(s.Weight); err != nil {
			return fmt.Errorf("sets[%d].weight: %w", s.Index, err)
		}
		if err := validateNumber(s.Reps); err != nil {
			return fmt.Errorf("sets[%d].reps: %w", s.Index, err)
		}
		if rest, ok := s.RestSeconds.Get(); ok && rest < 0 {
			return fmt.Errorf("sets[%d]: %w", s.Index, ErrInvalidRest)
		}
	}
	return nil
}

func checkIndex(seen map[int]struct{}, index int) error {
	if index < 0 {
		return ErrInvalidIndex
	}
	if _, ok := seen[index]; ok {
		return ErrDuplicateIndex
	}
	seen[index] = struct{}{}
	return nil
}

func validateNumber(f models.Field[string]) error {
	text, ok := f.Get()
	if !ok {
		return nil
	}
	if _, err := serializer.ParseNumber(text); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}
	return nil
}
