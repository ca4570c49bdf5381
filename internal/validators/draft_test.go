// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-workout-keeper/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var started = time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC)

func validSession() *models.WorkoutSession {
	return &models.WorkoutSession{
		ID:        "ws-1",
		Name:      "Pull",
		StartedAt: started,
		Groups: []models.ExerciseGroup{{
			Index: 0,
			Entries: []models.ExerciseEntry{{
				Index:        0,
				ExerciseName: "Deadlift",
				Sets: []models.EntrySet{
					{Index: 0, Weight: models.Set("140"), Reps: models.Set("5")},
					{Index: 1, Weight: models.Clear[string](), Reps: models.Set("3"), RestSeconds: models.Set(240)},
				},
			}},
		}},
	}
}

// ---------------------------------------------------------------------------
// DraftValidator
// ---------------------------------------------------------------------------

func TestNewDraftValidator(t *testing.T) {
	v := NewDraftValidator()
	require.NotNil(t, v)
	_, ok := v.(*DraftValidator)
	assert.True(t, ok)
}

func TestDraftValidator_UnsupportedType(t *testing.T) {
	assert.ErrorIs(t, NewDraftValidator().Validate(context.Background(), 42), ErrUnsupportedType)
}

func TestDraftValidator_Session(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *models.WorkoutSession)
		wantErr error
	}{
		{name: "valid", mutate: func(*models.WorkoutSession) {}},
		{name: "empty id", mutate: func(s *models.WorkoutSession) { s.ID = "" }, wantErr: ErrInvalidEntityID},
		{name: "empty name", mutate: func(s *models.WorkoutSession) { s.Name = "" }, wantErr: ErrEmptyName},
		{name: "no start", mutate: func(s *models.WorkoutSession) { s.StartedAt = time.Time{} }, wantErr: ErrInvalidStartedAt},
		{
			name:    "finished before start",
			mutate:  func(s *models.WorkoutSession) { s.FinishedAt = models.Set(started.Add(-time.Minute)) },
			wantErr: ErrInvalidFinishedAt,
		},
		{
			name:   "cleared finish",
			mutate: func(s *models.WorkoutSession) { s.FinishedAt = models.Clear[time.Time]() },
		},
		{
			name:    "malformed weight",
			mutate:  func(s *models.WorkoutSession) { s.Groups[0].Entries[0].Sets[0].Weight = models.Set("140kg") },
			wantErr: ErrInvalidNumber,
		},
		{
			name:    "malformed reps",
			mutate:  func(s *models.WorkoutSession) { s.Groups[0].Entries[0].Sets[1].Reps = models.Set("") },
			wantErr: ErrInvalidNumber,
		},
		{
			name:    "negative rest",
			mutate:  func(s *models.WorkoutSession) { s.Groups[0].Entries[0].Sets[1].RestSeconds = models.Set(-1) },
			wantErr: ErrInvalidRest,
		},
		{
			name:    "duplicate set index",
			mutate:  func(s *models.WorkoutSession) { s.Groups[0].Entries[0].Sets[1].Index = 0 },
			wantErr: ErrDuplicateIndex,
		},
		{
			name:    "negative group index",
			mutate:  func(s *models.WorkoutSession) { s.Groups[0].Index = -1 },
			wantErr: ErrInvalidIndex,
		},
		{
			name:    "empty exercise name",
			mutate:  func(s *models.WorkoutSession) { s.Groups[0].Entries[0].ExerciseName = "" },
			wantErr: ErrEmptyExerciseName,
		},
	}

	v := NewDraftValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSession()
			tt.mutate(s)
			err := v.Validate(context.Background(), s)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDraftValidator_Template(t *testing.T) {
	v := NewDraftValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, &models.Template{ID: "tpl-1", Name: "Legs"}))
	assert.ErrorIs(t, v.Validate(ctx, &models.Template{Name: "Legs"}), ErrInvalidEntityID)
	assert.ErrorIs(t, v.Validate(ctx, &models.Template{ID: "tpl-1"}), ErrEmptyName)

	// field-level scoping skips the name check
	assert.NoError(t, v.Validate(ctx, &models.Template{ID: "tpl-1"}, FieldID, FieldGroups))
	assert.ErrorIs(t, v.Validate(ctx, &models.Template{ID: "tpl-1"}, "colour"), ErrUnknownField)
}

func TestDraftValidator_Equipment(t *testing.T) {
	v := NewDraftValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, &models.Equipment{ID: "eq-1", Name: "Bar", BaseWeight: models.Set("20")}))
	assert.NoError(t, v.Validate(ctx, &models.Equipment{ID: "eq-1", Name: "Bar", BaseWeight: models.Clear[string]()}))
	assert.ErrorIs(t, v.Validate(ctx, &models.Equipment{ID: "eq-1", Name: "Bar", BaseWeight: models.Set("heavy")}), ErrInvalidNumber)
}

func TestDraftValidator_CommitRequest(t *testing.T) {
	v := NewDraftValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.CommitRequest{Operation: models.OperationCreate, Draft: validSession()}))
	assert.ErrorIs(t, v.Validate(ctx, models.CommitRequest{Operation: "upsert", Draft: validSession()}), ErrInvalidOperation)
	assert.ErrorIs(t, v.Validate(ctx, &models.CommitRequest{Operation: models.OperationUpdate}), ErrEmptyDraft)

	// delete of an otherwise invalid draft only needs the id
	assert.NoError(t, v.Validate(ctx, models.CommitRequest{Operation: models.OperationDelete, Draft: &models.Template{ID: "tpl-1"}}))
	assert.ErrorIs(t, v.Validate(ctx, models.CommitRequest{Operation: models.OperationDelete, Draft: &models.Template{}}), ErrInvalidEntityID)
}
