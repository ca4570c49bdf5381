// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package serializer converts local drafts into the canonical payload bytes
// stored with a mutation and delivered to the remote service.
//
// Canonical output is deterministic: keys follow struct order, nested
// collections are sorted by their index, times are UTC and numeric user
// input is emitted as JSON numbers. Absent optional fields are omitted and
// explicitly cleared ones are emitted as null.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-workout-keeper/models"
)

// Serialize returns the canonical payload of draft.
func Serialize(draft models.Draft) (models.Payload, error) {
	var (
		payload any
		err     error
	)

	switch d := draft.(type) {
	case *models.Template:
		payload, err = templatePayload(d)
	case *models.WorkoutSession:
		payload, err = sessionPayload(d)
	case *models.Equipment:
		payload, err = equipmentPayload(d)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedDraft, draft)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(payload)
}

// SerializeDelete returns the canonical body of a delete mutation for
// entityID.
func SerializeDelete(entityID string) (models.Payload, error) {
	return json.Marshal(models.DeletePayload{ID: entityID})
}

// Deserialize decodes payload of entityType back into a draft. Numbers are
// restored as their canonical text.
func Deserialize(entityType models.EntityType, payload models.Payload) (models.Draft, error) {
	switch entityType {
	case models.EntityTemplate:
		var p models.TemplatePayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}
		return &models.Template{
			ID:     p.ID,
			Name:   p.Name,
			Notes:  p.Notes,
			Groups: groupsFromPayload(p.Groups),
		}, nil

	case models.EntityWorkoutSession:
		var p models.WorkoutSessionPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}
		return &models.WorkoutSession{
			ID:         p.ID,
			TemplateID: p.TemplateID,
			Name:       p.Name,
			StartedAt:  p.StartedAt,
			FinishedAt: p.FinishedAt,
			Notes:      p.Notes,
			Groups:     groupsFromPayload(p.Groups),
		}, nil

	case models.EntityEquipment:
		var p models.EquipmentPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, err
		}
		return &models.Equipment{
			ID:         p.ID,
			Name:       p.Name,
			Kind:       p.Kind,
			BaseWeight: numberText(p.BaseWeight),
			Notes:      p.Notes,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
}

// DecodeDraft decodes a draft as written by the editing layer, e.g. the
// draft field of a [models.DraftEnvelope].
func DecodeDraft(entityType models.EntityType, raw json.RawMessage) (models.Draft, error) {
	var draft models.Draft
	switch entityType {
	case models.EntityTemplate:
		draft = &models.Template{}
	case models.EntityWorkoutSession:
		draft = &models.WorkoutSession{}
	case models.EntityEquipment:
		draft = &models.Equipment{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}

	if err := decodeStrict(raw, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return nil
}

func templatePayload(t *models.Template) (models.TemplatePayload, error) {
	groups, err := groupsPayload(t.Groups)
	if err != nil {
		return models.TemplatePayload{}, err
	}

	return models.TemplatePayload{
		ID:     t.ID,
		Name:   t.Name,
		Notes:  t.Notes,
		Groups: groups,
	}, nil
}

func sessionPayload(s *models.WorkoutSession) (models.WorkoutSessionPayload, error) {
	groups, err := groupsPayload(s.Groups)
	if err != nil {
		return models.WorkoutSessionPayload{}, err
	}

	finished, _ := mapField(s.FinishedAt, func(t time.Time) (time.Time, error) {
		return t.UTC(), nil
	})

	return models.WorkoutSessionPayload{
		ID:         s.ID,
		TemplateID: s.TemplateID,
		Name:       s.Name,
		StartedAt:  s.StartedAt.UTC(),
		FinishedAt: finished,
		Notes:      s.Notes,
		Groups:     groups,
	}, nil
}

func equipmentPayload(e *models.Equipment) (models.EquipmentPayload, error) {
	baseWeight, err := mapField(e.BaseWeight, parseNumber)
	if err != nil {
		return models.EquipmentPayload{}, fmt.Errorf("base_weight: %w", err)
	}

	return models.EquipmentPayload{
		ID:         e.ID,
		Name:       e.Name,
		Kind:       e.Kind,
		BaseWeight: baseWeight,
		Notes:      e.Notes,
	}, nil
}

func groupsPayload(groups []models.ExerciseGroup) ([]models.GroupPayload, error) {
	if len(groups) == 0 {
		return nil, nil
	}

	out := make([]models.GroupPayload, 0, len(groups))
	for _, g := range groups {
		entries, err := entriesPayload(g.Entries)
		if err != nil {
			return nil, fmt.Errorf("groups[%d]: %w", g.Index, err)
		}
		out = append(out, models.GroupPayload{Index: g.Index, Name: g.Name, Entries: entries})
	}
	slices.SortStableFunc(out, func(a, b models.GroupPayload) int { return a.Index - b.Index })

	return out, nil
}

func entriesPayload(entries []models.ExerciseEntry) ([]models.EntryPayload, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	out := make([]models.EntryPayload, 0, len(entries))
	for _, e := range entries {
		sets, err := setsPayload(e.Sets)
		if err != nil {
			return nil, fmt.Errorf("entries[%d]: %w", e.Index, err)
		}
		out = append(out, models.EntryPayload{
			Index:        e.Index,
			ExerciseName: e.ExerciseName,
			EquipmentID:  e.EquipmentID,
			Sets:         sets,
		})
	}
	slices.SortStableFunc(out, func(a, b models.EntryPayload) int { return a.Index - b.Index })

	return out, nil
}

func setsPayload(sets []models.EntrySet) ([]models.SetPayload, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	out := make([]models.SetPayload, 0, len(sets))
	for _, s := range sets {
		weight, err := mapField(s.Weight, parseNumber)
		if err != nil {
			return nil, fmt.Errorf("sets[%d].weight: %w", s.Index, err)
		}
		reps, err := mapField(s.Reps, parseNumber)
		if err != nil {
			return nil, fmt.Errorf("sets[%d].reps: %w", s.Index, err)
		}

		out = append(out, models.SetPayload{
			Index:       s.Index,
			Weight:      weight,
			Reps:        reps,
			RestSeconds: s.RestSeconds,
			Done:        s.Done,
		})
	}
	slices.SortStableFunc(out, func(a, b models.SetPayload) int { return a.Index - b.Index })

	return out, nil
}

func groupsFromPayload(groups []models.GroupPayload) []models.ExerciseGroup {
	if len(groups) == 0 {
		return nil
	}

	out := make([]models.ExerciseGroup, 0, len(groups))
	for _, g := range groups {
		group := models.ExerciseGroup{Index: g.Index, Name: g.Name}
		for _, e := range g.Entries {
			entry := models.ExerciseEntry{
				Index:        e.Index,
				ExerciseName: e.ExerciseName,
				EquipmentID:  e.EquipmentID,
			}
			for _, s := range e.Sets {
				entry.Sets = append(entry.Sets, models.EntrySet{
					Index:       s.Index,
					Weight:      numberText(s.Weight),
					Reps:        numberText(s.Reps),
					RestSeconds: s.RestSeconds,
					Done:        s.Done,
				})
			}
			group.Entries = append(group.Entries, entry)
		}
		out = append(out, group)
	}

	return out
}

// ParseNumber converts numeric user input to its canonical JSON number.
// Surrounding spaces are ignored; NaN and infinities are rejected.
func ParseNumber(text string) (json.Number, error) {
	return parseNumber(text)
}

func parseNumber(text string) (json.Number, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %q", ErrMalformedNumber, text)
	}
	return json.Number(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

func numberText(f models.Field[json.Number]) models.Field[string] {
	out, _ := mapField(f, func(n json.Number) (string, error) {
		return n.String(), nil
	})
	return out
}

// mapField converts a set value with fn and keeps the absent and cleared
// states as they are.
func mapField[T, U any](f models.Field[T], fn func(T) (U, error)) (models.Field[U], error) {
	if f.IsCleared() {
		return models.Clear[U](), nil
	}

	v, ok := f.Get()
	if !ok {
		return models.Field[U]{}, nil
	}

	mapped, err := fn(v)
	if err != nil {
		return models.Field[U]{}, err
	}
	return models.Set(mapped), nil
}
