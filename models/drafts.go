// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Draft is a locally edited entity that can be committed as a mutation.
// Drafts are owned by the editing layer; the sync engine only ever sees the
// serialized payload.
type Draft interface {
	EntityType() EntityType
	EntityKey() string
}

// Template is a reusable workout plan.
type Template struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Notes  Field[string]   `json:"notes,omitzero"`
	Groups []ExerciseGroup `json:"groups,omitempty"`
}

func (t *Template) EntityType() EntityType { return EntityTemplate }
func (t *Template) EntityKey() string      { return t.ID }

// WorkoutSession is a performed workout, optionally started from a template.
type WorkoutSession struct {
	ID         string           `json:"id"`
	TemplateID Field[string]    `json:"template_id,omitzero"`
	Name       string           `json:"name"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt Field[time.Time] `json:"finished_at,omitzero"`
	Notes      Field[string]    `json:"notes,omitzero"`
	Groups     []ExerciseGroup  `json:"groups,omitempty"`
}

func (s *WorkoutSession) EntityType() EntityType { return EntityWorkoutSession }
func (s *WorkoutSession) EntityKey() string      { return s.ID }

// Equipment is a piece of gym equipment referenced by exercise entries.
type Equipment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`

	// BaseWeight is user input text, e.g. "20" or "12.5".
	BaseWeight Field[string] `json:"base_weight,omitzero"`
	Notes      Field[string] `json:"notes,omitzero"`
}

func (e *Equipment) EntityType() EntityType { return EntityEquipment }
func (e *Equipment) EntityKey() string      { return e.ID }

// ExerciseGroup is an ordered block of exercises (a superset or a circuit).
type ExerciseGroup struct {
	Index   int             `json:"index"`
	Name    Field[string]   `json:"name,omitzero"`
	Entries []ExerciseEntry `json:"entries,omitempty"`
}

// ExerciseEntry is a single exercise inside a group.
type ExerciseEntry struct {
	Index        int           `json:"index"`
	ExerciseName string        `json:"exercise_name"`
	EquipmentID  Field[string] `json:"equipment_id,omitzero"`
	Sets         []EntrySet    `json:"sets,omitempty"`
}

// EntrySet is one set of an exercise. Weight and Reps hold raw text as typed
// by the user.
type EntrySet struct {
	Index       int           `json:"index"`
	Weight      Field[string] `json:"weight,omitzero"`
	Reps        Field[string] `json:"reps,omitzero"`
	RestSeconds Field[int]    `json:"rest_seconds,omitzero"`
	Done        bool          `json:"done,omitempty"`
}
