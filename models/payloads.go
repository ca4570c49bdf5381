package models

import (
	"encoding/json"
	"time"
)

// Canonical wire shapes of entity payloads. Numeric user input is carried as
// JSON numbers; nested collections carry their explicit index.

type TemplatePayload struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Notes  Field[string]  `json:"notes,omitzero"`
	Groups []GroupPayload `json:"groups,omitempty"`
}

type WorkoutSessionPayload struct {
	ID         string           `json:"id"`
	TemplateID Field[string]    `json:"template_id,omitzero"`
	Name       string           `json:"name"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt Field[time.Time] `json:"finished_at,omitzero"`
	Notes      Field[string]    `json:"notes,omitzero"`
	Groups     []GroupPayload   `json:"groups,omitempty"`
}

type EquipmentPayload struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Kind       string             `json:"kind,omitempty"`
	BaseWeight Field[json.Number] `json:"base_weight,omitzero"`
	Notes      Field[string]      `json:"notes,omitzero"`
}

type GroupPayload struct {
	Index   int            `json:"index"`
	Name    Field[string]  `json:"name,omitzero"`
	Entries []EntryPayload `json:"entries,omitempty"`
}

type EntryPayload struct {
	Index        int           `json:"index"`
	ExerciseName string        `json:"exercise_name"`
	EquipmentID  Field[string] `json:"equipment_id,omitzero"`
	Sets         []SetPayload  `json:"sets,omitempty"`
}

type SetPayload struct {
	Index       int                `json:"index"`
	Weight      Field[json.Number] `json:"weight,omitzero"`
	Reps        Field[json.Number] `json:"reps,omitzero"`
	RestSeconds Field[int]         `json:"rest_seconds,omitzero"`
	Done        bool               `json:"done,omitempty"`
}

// DeletePayload is the body of a delete mutation.
type DeletePayload struct {
	ID string `json:"id"`
}
