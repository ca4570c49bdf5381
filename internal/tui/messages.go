package tui

import (
	"github.com/MKhiriev/go-workout-keeper/models"
)

type snapshotMsg struct {
	snapshot models.SyncStatusSnapshot
}

type recordsLoadedMsg struct {
	records []models.MutationRecord
	err     error
}

type actionDoneMsg struct {
	status string
	err    error
}

type loginResultMsg struct {
	err error
}

type clearStatusMsg struct{}
