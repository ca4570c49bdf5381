package models

// EngineState is the sync engine state machine position.
type EngineState string

const (
	EngineIdle     EngineState = "idle"
	EngineDraining EngineState = "draining"
	EnginePaused   EngineState = "paused"
)

// SyncStatusSnapshot is the aggregate, read-only sync status published to the
// presentation layer.
type SyncStatusSnapshot struct {
	// PendingCount counts records in pending or in_flight.
	PendingCount int `json:"pending_count"`
	// FailedCount counts records in failed.
	FailedCount int  `json:"failed_count"`
	IsSyncing   bool `json:"is_syncing"`
	IsOnline    bool `json:"is_online"`

	EngineState EngineState `json:"engine_state"`
	// NeedsReauth is true while an unauthorized signal is raised and the
	// session has not been re-established.
	NeedsReauth bool `json:"needs_reauth"`
}
