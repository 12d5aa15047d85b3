package cron_feature

import (
	"time"
)

type SchedulerState string

const (
	StateIdle     SchedulerState = "idle"
	StateRunning  SchedulerState = "running"
	StateDisabled SchedulerState = "disabled"
)

// TickOutcome says what a single tick did.
type TickOutcome string

const (
	TickDisabled TickOutcome = "disabled"
	TickSkipped  TickOutcome = "skipped"
	TickRan      TickOutcome = "ran"
)

// SyncStatus is the operator-facing summary served by GET /sync/status.
type SyncStatus struct {
	SchedulerState  SchedulerState `json:"scheduler_state"`
	Schedule        string         `json:"schedule"`
	SyncInProgress  bool           `json:"sync_in_progress"`
	AutoSyncEnabled bool           `json:"auto_sync_enabled"`
	LastSyncTime    *time.Time     `json:"last_sync_time,omitempty"`
	LastTickAt      *time.Time     `json:"last_tick_at,omitempty"`
	LastTickOutcome TickOutcome    `json:"last_tick_outcome,omitempty"`
	NextRun         *time.Time     `json:"next_run,omitempty"`
}
