package core

import "time"

// RunStatus is the lifecycle state of a single notifier invocation.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run reports what one invocation did. The runner fills it in as the
// pipeline advances; counts are totals for the whole run.
type Run struct {
	ID          string     `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      RunStatus  `json:"status"`
	Fetched     int        `json:"fetched"`
	New         int        `json:"new"`
	Suppressed  int        `json:"suppressed"`
	Notified    int        `json:"notified"`
	Persisted   int        `json:"persisted"`
	Error       string     `json:"error,omitempty"`
}
