package domain

import "time"

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunStopped   RunStatus = "stopped"
	RunAborted   RunStatus = "aborted" // registry or cookie errors before any item started
)

// Run is one execution of the batch orchestrator as recorded in history.
type Run struct {
	ID         string       `json:"id"`
	OutputDir  string       `json:"output_dir"`
	Status     RunStatus    `json:"status"`
	Targets    int          `json:"targets"`
	Summary    BatchSummary `json:"summary"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at,omitzero"`

	Jobs []JobResult `json:"jobs,omitempty"`
}
