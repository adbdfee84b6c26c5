package entities

import "time"

// RunRecord is one journal entry describing a finished scenario run
type RunRecord struct {
	ID         string            `json:"id"`
	Scenario   string            `json:"scenario"`
	Actor      string            `json:"actor"`
	Status     RunStatus         `json:"status"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Error      string            `json:"error,omitempty"`
	Trail      []string          `json:"trail,omitempty"`
	Notes      map[string]string `json:"notes,omitempty"`
}

// RunStatus represents the outcome of a scenario run
type RunStatus string

const (
	RunStatusPassed    RunStatus = "passed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)
