package interfaces

import "ui_workflows/domain/entities"

// Notes is a scenario-scoped key/value store
type Notes interface {
	// Set stores a value under key, replacing any previous value
	Set(key string, value interface{})

	// Get returns the value stored under key
	Get(key string) (interface{}, bool)

	// Snapshot renders every note as text, for run reports
	Snapshot() map[string]string
}

// Journal persists the outcome of scenario runs
type Journal interface {
	// Append records a finished run
	Append(record entities.RunRecord) error

	// Load returns every recorded run, oldest first
	Load() ([]entities.RunRecord, error)
}
