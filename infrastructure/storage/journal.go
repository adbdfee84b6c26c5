package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"

	"github.com/google/uuid"
)

const journalFile = "runs.json"

// fileJournal keeps the run history as one JSON array on disk
type fileJournal struct {
	mu   sync.Mutex
	path string
}

// NewJournal - creates a run journal stored under stateDir
func NewJournal(stateDir string) (interfaces.Journal, error) {
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		stateDir = filepath.Join(homeDir, ".ui_workflows")
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &fileJournal{path: filepath.Join(stateDir, journalFile)}, nil
}

// Append - records a finished run, assigning an id when it has none
func (j *fileJournal) Append(record entities.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	history, err := j.load()
	if err != nil {
		return err
	}
	history = append(history, record)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}

	// replace the journal in one rename
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}

// Load - returns every recorded run, oldest first
func (j *fileJournal) Load() ([]entities.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.load()
}

func (j *fileJournal) load() ([]entities.RunRecord, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.RunRecord{}, nil
		}
		return nil, err
	}

	var history []entities.RunRecord
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("corrupt run journal %s: %w", j.path, err)
	}

	return history, nil
}
