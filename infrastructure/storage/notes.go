package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"ui_workflows/domain/interfaces"
)

// memoryNotes keeps notes for the lifetime of one scenario
type memoryNotes struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

// NewNotes - creates an empty notepad
func NewNotes() interfaces.Notes {
	return &memoryNotes{values: make(map[string]interface{})}
}

// Set - stores value under key
func (n *memoryNotes) Set(key string, value interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.values[key] = value
}

// Get - returns the value stored under key
func (n *memoryNotes) Get(key string) (interface{}, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.values[key]
	return v, ok
}

// Snapshot - renders every note as text; structured values are rendered as JSON
func (n *memoryNotes) Snapshot() map[string]string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make(map[string]string, len(n.values))
	for k, v := range n.values {
		out[k] = render(v)
	}
	return out
}

func render(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
