package screenplaytest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"
)

// API records requests and answers them with Handler
type API struct {
	mu       sync.Mutex
	Handler  func(req entities.Request) (entities.Response, error)
	requests []entities.Request
}

var _ interfaces.APIClient = (*API)(nil)

func (a *API) Send(ctx context.Context, req entities.Request) (entities.Response, error) {
	a.mu.Lock()
	a.requests = append(a.requests, req)
	handler := a.Handler
	a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return entities.Response{}, err
	}
	if handler == nil {
		return entities.Response{Status: 200, Body: []byte("{}")}, nil
	}
	return handler(req)
}

// Requests returns every request sent so far
func (a *API) Requests() []entities.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entities.Request(nil), a.requests...)
}

// JSON builds a response with body encoded as JSON
func JSON(status int, body interface{}) entities.Response {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return entities.Response{Status: status, Body: data}
}

// Notes is a map-backed notepad
type Notes struct {
	mu     sync.Mutex
	values map[string]interface{}
}

var _ interfaces.Notes = (*Notes)(nil)

func NewNotes() *Notes {
	return &Notes{values: map[string]interface{}{}}
}

func (n *Notes) Set(key string, value interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.values[key] = value
}

func (n *Notes) Get(key string) (interface{}, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.values[key]
	return v, ok
}

func (n *Notes) Snapshot() map[string]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]string, len(n.values))
	for k, v := range n.values {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

// Files serves fixtures from memory and downloads from a map of name to content
type Files struct {
	mu        sync.Mutex
	Root      string
	Fixtures  map[string]string
	Downloads map[string]string
}

var _ interfaces.FileStore = (*Files)(nil)

func NewFiles() *Files {
	return &Files{Root: "data", Fixtures: map[string]string{}, Downloads: map[string]string{}}
}

func (f *Files) FixturePath(name string) string {
	return filepath.Join(f.Root, name)
}

func (f *Files) ReadFixture(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.Fixtures[name]
	if !ok {
		return "", fmt.Errorf("open %s: %w", f.FixturePath(name), os.ErrNotExist)
	}
	return content, nil
}

// AddDownload makes a file appear in the download directory
func (f *Files) AddDownload(name, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Downloads[name] = content
}

func (f *Files) LatestDownload() (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Downloads) == 0 {
		return "", "", fmt.Errorf("no downloads: %w", os.ErrNotExist)
	}
	names := make([]string, 0, len(f.Downloads))
	for name := range f.Downloads {
		names = append(names, name)
	}
	sort.Strings(names)
	last := names[len(names)-1]
	return last, f.Downloads[last], nil
}

func (f *Files) AwaitDownload(ctx context.Context, since time.Time, timeout time.Duration) (string, error) {
	path, _, err := f.LatestDownload()
	return path, err
}
