// Package fixtures serves test data files and watches the browser's download directory.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ui_workflows/domain/interfaces"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const (
	defaultAwaitTimeout = 5 * time.Second
	settleDelay         = 100 * time.Millisecond
)

// partialSuffixes mark files a browser is still writing
var partialSuffixes = []string{".crdownload", ".part", ".tmp", ".download"}

// ErrNoDownload is returned when the download directory holds no finished file
var ErrNoDownload = errors.New("no downloaded file")

// Store reads fixtures from one directory and downloads from another
type Store struct {
	dataDir     string
	downloadDir string
	logger      *logrus.Logger
}

var _ interfaces.FileStore = (*Store)(nil)

// NewStore - creates a file store, making sure the download directory exists
func NewStore(dataDir, downloadDir string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	return &Store{dataDir: dataDir, downloadDir: downloadDir, logger: logger}, nil
}

// FixturePath - resolves a fixture name against the data directory
func (s *Store) FixturePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	abs, err := filepath.Abs(filepath.Join(s.dataDir, name))
	if err != nil {
		return filepath.Join(s.dataDir, name)
	}
	return abs
}

// ReadFixture - returns the content of a fixture file
func (s *Store) ReadFixture(name string) (string, error) {
	data, err := os.ReadFile(s.FixturePath(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LatestDownload - returns the path and content of the most recently modified download
func (s *Store) LatestDownload() (string, string, error) {
	path, _, err := s.newest(time.Time{})
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(data), nil
}

// newest finds the latest finished file modified after since
func (s *Store) newest(since time.Time) (string, time.Time, error) {
	entries, err := os.ReadDir(s.downloadDir)
	if err != nil {
		return "", time.Time{}, err
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || partial(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime()
		// some filesystems keep whole-second modification times
		if mod.Before(since.Truncate(time.Second)) {
			continue
		}
		if latest == "" || mod.After(latestMod) {
			latest = filepath.Join(s.downloadDir, entry.Name())
			latestMod = mod
		}
	}

	if latest == "" {
		return "", time.Time{}, fmt.Errorf("%w in %s", ErrNoDownload, s.downloadDir)
	}
	return latest, latestMod, nil
}

func partial(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, ".") {
		return true
	}
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// AwaitDownload - waits until a finished file modified after since appears in the
// download directory and has stopped changing, returning its path
func (s *Store) AwaitDownload(ctx context.Context, since time.Time, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = defaultAwaitTimeout
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("failed to watch downloads: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.downloadDir); err != nil {
		return "", fmt.Errorf("failed to watch %s: %w", s.downloadDir, err)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	settle := time.NewTimer(settleDelay)
	defer settle.Stop()
	if _, _, err := s.newest(since); err != nil {
		// nothing yet; the timer is re-armed by the first event
		settle.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case <-deadline.C:
			return "", fmt.Errorf("%w after %s in %s", ErrNoDownload, timeout, s.downloadDir)

		case event, ok := <-watcher.Events:
			if !ok {
				return "", errors.New("download watcher closed")
			}
			if partial(filepath.Base(event.Name)) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				resetTimer(settle, settleDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return "", errors.New("download watcher closed")
			}
			s.logger.WithError(err).Warn("download watcher error")

		case <-settle.C:
			path, _, err := s.newest(since)
			if err != nil {
				continue
			}
			s.logger.WithField("file", path).Debug("download settled")
			return path, nil
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
