// Package workflows holds the task libraries for the platform UI: tabular
// list views, import and export of items, and notification configuration.
package workflows

import (
	"regexp"
	"strings"
	"time"
)

// Settings - explicit configuration handed to the workflow libraries
type Settings struct {
	// DefaultSender is the address default emails are expected to come from
	DefaultSender string
	// Now is the clock used for date checks
	Now func() time.Time

	TitleTimeout    time.Duration
	TableTimeout    time.Duration
	DialogTimeout   time.Duration
	UpdateTimeout   time.Duration
	DownloadTimeout time.Duration
}

// DefaultSettings - returns settings with the platform's usual timeouts
func DefaultSettings() Settings {
	return Settings{
		Now:             time.Now,
		TitleTimeout:    5 * time.Second,
		TableTimeout:    30 * time.Second,
		DialogTimeout:   5 * time.Second,
		UpdateTimeout:   10 * time.Second,
		DownloadTimeout: 5 * time.Second,
	}
}

// withDefaults fills every unset field from DefaultSettings
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Now == nil {
		s.Now = d.Now
	}
	if s.TitleTimeout <= 0 {
		s.TitleTimeout = d.TitleTimeout
	}
	if s.TableTimeout <= 0 {
		s.TableTimeout = d.TableTimeout
	}
	if s.DialogTimeout <= 0 {
		s.DialogTimeout = d.DialogTimeout
	}
	if s.UpdateTimeout <= 0 {
		s.UpdateTimeout = d.UpdateTimeout
	}
	if s.DownloadTimeout <= 0 {
		s.DownloadTimeout = d.DownloadTimeout
	}
	return s
}

var nonWord = regexp.MustCompile(`\W+`)

// NormalizeCode collapses every run of non-word characters to a single space
// so code rendered by the editor compares equal to the file it came from.
func NormalizeCode(code string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(code, " "))
}
