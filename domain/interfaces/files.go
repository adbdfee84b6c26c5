package interfaces

import (
	"context"
	"time"
)

// FileStore reads test fixtures and files downloaded by the browser
type FileStore interface {
	// FixturePath resolves a fixture name against the fixture root
	FixturePath(name string) string

	// ReadFixture returns the contents of a fixture file
	ReadFixture(name string) (string, error)

	// LatestDownload returns the path and contents of the newest file in the download directory
	LatestDownload() (string, string, error)

	// AwaitDownload blocks until a file newer than since shows up in the download directory
	AwaitDownload(ctx context.Context, since time.Time, timeout time.Duration) (string, error)
}
