package screenplay

import (
	"context"
	"time"

	"ui_workflows/domain/entities"
)

// FixturePath answers with the location of a fixture file
func FixturePath(name string) Question[string] {
	return About("the path of fixture "+name, func(ctx context.Context, actor *Actor) (string, error) {
		files, err := actor.useFiles()
		if err != nil {
			return "", err
		}
		return files.FixturePath(name), nil
	})
}

// FixtureContent answers with the contents of a fixture file
func FixtureContent(name string) Question[string] {
	return About("the content of file "+name, func(ctx context.Context, actor *Actor) (string, error) {
		files, err := actor.useFiles()
		if err != nil {
			return "", err
		}
		return files.ReadFixture(name)
	})
}

// LatestDownloadContent answers with the contents of the newest downloaded file
func LatestDownloadContent() Question[string] {
	return About("the content of the latest download", func(ctx context.Context, actor *Actor) (string, error) {
		files, err := actor.useFiles()
		if err != nil {
			return "", err
		}
		_, content, err := files.LatestDownload()
		return content, err
	})
}

type awaitDownload struct {
	timeout time.Duration
}

// AwaitDownload starts an interaction that waits for a file to be downloaded
func AwaitDownload(timeout time.Duration) awaitDownload {
	return awaitDownload{timeout: timeout}
}

// After performs trigger and then waits until a file newer than the moment
// trigger started appears in the download directory.
func (a awaitDownload) After(trigger Activity) Activity {
	timeout := a.timeout
	return Interaction(entities.ActionWait, D("#actor waits for a download after %s", trigger), func(ctx context.Context, actor *Actor) error {
		files, err := actor.useFiles()
		if err != nil {
			return err
		}
		since := time.Now()
		if err := actor.perform(ctx, trigger); err != nil {
			return err
		}
		path, err := files.AwaitDownload(ctx, since, timeout)
		if err != nil {
			return err
		}
		actor.logger.WithField("file", path).Info("download finished")
		return nil
	})
}
