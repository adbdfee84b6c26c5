package workflows

import (
	"errors"
	"io"
	"testing"
	"time"

	"ui_workflows/application/screenplay"
	"ui_workflows/application/screenplay/screenplaytest"

	"github.com/sirupsen/logrus"
)

var el = screenplaytest.El

var fixedNow = time.Date(2026, time.October, 19, 0, 30, 0, 0, time.FixedZone("CEST", 2*60*60))

func testSettings() Settings {
	return Settings{
		DefaultSender:   "ops@example.com",
		Now:             func() time.Time { return fixedNow },
		TitleTimeout:    200 * time.Millisecond,
		TableTimeout:    200 * time.Millisecond,
		DialogTimeout:   200 * time.Millisecond,
		UpdateTimeout:   200 * time.Millisecond,
		DownloadTimeout: 200 * time.Millisecond,
	}
}

type stale struct{}

func (stale) IsTransient(err error) bool { return errors.Is(err, errDetached) }

var errDetached = errors.New("element is not attached to the DOM")

type fixture struct {
	driver *screenplaytest.Driver
	api    *screenplaytest.API
	files  *screenplaytest.Files
	actor  *screenplay.Actor
}

func newFixture(t *testing.T, doc *screenplaytest.Node) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		driver: screenplaytest.NewDriver(doc),
		api:    &screenplaytest.API{},
		files:  screenplaytest.NewFiles(),
	}
	f.actor = screenplay.NewActor("Olivia",
		screenplay.WithBrowser(f.driver),
		screenplay.WithAPI(f.api),
		screenplay.WithNotes(screenplaytest.NewNotes()),
		screenplay.WithFiles(f.files),
		screenplay.WithClassifier(stale{}),
		screenplay.WithLogger(logger),
		screenplay.WithTiming(screenplay.Timing{EnsureTimeout: 200 * time.Millisecond, PollInterval: 10 * time.Millisecond}),
	)
	return f
}

func document(children ...*screenplaytest.Node) *screenplaytest.Node {
	return el("document").Append(children...)
}
