package screenplay

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"ui_workflows/application/screenplay/screenplaytest"
	"ui_workflows/domain/entities"

	"github.com/sirupsen/logrus"
)

var errTransient = errors.New("element is not attached to the DOM")

type classifierFunc func(error) bool

func (f classifierFunc) IsTransient(err error) bool { return f(err) }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestActor(t testing.TB, driver *screenplaytest.Driver, opts ...Option) *Actor {
	t.Helper()
	base := []Option{
		WithBrowser(driver),
		WithNotes(screenplaytest.NewNotes()),
		WithLogger(quietLogger()),
		WithClassifier(classifierFunc(func(err error) bool { return errors.Is(err, errTransient) })),
		WithTiming(Timing{EnsureTimeout: 200 * time.Millisecond, PollInterval: 10 * time.Millisecond}),
	}
	return NewActor("Tess", append(base, opts...)...)
}

// recorder is an activity that notes its name when performed
type recorder struct {
	mu   *sync.Mutex
	log  *[]string
	name string
	err  error
}

func (r recorder) PerformAs(ctx context.Context, actor *Actor) error {
	r.mu.Lock()
	*r.log = append(*r.log, r.name)
	r.mu.Unlock()
	return r.err
}

func (r recorder) Description() Description { return D("#actor does %s", r.name) }

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) step(name string) recorder {
	return recorder{mu: &j.mu, log: &j.entries, name: name}
}

func (j *journal) failing(name string, err error) recorder {
	r := j.step(name)
	r.err = err
	return r
}

func (j *journal) performed() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

func page(children ...*screenplaytest.Node) *screenplaytest.Node {
	return screenplaytest.El("document").Append(children...)
}

var button = entities.ByCSS("button")
