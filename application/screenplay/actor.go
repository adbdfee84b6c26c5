package screenplay

import (
	"context"
	"fmt"
	"time"

	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultEnsureTimeout = 5 * time.Second
	DefaultPollInterval  = 100 * time.Millisecond
	MinPollInterval      = 10 * time.Millisecond
)

// Timing holds the actor-wide defaults for eventual assertions
type Timing struct {
	EnsureTimeout time.Duration
	PollInterval  time.Duration
}

// DefaultTiming - returns the default eventual assertion timing
func DefaultTiming() Timing {
	return Timing{
		EnsureTimeout: DefaultEnsureTimeout,
		PollInterval:  DefaultPollInterval,
	}
}

// Actor is the simulated user performing one scenario. Its abilities are the
// collaborators it was given; it performs activities strictly one at a time.
type Actor struct {
	name       string
	runID      string
	browser    interfaces.BrowserDriver
	api        interfaces.APIClient
	notes      interfaces.Notes
	files      interfaces.FileStore
	classifier interfaces.ErrorClassifier
	timing     Timing
	logger     *logrus.Entry

	lastResponse *entities.Response
}

// Option configures an Actor
type Option func(*Actor)

// WithBrowser gives the actor the ability to browse the web
func WithBrowser(driver interfaces.BrowserDriver) Option {
	return func(a *Actor) { a.browser = driver }
}

// WithAPI gives the actor the ability to call the platform API
func WithAPI(client interfaces.APIClient) Option {
	return func(a *Actor) { a.api = client }
}

// WithNotes gives the actor a notepad
func WithNotes(notes interfaces.Notes) Option {
	return func(a *Actor) { a.notes = notes }
}

// WithFiles gives the actor access to fixtures and downloads
func WithFiles(files interfaces.FileStore) Option {
	return func(a *Actor) { a.files = files }
}

// WithClassifier sets which collaborator errors count as transient
func WithClassifier(c interfaces.ErrorClassifier) Option {
	return func(a *Actor) { a.classifier = c }
}

// WithTiming overrides the eventual assertion defaults
func WithTiming(t Timing) Option {
	return func(a *Actor) { a.timing = t }
}

// WithLogger sets the logger activities are reported to
func WithLogger(logger *logrus.Logger) Option {
	return func(a *Actor) { a.logger = logrus.NewEntry(logger) }
}

// WithRunID pins the run id instead of generating one
func WithRunID(id string) Option {
	return func(a *Actor) { a.runID = id }
}

// NewActor - creates new actor instance
func NewActor(name string, opts ...Option) *Actor {
	a := &Actor{
		name:   name,
		runID:  uuid.NewString(),
		timing: DefaultTiming(),
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.timing.EnsureTimeout <= 0 {
		a.timing.EnsureTimeout = DefaultEnsureTimeout
	}
	if a.timing.PollInterval < MinPollInterval {
		a.timing.PollInterval = MinPollInterval
	}
	a.logger = a.logger.WithFields(logrus.Fields{
		"actor":  a.name,
		"run_id": a.runID,
	})
	return a
}

// Name returns the actor's name
func (a *Actor) Name() string { return a.name }

// RunID returns the id of the run this actor belongs to
func (a *Actor) RunID() string { return a.runID }

// Timing returns the eventual assertion defaults
func (a *Actor) Timing() Timing { return a.timing }

// AttemptsTo performs activities in order and stops at the first failure.
func (a *Actor) AttemptsTo(ctx context.Context, activities ...Activity) error {
	for _, activity := range activities {
		if err := a.perform(ctx, activity); err != nil {
			entry := a.logger.WithError(err)
			if trail := Trail(err); len(trail) > 0 {
				entry = entry.WithField("trail", trail)
			}
			entry.Error("activity failed")
			return err
		}
	}
	return nil
}

func (a *Actor) perform(ctx context.Context, activity Activity) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("scenario cancelled: %w", ctx.Err())
	default:
	}

	if a.logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
		entry := a.logger.WithField("activity", activity.Description().Render(a.name))
		if i, ok := activity.(*interaction); ok {
			entry = entry.WithField("kind", i.kind)
		}
		entry.Debug("performing")
	}
	return activity.PerformAs(ctx, a)
}

// wait suspends the actor for d, returning early when ctx is done
func (a *Actor) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// isTransient reports whether a failure may clear up if the step is tried again
func (a *Actor) isTransient(err error) bool {
	if IsNotFound(err) {
		return true
	}
	return a.classifier != nil && a.classifier.IsTransient(err)
}

func (a *Actor) browseTheWeb() (interfaces.BrowserDriver, error) {
	if a.browser == nil {
		return nil, fmt.Errorf("%s can't browse the web", a.name)
	}
	return a.browser, nil
}

func (a *Actor) callAnAPI() (interfaces.APIClient, error) {
	if a.api == nil {
		return nil, fmt.Errorf("%s can't call an API", a.name)
	}
	return a.api, nil
}

func (a *Actor) takeNotes() (interfaces.Notes, error) {
	if a.notes == nil {
		return nil, fmt.Errorf("%s can't take notes", a.name)
	}
	return a.notes, nil
}

func (a *Actor) useFiles() (interfaces.FileStore, error) {
	if a.files == nil {
		return nil, fmt.Errorf("%s can't read files", a.name)
	}
	return a.files, nil
}
