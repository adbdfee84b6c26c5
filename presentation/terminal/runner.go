package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"ui_workflows/application/screenplay"
	"ui_workflows/application/steps"
	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"
	"ui_workflows/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const defaultActorName = "Tester"

// ActorFactory creates the actor for one scenario run
type ActorFactory func(name, runID string, notes interfaces.Notes) *screenplay.Actor

// SessionResetter hands each scenario a clean browser session
type SessionResetter interface {
	Reset(ctx context.Context) error
}

// Runner performs scenarios one after another and journals each outcome
type Runner struct {
	steps    *steps.NotificationSteps
	journal  interfaces.Journal
	newActor ActorFactory
	reset    SessionResetter
	baseURL  string
	logger   *logrus.Logger
	now      func() time.Time
}

// NewRunner - creates a scenario runner; journal may be nil
func NewRunner(s *steps.NotificationSteps, journal interfaces.Journal, newActor ActorFactory, baseURL string, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{
		steps:    s,
		journal:  journal,
		newActor: newActor,
		baseURL:  baseURL,
		logger:   logger,
		now:      time.Now,
	}
}

// ResettingWith makes every Run start from a session reset by reset
func (r *Runner) ResettingWith(reset SessionResetter) *Runner {
	r.reset = reset
	return r
}

// Run performs scenario with a fresh actor and notepad. The returned record is
// also appended to the journal.
func (r *Runner) Run(ctx context.Context, scenario steps.Scenario) (entities.RunRecord, error) {
	name := scenario.Actor
	if name == "" {
		name = defaultActorName
	}

	record := entities.RunRecord{
		ID:        uuid.NewString(),
		Scenario:  scenario.Name,
		Actor:     name,
		StartedAt: r.now(),
	}
	notes := storage.NewNotes()
	actor := r.newActor(name, record.ID, notes)

	logger := r.logger.WithFields(logrus.Fields{
		"scenario": scenario.Name,
		"run_id":   record.ID,
	})
	logger.Info("scenario started")

	var err error
	if r.reset != nil {
		if err = r.reset.Reset(ctx); err != nil {
			err = fmt.Errorf("failed to reset browser session: %w", err)
		}
	}
	if err == nil && r.baseURL != "" {
		err = actor.AttemptsTo(ctx, screenplay.Navigate(r.baseURL))
	}
	if err == nil {
		err = r.steps.RunScenario(ctx, actor, scenario)
	}

	record.FinishedAt = r.now()
	record.Notes = notes.Snapshot()
	switch {
	case err == nil:
		record.Status = entities.RunStatusPassed
		logger.WithField("duration", record.FinishedAt.Sub(record.StartedAt)).Info("scenario passed")
	case errors.Is(err, context.Canceled):
		record.Status = entities.RunStatusCancelled
		record.Error = err.Error()
		logger.Warn("scenario cancelled")
	default:
		record.Status = entities.RunStatusFailed
		record.Error = err.Error()
		record.Trail = screenplay.Trail(err)
		logger.WithError(err).Error("scenario failed")
	}

	if r.journal != nil {
		if jerr := r.journal.Append(record); jerr != nil {
			logger.WithError(jerr).Error("failed to journal run")
		}
	}
	return record, err
}

// LoadScenarios decodes every YAML document in r as a scenario
func LoadScenarios(r io.Reader) ([]steps.Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var scenarios []steps.Scenario
	for {
		var scenario steps.Scenario
		err := dec.Decode(&scenario)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", len(scenarios)+1, err)
		}
		if scenario.Name == "" {
			return nil, fmt.Errorf("scenario %d has no name", len(scenarios)+1)
		}
		if len(scenario.Steps) == 0 {
			return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}
