package terminal

import (
	"ui_workflows/application/screenplay"
	"ui_workflows/application/steps"
	"ui_workflows/application/workflows"
	"ui_workflows/domain/interfaces"
	"ui_workflows/infrastructure/api"
	"ui_workflows/infrastructure/browser"
	"ui_workflows/infrastructure/config"
	"ui_workflows/infrastructure/fixtures"
	"ui_workflows/infrastructure/security"
	"ui_workflows/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

// session owns the collaborators shared by every scenario of one invocation
type session struct {
	cfg        config.Config
	logger     *logrus.Logger
	browser    *browser.Controller
	api        interfaces.APIClient
	files      interfaces.FileStore
	classifier interfaces.ErrorClassifier
	journal    interfaces.Journal
}

func openSession(cfg config.Config, logger *logrus.Logger) (*session, error) {
	journal, err := storage.NewJournal(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	files, err := fixtures.NewStore(cfg.DataFolder, cfg.DownloadFolder, logger)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg.APIBaseURL, cfg.APIToken, logger)
	if err != nil {
		return nil, err
	}

	ctrl, err := browser.NewController(browser.Options{
		Headless:    cfg.Headless,
		SlowMo:      cfg.SlowMo,
		StateDir:    cfg.StateDir,
		DownloadDir: cfg.DownloadFolder,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:        cfg,
		logger:     logger,
		browser:    ctrl,
		api:        client,
		files:      files,
		classifier: security.NewClassifier(logger),
		journal:    journal,
	}, nil
}

// runner wires the session into a scenario runner
func (s *session) runner() *Runner {
	return NewRunner(
		steps.NewNotificationSteps(settingsFrom(s.cfg)),
		s.journal,
		s.newActor,
		s.cfg.BaseURL,
		s.logger,
	).ResettingWith(s.browser)
}

func (s *session) newActor(name, runID string, notes interfaces.Notes) *screenplay.Actor {
	return screenplay.NewActor(name,
		screenplay.WithRunID(runID),
		screenplay.WithBrowser(s.browser),
		screenplay.WithAPI(s.api),
		screenplay.WithNotes(notes),
		screenplay.WithFiles(s.files),
		screenplay.WithClassifier(s.classifier),
		screenplay.WithTiming(timingFrom(s.cfg)),
		screenplay.WithLogger(s.logger),
	)
}

// Close - saves the browser session and shuts it down
func (s *session) Close() error {
	if s.browser == nil {
		return nil
	}
	return s.browser.Close()
}

func settingsFrom(cfg config.Config) workflows.Settings {
	settings := workflows.DefaultSettings()
	settings.DefaultSender = cfg.User
	return settings
}

func timingFrom(cfg config.Config) screenplay.Timing {
	return screenplay.Timing{
		EnsureTimeout: cfg.EnsureTimeout,
		PollInterval:  cfg.PollInterval,
	}
}
