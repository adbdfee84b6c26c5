// Package logging builds the logrus logger shared by every component of a run.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects level, format and an optional rotating log file
type Options struct {
	Level  string
	Format string
	File   string
	// Output defaults to stderr
	Output io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New - creates a logger; the returned closer releases the log file, if any
func New(opts Options) (*logrus.Logger, io.Closer) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if opts.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		out = io.MultiWriter(out, file)
		closer = file
	}
	logger.SetOutput(out)

	if err != nil && opts.Level != "" {
		logger.WithField("level", opts.Level).Warn("unknown log level, using info")
	}

	return logger, closer
}
