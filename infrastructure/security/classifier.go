package security

import (
	"context"
	"errors"
	"strings"

	"ui_workflows/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// transientKeywords are fragments of driver errors raised while the page is
// still re-rendering the element being used
var transientKeywords = []string{
	"stale element",
	"not attached to the dom",
	"element is detached",
	"element was detached",
	"is not stable",
	"intercepts pointer events",
	"element is not visible",
	"execution context was destroyed",
}

// Classifier tells the retry-once interactions which failures are worth a second attempt
type Classifier struct {
	logger *logrus.Logger
}

var _ interfaces.ErrorClassifier = (*Classifier)(nil)

// NewClassifier - creates a transient error classifier
func NewClassifier(logger *logrus.Logger) *Classifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Classifier{
		logger: logger,
	}
}

// IsTransient - reports whether err may clear up on retry
func (c *Classifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// a cancelled run or a closed browser never recovers
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, playwright.ErrTargetClosed) {
		return false
	}

	lowerErr := strings.ToLower(err.Error())
	for _, keyword := range transientKeywords {
		if strings.Contains(lowerErr, keyword) {
			c.logger.WithField("keyword", keyword).Debug("transient driver failure")
			return true
		}
	}

	return errors.Is(err, playwright.ErrTimeout)
}
