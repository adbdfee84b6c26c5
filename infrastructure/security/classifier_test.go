package security

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := NewClassifier(logger)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"detached", errors.New("locator.click: Element is not attached to the DOM"), true},
		{"stale", errors.New("stale element reference"), true},
		{"covered", errors.New("<div class=\"MuiBackdrop-root\"> intercepts pointer events"), true},
		{"navigation", errors.New("Execution context was destroyed, most likely because of a navigation"), true},
		{"playwright timeout", fmt.Errorf("click: %w", playwright.ErrTimeout), true},
		{"closed browser", fmt.Errorf("click: %w", playwright.ErrTargetClosed), false},
		{"cancelled", fmt.Errorf("element is not visible: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, false},
		{"other", errors.New("strict mode violation"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsTransient(tt.err))
		})
	}
}
