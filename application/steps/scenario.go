package steps

import (
	"context"
	"fmt"

	"ui_workflows/application/screenplay"
	"ui_workflows/domain/entities"
)

// StepKind names one of the supported step definitions
type StepKind string

const (
	StepSendNotificationTo  StepKind = "sends notification to"
	StepSendNotification    StepKind = "sends notification"
	StepSeeNotificationFeed StepKind = "sees notification in feed"
	StepCreateConfiguration StepKind = "creates configuration"
)

// StepKinds lists every supported step
var StepKinds = []StepKind{StepSendNotificationTo, StepSendNotification, StepSeeNotificationFeed, StepCreateConfiguration}

// Step is one line of a scenario file
type Step struct {
	Kind      StepKind           `yaml:"step" json:"step"`
	MailType  string             `yaml:"mail_type,omitempty" json:"mail_type,omitempty"`
	Recipient string             `yaml:"recipient,omitempty" json:"recipient,omitempty"`
	Template  string             `yaml:"template,omitempty" json:"template,omitempty"`
	Data      entities.DataTable `yaml:"data,omitempty" json:"data,omitempty"`
}

func (s Step) String() string {
	if s.MailType != "" {
		return fmt.Sprintf("%s %q", s.Kind, s.MailType)
	}
	return string(s.Kind)
}

// Scenario is a named list of steps performed by one actor
type Scenario struct {
	Name  string `yaml:"name" json:"name"`
	Actor string `yaml:"actor" json:"actor"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Run dispatches step to its definition
func (s *NotificationSteps) Run(ctx context.Context, actor *screenplay.Actor, step Step) error {
	switch step.Kind {
	case StepSendNotificationTo:
		return s.SendsNotificationTo(ctx, actor, step.MailType, step.Recipient, step.Data)
	case StepSendNotification:
		return s.SendsNotification(ctx, actor, step.MailType, step.Data)
	case StepSeeNotificationFeed:
		return s.SeesNotificationInFeed(ctx, actor, step.MailType)
	case StepCreateConfiguration:
		return s.CreatesConfiguration(ctx, actor, step.Template, step.Recipient, step.Data)
	default:
		supported := make([]string, len(StepKinds))
		for i, k := range StepKinds {
			supported[i] = string(k)
		}
		return &screenplay.UnsupportedVariantError{Kind: "step", Value: string(step.Kind), Supported: supported}
	}
}

// RunScenario performs every step in order and stops at the first failure
func (s *NotificationSteps) RunScenario(ctx context.Context, actor *screenplay.Actor, scenario Scenario) error {
	for i, step := range scenario.Steps {
		if err := s.Run(ctx, actor, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	return nil
}
