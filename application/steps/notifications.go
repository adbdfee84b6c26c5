// Package steps binds the notification scenarios to the workflow libraries.
package steps

import (
	"context"

	"ui_workflows/application/screenplay"
	"ui_workflows/application/workflows"
	"ui_workflows/domain/entities"
)

// NotificationDataNote is the note holding the rows sent with the last test notification
const NotificationDataNote = "NOTIFICATION_DATA"

// NotificationSteps - step definitions for the notification feature
type NotificationSteps struct {
	notifications *workflows.Notifications
}

// NewNotificationSteps - creates the notification step definitions
func NewNotificationSteps(settings workflows.Settings) *NotificationSteps {
	return &NotificationSteps{notifications: workflows.NewNotifications(settings)}
}

// SendsNotificationTo - "{actor} sends {string} notification to {string}"
func (s *NotificationSteps) SendsNotificationTo(ctx context.Context, actor *screenplay.Actor, mailType, recipient string, data entities.DataTable) error {
	return actor.AttemptsTo(ctx,
		screenplay.TakeNote(NotificationDataNote, data),
		s.notifications.OpenList(),
		s.notifications.TriggerToRecipient(mailType, recipient, data),
		s.notifications.SendEmail(),
	)
}

// SendsNotification - "{actor} sends {string} notification"
func (s *NotificationSteps) SendsNotification(ctx context.Context, actor *screenplay.Actor, mailType string, data entities.DataTable) error {
	return actor.AttemptsTo(ctx,
		screenplay.TakeNote(NotificationDataNote, data),
		s.notifications.OpenList(),
		s.notifications.TriggerToDefaultRecipients(mailType, data),
		s.notifications.SendEmail(),
	)
}

// SeesNotificationInFeed - "{actor} sees the {string} notification in the feed"
// The expected content is whatever an earlier send step noted down.
func (s *NotificationSteps) SeesNotificationInFeed(ctx context.Context, actor *screenplay.Actor, mailType string) error {
	data, err := screenplay.NoteOf[entities.DataTable](NotificationDataNote).AnsweredBy(ctx, actor)
	if err != nil {
		return err
	}
	verify, err := s.notifications.VerifyInFeed(mailType, data)
	if err != nil {
		return err
	}
	return actor.AttemptsTo(ctx,
		s.notifications.OpenList(),
		verify,
	)
}

// CreatesConfiguration - "{actor} creates a new {string} configuration to be sent to {string}"
// Configurations left over with the same name are deleted through the API first.
func (s *NotificationSteps) CreatesConfiguration(ctx context.Context, actor *screenplay.Actor, template, recipient string, data entities.DataTable) error {
	create, err := s.notifications.CreateConfiguration(template, recipient, data)
	if err != nil {
		return err
	}
	check, err := s.notifications.CheckRecipientListed(data, recipient)
	if err != nil {
		return err
	}
	name, _ := data.Value(string(entities.ConfigFieldName))
	return actor.AttemptsTo(ctx,
		s.notifications.DeleteAllConfigsWithName(name),
		s.notifications.OpenList(),
		create,
		check,
	)
}
