package steps

import (
	"context"
	"io"
	"testing"
	"time"

	"ui_workflows/application/screenplay"
	"ui_workflows/application/screenplay/screenplaytest"
	"ui_workflows/application/workflows"
	"ui_workflows/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var el = screenplaytest.El

func settings() workflows.Settings {
	s := workflows.DefaultSettings()
	s.DefaultSender = "ops@example.com"
	s.TitleTimeout = 200 * time.Millisecond
	s.TableTimeout = 200 * time.Millisecond
	s.DialogTimeout = 200 * time.Millisecond
	return s
}

func newActor(t *testing.T, driver *screenplaytest.Driver, api *screenplaytest.API) *screenplay.Actor {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return screenplay.NewActor("Nadia",
		screenplay.WithBrowser(driver),
		screenplay.WithAPI(api),
		screenplay.WithNotes(screenplaytest.NewNotes()),
		screenplay.WithFiles(screenplaytest.NewFiles()),
		screenplay.WithLogger(logger),
		screenplay.WithTiming(screenplay.Timing{EnsureTimeout: 200 * time.Millisecond, PollInterval: 10 * time.Millisecond}),
	)
}

// notificationsApp renders the notifications page with one configuration,
// its Run Test dialog and a feed entry for the email it sends.
func notificationsApp() *screenplaytest.Node {
	doc := el("document")
	parameterValue := el("asset value", `input[type="text"]`)
	dialog := el("run test dialog", `[role="dialog"]`).Append(
		el("parameters", ".MuiPaper-root .MuiBox-root").Append(
			el("asset key", `input[type="text"]`, `input[value="asset"]`).WithValue("asset"),
			parameterValue,
		),
		el("send", "button").WithText("Send"),
	)
	runTest := el("run test item", `[role="menuitem"]`).WithText("Run Test")
	runTest.OnClick = func(*screenplaytest.Node) { doc.Append(dialog) }

	return doc.Append(
		el("notifications link", ".MuiDrawer-docked span").WithText("Notifications"),
		el("title", "h1").WithText("Notifications"),
		el("config tab", ".MuiTabs-scroller button").WithText("CONFIG"),
		el("feed tab", ".MuiTabs-scroller button").WithText("FEED"),
		el("grid", ".MuiDataGrid-root").Append(
			el("config row", ".MuiDataGrid-row").Append(
				el("config name", `[data-field="name"]`).WithText("Default Email"),
				el("config actions", `[data-field="actions"] [aria-haspopup="menu"]`),
			),
		),
		runTest,
		el("feed row", "[data-id]").Append(
			el("feed config", `[data-id] > [data-field="configName"]`).WithText("Default Email"),
			el("feed status", `[data-id] > [data-field="status"]`).WithText("Success"),
		),
		el("view content", `[role="menuitem"]`).WithText("View Content"),
		el("sender", `[role="dialog"] p`).WithText("ops@example.com"),
		el("iframe", "iframe").WithDocument(el("frame").Append(
			el("table", "table").Append(
				el("asset cell", "td > div").WithText("pump"),
				el("footer cell", "td > div").WithText("Sent by OctaiPipe"),
			),
		)),
	)
}

func TestNotificationSteps_SendThenSeeInFeed(t *testing.T) {
	driver := screenplaytest.NewDriver(notificationsApp())
	actor := newActor(t, driver, &screenplaytest.API{})
	s := NewNotificationSteps(settings())
	ctx := context.Background()

	scenario := Scenario{
		Name:  "default email reaches the feed",
		Actor: "Nadia",
		Steps: []Step{
			{Kind: StepSendNotification, MailType: "Default Email", Data: entities.DataTable{{Field: "asset", Value: "pump"}}},
			{Kind: StepSeeNotificationFeed, MailType: "Default Email"},
		},
	}
	require.NoError(t, s.RunScenario(ctx, actor, scenario))

	assert.Contains(t, driver.Log(), "fill pump into asset value")
	assert.Contains(t, driver.Log(), "click send")
	assert.Equal(t, 0, driver.FrameDepth())

	data, err := screenplay.NoteOf[entities.DataTable](NotificationDataNote).AnsweredBy(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "pump", data[0].Value)
}

func TestNotificationSteps_SeeInFeedNeedsEarlierSend(t *testing.T) {
	actor := newActor(t, screenplaytest.NewDriver(notificationsApp()), &screenplaytest.API{})
	s := NewNotificationSteps(settings())

	err := s.SeesNotificationInFeed(context.Background(), actor, "Default Email")
	assert.True(t, screenplay.IsNotFound(err))
}

func TestNotificationSteps_CreateRejectsBadDataBeforeCallingAPI(t *testing.T) {
	api := &screenplaytest.API{}
	actor := newActor(t, screenplaytest.NewDriver(notificationsApp()), api)
	s := NewNotificationSteps(settings())
	ctx := context.Background()

	err := s.CreatesConfiguration(ctx, actor, "template.html", "qa@example.com", entities.DataTable{{Field: "Colour", Value: "red"}})
	var unsupported *screenplay.UnsupportedVariantError
	require.ErrorAs(t, err, &unsupported)

	err = s.CreatesConfiguration(ctx, actor, "template.html", "qa@example.com", entities.DataTable{{Field: "Type", Value: "Email"}})
	assert.ErrorContains(t, err, `no "Name" row`)
	assert.Empty(t, api.Requests())
}

func TestNotificationSteps_RunRejectsUnknownStep(t *testing.T) {
	actor := newActor(t, screenplaytest.NewDriver(el("document")), &screenplaytest.API{})
	s := NewNotificationSteps(settings())

	err := s.RunScenario(context.Background(), actor, Scenario{Steps: []Step{{Kind: "dances"}}})
	var unsupported *screenplay.UnsupportedVariantError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "dances", unsupported.Value)
	assert.Contains(t, err.Error(), "step 1 (dances)")
}

func TestNotificationSteps_FailureKeepsTrail(t *testing.T) {
	actor := newActor(t, screenplaytest.NewDriver(notificationsApp()), &screenplaytest.API{})
	s := NewNotificationSteps(settings())

	err := s.SendsNotification(context.Background(), actor, "QA HTML Email", nil)
	var nf *screenplay.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, `first of table rows where notification name does equal "QA HTML Email"`, nf.Target)
	assert.Equal(t, []string{"Nadia triggers the Email notification to default recipients"}, screenplay.Trail(err))
}
