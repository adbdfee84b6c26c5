package workflows

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"ui_workflows/application/screenplay"
	"ui_workflows/application/screenplay/screenplaytest"
	"ui_workflows/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configServer is a stateful stand-in for the notification config endpoints
type configServer struct {
	mu      sync.Mutex
	configs []entities.NotificationDetails
	nextID  int
}

func (s *configServer) handle(req entities.Request) (entities.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case req.Method == http.MethodGet:
		return screenplaytest.JSON(http.StatusOK, entities.NotificationList{
			Results: append([]entities.NotificationDetails(nil), s.configs...),
		}), nil
	case req.Method == http.MethodDelete:
		id, err := strconv.Atoi(req.Path[strings.LastIndex(req.Path, "/")+1:])
		if err != nil {
			return entities.Response{Status: http.StatusBadRequest}, nil
		}
		for i, c := range s.configs {
			if c.ID == id {
				s.configs = append(s.configs[:i], s.configs[i+1:]...)
				return entities.Response{Status: http.StatusOK}, nil
			}
		}
		return entities.Response{Status: http.StatusNotFound}, nil
	case req.Method == http.MethodPost:
		s.nextID++
		config := req.Body.(entities.NotificationDetails)
		config.ID = s.nextID
		s.configs = append(s.configs, config)
		return entities.Response{Status: http.StatusOK}, nil
	}
	return entities.Response{Status: http.StatusMethodNotAllowed}, nil
}

func (s *configServer) named(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.configs {
		if c.Name == name {
			n++
		}
	}
	return n
}

func TestNotifications_DeleteAllConfigsWithName(t *testing.T) {
	server := &configServer{nextID: 10, configs: []entities.NotificationDetails{
		{ID: 3, Name: "pump alert"},
		{ID: 5, Name: "valve alert"},
		{ID: 8, Name: "pump alert"},
	}}
	f := newFixture(t, document())
	f.api.Handler = server.handle
	notifications := NewNotifications(testSettings())
	ctx := context.Background()

	require.NoError(t, f.actor.AttemptsTo(ctx, notifications.DeleteAllConfigsWithName("pump alert")))
	assert.Equal(t, 0, server.named("pump alert"))
	assert.Equal(t, 1, server.named("valve alert"))

	var deleted []string
	for _, req := range f.api.Requests() {
		if req.Method == http.MethodDelete {
			deleted = append(deleted, req.Path)
		}
	}
	assert.Equal(t, []string{"/api/Notification/config/3", "/api/Notification/config/8"}, deleted)

	require.NoError(t, f.actor.AttemptsTo(ctx,
		screenplay.Send(screenplay.PostRequest("/api/Notification/config", entities.NotificationDetails{Name: "pump alert"})),
	))
	assert.Equal(t, 1, server.named("pump alert"))
}

func TestNotifications_DeleteConfigRequiresOK(t *testing.T) {
	f := newFixture(t, document())
	f.api.Handler = (&configServer{}).handle
	notifications := NewNotifications(testSettings())

	err := f.actor.AttemptsTo(context.Background(), notifications.DeleteConfig(42))
	var failure *screenplay.AssertionFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, http.StatusNotFound, failure.Actual)
	assert.Equal(t, []string{"Olivia deletes Notification config with ID 42"}, screenplay.Trail(err))
}

func TestNotifications_RejectsUnknownConfigField(t *testing.T) {
	f := newFixture(t, document())
	notifications := NewNotifications(testSettings())

	_, err := notifications.CreateConfiguration("template.html", "qa@example.com", entities.DataTable{
		{Field: "Name", Value: "pump alert"},
		{Field: "Priority", Value: "high"},
	})
	var unsupported *screenplay.UnsupportedVariantError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "Priority", unsupported.Value)
	assert.Equal(t, []string{"Name", "Description", "Type", "Content Type"}, unsupported.Supported)
	assert.Empty(t, f.driver.Log())
}

func TestNotifications_RejectsUnknownMailType(t *testing.T) {
	notifications := NewNotifications(testSettings())

	_, err := notifications.VerifyInFeed("Carrier Pigeon", nil)
	var unsupported *screenplay.UnsupportedVariantError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "mail type", unsupported.Kind)
	assert.Len(t, unsupported.Supported, len(entities.MailTypes))

	for _, mailType := range entities.MailTypes {
		_, err := notifications.VerifyInFeed(string(mailType), nil)
		assert.NoError(t, err, mailType)
	}
}

func TestNotifications_CheckRecipientNeedsName(t *testing.T) {
	notifications := NewNotifications(testSettings())

	_, err := notifications.CheckRecipientListed(entities.DataTable{{Field: "Type", Value: "Email"}}, "qa@example.com")
	assert.ErrorIs(t, err, errMissingName)
}

func TestTeamsTimestamp(t *testing.T) {
	assert.Equal(t, "2026-10-18 09:00:00", TeamsTimestamp("2026-10-18T09:00:00Z"))
	assert.Equal(t, "21.5", TeamsTimestamp("21.5"))
}

func contentFrame(html string, cells ...string) *screenplaytest.Node {
	table := el("table", "table")
	for i, c := range cells {
		table.Append(el(fmt.Sprintf("cell %d", i), "td > div").WithText(c))
	}
	body := el("body", "body").WithHTML(html).Append(table)
	return el("iframe", "iframe").WithDocument(el("frame document").Append(body))
}

func TestNotifications_ConfirmTeamsHTML(t *testing.T) {
	frame := contentFrame(`<p>Temperature 21.5 at 2026-10-18 09:00:00</p><p>2026-10-18T09:30:15Z</p>`)
	f := newFixture(t, document(frame))
	notifications := NewNotifications(testSettings())

	err := f.actor.AttemptsTo(context.Background(), notifications.ConfirmTeamsHTMLMatches(entities.DataTable{
		{Field: "data.metrics.temp", Value: "21.5"},
		{Field: "data.metrics.time", Value: "2026-10-18T09:00:00Z"},
		{Field: "data.metrics.seen", Value: "2026-10-18T09:30:15Z"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 0, f.driver.FrameDepth())
}

func TestNotifications_ConfirmEmailText(t *testing.T) {
	frame := contentFrame("", "21.5", "pump", "Sent by OctaiPipe")
	f := newFixture(t, document(frame))
	notifications := NewNotifications(testSettings())
	ctx := context.Background()

	require.NoError(t, f.actor.AttemptsTo(ctx, notifications.ConfirmEmailTextMatches(entities.DataTable{
		{Field: "data.metrics.temp", Value: "21.5"},
		{Field: "asset", Value: "pump"},
	})))

	err := f.actor.AttemptsTo(ctx, notifications.ConfirmEmailTextMatches(entities.DataTable{
		{Field: "asset", Value: "valve"},
	}))
	var timeout *screenplay.AssertionTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 0, f.driver.FrameDepth())
}

// runTestPage is a notification grid whose "Run Test" action opens a dialog
// with one data metric input, one parameter row and the recipient override.
func runTestPage() (*screenplaytest.Node, map[string]*screenplaytest.Node) {
	inputs := map[string]*screenplaytest.Node{
		"metric":    el("temp input", `input[type="text"]`),
		"key":       el("threshold key", `input[type="text"]`, `input[value="threshold"]`).WithValue("threshold"),
		"value":     el("threshold value", `input[type="text"]`),
		"recipient": el("recipient input", `input[placeholder="email@example.com"]`),
		"addRow":    el("add row", "button").WithText("Add Row"),
	}
	dialog := el("run test dialog", `[role="dialog"]`).Append(
		el("temp control", ".MuiFormControl-root").Append(
			el("temp label", ".MuiInputBase-formControl").WithText("temp"),
			inputs["metric"],
		),
		el("parameters", ".MuiPaper-root .MuiBox-root").Append(inputs["key"], inputs["value"]),
		inputs["addRow"],
	)

	doc := document(
		el("config tab", ".MuiTabs-scroller button").WithText("CONFIG"),
		gridRowWithMenu("Default Email"),
		gridRowWithMenu("Example: HTML Email"),
		inputs["recipient"],
	)
	runTest := el("run test item", `[role="menuitem"]`).WithText("Run Test")
	runTest.OnClick = func(*screenplaytest.Node) { doc.Append(dialog) }
	doc.Append(runTest)
	return doc, inputs
}

func gridRowWithMenu(name string) *screenplaytest.Node {
	return el("row "+name, ".MuiDataGrid-row").Append(
		el("name "+name, `[data-field="name"]`).WithText(name),
		el("actions "+name, `[data-field="actions"] [aria-haspopup="menu"]`),
	)
}

func TestNotifications_TriggerToRecipient(t *testing.T) {
	doc, inputs := runTestPage()
	f := newFixture(t, doc)
	notifications := NewNotifications(testSettings())

	err := f.actor.AttemptsTo(context.Background(), notifications.TriggerToRecipient("Example: HTML Email", "qa@example.com", entities.DataTable{
		{Field: "data.metrics.temp", Value: "21.5"},
		{Field: "threshold", Value: "40"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "21.5", inputs["metric"].Value)
	assert.Equal(t, "40", inputs["value"].Value)
	assert.Equal(t, "threshold", inputs["key"].Value)
	assert.Equal(t, "qa@example.com", inputs["recipient"].Value)
	assert.Equal(t, []string{
		"click config tab",
		"click actions Example: HTML Email",
		"click run test item",
		"fill 21.5 into temp input",
		"fill 40 into threshold value",
		"click add row",
		"fill qa@example.com into recipient input",
	}, f.driver.Log())
}

func TestNotifications_TriggerDefaultEmailSkipsAddRow(t *testing.T) {
	doc, _ := runTestPage()
	f := newFixture(t, doc)
	notifications := NewNotifications(testSettings())

	err := f.actor.AttemptsTo(context.Background(), notifications.TriggerToDefaultRecipients("Default Email", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"click config tab",
		"click actions Default Email",
		"click run test item",
	}, f.driver.Log())
}

func TestNotifications_CreateConfiguration(t *testing.T) {
	nameInput := el("name input", `input[type="text"]`)
	description := el("description", "textarea").WithRole("textbox", "Description")
	dialog := el("config dialog", `[role="dialog"]`)
	add := el("add email", "button").WithText("Add")
	add.OnClick = func(*screenplaytest.Node) {
		dialog.Append(el("chip", ".MuiChip-root").WithText("qa@example.com"))
	}
	emailInput := el("email input", `input[placeholder="Enter email address"]`)
	dialog.Append(
		el("name control", ".MuiFormControl-root").Append(
			el("name label", ".MuiInputBase-formControl").WithText("Name"),
			nameInput,
		),
		description,
		el("type control", ".MuiFormControl-root").Append(
			el("type label", ".MuiInputBase-formControl").WithText("Type"),
			el("type dropdown").WithRole("combobox", ""),
		),
		el("template name", "p").WithText("template.html"),
		emailInput,
		add,
		el("save", "button").WithText("SAVE"),
	)
	doc := document(
		el("config tab", ".MuiTabs-scroller button").WithText("CONFIG"),
		el("create config", "button").WithText("Create Config"),
		el("file input", `input[type="file"]`),
		el("email option", `[role="option"]`).WithText("Email"),
		dialog,
	)
	f := newFixture(t, doc)
	notifications := NewNotifications(testSettings())

	create, err := notifications.CreateConfiguration("template.html", "qa@example.com", entities.DataTable{
		{Field: "Name", Value: "pump alert"},
		{Field: "Description", Value: "pump temperature"},
		{Field: "Type", Value: "Email"},
	})
	require.NoError(t, err)
	require.NoError(t, f.actor.AttemptsTo(context.Background(), create))

	assert.Equal(t, "pump alert", nameInput.Value)
	assert.Equal(t, "pump temperature", description.Value)
	assert.Equal(t, "qa@example.com", emailInput.Value)
	assert.Equal(t, []string{
		"click config tab",
		"click create config",
		"fill pump alert into name input",
		"fill pump temperature into description",
		"click type dropdown",
		"click email option",
		"upload data/template.html to file input",
		"fill qa@example.com into email input",
		"click add email",
		"click save",
	}, f.driver.Log())
}

func TestNotifications_VerifyDefaultEmailInFeed(t *testing.T) {
	doc := document(
		el("feed tab", ".MuiTabs-scroller button").WithText("FEED"),
		el("feed row", "[data-id]").Append(
			el("config name", `[data-id] > [data-field="configName"]`).WithText("Default Email"),
			el("status", `[data-id] > [data-field="status"]`).WithText("Success"),
			el("feed actions", `[data-field="actions"] [aria-haspopup="menu"]`),
		),
		el("view content", `[role="menuitem"]`).WithText("View Content"),
		el("content dialog", `[role="dialog"]`).Append(
			el("sender", `[role="dialog"] p`).WithText("From: ops@example.com"),
			contentFrame("", "pump", "Sent by OctaiPipe"),
		),
	)
	f := newFixture(t, doc)
	notifications := NewNotifications(testSettings())

	verify, err := notifications.VerifyInFeed("Default Email", entities.DataTable{{Field: "asset", Value: "pump"}})
	require.NoError(t, err)
	require.NoError(t, f.actor.AttemptsTo(context.Background(), verify))
	assert.Equal(t, []string{
		"click feed tab",
		"click feed actions",
		"click view content",
		"enter iframe",
		"leave frame",
	}, f.driver.Log())
}
