package workflows

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ui_workflows/application/screenplay"
	"ui_workflows/domain/entities"
)

const (
	notificationEntity = "Notification"
	emailFooter        = "Sent by OctaiPipe"
	dataMetricPrefix   = "data.metrics."
)

var errMissingName = errors.New(`configuration data has no "Name" row`)

// Notifications - tasks for notification configurations, test sends and the feed
type Notifications struct {
	settings Settings
	table    *TableView
	imports  *ImportManagement
}

// NewNotifications - creates the notifications library on top of the table and import libraries
func NewNotifications(settings Settings) *Notifications {
	settings = settings.withDefaults()
	return &Notifications{
		settings: settings,
		table:    NewTableView(settings),
		imports:  NewImportManagement(settings),
	}
}

// GetAllConfigs fetches every notification configuration through the API
func (n *Notifications) GetAllConfigs() screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor gets all Notification configs"),
		screenplay.Send(screenplay.GetRequest("/api/Notification/config?pageSize=1000")),
		screenplay.That(screenplay.LastResponseStatus(), screenplay.Equals(http.StatusOK)),
	)
}

// DeleteConfig deletes one notification configuration through the API
func (n *Notifications) DeleteConfig(id int) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor deletes Notification config with ID %d", id),
		screenplay.Send(screenplay.DeleteRequest(fmt.Sprintf("/api/Notification/config/%d", id))),
		screenplay.That(screenplay.LastResponseStatus(), screenplay.Equals(http.StatusOK)),
	)
}

// DeleteAllConfigsWithName deletes every configuration called name. The list
// is fetched once and iterated as it was at that moment.
func (n *Notifications) DeleteAllConfigsWithName(name string) screenplay.Activity {
	configs := screenplay.Map(screenplay.LastResponseBody[entities.NotificationList](), "the notification configs",
		func(list entities.NotificationList) []entities.NotificationDetails { return list.Results })

	return screenplay.Where(screenplay.D("#actor deletes all Notification configs with name %s", name),
		n.GetAllConfigs(),
		screenplay.ForEach(configs, func(config entities.NotificationDetails) screenplay.Activity {
			return screenplay.Whether(screenplay.Static(config.Name), screenplay.Equals(name)).
				AndIfSo(n.DeleteConfig(config.ID))
		}),
	)
}

// OpenList opens the notifications page from the side drawer
func (n *Notifications) OpenList() screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor opens the Notifications list"),
		screenplay.Click(n.ManagementLink()),
		n.table.WaitForTable(notificationEntity),
	)
}

// TriggerToDefaultRecipients opens the Run Test dialog of the configuration
// called configName and fills it from data. Rows whose field starts with
// "data.metrics." go to the data metric inputs, others are parameters.
func (n *Notifications) TriggerToDefaultRecipients(configName string, data entities.DataTable) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor triggers the Email notification to default recipients"),
		screenplay.Click(n.Tab("CONFIG")),
		screenplay.WaitUntil(screenplay.PresenceOf(n.MenuButtons().First()), screenplay.IsPresent()).
			WithTimeout(n.settings.DialogTimeout),
		screenplay.Click(n.MenuButtonFor(configName)),
		screenplay.Click(n.ActionItem("Run Test")),
		screenplay.ForEachOf(data, func(row entities.DataRow) screenplay.Activity {
			return screenplay.Whether(screenplay.Static(row.Field), screenplay.StartsWith(dataMetricPrefix)).
				AndIfSo(n.SetDataMetric(row.Field, row.Value)).
				Otherwise(n.SetParameter(row.Field, row.Value))
		}),
		screenplay.Whether(screenplay.Static(configName), screenplay.Equals(string(entities.MailHTMLExample))).
			AndIfSo(screenplay.Click(n.AddDataMetricButton())),
	)
}

// TriggerToRecipient is TriggerToDefaultRecipients with the recipient overridden
func (n *Notifications) TriggerToRecipient(configName, recipient string, data entities.DataTable) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor triggers the Email notification to a named recipient"),
		n.TriggerToDefaultRecipients(configName, data),
		screenplay.Enter(recipient).Into(n.EmailOverride()),
	)
}

func (n *Notifications) SendEmail() screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor sends the email notification"),
		screenplay.Click(n.SendEmailButton()),
	)
}

func (n *Notifications) SetParameter(key, value string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor sets parameter %s to %s", key, value),
		screenplay.WaitUntil(screenplay.VisibilityOf(n.Dialog()), screenplay.IsVisible()).
			WithTimeout(n.settings.DialogTimeout),
		screenplay.WaitUntil(screenplay.PresenceOf(n.ParameterKey(key)), screenplay.IsPresent()).
			WithTimeout(n.settings.DialogTimeout),
		screenplay.Enter(value).Into(n.ParameterValue(key)),
	)
}

func (n *Notifications) SetDataMetric(key, value string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor sets data metric %s to %s", key, value),
		screenplay.Enter(value).Into(n.LabelledTextInput(strings.TrimPrefix(key, dataMetricPrefix))),
	)
}

// CreateConfiguration fills in and saves a new configuration. Every row of
// data must name a known ConfigField; an unknown field is rejected before
// anything is performed.
func (n *Notifications) CreateConfiguration(template, recipient string, data entities.DataTable) (screenplay.Activity, error) {
	setters := make([]screenplay.Activity, 0, len(data))
	for _, row := range data {
		setter, err := n.SetField(entities.ConfigField(row.Field), row.Value)
		if err != nil {
			return nil, err
		}
		setters = append(setters, setter)
	}

	return screenplay.Where(screenplay.D("#actor creates a new notification configuration"),
		screenplay.Click(n.Tab("CONFIG")),
		screenplay.Click(n.CreateConfigButton()),
		screenplay.ForEachOf(setters, func(setter screenplay.Activity) screenplay.Activity { return setter }),
		n.SetTemplate(template),
		screenplay.Enter(recipient).Into(n.ConfigEmailInput()),
		screenplay.Click(n.ConfigAddEmailButton()),
		screenplay.WaitUntil(screenplay.PresenceOf(n.AddedAddress(recipient)), screenplay.IsPresent()),
		screenplay.Click(n.SaveButton()),
	), nil
}

// SetField returns the activity filling one field of the configuration form
func (n *Notifications) SetField(field entities.ConfigField, value string) (screenplay.Activity, error) {
	describe := screenplay.D("#actor sets %s to %s", string(field), value)
	switch field {
	case entities.ConfigFieldName:
		return screenplay.Where(describe, screenplay.Enter(value).Into(n.LabelledTextInput("Name"))), nil
	case entities.ConfigFieldDescription:
		input := screenplay.Located(entities.ByRole("textbox", "Description")).Of(n.Dialog()).DescribedAs("description input")
		return screenplay.Where(describe, screenplay.Enter(value).Into(input)), nil
	case entities.ConfigFieldType, entities.ConfigFieldContentType:
		return screenplay.Where(describe,
			screenplay.Click(n.LabelledDropdown(string(field))),
			screenplay.Click(n.Option(value)),
		), nil
	default:
		return nil, &screenplay.UnsupportedVariantError{
			Kind:      "configuration field",
			Value:     string(field),
			Supported: []string{"Name", "Description", "Type", "Content Type"},
		}
	}
}

// SetTemplate uploads a template fixture and waits for the dialog to list it
func (n *Notifications) SetTemplate(template string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor sets template file location to %s", template),
		n.imports.SetImportFileLocation(template),
		screenplay.WaitUntil(screenplay.PresenceOf(n.UploadedTemplate(template)), screenplay.IsPresent()),
	)
}

// CheckRecipientListed opens the configuration named in data and looks for the recipient chip
func (n *Notifications) CheckRecipientListed(data entities.DataTable, recipient string) (screenplay.Activity, error) {
	name, ok := data.Value(string(entities.ConfigFieldName))
	if !ok {
		return nil, errMissingName
	}
	return screenplay.Where(screenplay.D("#actor checks that %s is listed in the config template", recipient),
		screenplay.Click(n.Tab("CONFIG")),
		n.table.OpenItemByName(name),
		screenplay.Eventually(screenplay.PresenceOf(n.AddedAddress(recipient)), screenplay.IsPresent()),
	), nil
}

// VerifyInFeed opens the newest feed entry and checks its content the way
// mailType renders it.
func (n *Notifications) VerifyInFeed(mailType string, data entities.DataTable) (screenplay.Activity, error) {
	check, err := n.contentCheck(entities.MailType(mailType), data)
	if err != nil {
		return nil, err
	}
	return screenplay.Where(screenplay.D("#actor verifies the %s notification in the feed", mailType),
		n.OpenFirstFeedEntry(mailType),
		check,
	), nil
}

func (n *Notifications) contentCheck(mailType entities.MailType, data entities.DataTable) (screenplay.Activity, error) {
	switch mailType {
	case entities.MailDefaultEmail:
		return screenplay.Where(screenplay.D("#actor verifies the Default Email notification in the feed"),
			n.ConfirmSenderIs(n.settings.DefaultSender),
			n.ConfirmEmailTextMatches(data),
		), nil
	case entities.MailHTMLExample:
		return screenplay.Where(screenplay.D("#actor verifies the HTML Email notification in the feed"),
			n.ConfirmHTMLMatches(data),
		), nil
	case entities.MailTeamsExample:
		return screenplay.Where(screenplay.D("#actor verifies the Teams notification in the feed"),
			n.ConfirmTeamsHTMLMatches(data),
		), nil
	case entities.MailQAHTML:
		return screenplay.Where(screenplay.D("#actor verifies the QA HTML Email notification in the feed"),
			n.ConfirmHTMLMatches(data),
		), nil
	default:
		supported := make([]string, len(entities.MailTypes))
		for i, t := range entities.MailTypes {
			supported[i] = string(t)
		}
		return nil, &screenplay.UnsupportedVariantError{Kind: "mail type", Value: string(mailType), Supported: supported}
	}
}

// OpenFirstFeedEntry waits for the newest feed entry to be a successful
// mailType send, then opens its content.
func (n *Notifications) OpenFirstFeedEntry(mailType string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor opens the %s notification", mailType),
		screenplay.Click(n.Tab("FEED")),
		screenplay.Eventually(screenplay.TextOf(n.FeedItems("configName").First()), screenplay.Equals(mailType)),
		screenplay.Eventually(screenplay.TextOf(n.FeedItems("status").First()), screenplay.Equals("Success")),
		screenplay.Click(n.MenuButtons().First()),
		screenplay.Click(n.ActionItem("View Content")),
	)
}

func (n *Notifications) ConfirmSenderIs(sender string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor confirms that the email sender is %s", sender),
		n.confirmIncludes(n.EmailSender(), sender),
	)
}

// ConfirmEmailTextMatches checks every data value appears as a cell of the email body
func (n *Notifications) ConfirmEmailTextMatches(data entities.DataTable) screenplay.Activity {
	texts := n.AllEmailText()
	return screenplay.Where(screenplay.D("#actor confirms that the email matches expected data"),
		screenplay.SwitchTo(n.ContentFrame()).And(
			screenplay.Where(screenplay.D("#actor confirms that the notification content includes all expected contents"),
				screenplay.ForEachOf(data, func(row entities.DataRow) screenplay.Activity {
					return screenplay.Eventually(texts, screenplay.Contains(row.Value))
				}),
			),
			screenplay.Eventually(texts, screenplay.Contains(emailFooter)),
		),
	)
}

// ConfirmHTMLMatches checks every data value appears in the email HTML
func (n *Notifications) ConfirmHTMLMatches(data entities.DataTable) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor confirms that the email HTML matches expected data"),
		screenplay.SwitchTo(n.ContentFrame()).And(n.confirmIncludesAll(n.ContentHTML(), data)),
	)
}

// ConfirmTeamsHTMLMatches is ConfirmHTMLMatches for Teams cards, which render
// whole-minute UTC timestamps without the T separator and Z suffix.
func (n *Notifications) ConfirmTeamsHTMLMatches(data entities.DataTable) screenplay.Activity {
	html := n.ContentHTML()
	return screenplay.Where(screenplay.D("#actor confirms that the Teams HTML matches expected data"),
		screenplay.SwitchTo(n.ContentFrame()).And(
			screenplay.ForEachOf(data, func(row entities.DataRow) screenplay.Activity {
				return screenplay.Whether(screenplay.Static(row.Value), screenplay.EndsWith(":00Z")).
					AndIfSo(n.confirmIncludes(html, TeamsTimestamp(row.Value))).
					Otherwise(n.confirmIncludes(html, row.Value))
			}),
		),
	)
}

// TeamsTimestamp rewrites an ISO timestamp the way Teams cards display it
func TeamsTimestamp(value string) string {
	return strings.Replace(strings.Replace(value, "T", " ", 1), "Z", "", 1)
}

func (n *Notifications) confirmIncludes(content screenplay.Question[string], expected string) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor confirms that the notification content includes %s", expected),
		screenplay.Eventually(content, screenplay.Includes(expected)),
	)
}

func (n *Notifications) confirmIncludesAll(content screenplay.Question[string], data entities.DataTable) screenplay.Activity {
	return screenplay.Where(screenplay.D("#actor confirms that the notification content includes all expected contents"),
		screenplay.ForEachOf(data, func(row entities.DataRow) screenplay.Activity {
			return n.confirmIncludes(content, row.Value)
		}),
	)
}

func (n *Notifications) ManagementLink() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(".MuiDrawer-docked span", notificationEntity+"s")).
		DescribedAs(notificationEntity + "s management link")
}

func (n *Notifications) Tab(name string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(".MuiTabs-scroller button", name)).DescribedAs(name + " tab")
}

func (n *Notifications) rowName() *screenplay.ElementQuestion[string] {
	return screenplay.TextOf(screenplay.Located(entities.ByCSS(`[data-field="name"]`))).DescribedAs("notification name")
}

func (n *Notifications) MenuButtons() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(`[data-field="actions"] [aria-haspopup="menu"]`)).DescribedAs("actions button")
}

// MenuButtonFor is the actions button in the first grid row named configName
func (n *Notifications) MenuButtonFor(configName string) *screenplay.Target {
	row := n.table.DataRows().Where(screenplay.Matching(n.rowName(), screenplay.Equals(configName))).First()
	return n.MenuButtons().Of(row).First().DescribedAs("actions button for " + configName)
}

func (n *Notifications) ActionItem(action string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="menuitem"]`, action)).DescribedAs(action + " action item")
}

func (n *Notifications) Dialog() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`[role="dialog"]`)).DescribedAs("Run Test dialog")
}

func (n *Notifications) inputContainers() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(".MuiFormControl-root")).DescribedAs("form input containers")
}

func (n *Notifications) inputLabel() *screenplay.ElementQuestion[string] {
	return screenplay.TextOf(screenplay.Located(entities.ByCSS(".MuiInputBase-formControl"))).DescribedAs("form input label text")
}

func (n *Notifications) textInputs() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(`input[type="text"]`)).Of(n.Dialog()).DescribedAs("text inputs")
}

// LabelledDropdown is the combobox inside the first form control whose label includes label
func (n *Notifications) LabelledDropdown(label string) *screenplay.Target {
	container := n.inputContainers().Where(screenplay.Matching(n.inputLabel(), screenplay.Includes(label))).First()
	return screenplay.LocatedAll(entities.ByRole("combobox", "")).Of(container).First().
		DescribedAs("form dropdown for " + label)
}

func (n *Notifications) Option(text string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(`[role="option"]`, text)).DescribedAs("form option for " + text)
}

// LabelledTextInput is the text input inside the first form control whose label starts with label
func (n *Notifications) LabelledTextInput(label string) *screenplay.Target {
	container := n.inputContainers().Where(screenplay.Matching(n.inputLabel(), screenplay.StartsWith(label))).First()
	return n.textInputs().Of(container).First().DescribedAs("text input for " + label)
}

func (n *Notifications) parameterRows() *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(".MuiPaper-root .MuiBox-root")).Of(n.Dialog()).DescribedAs("parameter rows")
}

// ParameterRow is the parameter row whose key input holds key
func (n *Notifications) ParameterRow(key string) *screenplay.Target {
	keyInput := screenplay.ValueOf(screenplay.LocatedAll(entities.ByCSS(`input[type="text"]`)).First())
	return n.parameterRows().Where(screenplay.Matching(keyInput, screenplay.Equals(key))).First().
		DescribedAs("parameter row for " + key)
}

func (n *Notifications) ParameterKey(key string) *screenplay.Target {
	return screenplay.Located(entities.ByCSS(fmt.Sprintf(`input[value="%s"]`, key))).DescribedAs("parameter key for " + key)
}

func (n *Notifications) ParameterValue(key string) *screenplay.Target {
	return n.textInputs().Of(n.ParameterRow(key)).Last().DescribedAs("parameter value for " + key)
}

func (n *Notifications) AddDataMetricButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Add Row")).DescribedAs("add data metrics button")
}

func (n *Notifications) EmailOverride() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`input[placeholder="email@example.com"]`)).DescribedAs("email override")
}

func (n *Notifications) SendEmailButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Send")).DescribedAs("send email button")
}

func (n *Notifications) CreateConfigButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Create Config")).DescribedAs("create configuration button")
}

func (n *Notifications) UploadedTemplate(template string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("p", template)).Of(n.Dialog()).DescribedAs("uploaded template")
}

func (n *Notifications) ConfigEmailInput() *screenplay.Target {
	return screenplay.Located(entities.ByCSS(`input[placeholder="Enter email address"]`)).Of(n.Dialog()).
		DescribedAs("config email override")
}

func (n *Notifications) ConfigAddEmailButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "Add")).Of(n.Dialog()).DescribedAs("config add email button")
}

func (n *Notifications) AddedAddress(email string) *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText(".MuiChip-root", email)).DescribedAs("config added email address")
}

func (n *Notifications) SaveButton() *screenplay.Target {
	return screenplay.Located(entities.ByCSSContainingText("button", "SAVE")).Of(n.Dialog()).DescribedAs("save configuration button")
}

func (n *Notifications) FeedItems(field string) *screenplay.Target {
	return screenplay.LocatedAll(entities.ByCSS(fmt.Sprintf(`[data-id] > [data-field="%s"]`, field))).DescribedAs(field + " in feed")
}

func (n *Notifications) ContentFrame() *screenplay.Target {
	return screenplay.Located(entities.ByDeepCSS("iframe")).DescribedAs("notification content dialog")
}

func (n *Notifications) EmailSender() screenplay.Question[string] {
	return screenplay.TextOf(screenplay.Located(entities.ByCSS(`[role="dialog"] p`)).DescribedAs("email sender in notification content"))
}

// AllEmailText answers with the text of every cell of the first table in the email
func (n *Notifications) AllEmailText() screenplay.Question[[]string] {
	table := screenplay.LocatedAll(entities.ByCSS("table")).First()
	return screenplay.TextOfAll(screenplay.LocatedAll(entities.ByDeepCSS("td > div")).Of(table).DescribedAs("notification text contents"))
}

func (n *Notifications) ContentHTML() screenplay.Question[string] {
	return screenplay.HTMLOf(screenplay.Located(entities.ByDeepCSS("body"))).DescribedAs("notification html contents")
}
