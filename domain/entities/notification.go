package entities

// NotificationDetails mirrors one notification configuration returned by the platform API
type NotificationDetails struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	ContentType   string `json:"contentType"`
	Destinations  string `json:"destinations"`
	LastTriggered string `json:"lastTriggered"`
	TriggeredBy   string `json:"triggeredBy"`
}

// NotificationList is the paged list envelope of notification configurations
type NotificationList struct {
	Results []NotificationDetails `json:"results"`
}

// MailType identifies which notification template produced a feed entry
type MailType string

const (
	MailDefaultEmail MailType = "Default Email"
	MailHTMLExample  MailType = "Example: HTML Email"
	MailTeamsExample MailType = "Example: Teams Notification"
	MailQAHTML       MailType = "QA HTML Email"
)

// MailTypes lists every supported mail type
var MailTypes = []MailType{MailDefaultEmail, MailHTMLExample, MailTeamsExample, MailQAHTML}

// ConfigField identifies a field of the notification configuration form
type ConfigField string

const (
	ConfigFieldName        ConfigField = "Name"
	ConfigFieldDescription ConfigField = "Description"
	ConfigFieldType        ConfigField = "Type"
	ConfigFieldContentType ConfigField = "Content Type"
)
