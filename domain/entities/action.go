package entities

// ActionType represents the kind of effect an interaction has
type ActionType string

const (
	ActionNavigate ActionType = "navigate"
	ActionClick    ActionType = "click"
	ActionTypeText ActionType = "type"
	ActionPress    ActionType = "press"
	ActionSelect   ActionType = "select"
	ActionUpload   ActionType = "upload"
	ActionWait     ActionType = "wait"
	ActionRequest  ActionType = "request"
	ActionNote     ActionType = "note"
)
