package interfaces

import (
	"context"

	"ui_workflows/domain/entities"
)

// Element is a live handle to one element. It is only valid for the page or
// frame it was found in and must not be kept past the call that resolved it.
type Element interface {
	String() string
}

// BrowserDriver defines the interface for browser automation
type BrowserDriver interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// Find returns every element matching query inside scope, or inside the
	// current page or frame when scope is nil. No match is not an error.
	Find(ctx context.Context, scope Element, query entities.Query) ([]Element, error)

	// Click clicks on an element
	Click(ctx context.Context, el Element) error

	// SetValue replaces the value of an input
	SetValue(ctx context.Context, el Element, text string) error

	// SetFiles sets the files of a file input
	SetFiles(ctx context.Context, el Element, paths []string) error

	// Press presses keys one after another while el has focus
	Press(ctx context.Context, el Element, keys ...string) error

	// SelectOption selects the option with the given label of a select element
	SelectOption(ctx context.Context, el Element, label string) error

	// ReadText returns the text content of an element
	ReadText(ctx context.Context, el Element) (string, error)

	// ReadHTML returns the inner HTML of an element
	ReadHTML(ctx context.Context, el Element) (string, error)

	// ReadAttribute returns an attribute value, empty when absent
	ReadAttribute(ctx context.Context, el Element, name string) (string, error)

	// ReadValue returns the current value of an input
	ReadValue(ctx context.Context, el Element) (string, error)

	// IsVisible checks if an element is visible
	IsVisible(ctx context.Context, el Element) (bool, error)

	// SwitchFrame makes the content of the frame element the lookup root
	SwitchFrame(ctx context.Context, frame Element) error

	// SwitchToParentFrame leaves the innermost frame entered with SwitchFrame
	SwitchToParentFrame(ctx context.Context) error

	// Close closes the browser
	Close() error
}
