package entities

import "fmt"

// Strategy tells the driver how to interpret a Query selector
type Strategy string

const (
	StrategyCSS               Strategy = "css"
	StrategyCSSContainingText Strategy = "css-containing-text"
	StrategyDeepCSS           Strategy = "deep-css"
	StrategyRole              Strategy = "role"
	StrategyXPath             Strategy = "xpath"
)

// Query is a single selector step. Scoping, ordinals and filters are layered
// on top of it by the screenplay resolver.
type Query struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Selector string   `json:"selector" yaml:"selector"`
	// Text is the text the element must contain, or the accessible name for role queries.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// ByCSS - matches elements by CSS selector
func ByCSS(selector string) Query {
	return Query{Strategy: StrategyCSS, Selector: selector}
}

// ByCSSContainingText - matches elements by CSS selector whose text contains text
func ByCSSContainingText(selector, text string) Query {
	return Query{Strategy: StrategyCSSContainingText, Selector: selector, Text: text}
}

// ByDeepCSS - matches elements by CSS selector, piercing shadow roots
func ByDeepCSS(selector string) Query {
	return Query{Strategy: StrategyDeepCSS, Selector: selector}
}

// ByRole - matches elements by ARIA role and optional accessible name
func ByRole(role, name string) Query {
	return Query{Strategy: StrategyRole, Selector: role, Text: name}
}

// ByXPath - matches elements by XPath expression, relative to the scope
func ByXPath(expr string) Query {
	return Query{Strategy: StrategyXPath, Selector: expr}
}

func (q Query) String() string {
	switch q.Strategy {
	case StrategyCSSContainingText:
		return fmt.Sprintf("by css (%s) containing text %q", q.Selector, q.Text)
	case StrategyRole:
		if q.Text != "" {
			return fmt.Sprintf("by role (%s) named %q", q.Selector, q.Text)
		}
		return fmt.Sprintf("by role (%s)", q.Selector)
	case StrategyDeepCSS:
		return fmt.Sprintf("by deep css (%s)", q.Selector)
	case StrategyXPath:
		return fmt.Sprintf("by xpath (%s)", q.Selector)
	default:
		return fmt.Sprintf("by css (%s)", q.Selector)
	}
}
