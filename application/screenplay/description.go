package screenplay

import (
	"fmt"
	"strings"
)

// Describable is implemented by targets, questions and predicates so they
// read naturally inside activity descriptions.
type Describable interface {
	Describe() string
}

// Description is a printf template rendered only when it is needed, for a
// log line or a failure report. "#actor" is replaced by the actor's name.
type Description struct {
	template string
	args     []interface{}
}

// D builds a Description
func D(template string, args ...interface{}) Description {
	return Description{template: template, args: args}
}

// Render formats the template with its parameters as seen by the named actor.
func (d Description) Render(actor string) string {
	text := d.template
	if len(d.args) > 0 {
		args := make([]interface{}, len(d.args))
		for i, arg := range d.args {
			args[i] = describe(arg, actor)
		}
		text = fmt.Sprintf(d.template, args...)
	}
	return strings.ReplaceAll(text, "#actor", actor)
}

func describe(v interface{}, actor string) interface{} {
	switch val := v.(type) {
	case Activity:
		return val.Description().Render(actor)
	case Description:
		return val.Render(actor)
	case Describable:
		return val.Describe()
	case fmt.Stringer:
		return val.String()
	default:
		return v
	}
}
