package screenplay

import (
	"context"
	"fmt"

	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"
)

type ordinal int

const (
	ordinalAll ordinal = iota
	ordinalOne
	ordinalFirst
	ordinalLast
	ordinalNth
)

// Target describes how to find one element or a collection of elements. It is
// a node in a tree: the query runs inside whatever the parent target resolves
// to, then filters and an ordinal narrow the result. Targets are immutable and
// resolved afresh every time they are used.
type Target struct {
	label   string
	query   entities.Query
	parent  *Target
	ordinal ordinal
	index   int
	filters []ElementFilter
}

// Located targets exactly one element
func Located(query entities.Query) *Target {
	return &Target{query: query, ordinal: ordinalOne}
}

// LocatedAll targets every element matching query
func LocatedAll(query entities.Query) *Target {
	return &Target{query: query, ordinal: ordinalAll}
}

func (t *Target) clone() *Target {
	c := *t
	c.filters = append([]ElementFilter(nil), t.filters...)
	return &c
}

// Of scopes the lookup to the elements parent resolves to
func (t *Target) Of(parent *Target) *Target {
	c := t.clone()
	c.parent = parent
	return c
}

// First narrows the target to its first match
func (t *Target) First() *Target {
	c := t.clone()
	c.ordinal = ordinalFirst
	c.relabel("first of ", "")
	return c
}

// Last narrows the target to its last match
func (t *Target) Last() *Target {
	c := t.clone()
	c.ordinal = ordinalLast
	c.relabel("last of ", "")
	return c
}

// Nth narrows the target to its match at index, counting from zero
func (t *Target) Nth(index int) *Target {
	c := t.clone()
	c.ordinal = ordinalNth
	c.index = index
	c.relabel(fmt.Sprintf("#%d of ", index), "")
	return c
}

// Where keeps only the matches filter accepts
func (t *Target) Where(filter ElementFilter) *Target {
	c := t.clone()
	c.filters = append(c.filters, filter)
	c.relabel("", " where "+filter.Describe())
	return c
}

// relabel keeps a custom label accurate after the target is narrowed
func (t *Target) relabel(prefix, suffix string) {
	if t.label != "" {
		t.label = prefix + t.label + suffix
	}
}

// DescribedAs sets the label used in descriptions and failures
func (t *Target) DescribedAs(label string) *Target {
	c := t.clone()
	c.label = label
	return c
}

// IsCollection reports whether the target resolves to many elements
func (t *Target) IsCollection() bool { return t.ordinal == ordinalAll }

func (t *Target) Describe() string {
	if t.label != "" {
		return t.label
	}
	desc := "element located " + t.query.String()
	if t.ordinal != ordinalOne {
		desc = "elements located " + t.query.String()
	}
	for _, f := range t.filters {
		desc += " where " + f.Describe()
	}
	switch t.ordinal {
	case ordinalFirst:
		desc = "first of " + desc
	case ordinalLast:
		desc = "last of " + desc
	case ordinalNth:
		desc = fmt.Sprintf("#%d of %s", t.index, desc)
	}
	if t.parent != nil {
		desc += " of " + t.parent.Describe()
	}
	return desc
}

func (t *Target) String() string { return t.Describe() }

// Resolve returns the single element the target points at, NotFound when absent.
func (t *Target) Resolve(ctx context.Context, actor *Actor) (interfaces.Element, error) {
	return t.resolveOne(ctx, actor, nil)
}

// ResolveAll returns every element the target currently matches; an empty
// result is not an error.
func (t *Target) ResolveAll(ctx context.Context, actor *Actor) ([]interfaces.Element, error) {
	return t.resolveAll(ctx, actor, nil)
}

func (t *Target) resolveOne(ctx context.Context, actor *Actor, root interfaces.Element) (interfaces.Element, error) {
	els, err := t.resolveAll(ctx, actor, root)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, &NotFoundError{Target: t.Describe()}
	}
	return els[0], nil
}

// resolveAll walks up to the outermost parent, which searches inside root
// (the page or current frame when root is nil), then narrows on the way down.
func (t *Target) resolveAll(ctx context.Context, actor *Actor, root interfaces.Element) ([]interfaces.Element, error) {
	driver, err := actor.browseTheWeb()
	if err != nil {
		return nil, err
	}

	scopes := []interfaces.Element{root}
	if t.parent != nil {
		scopes, err = t.parent.resolveAll(ctx, actor, root)
		if err != nil {
			return nil, err
		}
		if len(scopes) == 0 && !t.parent.IsCollection() {
			return nil, &NotFoundError{Target: t.parent.Describe()}
		}
	}

	var found []interfaces.Element
	for _, scope := range scopes {
		els, err := driver.Find(ctx, scope, t.query)
		if err != nil {
			return nil, fmt.Errorf("failed to locate %s: %w", t.Describe(), err)
		}
		found = append(found, els...)
	}

	for _, f := range t.filters {
		kept := found[:0:0]
		for _, el := range found {
			ok, err := f.Keep(ctx, actor, el)
			if err != nil {
				return nil, err
			}
			if ok {
				kept = append(kept, el)
			}
		}
		found = kept
	}

	switch t.ordinal {
	case ordinalOne, ordinalFirst:
		if len(found) > 1 {
			found = found[:1]
		}
	case ordinalLast:
		if len(found) > 1 {
			found = found[len(found)-1:]
		}
	case ordinalNth:
		if t.index < 0 || t.index >= len(found) {
			return nil, nil
		}
		found = found[t.index : t.index+1]
	}
	return found, nil
}

// RelativeQuestion is a question that can also be answered inside a given
// element, which is how collections are filtered per element.
type RelativeQuestion[T any] interface {
	Question[T]
	AnswerWithin(ctx context.Context, actor *Actor, scope interfaces.Element) (T, error)
}

// ElementFilter decides whether a matched element is kept.
type ElementFilter interface {
	Keep(ctx context.Context, actor *Actor, el interfaces.Element) (bool, error)
	Describe() string
}

type matching[T any] struct {
	question  RelativeQuestion[T]
	predicate Predicate[T]
}

// Matching keeps elements for which question, answered inside the element, satisfies predicate
func Matching[T any](question RelativeQuestion[T], predicate Predicate[T]) ElementFilter {
	return &matching[T]{question: question, predicate: predicate}
}

func (m *matching[T]) Keep(ctx context.Context, actor *Actor, el interfaces.Element) (bool, error) {
	v, err := m.question.AnswerWithin(ctx, actor, el)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return m.predicate.Test(v), nil
}

func (m *matching[T]) Describe() string {
	return fmt.Sprintf("%s does %s", m.question.Describe(), m.predicate.Describe())
}
