package screenplay

import (
	"context"

	"ui_workflows/domain/interfaces"
)

// ElementQuestion reads one value from the element a target resolves to.
// It answers against the page or, when used as a filter, inside another element.
type ElementQuestion[T any] struct {
	subject string
	target  *Target
	read    func(ctx context.Context, driver interfaces.BrowserDriver, el interfaces.Element) (T, error)
}

func (q *ElementQuestion[T]) AnsweredBy(ctx context.Context, actor *Actor) (T, error) {
	return q.AnswerWithin(ctx, actor, nil)
}

func (q *ElementQuestion[T]) AnswerWithin(ctx context.Context, actor *Actor, scope interfaces.Element) (T, error) {
	var zero T
	driver, err := actor.browseTheWeb()
	if err != nil {
		return zero, err
	}
	el, err := q.target.resolveOne(ctx, actor, scope)
	if err != nil {
		return zero, err
	}
	return q.read(ctx, driver, el)
}

func (q *ElementQuestion[T]) Describe() string { return q.subject }

// DescribedAs replaces the subject used in descriptions
func (q *ElementQuestion[T]) DescribedAs(subject string) *ElementQuestion[T] {
	c := *q
	c.subject = subject
	return &c
}

// TextOf answers with the text content of the target
func TextOf(t *Target) *ElementQuestion[string] {
	return &ElementQuestion[string]{
		subject: "the text of " + t.Describe(),
		target:  t,
		read: func(ctx context.Context, d interfaces.BrowserDriver, el interfaces.Element) (string, error) {
			return d.ReadText(ctx, el)
		},
	}
}

// HTMLOf answers with the inner HTML of the target
func HTMLOf(t *Target) *ElementQuestion[string] {
	return &ElementQuestion[string]{
		subject: "the HTML of " + t.Describe(),
		target:  t,
		read: func(ctx context.Context, d interfaces.BrowserDriver, el interfaces.Element) (string, error) {
			return d.ReadHTML(ctx, el)
		},
	}
}

// AttributeOf answers with the value of a named attribute of the target
func AttributeOf(name string, t *Target) *ElementQuestion[string] {
	return &ElementQuestion[string]{
		subject: "the " + name + " attribute of " + t.Describe(),
		target:  t,
		read: func(ctx context.Context, d interfaces.BrowserDriver, el interfaces.Element) (string, error) {
			return d.ReadAttribute(ctx, el, name)
		},
	}
}

// ValueOf answers with the current value of an input target
func ValueOf(t *Target) *ElementQuestion[string] {
	return &ElementQuestion[string]{
		subject: "the value of " + t.Describe(),
		target:  t,
		read: func(ctx context.Context, d interfaces.BrowserDriver, el interfaces.Element) (string, error) {
			return d.ReadValue(ctx, el)
		},
	}
}

// VisibilityOf answers whether the target is visible; an absent target is not
func VisibilityOf(t *Target) Question[bool] {
	return About("the visibility of "+t.Describe(), func(ctx context.Context, actor *Actor) (bool, error) {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return false, err
		}
		el, err := t.Resolve(ctx, actor)
		if err != nil {
			if IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return driver.IsVisible(ctx, el)
	})
}

// PresenceOf answers whether the target matches at least one element
func PresenceOf(t *Target) Question[bool] {
	return About("the presence of "+t.Describe(), func(ctx context.Context, actor *Actor) (bool, error) {
		els, err := t.ResolveAll(ctx, actor)
		if err != nil {
			if IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return len(els) > 0, nil
	})
}

// CountOf answers with the number of elements the target matches
func CountOf(t *Target) Question[int] {
	return About("the number of "+t.Describe(), func(ctx context.Context, actor *Actor) (int, error) {
		els, err := t.ResolveAll(ctx, actor)
		if err != nil {
			return 0, err
		}
		return len(els), nil
	})
}

// TextOfAll answers with the text of every element the target matches
func TextOfAll(t *Target) Question[[]string] {
	return About("the text of all "+t.Describe(), func(ctx context.Context, actor *Actor) ([]string, error) {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return nil, err
		}
		els, err := t.ResolveAll(ctx, actor)
		if err != nil {
			return nil, err
		}
		texts := make([]string, 0, len(els))
		for _, el := range els {
			text, err := driver.ReadText(ctx, el)
			if err != nil {
				return nil, err
			}
			texts = append(texts, text)
		}
		return texts, nil
	})
}
