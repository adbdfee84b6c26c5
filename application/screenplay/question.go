package screenplay

import (
	"context"
	"fmt"
	"regexp"
)

// Question computes a value from live state without changing it. Every call
// to AnsweredBy evaluates afresh; nothing is cached between calls.
type Question[T any] interface {
	AnsweredBy(ctx context.Context, actor *Actor) (T, error)
	Describe() string
}

type question[T any] struct {
	subject string
	answer  func(ctx context.Context, actor *Actor) (T, error)
}

// About creates a question from a function
func About[T any](subject string, answer func(ctx context.Context, actor *Actor) (T, error)) Question[T] {
	return &question[T]{subject: subject, answer: answer}
}

func (q *question[T]) AnsweredBy(ctx context.Context, actor *Actor) (T, error) {
	return q.answer(ctx, actor)
}

func (q *question[T]) Describe() string { return q.subject }

// Static wraps a plain value so it can be used wherever a question is expected
func Static[T any](value T) Question[T] {
	return &question[T]{
		subject: formatValue(value),
		answer: func(context.Context, *Actor) (T, error) {
			return value, nil
		},
	}
}

// Map derives a new question by transforming the answer of q
func Map[T, U any](q Question[T], subject string, transform func(T) U) Question[U] {
	return &question[U]{
		subject: subject,
		answer: func(ctx context.Context, actor *Actor) (U, error) {
			v, err := q.AnsweredBy(ctx, actor)
			if err != nil {
				var zero U
				return zero, err
			}
			return transform(v), nil
		},
	}
}

// Replace rewrites every match of pattern in the answer of q
func Replace(q Question[string], pattern *regexp.Regexp, replacement string) Question[string] {
	subject := fmt.Sprintf("%s with %s replaced by %q", q.Describe(), pattern, replacement)
	return Map(q, subject, func(s string) string {
		return pattern.ReplaceAllString(s, replacement)
	})
}

// FirstOf answers with the first item of a collection, NotFound when it is empty
func FirstOf[T any](q Question[[]T]) Question[T] {
	return pick(q, "the first of "+q.Describe(), func(items []T) int { return 0 })
}

// LastOf answers with the last item of a collection, NotFound when it is empty
func LastOf[T any](q Question[[]T]) Question[T] {
	return pick(q, "the last of "+q.Describe(), func(items []T) int { return len(items) - 1 })
}

// LengthOf answers with the number of items in a collection
func LengthOf[T any](q Question[[]T]) Question[int] {
	return Map(q, "the number of "+q.Describe(), func(items []T) int { return len(items) })
}

func pick[T any](q Question[[]T], subject string, index func([]T) int) Question[T] {
	return &question[T]{
		subject: subject,
		answer: func(ctx context.Context, actor *Actor) (T, error) {
			var zero T
			items, err := q.AnsweredBy(ctx, actor)
			if err != nil {
				return zero, err
			}
			if len(items) == 0 {
				return zero, &NotFoundError{Target: q.Describe()}
			}
			return items[index(items)], nil
		},
	}
}
