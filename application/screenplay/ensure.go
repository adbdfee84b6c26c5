package screenplay

import (
	"context"
	"fmt"
	"time"

	"ui_workflows/domain/entities"
)

// Eventual re-evaluates a question until its answer satisfies a predicate or
// the timeout elapses. NotFound and transient collaborator errors count as
// "not yet"; any other error stops the polling at once.
type Eventual[T any] struct {
	verb      string
	question  Question[T]
	predicate Predicate[T]
	timeout   time.Duration
	interval  time.Duration
}

// Eventually asserts that the answer to question eventually satisfies predicate
func Eventually[T any](question Question[T], predicate Predicate[T]) *Eventual[T] {
	return &Eventual[T]{verb: "ensures that", question: question, predicate: predicate}
}

// WaitUntil synchronises on question satisfying predicate. It polls exactly
// like Eventually and fails the same way.
func WaitUntil[T any](question Question[T], predicate Predicate[T]) *Eventual[T] {
	return &Eventual[T]{verb: "waits until", question: question, predicate: predicate}
}

// WithTimeout caps the total wait, overriding the actor's default
func (e *Eventual[T]) WithTimeout(d time.Duration) *Eventual[T] {
	c := *e
	c.timeout = d
	return &c
}

// PollingEvery sets the delay between evaluations, never below MinPollInterval
func (e *Eventual[T]) PollingEvery(d time.Duration) *Eventual[T] {
	c := *e
	c.interval = d
	return &c
}

func (e *Eventual[T]) Description() Description {
	return D("#actor %s %s does %s", e.verb, e.question, e.predicate)
}

func (e *Eventual[T]) PerformAs(ctx context.Context, actor *Actor) error {
	return unhandled(e.Description().Render(actor.Name()), e.poll(ctx, actor))
}

func (e *Eventual[T]) poll(ctx context.Context, actor *Actor) error {
	timeout := e.timeout
	if timeout <= 0 {
		timeout = actor.timing.EnsureTimeout
	}
	interval := e.interval
	if interval <= 0 {
		interval = actor.timing.PollInterval
	}
	if interval < MinPollInterval {
		interval = MinPollInterval
	}

	// every evaluation shares one deadline, so a slow answer cannot stretch the wait
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failure := &AssertionTimeoutError{
		Subject:     e.question.Describe(),
		Expectation: e.predicate.Describe(),
		Timeout:     timeout,
		Expected:    e.predicate.expected,
	}
	stopped := func() error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped waiting for %s: %w", e.question.Describe(), err)
		}
		return failure
	}

	for {
		failure.Attempts++
		value, err := e.question.AnsweredBy(pctx, actor)
		switch {
		case err == nil:
			if e.predicate.Test(value) {
				return nil
			}
			failure.LastValue, failure.HasValue, failure.LastErr = value, true, nil
		case ctx.Err() != nil:
			return fmt.Errorf("%s: %w", e.question.Describe(), ctx.Err())
		case pctx.Err() != nil:
			// cut short by the timeout; keep the last real observation
			return failure
		case actor.isTransient(err):
			failure.LastValue, failure.HasValue, failure.LastErr = nil, false, err
		default:
			return err
		}

		select {
		case <-pctx.Done():
			return stopped()
		default:
		}

		select {
		case <-pctx.Done():
			return stopped()
		case <-ticker.C:
		}
	}
}

type assertion[T any] struct {
	question  Question[T]
	predicate Predicate[T]
}

// That asserts once, without retrying, that the answer to question satisfies predicate
func That[T any](question Question[T], predicate Predicate[T]) Activity {
	return &assertion[T]{question: question, predicate: predicate}
}

func (a *assertion[T]) PerformAs(ctx context.Context, actor *Actor) error {
	value, err := a.question.AnsweredBy(ctx, actor)
	if err != nil {
		return unhandled(a.Description().Render(actor.Name()), err)
	}
	if !a.predicate.Test(value) {
		return &AssertionFailureError{
			Subject:     a.question.Describe(),
			Expectation: a.predicate.Describe(),
			Actual:      value,
			Expected:    a.predicate.expected,
		}
	}
	return nil
}

func (a *assertion[T]) Description() Description {
	return D("#actor ensures that %s does %s", a.question, a.predicate)
}

// WaitFor suspends the actor for a fixed duration
func WaitFor(d time.Duration) Activity {
	return Interaction(entities.ActionWait, D("#actor waits for %s", d), func(ctx context.Context, actor *Actor) error {
		return actor.wait(ctx, d)
	})
}
