package screenplay

import "context"

// Check runs one of two branches depending on a predicate evaluated once.
type Check[T any] struct {
	subject   Question[T]
	predicate Predicate[T]
	then      []Activity
	otherwise []Activity
}

// Whether starts a conditional activity
func Whether[T any](subject Question[T], predicate Predicate[T]) *Check[T] {
	return &Check[T]{subject: subject, predicate: predicate}
}

// AndIfSo sets the activities performed when the predicate holds
func (c *Check[T]) AndIfSo(activities ...Activity) *Check[T] {
	n := *c
	n.then = activities
	return &n
}

// Otherwise sets the activities performed when the predicate does not hold
func (c *Check[T]) Otherwise(activities ...Activity) *Check[T] {
	n := *c
	n.otherwise = activities
	return &n
}

func (c *Check[T]) PerformAs(ctx context.Context, actor *Actor) error {
	value, err := c.subject.AnsweredBy(ctx, actor)
	if err != nil {
		return unhandled(c.Description().Render(actor.Name()), err)
	}

	branch := c.otherwise
	if c.predicate.Test(value) {
		branch = c.then
	}
	for _, activity := range branch {
		if err := actor.perform(ctx, activity); err != nil {
			return err
		}
	}
	return nil
}

func (c *Check[T]) Description() Description {
	return D("#actor checks whether %s does %s", c.subject, c.predicate)
}
