package screenplay

import (
	"context"

	"ui_workflows/domain/entities"
)

// Activity is anything an actor can perform: a single interaction or a task
// composed of other activities.
type Activity interface {
	PerformAs(ctx context.Context, actor *Actor) error
	Description() Description
}

// Task is a named, ordered composition of activities.
type Task struct {
	description Description
	steps       []Activity
}

// Where creates a task performing steps in order
func Where(description Description, steps ...Activity) *Task {
	return &Task{description: description, steps: steps}
}

// PerformAs runs each step in order. The first failure aborts the remaining
// steps and is returned with this task's description added to its trail.
func (t *Task) PerformAs(ctx context.Context, actor *Actor) error {
	for _, step := range t.steps {
		if err := actor.perform(ctx, step); err != nil {
			return withTrail(err, t.description.Render(actor.Name()))
		}
	}
	return nil
}

func (t *Task) Description() Description { return t.description }

type interaction struct {
	kind        entities.ActionType
	description Description
	perform     func(ctx context.Context, actor *Actor) error
}

// Interaction creates an atomic activity. Errors outside the failure
// taxonomy are reported as UnhandledStepError.
func Interaction(kind entities.ActionType, description Description, perform func(ctx context.Context, actor *Actor) error) Activity {
	return &interaction{kind: kind, description: description, perform: perform}
}

func (i *interaction) PerformAs(ctx context.Context, actor *Actor) error {
	if err := i.perform(ctx, actor); err != nil {
		return unhandled(i.description.Render(actor.Name()), err)
	}
	return nil
}

func (i *interaction) Description() Description { return i.description }

type deferred struct {
	description Description
	build       func(ctx context.Context, actor *Actor) (Activity, error)
}

// Deferred builds an activity from values only known while the scenario runs,
// such as the contents of a fixture, and then performs it.
func Deferred(description Description, build func(ctx context.Context, actor *Actor) (Activity, error)) Activity {
	return &deferred{description: description, build: build}
}

func (d *deferred) PerformAs(ctx context.Context, actor *Actor) error {
	activity, err := d.build(ctx, actor)
	if err != nil {
		return unhandled(d.description.Render(actor.Name()), err)
	}
	return actor.perform(ctx, activity)
}

func (d *deferred) Description() Description { return d.description }
