package screenplay

import (
	"context"
	"fmt"

	"ui_workflows/domain/entities"
)

// TakeNote stores value under key in the actor's notepad
func TakeNote(key string, value interface{}) Activity {
	return Interaction(entities.ActionNote, D("#actor takes note of %s", key), func(ctx context.Context, actor *Actor) error {
		notes, err := actor.takeNotes()
		if err != nil {
			return err
		}
		notes.Set(key, value)
		return nil
	})
}

// TakeNoteOf stores the current answer to question under key
func TakeNoteOf[T any](key string, question Question[T]) Activity {
	return Interaction(entities.ActionNote, D("#actor takes note of %s as %s", question, key), func(ctx context.Context, actor *Actor) error {
		notes, err := actor.takeNotes()
		if err != nil {
			return err
		}
		v, err := question.AnsweredBy(ctx, actor)
		if err != nil {
			return err
		}
		notes.Set(key, v)
		return nil
	})
}

// NoteOf answers with the value noted under key
func NoteOf[T any](key string) Question[T] {
	return About("the note of "+key, func(ctx context.Context, actor *Actor) (T, error) {
		var zero T
		notes, err := actor.takeNotes()
		if err != nil {
			return zero, err
		}
		raw, ok := notes.Get(key)
		if !ok {
			return zero, &NotFoundError{Target: "note " + key}
		}
		v, ok := raw.(T)
		if !ok {
			return zero, fmt.Errorf("note %s holds %T, not %T", key, raw, zero)
		}
		return v, nil
	})
}
