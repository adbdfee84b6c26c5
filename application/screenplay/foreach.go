package screenplay

import "context"

type forEach[T any] struct {
	items Question[[]T]
	each  func(item T) Activity
}

// ForEach performs the activity built by each for every item, in order. The
// collection is answered once and copied before the first item runs.
func ForEach[T any](items Question[[]T], each func(item T) Activity) Activity {
	return &forEach[T]{items: items, each: each}
}

// ForEachOf is ForEach over a plain slice
func ForEachOf[T any](items []T, each func(item T) Activity) Activity {
	return ForEach(Static(items), each)
}

func (f *forEach[T]) PerformAs(ctx context.Context, actor *Actor) error {
	items, err := f.items.AnsweredBy(ctx, actor)
	if err != nil {
		return unhandled(f.Description().Render(actor.Name()), err)
	}
	snapshot := make([]T, len(items))
	copy(snapshot, items)

	for _, item := range snapshot {
		if err := actor.perform(ctx, f.each(item)); err != nil {
			return err
		}
	}
	return nil
}

func (f *forEach[T]) Description() Description {
	return D("#actor performs an activity for each of %s", f.items)
}
