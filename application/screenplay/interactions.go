package screenplay

import (
	"context"
	"fmt"
	"strings"

	"ui_workflows/domain/entities"

	"go.uber.org/multierr"
)

// Navigate opens url in the current page
func Navigate(url string) Activity {
	return Interaction(entities.ActionNavigate, D("#actor navigates to %s", url), func(ctx context.Context, actor *Actor) error {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return err
		}
		return driver.Navigate(ctx, url)
	})
}

// Click clicks on the element target resolves to
func Click(target *Target) Activity {
	return Interaction(entities.ActionClick, D("#actor clicks on %s", target), func(ctx context.Context, actor *Actor) error {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return err
		}
		el, err := target.Resolve(ctx, actor)
		if err != nil {
			return err
		}
		return driver.Click(ctx, el)
	})
}

// SafeClick clicks on target, trying a second time if the first click fails transiently
func SafeClick(target *Target) Activity {
	return RetryOnce(D("#actor safely clicks on %s", target), Click(target))
}

type retryOnce struct {
	description Description
	activity    Activity
}

// RetryOnce performs activity and, when it fails with a transient error,
// performs it once more. Any other failure is returned as is.
func RetryOnce(description Description, activity Activity) Activity {
	return &retryOnce{description: description, activity: activity}
}

func (r *retryOnce) PerformAs(ctx context.Context, actor *Actor) error {
	err := actor.perform(ctx, r.activity)
	if err == nil || !actor.isTransient(err) {
		return err
	}
	actor.logger.WithError(err).WithField("activity", r.description.Render(actor.Name())).Warn("transient failure, retrying once")
	return actor.perform(ctx, r.activity)
}

func (r *retryOnce) Description() Description { return r.description }

type enter struct {
	value string
}

// Enter starts an interaction that types value into a field
func Enter(value string) enter {
	return enter{value: value}
}

// Into completes Enter with the field to type into
func (e enter) Into(target *Target) Activity {
	value := e.value
	return Interaction(entities.ActionTypeText, D("#actor enters %q into %s", value, target), func(ctx context.Context, actor *Actor) error {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return err
		}
		el, err := target.Resolve(ctx, actor)
		if err != nil {
			return err
		}
		return driver.SetValue(ctx, el, value)
	})
}

type press struct {
	keys []string
}

// Press starts an interaction that presses keys one after another
func Press(keys ...string) press {
	return press{keys: keys}
}

// In completes Press with the element receiving the key presses
func (p press) In(target *Target) Activity {
	keys := p.keys
	return Interaction(entities.ActionPress, D("#actor presses %s in %s", strings.Join(keys, ", "), target), func(ctx context.Context, actor *Actor) error {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return err
		}
		el, err := target.Resolve(ctx, actor)
		if err != nil {
			return err
		}
		return driver.Press(ctx, el, keys...)
	})
}

type selectOption struct {
	label string
}

// SelectOption starts an interaction that picks an option by its label
func SelectOption(label string) selectOption {
	return selectOption{label: label}
}

// From completes SelectOption with the select element
func (s selectOption) From(target *Target) Activity {
	label := s.label
	return Interaction(entities.ActionSelect, D("#actor selects %q from %s", label, target), func(ctx context.Context, actor *Actor) error {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return err
		}
		el, err := target.Resolve(ctx, actor)
		if err != nil {
			return err
		}
		return driver.SelectOption(ctx, el, label)
	})
}

type upload struct {
	path Question[string]
}

// UploadFrom starts an interaction that sets the file of a file input
func UploadFrom(path Question[string]) upload {
	return upload{path: path}
}

// To completes UploadFrom with the file input
func (u upload) To(target *Target) Activity {
	path := u.path
	return Interaction(entities.ActionUpload, D("#actor uploads file from %s to %s", path, target), func(ctx context.Context, actor *Actor) error {
		driver, err := actor.browseTheWeb()
		if err != nil {
			return err
		}
		el, err := target.Resolve(ctx, actor)
		if err != nil {
			return err
		}
		p, err := path.AnsweredBy(ctx, actor)
		if err != nil {
			return err
		}
		return driver.SetFiles(ctx, el, []string{p})
	})
}

type switchTo struct {
	frame *Target
}

// SwitchTo starts a block of activities performed inside a frame
func SwitchTo(frame *Target) switchTo {
	return switchTo{frame: frame}
}

// And performs activities inside the frame and always switches back out,
// whether they succeed or not.
func (s switchTo) And(activities ...Activity) Activity {
	frame := s.frame
	return &frameBlock{frame: frame, activities: activities}
}

type frameBlock struct {
	frame      *Target
	activities []Activity
}

func (f *frameBlock) PerformAs(ctx context.Context, actor *Actor) (err error) {
	driver, err := actor.browseTheWeb()
	if err != nil {
		return err
	}
	el, err := f.frame.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if err := driver.SwitchFrame(ctx, el); err != nil {
		return unhandled(f.Description().Render(actor.Name()), err)
	}
	defer func() {
		// switching back must happen even if ctx was cancelled mid-block
		if switchErr := driver.SwitchToParentFrame(context.WithoutCancel(ctx)); switchErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to leave %s: %w", f.frame.Describe(), switchErr))
		}
	}()

	for _, activity := range f.activities {
		if err := actor.perform(ctx, activity); err != nil {
			return err
		}
	}
	return nil
}

func (f *frameBlock) Description() Description {
	return D("#actor switches to %s", f.frame)
}
