package screenplay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// NotFoundError reports a target that matched nothing where a match was required.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Target)
}

// AssertionTimeoutError reports an eventual assertion whose predicate never held
// before the deadline. It carries whatever was observed last.
type AssertionTimeoutError struct {
	Subject     string
	Expectation string
	Timeout     time.Duration
	Attempts    int
	LastValue   interface{}
	HasValue    bool
	LastErr     error
	Expected    interface{}
}

func (e *AssertionTimeoutError) Error() string {
	msg := fmt.Sprintf("expected %s to %s within %s (%d attempts)", e.Subject, e.Expectation, e.Timeout, e.Attempts)
	switch {
	case e.HasValue:
		msg += fmt.Sprintf("; last value: %s", formatValue(e.LastValue))
		if diff := textDiff(e.Expected, e.LastValue); diff != "" {
			msg += "; diff: " + diff
		}
	case e.LastErr != nil:
		msg += fmt.Sprintf("; last error: %v", e.LastErr)
	}
	return msg
}

func (e *AssertionTimeoutError) Unwrap() error { return e.LastErr }

// AssertionFailureError reports an immediate, non-retried predicate mismatch.
type AssertionFailureError struct {
	Subject     string
	Expectation string
	Actual      interface{}
	Expected    interface{}
}

func (e *AssertionFailureError) Error() string {
	msg := fmt.Sprintf("expected %s to %s but got %s", e.Subject, e.Expectation, formatValue(e.Actual))
	if diff := textDiff(e.Expected, e.Actual); diff != "" {
		msg += "; diff: " + diff
	}
	return msg
}

// UnhandledStepError wraps any collaborator failure outside the taxonomy,
// a driver crash or a refused connection for instance.
type UnhandledStepError struct {
	Step string
	Err  error
}

func (e *UnhandledStepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *UnhandledStepError) Unwrap() error { return e.Err }

// UnsupportedVariantError is returned when a tag has no handler in a closed set.
type UnsupportedVariantError struct {
	Kind      string
	Value     string
	Supported []string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("unsupported %s %q (supported: %s)", e.Kind, e.Value, strings.Join(e.Supported, ", "))
}

// TrailError carries the chain of task descriptions active when a step
// failed, outermost first.
type TrailError struct {
	Trail []string
	Err   error
}

func (e *TrailError) Error() string {
	return fmt.Sprintf("%s: %v", strings.Join(e.Trail, " > "), e.Err)
}

func (e *TrailError) Unwrap() error { return e.Err }

// Trail returns the breadcrumb trail attached to err, if any.
func Trail(err error) []string {
	var te *TrailError
	if errors.As(err, &te) {
		return te.Trail
	}
	return nil
}

func withTrail(err error, crumb string) error {
	if te, ok := err.(*TrailError); ok {
		trail := make([]string, 0, len(te.Trail)+1)
		trail = append(trail, crumb)
		trail = append(trail, te.Trail...)
		return &TrailError{Trail: trail, Err: te.Err}
	}
	return &TrailError{Trail: []string{crumb}, Err: err}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func classified(err error) bool {
	var (
		nf *NotFoundError
		at *AssertionTimeoutError
		af *AssertionFailureError
		us *UnhandledStepError
		uv *UnsupportedVariantError
		tr *TrailError
	)
	return errors.As(err, &nf) || errors.As(err, &at) || errors.As(err, &af) ||
		errors.As(err, &us) || errors.As(err, &uv) || errors.As(err, &tr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func unhandled(step string, err error) error {
	if err == nil || classified(err) {
		return err
	}
	return &UnhandledStepError{Step: step, Err: err}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// textDiff renders an inline diff when both sides are strings: deletions
// from expected as [-x-], insertions in actual as {+x+}.
func textDiff(expected, actual interface{}) string {
	want, ok := expected.(string)
	if !ok {
		return ""
	}
	got, ok := actual.(string)
	if !ok || want == got {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(want, got, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
