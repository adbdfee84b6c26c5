package screenplay

import (
	"fmt"
	"strings"
)

// Predicate is a described, pure test over a value.
type Predicate[T any] struct {
	description string
	test        func(T) bool
	// expected is set by equality predicates so failures can show a diff
	expected interface{}
}

// Expect creates a predicate from a function
func Expect[T any](description string, test func(T) bool) Predicate[T] {
	return Predicate[T]{description: description, test: test}
}

// Test applies the predicate
func (p Predicate[T]) Test(value T) bool { return p.test(value) }

func (p Predicate[T]) Describe() string { return p.description }

// Equals holds when the value equals expected
func Equals[T comparable](expected T) Predicate[T] {
	return Predicate[T]{
		description: "equal " + formatValue(expected),
		test:        func(v T) bool { return v == expected },
		expected:    expected,
	}
}

// Not negates p
func Not[T any](p Predicate[T]) Predicate[T] {
	return Predicate[T]{
		description: "not " + p.description,
		test:        func(v T) bool { return !p.test(v) },
	}
}

// StartsWith holds when the value starts with prefix
func StartsWith(prefix string) Predicate[string] {
	return Expect("start with "+formatValue(prefix), func(v string) bool {
		return strings.HasPrefix(v, prefix)
	})
}

// EndsWith holds when the value ends with suffix
func EndsWith(suffix string) Predicate[string] {
	return Expect("end with "+formatValue(suffix), func(v string) bool {
		return strings.HasSuffix(v, suffix)
	})
}

// Includes holds when the value contains substr
func Includes(substr string) Predicate[string] {
	return Expect("include "+formatValue(substr), func(v string) bool {
		return strings.Contains(v, substr)
	})
}

// IncludesAllOf holds when the value contains every one of substrs
func IncludesAllOf(substrs ...string) Predicate[string] {
	quoted := make([]string, len(substrs))
	for i, s := range substrs {
		quoted[i] = formatValue(s)
	}
	return Expect("include all of "+strings.Join(quoted, ", "), func(v string) bool {
		for _, s := range substrs {
			if !strings.Contains(v, s) {
				return false
			}
		}
		return true
	})
}

// Contains holds when the collection has an item equal to item
func Contains[T comparable](item T) Predicate[[]T] {
	return Expect("contain "+formatValue(item), func(items []T) bool {
		for _, v := range items {
			if v == item {
				return true
			}
		}
		return false
	})
}

// ContainsAtLeastOneItemThat holds when p holds for some item of the collection
func ContainsAtLeastOneItemThat[T any](p Predicate[T]) Predicate[[]T] {
	return Expect(fmt.Sprintf("contain at least one item that does %s", p.description), func(items []T) bool {
		for _, v := range items {
			if p.test(v) {
				return true
			}
		}
		return false
	})
}

// IsTrue holds for true
func IsTrue() Predicate[bool] {
	return Expect("be true", func(v bool) bool { return v })
}

// IsPresent is IsTrue worded for PresenceOf
func IsPresent() Predicate[bool] {
	return Expect("be present", func(v bool) bool { return v })
}

// IsVisible is IsTrue worded for VisibilityOf
func IsVisible() Predicate[bool] {
	return Expect("be visible", func(v bool) bool { return v })
}
