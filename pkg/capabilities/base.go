// Package capabilities defines the typed records produced by page extraction
// and the capability interfaces site modules implement.
package capabilities

import (
	"fmt"
)

// State describes whether a record field carries a value.
type State int

const (
	// NotLoaded means the field was never fetched.
	NotLoaded State = iota
	// NotAvailable means the source was consulted and the value is
	// confirmed absent.
	NotAvailable
	// Loaded means the field carries a value.
	Loaded
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not loaded"
	case NotAvailable:
		return "not available"
	case Loaded:
		return "loaded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Empty is the sentinel type used by filters and rules to report a missing
// value without committing to a field type.
type Empty struct {
	state State
}

// Absent is the "confirmed absent" sentinel. Filters return it for empty or
// whitespace-only input instead of attempting to parse it.
var Absent = Empty{state: NotAvailable}

// Unfetched is the "not yet fetched" sentinel.
var Unfetched = Empty{state: NotLoaded}

func (e Empty) State() State { return e.state }

func (e Empty) String() string { return e.state.String() }

// IsEmpty reports whether v is nil or one of the Empty sentinels.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Empty)
	return ok
}

// Value is a field holding either a T, a confirmed absence, or nothing yet.
// The zero Value is NotLoaded.
type Value[T any] struct {
	state State
	v     T
}

// Of returns a loaded Value.
func Of[T any](v T) Value[T] {
	return Value[T]{state: Loaded, v: v}
}

// NA returns a confirmed-absent Value.
func NA[T any]() Value[T] {
	return Value[T]{state: NotAvailable}
}

// State returns the presence state of the field.
func (v Value[T]) State() State { return v.state }

// Get returns the value and whether it is loaded.
func (v Value[T]) Get() (T, bool) {
	return v.v, v.state == Loaded
}

// Or returns the value if loaded, def otherwise.
func (v Value[T]) Or(def T) T {
	if v.state == Loaded {
		return v.v
	}
	return def
}

func (v Value[T]) String() string {
	if v.state == Loaded {
		return fmt.Sprint(v.v)
	}
	return v.state.String()
}

// Assign stores an extraction result into a field. It accepts a T, an Empty
// sentinel, or nil (mapped to NotAvailable). Anything else is a type error,
// reported with both the wanted and the actual type.
func Assign[T any](dst *Value[T], v any) error {
	switch x := v.(type) {
	case nil:
		*dst = NA[T]()
		return nil
	case Empty:
		*dst = Value[T]{state: x.state}
		return nil
	case T:
		*dst = Of(x)
		return nil
	default:
		var want T
		return fmt.Errorf("cannot assign %T to field of %T", v, want)
	}
}
