package hook

import (
	"fmt"

	"github.com/dshills/hookgun/slot"
)

// Discipline identifies one of the seven wrapping strategies.
type Discipline int

const (
	// DisciplineNone means no wrapper is installed.
	DisciplineNone Discipline = iota

	// DisciplineWrap gives the handler full control over the original.
	DisciplineWrap

	// DisciplineBefore runs the handler for side effects, then the original.
	DisciplineBefore

	// DisciplineAfter runs the original, then the handler for side effects.
	DisciplineAfter

	// DisciplinePassThrough transforms the result with argument context.
	DisciplinePassThrough

	// DisciplineIntercept transforms the result alone.
	DisciplineIntercept

	// DisciplineReplace runs the handler instead of the original.
	DisciplineReplace

	// DisciplineWhen gates the original behind a predicate.
	DisciplineWhen
)

// String returns the discipline name.
func (d Discipline) String() string {
	switch d {
	case DisciplineNone:
		return "none"
	case DisciplineWrap:
		return "wrap"
	case DisciplineBefore:
		return "before"
	case DisciplineAfter:
		return "after"
	case DisciplinePassThrough:
		return "passthrough"
	case DisciplineIntercept:
		return "intercept"
	case DisciplineReplace:
		return "replace"
	case DisciplineWhen:
		return "when"
	default:
		return "unknown"
	}
}

// ParseDiscipline converts a discipline name as it appears in rule files
// into a Discipline.
func ParseDiscipline(s string) (Discipline, error) {
	switch s {
	case "wrap":
		return DisciplineWrap, nil
	case "before":
		return DisciplineBefore, nil
	case "after":
		return DisciplineAfter, nil
	case "passthrough":
		return DisciplinePassThrough, nil
	case "intercept":
		return DisciplineIntercept, nil
	case "replace":
		return DisciplineReplace, nil
	case "when":
		return DisciplineWhen, nil
	default:
		return DisciplineNone, fmt.Errorf("unknown discipline %q", s)
	}
}

// WrapFunc is the full-control handler. It receives the original and
// decides if, when, and how to call it; its return value becomes the
// call's return value.
type WrapFunc func(self any, original slot.Callable, args []any) (any, error)

// ObserveFunc is the Before/After observer. A non-nil error propagates
// to the invocation's caller in place of a return value.
type ObserveFunc func(self any, args []any) error

// PassThroughFunc transforms the original's return value with the full
// argument context available.
type PassThroughFunc func(self any, args []any, ret any) (any, error)

// InterceptFunc transforms the original's return value alone.
type InterceptFunc func(self any, ret any) (any, error)

// ReplaceFunc runs instead of the original.
type ReplaceFunc func(self any, args []any) (any, error)

// PredicateFunc gates a When interception. Returning false short-circuits
// the call to the configured default value.
type PredicateFunc func(self any, args []any) (bool, error)

// The wrapper factories below are pure: each composes a handler with the
// original callable into a single wrapper and holds no other state.

func wrapFull(fn WrapFunc, original slot.Callable) slot.Callable {
	return slot.Func(func(self any, args []any) (any, error) {
		return fn(self, original, copyArgs(args))
	})
}

func wrapBefore(fn ObserveFunc, original slot.Callable) slot.Callable {
	return slot.Func(func(self any, args []any) (any, error) {
		args = copyArgs(args)
		if err := fn(self, args); err != nil {
			return nil, err
		}
		return original.Invoke(self, args)
	})
}

func wrapAfter(fn ObserveFunc, original slot.Callable) slot.Callable {
	return slot.Func(func(self any, args []any) (any, error) {
		args = copyArgs(args)
		ret, err := original.Invoke(self, args)
		if err != nil {
			return nil, err
		}
		if err := fn(self, args); err != nil {
			return nil, err
		}
		return ret, nil
	})
}

func wrapPassThrough(fn PassThroughFunc, original slot.Callable) slot.Callable {
	return slot.Func(func(self any, args []any) (any, error) {
		args = copyArgs(args)
		ret, err := original.Invoke(self, args)
		if err != nil {
			return nil, err
		}
		return fn(self, args, ret)
	})
}

func wrapIntercept(fn InterceptFunc, original slot.Callable) slot.Callable {
	return slot.Func(func(self any, args []any) (any, error) {
		ret, err := original.Invoke(self, copyArgs(args))
		if err != nil {
			return nil, err
		}
		return fn(self, ret)
	})
}

func wrapReplace(fn ReplaceFunc, _ slot.Callable) slot.Callable {
	return slot.Func(func(self any, args []any) (any, error) {
		return fn(self, copyArgs(args))
	})
}

func wrapWhen(pred PredicateFunc, def any, original slot.Callable) slot.Callable {
	return slot.Func(func(self any, args []any) (any, error) {
		args = copyArgs(args)
		ok, err := pred(self, args)
		if err != nil {
			return nil, err
		}
		if !ok {
			return def, nil
		}
		return original.Invoke(self, args)
	})
}

// copyArgs hands each handler a fresh ordered copy, never the caller's
// live argument slice.
func copyArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	copy(out, args)
	return out
}
