package hook

import "github.com/dshills/hookgun/slot"

// Handle is the stateful variant of the closure installers for callers
// that rebind a slot repeatedly. It captures the original callable once,
// at creation, and every install composes against that capture; switching
// disciplines implicitly unhooks first, so wrappers never stack.
//
// A Handle is owned solely by its creator. Two independent handles on
// the same slot do not know about each other; each restores its own
// captured original (last write wins).
type Handle struct {
	host       slot.Host
	name       string
	original   slot.Callable
	discipline Discipline
	active     bool
}

// NewHandle captures the callable currently bound to (h, name). It fails
// with *slot.NotCallableError when the slot does not resolve.
func NewHandle(h slot.Host, name string) (*Handle, error) {
	original, err := slot.Read(h, name)
	if err != nil {
		return nil, err
	}
	return &Handle{host: h, name: name, original: original}, nil
}

// install restores first when already active, then writes the wrapper
// composed against the creation-time original.
func (h *Handle) install(d Discipline, wrap func(slot.Callable) slot.Callable) error {
	if h.active {
		h.Unhook()
	}
	if err := slot.Write(h.host, h.name, wrap(h.original)); err != nil {
		return err
	}
	h.discipline = d
	h.active = true
	return nil
}

// Wrap rebinds the slot with the full-control discipline.
func (h *Handle) Wrap(fn WrapFunc) error {
	return h.install(DisciplineWrap, func(o slot.Callable) slot.Callable {
		return wrapFull(fn, o)
	})
}

// Before rebinds the slot with the before-only discipline.
func (h *Handle) Before(fn ObserveFunc) error {
	return h.install(DisciplineBefore, func(o slot.Callable) slot.Callable {
		return wrapBefore(fn, o)
	})
}

// After rebinds the slot with the after-only discipline.
func (h *Handle) After(fn ObserveFunc) error {
	return h.install(DisciplineAfter, func(o slot.Callable) slot.Callable {
		return wrapAfter(fn, o)
	})
}

// PassThrough rebinds the slot with the transform-with-context discipline.
func (h *Handle) PassThrough(fn PassThroughFunc) error {
	return h.install(DisciplinePassThrough, func(o slot.Callable) slot.Callable {
		return wrapPassThrough(fn, o)
	})
}

// Intercept rebinds the slot with the transform-result-only discipline.
func (h *Handle) Intercept(fn InterceptFunc) error {
	return h.install(DisciplineIntercept, func(o slot.Callable) slot.Callable {
		return wrapIntercept(fn, o)
	})
}

// Replace rebinds the slot with the replace discipline.
func (h *Handle) Replace(fn ReplaceFunc) error {
	return h.install(DisciplineReplace, func(o slot.Callable) slot.Callable {
		return wrapReplace(fn, o)
	})
}

// When rebinds the slot with the conditional discipline.
func (h *Handle) When(pred PredicateFunc, def any) error {
	return h.install(DisciplineWhen, func(o slot.Callable) slot.Callable {
		return wrapWhen(pred, def, o)
	})
}

// Unhook writes the creation-time original back into the slot and marks
// the handle inactive. It is idempotent, and the restore is best-effort.
func (h *Handle) Unhook() {
	if !h.active {
		return
	}
	h.active = false
	h.discipline = DisciplineNone
	_ = h.host.Bind(h.name, h.original)
}

// Active reports whether a wrapper installed through this handle
// currently occupies the slot.
func (h *Handle) Active() bool {
	return h.active
}

// Discipline returns the active wrapping strategy, or DisciplineNone.
func (h *Handle) Discipline() Discipline {
	return h.discipline
}

// Original returns the callable captured when the handle was created.
func (h *Handle) Original() slot.Callable {
	return h.original
}
