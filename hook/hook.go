package hook

import "github.com/dshills/hookgun/slot"

// UnhookFunc restores the original callable captured at install time.
// Calling it more than once is a no-op after the first call. The restore
// is best-effort: it writes the captured original regardless of the
// slot's current contents.
type UnhookFunc func()

// install is the engine core shared by every discipline: read the
// current callable, write the composed wrapper, hand back the restore
// capability. Read and write happen within one synchronous call, so no
// torn state between them is observable.
func install(h slot.Host, name string, wrap func(slot.Callable) slot.Callable) (UnhookFunc, error) {
	original, err := slot.Read(h, name)
	if err != nil {
		return nil, err
	}
	if err := slot.Write(h, name, wrap(original)); err != nil {
		return nil, err
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		_ = h.Bind(name, original)
	}, nil
}

// Wrap installs the full-control discipline: every invocation of the
// slot calls fn with the original, and fn's return value becomes the
// call's return value.
func Wrap(h slot.Host, name string, fn WrapFunc) (UnhookFunc, error) {
	return install(h, name, func(original slot.Callable) slot.Callable {
		return wrapFull(fn, original)
	})
}

// Before installs the before-only discipline: fn runs for side effects,
// then the original runs and its return value is returned.
func Before(h slot.Host, name string, fn ObserveFunc) (UnhookFunc, error) {
	return install(h, name, func(original slot.Callable) slot.Callable {
		return wrapBefore(fn, original)
	})
}

// After installs the after-only discipline: the original runs, then fn
// runs for side effects, and the original's return value is returned.
func After(h slot.Host, name string, fn ObserveFunc) (UnhookFunc, error) {
	return install(h, name, func(original slot.Callable) slot.Callable {
		return wrapAfter(fn, original)
	})
}

// PassThrough installs the transform-with-context discipline: the
// original runs, then fn receives both the arguments and the original's
// return value, and fn's return value becomes the call's return value.
func PassThrough(h slot.Host, name string, fn PassThroughFunc) (UnhookFunc, error) {
	return install(h, name, func(original slot.Callable) slot.Callable {
		return wrapPassThrough(fn, original)
	})
}

// Intercept installs the transform-result-only discipline: the original
// runs, then fn receives only its return value, and fn's return value
// becomes the call's return value.
func Intercept(h slot.Host, name string, fn InterceptFunc) (UnhookFunc, error) {
	return install(h, name, func(original slot.Callable) slot.Callable {
		return wrapIntercept(fn, original)
	})
}

// Replace installs the replace discipline: the original is never
// invoked; fn runs in its place. Like every other discipline, fn
// executes with the live call-time receiver, even when installed on a
// shared binding.
func Replace(h slot.Host, name string, fn ReplaceFunc) (UnhookFunc, error) {
	return install(h, name, func(original slot.Callable) slot.Callable {
		return wrapReplace(fn, original)
	})
}

// When installs the conditional discipline: pred gates every call. When
// it returns true the original runs normally; otherwise the call returns
// def without invoking the original.
func When(h slot.Host, name string, pred PredicateFunc, def any) (UnhookFunc, error) {
	return install(h, name, func(original slot.Callable) slot.Callable {
		return wrapWhen(pred, def, original)
	})
}
