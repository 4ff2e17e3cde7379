// Package slot defines the slot-store contract the interception engine
// operates on: named, writable locations on a host that currently hold a
// callable.
//
// A Host is anything that can resolve a name to a Callable and accept a
// replacement binding. Resolution may walk a shared-binding chain (an
// instance, then its prototype, and so on); writes always target the
// explicit host the caller holds, never a binding discovered partway
// through the walk. That asymmetry is what lets a caller choose between
// hooking one instance and hooking every instance sharing a binding.
package slot

// Callable is a value that can occupy a slot: it is invoked with the
// receiver the call was made on and the ordered argument list.
type Callable interface {
	Invoke(self any, args []any) (any, error)
}

// Func adapts a plain function to the Callable interface.
type Func func(self any, args []any) (any, error)

// Invoke implements Callable.
func (f Func) Invoke(self any, args []any) (any, error) {
	return f(self, args)
}

// Host exposes named callable slots.
type Host interface {
	// Resolve looks up name, starting at the most specific binding and
	// walking outward through any shared-binding chain. It reports false
	// when name does not resolve to a callable.
	Resolve(name string) (Callable, bool)

	// Bind writes fn into this host's own slot for name. The write never
	// targets a binding found during resolution. An error indicates the
	// slot itself is not writable.
	Bind(name string, fn Callable) error
}

// Read resolves name on h and returns the bound callable. It fails with
// *NotCallableError when the slot is absent.
func Read(h Host, name string) (Callable, error) {
	fn, ok := h.Resolve(name)
	if !ok || fn == nil {
		return nil, &NotCallableError{Name: name}
	}
	return fn, nil
}

// Write binds fn into h's own slot for name. A host-level write failure
// is surfaced as *InstallError.
func Write(h Host, name string, fn Callable) error {
	if err := h.Bind(name, fn); err != nil {
		return &InstallError{Name: name, Err: err}
	}
	return nil
}
