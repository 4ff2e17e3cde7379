package hook

import "github.com/dshills/hookgun/slot"

// SharedBinding is implemented by type-like values whose methods live on
// a shared binding: object.Class exposes its template, luabind.Table the
// metatable __index chain.
type SharedBinding interface {
	SharedSlots() slot.Host
}

// Hooker binds the installers to a fixed host so a caller can install
// several interceptions against the same target.
type Hooker struct {
	host slot.Host
}

// On returns a Hooker targeting h directly.
func On(h slot.Host) *Hooker {
	return &Hooker{host: h}
}

// OnShared returns a Hooker targeting t's shared binding. Installs made
// through it are observed by every value that resolves through the
// binding, existing and future, without per-instance copies; unhooking
// restores all of them at once.
func OnShared(t SharedBinding) *Hooker {
	return &Hooker{host: t.SharedSlots()}
}

// Host returns the slot store the Hooker targets.
func (k *Hooker) Host() slot.Host {
	return k.host
}

// Wrap installs the full-control discipline on name.
func (k *Hooker) Wrap(name string, fn WrapFunc) (UnhookFunc, error) {
	return Wrap(k.host, name, fn)
}

// Before installs the before-only discipline on name.
func (k *Hooker) Before(name string, fn ObserveFunc) (UnhookFunc, error) {
	return Before(k.host, name, fn)
}

// After installs the after-only discipline on name.
func (k *Hooker) After(name string, fn ObserveFunc) (UnhookFunc, error) {
	return After(k.host, name, fn)
}

// PassThrough installs the transform-with-context discipline on name.
func (k *Hooker) PassThrough(name string, fn PassThroughFunc) (UnhookFunc, error) {
	return PassThrough(k.host, name, fn)
}

// Intercept installs the transform-result-only discipline on name.
func (k *Hooker) Intercept(name string, fn InterceptFunc) (UnhookFunc, error) {
	return Intercept(k.host, name, fn)
}

// Replace installs the replace discipline on name.
func (k *Hooker) Replace(name string, fn ReplaceFunc) (UnhookFunc, error) {
	return Replace(k.host, name, fn)
}

// When installs the conditional discipline on name.
func (k *Hooker) When(name string, pred PredicateFunc, def any) (UnhookFunc, error) {
	return When(k.host, name, pred, def)
}

// Handle creates a stateful handle for name on the Hooker's host.
func (k *Hooker) Handle(name string) (*Handle, error) {
	return NewHandle(k.host, name)
}
