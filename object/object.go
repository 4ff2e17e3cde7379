// Package object provides the native dynamic host model: objects whose
// methods live in named slots, optionally resolved through a shared
// prototype. It is the in-process counterpart of the Lua-table host in
// package luabind; both satisfy slot.Host.
package object

import (
	"errors"

	"github.com/dshills/hookgun/slot"
)

// ErrFrozen is returned when binding a slot on a frozen object.
var ErrFrozen = errors.New("object is frozen")

// Object is a mapping from names to callables plus an optional prototype
// the lookup falls back to. Own slots shadow prototype slots.
type Object struct {
	slots  map[string]slot.Callable
	proto  *Object
	frozen bool
}

// New creates an object resolving through proto. proto may be nil.
func New(proto *Object) *Object {
	return &Object{
		slots: make(map[string]slot.Callable),
		proto: proto,
	}
}

// Define sets an own slot while building the object. Unlike Bind it is
// not part of the slot-store write path and ignores freezing.
func (o *Object) Define(name string, fn slot.Callable) *Object {
	o.slots[name] = fn
	return o
}

// Resolve implements slot.Host. Lookup starts at the object's own slots
// and walks the prototype chain.
func (o *Object) Resolve(name string) (slot.Callable, bool) {
	for p := o; p != nil; p = p.proto {
		if fn, ok := p.slots[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Bind implements slot.Host. The write targets this object's own slot,
// never a prototype binding discovered during resolution.
func (o *Object) Bind(name string, fn slot.Callable) error {
	if o.frozen {
		return ErrFrozen
	}
	o.slots[name] = fn
	return nil
}

// Call invokes the named method the way the host's normal call path
// would: resolution through the prototype chain, with the object itself
// as receiver.
func (o *Object) Call(name string, args ...any) (any, error) {
	fn, err := slot.Read(o, name)
	if err != nil {
		return nil, err
	}
	return fn.Invoke(o, args)
}

// Proto returns the prototype the object resolves through, or nil.
func (o *Object) Proto() *Object {
	return o.proto
}

// SharedSlots satisfies hook.SharedBinding: the prototype the object
// resolves through, or the object itself when it has none.
func (o *Object) SharedSlots() slot.Host {
	if o.proto != nil {
		return o.proto
	}
	return o
}

// Freeze makes the object's slots non-writable. Binds after Freeze fail
// with ErrFrozen.
func (o *Object) Freeze() {
	o.frozen = true
}

// Frozen reports whether the object has been frozen.
func (o *Object) Frozen() bool {
	return o.frozen
}
