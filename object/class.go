package object

import "github.com/dshills/hookgun/slot"

// Class is a type-like value whose methods live on a shared template.
// Every instance created with New resolves through the template, so a
// binding installed on it is observed by all instances at once.
type Class struct {
	template *Object
}

// NewClass creates a class with an empty shared template.
func NewClass() *Class {
	return &Class{template: New(nil)}
}

// Define sets a method on the shared template.
func (c *Class) Define(name string, fn slot.Callable) *Class {
	c.template.Define(name, fn)
	return c
}

// New creates an instance resolving through the shared template.
func (c *Class) New() *Object {
	return New(c.template)
}

// Resolve implements slot.Host against the shared template.
func (c *Class) Resolve(name string) (slot.Callable, bool) {
	return c.template.Resolve(name)
}

// Bind implements slot.Host against the shared template.
func (c *Class) Bind(name string, fn slot.Callable) error {
	return c.template.Bind(name, fn)
}

// SharedSlots returns the shared template as a slot store. It satisfies
// the shared-binding interface consumed by hook.OnShared.
func (c *Class) SharedSlots() slot.Host {
	return c.template
}
