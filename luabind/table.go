package luabind

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookgun/slot"
)

// maxChainDepth bounds the metatable walk against __index cycles.
const maxChainDepth = 128

// Table adapts a Lua table to slot.Host.
type Table struct {
	L   *lua.LState
	tbl *lua.LTable
}

// Wrap adapts tbl, owned by L, as a slot store.
func Wrap(L *lua.LState, tbl *lua.LTable) *Table {
	return &Table{L: L, tbl: tbl}
}

// Global wraps the table bound to a global name. ok is false when the
// global is absent or not a table.
func Global(L *lua.LState, name string) (*Table, bool) {
	tbl, ok := L.GetGlobal(name).(*lua.LTable)
	if !ok {
		return nil, false
	}
	return Wrap(L, tbl), true
}

// Table returns the wrapped Lua table.
func (t *Table) Table() *lua.LTable {
	return t.tbl
}

// Resolve implements slot.Host. Lookup raw-gets the table's own field
// and then walks the metatable __index chain, the same path a Lua
// method call takes.
func (t *Table) Resolve(name string) (slot.Callable, bool) {
	fn, ok := chainLookup(t.tbl, name, 0).(*lua.LFunction)
	if !ok {
		return nil, false
	}
	return &Fn{L: t.L, fn: fn}, true
}

func chainLookup(tbl *lua.LTable, name string, depth int) lua.LValue {
	if depth > maxChainDepth {
		return lua.LNil
	}
	if v := tbl.RawGetString(name); v != lua.LNil {
		return v
	}
	mt, ok := tbl.Metatable.(*lua.LTable)
	if !ok {
		return lua.LNil
	}
	idx, ok := mt.RawGetString("__index").(*lua.LTable)
	if !ok {
		return lua.LNil
	}
	return chainLookup(idx, name, depth+1)
}

// Bind implements slot.Host. The write raw-sets this table only, never a
// table discovered through the metatable chain. Binding an Fn restores
// its underlying Lua function untouched; any other callable is exposed
// as a new Lua function.
func (t *Table) Bind(name string, fn slot.Callable) error {
	t.tbl.RawSetString(name, t.lvalue(fn))
	return nil
}

func (t *Table) lvalue(fn slot.Callable) lua.LValue {
	if lf, ok := fn.(*Fn); ok {
		return lf.fn
	}
	return t.L.NewFunction(goFunction(fn))
}

// Call invokes the named method the way obj:method(...) would: chain
// resolution, with the table itself as receiver.
func (t *Table) Call(name string, args ...any) (any, error) {
	fn, err := slot.Read(t, name)
	if err != nil {
		return nil, err
	}
	return fn.Invoke(t.tbl, args)
}

// Shared returns the metatable __index table this table resolves
// through. ok is false when there is no chain.
func (t *Table) Shared() (*Table, bool) {
	mt, ok := t.tbl.Metatable.(*lua.LTable)
	if !ok {
		return nil, false
	}
	idx, ok := mt.RawGetString("__index").(*lua.LTable)
	if !ok {
		return nil, false
	}
	return Wrap(t.L, idx), true
}

// SharedSlots satisfies hook.SharedBinding. For an instance table it is
// the class table the instance resolves through; for a class table
// (conventionally its own __index) it is the table itself.
func (t *Table) SharedSlots() slot.Host {
	if s, ok := t.Shared(); ok {
		return s
	}
	return t
}
