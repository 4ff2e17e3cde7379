// Package luabind adapts gopher-lua tables to the slot-store contract so
// Lua methods can be intercepted from Go.
//
// A Table wraps an *lua.LTable together with the LState that owns it.
// Slot resolution starts at the table's own fields and walks the
// metatable __index chain, which is how Lua method lookup reaches a
// class table from its instances. Writes always target the wrapped
// table itself, so a caller chooses between hooking one instance and
// hooking the class every instance resolves through:
//
//	cls, _ := luabind.Global(L, "Account")
//	unhook, err := hook.Before(cls, "deposit", func(self any, args []any) error {
//	    audit(args)
//	    return nil
//	})
//
// Lua functions read out of a slot are wrapped as Fn values that retain
// the underlying *lua.LFunction; rebinding an Fn writes that exact Lua
// value back, so uninstalling restores a reference-identical function.
// Go callables written into a slot become Lua functions that read the
// colon-call receiver as self.
//
// gopher-lua's LState is not goroutine-safe; all interception and
// invocation through a Table must happen on the goroutine that owns the
// state.
package luabind
