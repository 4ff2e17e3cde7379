package luabind

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookgun/slot"
)

// Fn is a Lua function exposed as a slot.Callable. It retains the
// underlying *lua.LFunction so rebinding it restores the identical Lua
// value.
type Fn struct {
	L  *lua.LState
	fn *lua.LFunction
}

// Func returns the underlying Lua function.
func (f *Fn) Func() *lua.LFunction {
	return f.fn
}

// Invoke calls the Lua function with self as the colon-call receiver.
func (f *Fn) Invoke(self any, args []any) (ret any, err error) {
	L := f.L
	top := L.GetTop()

	// Recover before pushing anything: ToLua or stack growth can panic,
	// and the stack must be unwound either way.
	defer func() {
		if r := recover(); r != nil {
			L.SetTop(top)
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	L.Push(f.fn)
	L.Push(receiver(L, self))
	for _, a := range args {
		L.Push(ToLua(L, a))
	}

	if err := L.PCall(len(args)+1, lua.MultRet, nil); err != nil {
		return nil, err
	}

	// Collect only the first return value; discard the rest.
	nret := L.GetTop() - top
	if nret <= 0 {
		return nil, nil
	}
	ret = ToGo(L.Get(top + 1))
	L.Pop(nret)
	return ret, nil
}

// goFunction exposes a Go callable as a Lua function reading the
// colon-call receiver as self.
func goFunction(fn slot.Callable) lua.LGFunction {
	return func(L *lua.LState) int {
		top := L.GetTop()

		var self any
		if top >= 1 {
			self = L.Get(1)
		}
		var args []any
		for i := 2; i <= top; i++ {
			args = append(args, ToGo(L.Get(i)))
		}

		ret, err := fn.Invoke(self, args)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		if ret == nil {
			return 0
		}
		L.Push(ToLua(L, ret))
		return 1
	}
}

// receiver converts the Go-side self into the Lua value pushed as the
// first argument.
func receiver(L *lua.LState, self any) lua.LValue {
	switch v := self.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return v
	case *Table:
		return v.tbl
	default:
		return ToLua(L, self)
	}
}
