package luabind

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestInvokeRecoversPushFailure(t *testing.T) {
	// A fixed-size registry makes the argument pushes overflow, which
	// panics inside the push loop rather than inside the call itself.
	L := lua.NewState(lua.Options{RegistrySize: 128, SkipOpenLibs: true})
	defer L.Close()

	if err := L.DoString(`function id(self, v) return v end`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	fn, ok := L.GetGlobal("id").(*lua.LFunction)
	if !ok {
		t.Fatal("id is not a function")
	}

	top := L.GetTop()
	args := make([]any, 512)
	for i := range args {
		args[i] = i
	}

	_, err := (&Fn{L: L, fn: fn}).Invoke(nil, args)
	if err == nil {
		t.Fatal("Invoke() did not surface the push failure as an error")
	}
	if got := L.GetTop(); got != top {
		t.Errorf("stack top = %d after recovered panic, want %d", got, top)
	}

	// The state remains usable afterwards.
	ret, err := (&Fn{L: L, fn: fn}).Invoke(nil, []any{"test"})
	if err != nil {
		t.Fatalf("Invoke() after recovery error = %v", err)
	}
	if ret != "test" {
		t.Errorf("ret = %v, want %q", ret, "test")
	}
}
