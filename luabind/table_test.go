package luabind

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookgun/hook"
	"github.com/dshills/hookgun/slot"
)

// newAccountState builds an LState with a conventional Lua class
// (Account.__index = Account) and two instances bound to globals a and b.
func newAccountState(t *testing.T) *lua.LState {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(func() { L.Close() })

	code := `
		Account = {}
		Account.__index = Account

		log = ""

		function Account.new(name)
			local acct = setmetatable({}, Account)
			acct.name = name
			return acct
		end

		function Account:echo(v)
			log = log .. v
			return v
		end

		function Account:who()
			return self.name
		end

		a = Account.new("a")
		b = Account.new("b")
	`
	if err := L.DoString(code); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	return L
}

func luaLog(L *lua.LState) string {
	return lua.LVAsString(L.GetGlobal("log"))
}

func TestGlobal(t *testing.T) {
	L := newAccountState(t)

	if _, ok := Global(L, "Account"); !ok {
		t.Error("Global() did not find the Account table")
	}
	if _, ok := Global(L, "log"); ok {
		t.Error("Global() wrapped a non-table value")
	}
	if _, ok := Global(L, "missing"); ok {
		t.Error("Global() wrapped an absent global")
	}
}

func TestResolveWalksChain(t *testing.T) {
	L := newAccountState(t)
	inst, _ := Global(L, "a")

	t.Run("method on class table", func(t *testing.T) {
		if _, ok := inst.Resolve("echo"); !ok {
			t.Error("Resolve() did not walk the __index chain")
		}
	})

	t.Run("absent slot", func(t *testing.T) {
		if _, ok := inst.Resolve("missing"); ok {
			t.Error("Resolve() found an absent slot")
		}
	})

	t.Run("non-function field", func(t *testing.T) {
		if _, ok := inst.Resolve("name"); ok {
			t.Error("Resolve() reported a string field as callable")
		}
	})
}

func TestCallPreservesReceiver(t *testing.T) {
	L := newAccountState(t)
	inst, _ := Global(L, "a")

	ret, err := inst.Call("who")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if ret != "a" {
		t.Errorf("Call(who) = %v, want the instance's own name", ret)
	}
}

func TestHookInstanceOnly(t *testing.T) {
	L := newAccountState(t)
	inst, _ := Global(L, "a")

	var hooked strings.Builder
	unhook, err := hook.Before(inst, "echo", func(self any, args []any) error {
		hooked.WriteString("hook")
		return nil
	})
	if err != nil {
		t.Fatalf("Before() error = %v", err)
	}
	defer unhook()

	// The wrapper lives in a's own slot; b still resolves the class
	// binding untouched.
	if err := L.DoString(`a:echo("x") b:echo("y")`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if hooked.String() != "hook" {
		t.Errorf("hooked = %q, want the handler to fire once", hooked.String())
	}
	if luaLog(L) != "xy" {
		t.Errorf("log = %q, want both originals to run", luaLog(L))
	}
}

func TestSharedBindingPropagation(t *testing.T) {
	L := newAccountState(t)
	inst, _ := Global(L, "a")
	cls, _ := Global(L, "Account")

	original, ok := cls.tbl.RawGetString("echo").(*lua.LFunction)
	if !ok {
		t.Fatal("missing original echo function")
	}

	var receivers []lua.LValue
	unhook, err := hook.OnShared(inst).Before("echo", func(self any, args []any) error {
		if lv, ok := self.(lua.LValue); ok {
			receivers = append(receivers, lv)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("OnShared().Before() error = %v", err)
	}

	// Existing instances, plus one created after the install, all
	// resolve through the wrapped class slot.
	if err := L.DoString(`
		a:echo("x")
		b:echo("y")
		c = Account.new("c")
		c:echo("z")
	`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if luaLog(L) != "xyz" {
		t.Errorf("log = %q, want the originals to run for all instances", luaLog(L))
	}
	if len(receivers) != 3 {
		t.Fatalf("handler fired %d times, want 3", len(receivers))
	}
	if receivers[0] != L.GetGlobal("a") || receivers[2] != L.GetGlobal("c") {
		t.Error("handler did not see the live call-time receivers")
	}

	unhook()
	restored := cls.tbl.RawGetString("echo")
	if restored != lua.LValue(original) {
		t.Error("unhook did not restore the reference-identical Lua function")
	}
}

func TestHookedCallFromLua(t *testing.T) {
	L := newAccountState(t)
	cls, _ := Global(L, "Account")

	unhook, err := hook.Intercept(cls, "echo", func(self any, ret any) (any, error) {
		return strings.ToUpper(ret.(string)), nil
	})
	if err != nil {
		t.Fatalf("Intercept() error = %v", err)
	}
	defer unhook()

	if err := L.DoString(`r = a:echo("test")`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := lua.LVAsString(L.GetGlobal("r")); got != "TEST" {
		t.Errorf("r = %q, want the transformed result", got)
	}
}

func TestWhenDefaultFromLua(t *testing.T) {
	L := newAccountState(t)
	cls, _ := Global(L, "Account")

	unhook, err := hook.When(cls, "echo", func(any, []any) (bool, error) {
		return false, nil
	}, "denied")
	if err != nil {
		t.Fatalf("When() error = %v", err)
	}
	defer unhook()

	if err := L.DoString(`r = a:echo("test")`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := lua.LVAsString(L.GetGlobal("r")); got != "denied" {
		t.Errorf("r = %q, want the default value", got)
	}
	if luaLog(L) != "" {
		t.Errorf("log = %q, original must not run", luaLog(L))
	}
}

func TestGoCallableErrorPropagates(t *testing.T) {
	L := newAccountState(t)
	inst, _ := Global(L, "a")

	err := inst.Bind("fail", slot.Func(func(any, []any) (any, error) {
		return nil, errTest
	}))
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	if err := L.DoString(`ok, msg = pcall(function() return a:fail() end)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if lua.LVAsBool(L.GetGlobal("ok")) {
		t.Error("Lua pcall succeeded, want the Go error raised")
	}
	if msg := lua.LVAsString(L.GetGlobal("msg")); !strings.Contains(msg, "test failure") {
		t.Errorf("msg = %q, want the Go error text", msg)
	}
}

func TestSharedSlotsOnClassTable(t *testing.T) {
	L := newAccountState(t)
	cls, _ := Global(L, "Account")

	// Account carries no metatable; the shared binding is itself.
	if cls.SharedSlots() != slot.Host(cls) {
		t.Error("SharedSlots() on a class table is not the table itself")
	}
}
