// Package hook installs interception wrappers into named callable slots.
//
// Given a host satisfying slot.Host, each installer reads the callable
// currently bound to a slot, composes it with a caller-supplied handler
// according to one of seven disciplines, writes the composed wrapper
// back into the slot, and returns an UnhookFunc that restores the
// captured original:
//
//	unhook, err := hook.Before(obj, "save", func(self any, args []any) error {
//	    audit(args)
//	    return nil
//	})
//	if err != nil {
//	    return err
//	}
//	defer unhook()
//
// The seven disciplines are:
//   - Wrap: handler receives the original and decides if and how to call it.
//   - Before: handler runs for side effects, then the original runs.
//   - After: the original runs, then the handler runs for side effects.
//   - PassThrough: handler transforms the result with full argument context.
//   - Intercept: handler transforms the result alone.
//   - Replace: handler runs instead of the original.
//   - When: a predicate gates the original; declined calls return a default.
//
// Every discipline preserves the live call-time receiver: the wrapper,
// the handler, and the original all execute with the receiver the caller
// used to invoke the slot. Handlers receive a fresh ordered copy of the
// arguments on every call; Before and After observers may mutate that
// copy in place to change what the original (or later consumers) see.
//
// The package holds no registry of live interceptions. An UnhookFunc is
// the only restoration capability, it is idempotent, and its restore is
// best-effort: it writes the captured original even if the slot has been
// independently overwritten since.
//
// Errors raised by a handler or by the original during a wrapped call
// propagate unchanged to the invocation's caller; a failing handler does
// not uninstall anything.
package hook
