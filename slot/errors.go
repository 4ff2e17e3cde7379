package slot

import "fmt"

// NotCallableError reports that a named slot does not exist or does not
// hold an invocable value on the given host.
type NotCallableError struct {
	// Name is the slot that failed to resolve.
	Name string
}

// Error implements the error interface.
func (e *NotCallableError) Error() string {
	return fmt.Sprintf("slot %q does not resolve to a callable", e.Name)
}

// InstallError reports that a slot exists but could not be overwritten,
// for example because the host binding is frozen.
type InstallError struct {
	// Name is the slot that rejected the write.
	Name string

	// Err is the host-level failure.
	Err error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("slot %q is not writable: %v", e.Name, e.Err)
}

// Unwrap returns the host-level failure.
func (e *InstallError) Unwrap() error {
	return e.Err
}
