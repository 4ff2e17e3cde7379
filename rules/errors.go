package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned when operating on a closed watcher.
var ErrClosed = errors.New("rules watcher is closed")

// ValidationError reports a single invalid rule field.
type ValidationError struct {
	// Path locates the field, e.g. "hook[2].discipline".
	Path string

	// Message describes what's wrong.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every validation failure in a rule set.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add appends a validation error.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, &ValidationError{Path: path, Message: message})
}

// HasErrors reports whether any failure was collected.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}
