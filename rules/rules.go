// Package rules applies declarative interception sets loaded from TOML
// files. A rule names a registered host, a method slot, a discipline and
// a registered handler; a Manager turns a parsed Set into live hooks and
// a Watcher keeps them in sync with the file on disk:
//
//	[[hook]]
//	target     = "account"
//	method     = "withdraw"
//	discipline = "when"
//	handler    = "withdrawals_enabled"
//	default    = "disabled"
//
//	[[hook]]
//	target     = "account"
//	method     = "deposit"
//	discipline = "before"
//	handler    = "audit"
//	shared     = true
package rules

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/hookgun/hook"
)

// Rule describes a single interception to install.
type Rule struct {
	// Target names a host registered with the Manager.
	Target string `toml:"target"`

	// Method is the slot name to intercept.
	Method string `toml:"method"`

	// Discipline is one of wrap, before, after, passthrough, intercept,
	// replace, when.
	Discipline string `toml:"discipline"`

	// Handler names a handler registered with the Manager. Rules with
	// discipline "wrap" name a registered wrapper instead.
	Handler string `toml:"handler"`

	// Default is the value a "when" rule returns while its predicate
	// declines calls.
	Default any `toml:"default"`

	// Shared targets the host's shared binding instead of the host
	// itself, so the rule affects every instance resolving through it.
	Shared bool `toml:"shared"`
}

// Set is a parsed rule file.
type Set struct {
	Hooks []Rule `toml:"hook"`
}

// Parse decodes and validates a TOML rule set.
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := toml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// ParseFile reads and parses a TOML rule file.
func ParseFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks every rule and collects all failures.
func (s *Set) Validate() error {
	verrs := &ValidationErrors{}
	for i, r := range s.Hooks {
		path := func(field string) string {
			return fmt.Sprintf("hook[%d].%s", i, field)
		}
		if r.Target == "" {
			verrs.Add(path("target"), "target is required")
		}
		if r.Method == "" {
			verrs.Add(path("method"), "method is required")
		}
		if r.Handler == "" {
			verrs.Add(path("handler"), "handler is required")
		}
		if _, err := hook.ParseDiscipline(r.Discipline); err != nil {
			verrs.Add(path("discipline"), err.Error())
		}
	}
	if verrs.HasErrors() {
		return verrs
	}
	return nil
}
