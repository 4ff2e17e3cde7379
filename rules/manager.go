package rules

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/hookgun/hook"
	"github.com/dshills/hookgun/slot"
)

// Manager resolves rule names to live hosts and handlers and turns rule
// sets into installed hooks.
//
// Hosts and handlers are registered under the names rule files refer to.
// Ordinary handlers are slot.Callable values; the manager adapts them to
// whatever shape the rule's discipline expects. Full-control ("wrap")
// rules name a registered hook.WrapFunc instead, since those handlers
// need the original callable.
type Manager struct {
	mu       sync.Mutex
	log      *zap.Logger
	hosts    map[string]slot.Host
	handlers map[string]slot.Callable
	wrappers map[string]hook.WrapFunc
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		log:      zap.NewNop(),
		hosts:    make(map[string]slot.Host),
		handlers: make(map[string]slot.Callable),
		wrappers: make(map[string]hook.WrapFunc),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterHost registers a hookable host under name.
func (m *Manager) RegisterHost(name string, h slot.Host) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.hosts[name]; exists {
		return fmt.Errorf("host %q already registered", name)
	}
	m.hosts[name] = h
	return nil
}

// RegisterHandler registers a handler under name for rules with any
// discipline except "wrap".
func (m *Manager) RegisterHandler(name string, fn slot.Callable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[name]; exists {
		return fmt.Errorf("handler %q already registered", name)
	}
	m.handlers[name] = fn
	return nil
}

// RegisterWrapper registers a full-control handler under name for rules
// with discipline "wrap".
func (m *Manager) RegisterWrapper(name string, fn hook.WrapFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.wrappers[name]; exists {
		return fmt.Errorf("wrapper %q already registered", name)
	}
	m.wrappers[name] = fn
	return nil
}

// Apply installs every rule in set. Installation is fail-closed: on the
// first failure everything already installed is reverted and no
// interception remains in effect.
func (m *Manager) Apply(set *Set) (*Applied, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	applied := &Applied{log: m.log}
	for i, r := range set.Hooks {
		unhook, err := m.applyRule(r)
		if err != nil {
			applied.Revert()
			return nil, fmt.Errorf("hook[%d]: %w", i, err)
		}

		id := uuid.NewString()
		applied.bindings = append(applied.bindings, binding{id: id, rule: r, unhook: unhook})
		m.log.Info("hook installed",
			zap.String("id", id),
			zap.String("target", r.Target),
			zap.String("method", r.Method),
			zap.String("discipline", r.Discipline),
			zap.Bool("shared", r.Shared),
		)
	}
	return applied, nil
}

func (m *Manager) applyRule(r Rule) (hook.UnhookFunc, error) {
	host, ok := m.hosts[r.Target]
	if !ok {
		return nil, fmt.Errorf("unknown target %q", r.Target)
	}
	if r.Shared {
		sb, ok := host.(hook.SharedBinding)
		if !ok {
			return nil, fmt.Errorf("target %q has no shared binding", r.Target)
		}
		host = sb.SharedSlots()
	}

	d, err := hook.ParseDiscipline(r.Discipline)
	if err != nil {
		return nil, err
	}

	if d == hook.DisciplineWrap {
		fn, ok := m.wrappers[r.Handler]
		if !ok {
			return nil, fmt.Errorf("unknown wrapper %q", r.Handler)
		}
		return hook.Wrap(host, r.Method, fn)
	}

	h, ok := m.handlers[r.Handler]
	if !ok {
		return nil, fmt.Errorf("unknown handler %q", r.Handler)
	}

	switch d {
	case hook.DisciplineBefore:
		return hook.Before(host, r.Method, observe(h))
	case hook.DisciplineAfter:
		return hook.After(host, r.Method, observe(h))
	case hook.DisciplinePassThrough:
		return hook.PassThrough(host, r.Method, func(self any, args []any, ret any) (any, error) {
			return h.Invoke(self, append(args, ret))
		})
	case hook.DisciplineIntercept:
		return hook.Intercept(host, r.Method, func(self any, ret any) (any, error) {
			return h.Invoke(self, []any{ret})
		})
	case hook.DisciplineReplace:
		return hook.Replace(host, r.Method, h.Invoke)
	case hook.DisciplineWhen:
		return hook.When(host, r.Method, func(self any, args []any) (bool, error) {
			ret, err := h.Invoke(self, args)
			if err != nil {
				return false, err
			}
			return truthy(ret), nil
		}, r.Default)
	default:
		return nil, fmt.Errorf("unknown discipline %q", r.Discipline)
	}
}

// observe adapts a plain handler to the Before/After observer shape; the
// handler's return value is discarded, its error propagates.
func observe(h slot.Callable) hook.ObserveFunc {
	return func(self any, args []any) error {
		_, err := h.Invoke(self, args)
		return err
	}
}

// truthy interprets a predicate handler's return value the way Lua
// would: only nil and false decline the call.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// binding is one installed rule.
type binding struct {
	id     string
	rule   Rule
	unhook hook.UnhookFunc
}

// Applied is a batch of installed rules that reverts as a unit.
type Applied struct {
	mu       sync.Mutex
	log      *zap.Logger
	bindings []binding
	reverted bool
}

// Revert unhooks every rule in reverse installation order. It is
// idempotent.
func (a *Applied) Revert() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reverted {
		return
	}
	a.reverted = true

	for i := len(a.bindings) - 1; i >= 0; i-- {
		b := a.bindings[i]
		b.unhook()
		a.log.Info("hook removed",
			zap.String("id", b.id),
			zap.String("target", b.rule.Target),
			zap.String("method", b.rule.Method),
		)
	}
}

// Len returns the number of installed rules.
func (a *Applied) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.bindings)
}

// IDs returns the installation ids in order.
func (a *Applied) IDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, len(a.bindings))
	for i, b := range a.bindings {
		ids[i] = b.id
	}
	return ids
}
