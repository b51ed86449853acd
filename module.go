package modkit

import (
	"fmt"
	"slices"
)

// Module is a named, versioned unit of functionality. It holds its own
// options, the ids of the modules it depends on and four lifecycle hooks.
//
// A Module carries no orchestration logic. Once an App wraps it, the
// ModuleWrapper owns its hooks and is the only thing that changes its status.
//
//	logger, _ := modkit.NewModule("logger", modkit.Options{"level": "info"})
//	_ = logger.OnSetup(func(ctx context.Context, app *modkit.App, opts modkit.Options, imports modkit.Imports) error {
//		return nil
//	})
type Module struct {
	subject

	id           string
	version      string
	options      Options
	dependencies []string
	status       ModuleStatus

	hooks      hookSet
	overridden [hookCount]bool
	wrapped    bool
}

// NewModule creates a module with the given id. options may be nil.
func NewModule(id string, options Options) (*Module, error) {
	if id == "" {
		return nil, ErrInvalidModuleID
	}

	m := &Module{
		subject: subject{
			kind:   SourceModule,
			source: id,
			logger: NewValueInjectionLoggerDecorator(NewZapLogger(nil), "module", id),
		},
		id:      id,
		options: options.Clone(),
		status:  ModuleCreated,
	}
	for slot := range m.hooks {
		m.hooks[slot] = noopHook
	}
	return m, nil
}

// ID returns the module id.
func (m *Module) ID() string { return m.id }

// Version returns the module version, which may be empty.
func (m *Module) Version() string { return m.version }

// Status returns the current lifecycle status.
func (m *Module) Status() ModuleStatus { return m.status }

// Options returns a copy of the module's own options.
func (m *Module) Options() Options { return m.options.Clone() }

// Dependencies returns the ids this module depends on, in declaration order.
func (m *Module) Dependencies() []string { return slices.Clone(m.dependencies) }

// SetVersion sets the module version. Only allowed before the module is wrapped.
func (m *Module) SetVersion(version string) error {
	if m.wrapped || m.status != ModuleCreated {
		return ErrModuleVersionLocked
	}
	m.version = version
	return nil
}

// AddOptions shallow-merges options into the module options, the new values
// winning. Only allowed while the module is created.
func (m *Module) AddOptions(options Options) error {
	if m.status != ModuleCreated {
		return fmt.Errorf("%w: module %s is %s", ErrModuleOptionsLocked, m.id, m.status)
	}
	if options == nil {
		return ErrInvalidOptions
	}
	m.options = MergeOptions(m.options, options)
	return nil
}

// AddDependencies declares dependencies on the given module ids. Ids already
// declared are ignored. Nothing is added if any id is empty.
func (m *Module) AddDependencies(ids ...string) error {
	if m.status != ModuleCreated {
		return fmt.Errorf("%w: module %s is %s", ErrModuleDependenciesLocked, m.id, m.status)
	}
	for _, id := range ids {
		if id == "" {
			return ErrInvalidDependency
		}
	}
	for _, id := range ids {
		if !slices.Contains(m.dependencies, id) {
			m.dependencies = append(m.dependencies, id)
		}
	}
	return nil
}

// OnSetup overrides the setup hook, run when the module leaves created.
func (m *Module) OnSetup(h Hook) error { return m.override(hookSetup, h) }

// OnEnable overrides the enable hook, run when the app starts.
func (m *Module) OnEnable(h Hook) error { return m.override(hookEnable, h) }

// OnDisable overrides the disable hook, run when the app stops.
func (m *Module) OnDisable(h Hook) error { return m.override(hookDisable, h) }

// OnDestroy overrides the destroy hook, run when the app is destroyed.
func (m *Module) OnDestroy(h Hook) error { return m.override(hookDestroy, h) }

// override replaces a hook. Each hook can be overridden once, and only until
// a wrapper takes the hooks over.
func (m *Module) override(slot hookSlot, h Hook) error {
	if h == nil {
		return ErrNilHook
	}
	if m.wrapped {
		return fmt.Errorf("%w: module %s", ErrHookConsumed, m.id)
	}
	if m.overridden[slot] {
		return fmt.Errorf("%w: %s hook of module %s", ErrHookAlreadyOverridden, slot, m.id)
	}
	m.hooks[slot] = h
	m.overridden[slot] = true
	return nil
}

// takeHooks hands the hooks over to a wrapper. The module keeps no callable
// hook afterwards.
func (m *Module) takeHooks() (hookSet, error) {
	if m.wrapped {
		return hookSet{}, fmt.Errorf("%w: module %s", ErrModuleAlreadyWrapped, m.id)
	}
	hooks := m.hooks
	m.hooks = hookSet{}
	m.wrapped = true
	return hooks, nil
}

// setStatus is reserved to the owning ModuleWrapper.
func (m *Module) setStatus(status ModuleStatus) {
	m.status = status
}
