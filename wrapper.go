package modkit

import (
	"context"
	"fmt"
	"maps"
)

// ModuleWrapper binds one Module to one App. It owns the module's hooks,
// holds the merged options and resolved imports, and drives the module
// through its lifecycle:
//
//	SetupModule   created  -> setup
//	EnableModule  setup    -> enabled
//	DisableModule enabled  -> disabled
//	DestroyModule disabled -> destroyed
//
// The wrapper status and the module status move together.
type ModuleWrapper struct {
	module *Module
	app    *App

	id      string
	version string
	options Options
	imports Imports
	status  ModuleStatus

	bound  [hookCount]func(ctx context.Context) error
	logger Logger
}

// NewModuleWrapper wraps m for app. options are the app-level options for
// the module; the module's own options win on conflicts.
//
// The wrapper takes over the module hooks: afterwards the module cannot run
// or override them, and it cannot be wrapped again.
func NewModuleWrapper(app *App, m *Module, options Options) (*ModuleWrapper, error) {
	if app == nil {
		return nil, ErrNilApp
	}
	if m == nil {
		return nil, ErrNilModule
	}
	hooks, err := m.takeHooks()
	if err != nil {
		return nil, err
	}

	w := &ModuleWrapper{
		module:  m,
		app:     app,
		id:      m.id,
		version: m.version,
		options: MergeOptions(options, m.options),
		imports: make(Imports),
		status:  m.status,
		logger:  NewValueInjectionLoggerDecorator(app.logger, "module", m.id),
	}
	m.logger = w.logger

	for slot, hook := range hooks {
		w.bound[slot] = w.bind(hook)
	}
	return w, nil
}

// bind fixes the leading hook arguments to this wrapper's app, options and
// imports. Each call gets its own copies, so a hook cannot change what the
// wrapper holds.
func (w *ModuleWrapper) bind(hook Hook) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return hook(ctx, w.app, w.Options(), w.Imports())
	}
}

// ID returns the wrapped module id.
func (w *ModuleWrapper) ID() string { return w.id }

// Version returns the wrapped module version.
func (w *ModuleWrapper) Version() string { return w.version }

// Status returns the wrapper status.
func (w *ModuleWrapper) Status() ModuleStatus { return w.status }

// Module returns the wrapped module.
func (w *ModuleWrapper) Module() *Module { return w.module }

// App returns the owning app.
func (w *ModuleWrapper) App() *App { return w.app }

// Options returns a copy of the merged options.
func (w *ModuleWrapper) Options() Options { return w.options.Clone() }

// Imports returns a copy of the resolved imports.
func (w *ModuleWrapper) Imports() Imports {
	out := make(Imports, len(w.imports))
	maps.Copy(out, w.imports)
	return out
}

// AddOptions merges more app-level options. The module's own options still
// win on conflicts. Only allowed while created.
func (w *ModuleWrapper) AddOptions(options Options) error {
	if w.status != ModuleCreated {
		return fmt.Errorf("%w: module %s is %s", ErrWrapperLocked, w.id, w.status)
	}
	if options == nil {
		return ErrInvalidOptions
	}
	w.options = MergeOptions(w.options, options, w.module.options)
	return nil
}

// SetImports replaces the imports. Only allowed while created.
func (w *ModuleWrapper) SetImports(imports Imports) error {
	if w.status != ModuleCreated {
		return fmt.Errorf("%w: module %s is %s", ErrWrapperLocked, w.id, w.status)
	}
	w.imports = make(Imports, len(imports))
	maps.Copy(w.imports, imports)
	return nil
}

// rebase recomputes the merged options from fresh app-level options. Used
// when an app is resolved again before the module left created.
func (w *ModuleWrapper) rebase(options Options) {
	if w.status == ModuleCreated {
		w.options = MergeOptions(options, w.module.options)
	}
}

type transition struct {
	hook         hookSlot
	from, to     ModuleStatus
	before       EventType
	after        EventType
	precondition error
}

var (
	setupTransition = transition{
		hook: hookSetup, from: ModuleCreated, to: ModuleSetup,
		before: EventSettingUp, after: EventSetup, precondition: ErrModuleSetupPrecondition,
	}
	enableTransition = transition{
		hook: hookEnable, from: ModuleSetup, to: ModuleEnabled,
		before: EventEnabling, after: EventEnabled, precondition: ErrModuleEnablePrecondition,
	}
	disableTransition = transition{
		hook: hookDisable, from: ModuleEnabled, to: ModuleDisabled,
		before: EventDisabling, after: EventDisabled, precondition: ErrModuleDisablePrecondition,
	}
	destroyTransition = transition{
		hook: hookDestroy, from: ModuleDisabled, to: ModuleDestroyed,
		before: EventDestroying, after: EventDestroyed, precondition: ErrModuleDestroyPrecondition,
	}
)

// SetupModule runs the setup hook. The module must be created.
func (w *ModuleWrapper) SetupModule(ctx context.Context) error {
	return w.run(ctx, setupTransition)
}

// EnableModule runs the enable hook. The module must be set up.
func (w *ModuleWrapper) EnableModule(ctx context.Context) error {
	return w.run(ctx, enableTransition)
}

// DisableModule runs the disable hook. The module must be enabled.
func (w *ModuleWrapper) DisableModule(ctx context.Context) error {
	return w.run(ctx, disableTransition)
}

// DestroyModule runs the destroy hook. The module must be disabled.
func (w *ModuleWrapper) DestroyModule(ctx context.Context) error {
	return w.run(ctx, destroyTransition)
}

func (w *ModuleWrapper) run(ctx context.Context, t transition) error {
	if w.status != t.from || w.module.status != t.from {
		return fmt.Errorf("%w: module %s is %s (wrapper %s)", t.precondition, w.id, w.module.status, w.status)
	}

	w.module.emit(ctx, t.before)

	w.logger.Debug("Running module hook", "hook", t.hook.String())
	if err := w.bound[t.hook](ctx); err != nil {
		w.logger.Error("Module hook failed", "hook", t.hook.String(), "error", err)
		return err
	}

	w.status = t.to
	w.module.setStatus(t.to)
	w.module.emit(ctx, t.after)
	w.logger.Debug("Module transitioned", "status", t.to)
	return nil
}
