package modkit

import (
	"fmt"
	"slices"

	"github.com/GoCodeAlone/modkit/internal/graph"
)

// App owns a set of modules, their per-module options and the dependency
// graph between them, and drives every module through the lifecycle:
//
//	created -> resolved -> setup -> started -> stopped
//
// Phases run strictly one module at a time, dependencies first for Setup and
// Start and dependents first for Stop and Destroy. The first module error
// aborts the phase and is returned unchanged.
//
// An App is not safe for concurrent use.
type App struct {
	subject

	id       string
	config   []*Module
	options  map[string]Options
	graph    *graph.Graph[*ModuleWrapper]
	order    []string
	wrappers map[*Module]*ModuleWrapper
	status   AppStatus
}

// NewApp creates an app configured by opts.
//
//	app, err := modkit.NewApp(
//		modkit.WithModules(db, server, logger),
//		modkit.WithModuleOptions(map[string]modkit.Options{"server": {"port": 8080}}),
//	)
func NewApp(opts ...AppOption) (*App, error) {
	b := &appBuilder{
		options: make(map[string]Options),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b.build()
}

// ID returns the process-unique app id.
func (app *App) ID() string { return app.id }

// Status returns the current app status.
func (app *App) Status() AppStatus { return app.status }

// Logger returns the app logger.
func (app *App) Logger() Logger { return app.logger }

// Modules returns the configured modules in configuration order.
func (app *App) Modules() []*Module { return slices.Clone(app.config) }

// Options returns a copy of the per-module options.
func (app *App) Options() map[string]Options {
	out := make(map[string]Options, len(app.options))
	for id, opts := range app.options {
		out[id] = opts.Clone()
	}
	return out
}

// Order returns the module ids in the order of the last successful resolve.
func (app *App) Order() []string { return slices.Clone(app.order) }

// Graph returns the dependency ids of every node of the last successful
// resolve. It is empty before the first resolve.
func (app *App) Graph() map[string][]string {
	if app.graph == nil {
		return map[string][]string{}
	}
	return app.graph.Edges()
}

// Wrapper returns the wrapper of a resolved module.
func (app *App) Wrapper(id string) (*ModuleWrapper, bool) {
	if app.graph == nil {
		return nil, false
	}
	return app.graph.Payload(id)
}

// AddOptions merges per-module options into the app options, keyed by module
// id. Later values win. Only allowed while created.
func (app *App) AddOptions(options map[string]Options) error {
	if app.status != AppCreated {
		return fmt.Errorf("%w: app is %s", ErrAppOptionsLocked, app.status)
	}
	for id, opts := range options {
		if id == "" {
			return fmt.Errorf("%w: empty module id", ErrInvalidModuleID)
		}
		if opts == nil {
			return fmt.Errorf("%w: module %s", ErrInvalidOptions, id)
		}
	}
	for id, opts := range options {
		app.options[id] = MergeOptions(app.options[id], opts)
	}
	return nil
}

// AddConfig appends modules to the configuration. A module already
// configured is ignored. Only allowed while created.
func (app *App) AddConfig(modules ...*Module) error {
	if app.status != AppCreated {
		return fmt.Errorf("%w: app is %s", ErrAppConfigLocked, app.status)
	}
	if slices.Contains(modules, nil) {
		return ErrInvalidConfigEntry
	}
	for _, m := range modules {
		if slices.Contains(app.config, m) {
			continue
		}
		app.config = append(app.config, m)
		app.logger.Debug("Module configured", "module", m.id)
	}
	return nil
}

// wrapperFor returns the wrapper of m, creating it on first use.
func (app *App) wrapperFor(m *Module) (*ModuleWrapper, error) {
	if w, ok := app.wrappers[m]; ok {
		w.rebase(app.options[m.id])
		return w, nil
	}
	w, err := NewModuleWrapper(app, m, app.options[m.id])
	if err != nil {
		return nil, err
	}
	app.wrappers[m] = w
	return w, nil
}
