package modkit

import (
	"fmt"
	"os"

	"github.com/GoCodeAlone/modkit/config"
)

// AppOption configures an App under construction.
type AppOption func(*appBuilder) error

type appBuilder struct {
	logger    Logger
	modules   []*Module
	options   map[string]Options
	observers []Observer
}

func (b *appBuilder) build() (*App, error) {
	id := newUUID()
	base := b.logger
	if base == nil {
		base = NewZapLogger(nil)
	}
	logger := NewValueInjectionLoggerDecorator(base, "app", id)

	app := &App{
		subject: subject{
			kind:   SourceApp,
			source: id,
			logger: logger,
		},
		id:       id,
		options:  make(map[string]Options),
		wrappers: make(map[*Module]*ModuleWrapper),
		status:   AppCreated,
	}

	if err := app.AddOptions(b.options); err != nil {
		return nil, err
	}
	if err := app.AddConfig(b.modules...); err != nil {
		return nil, err
	}
	for _, observer := range b.observers {
		if err := app.RegisterObserver(observer); err != nil {
			return nil, err
		}
	}

	logger.Debug("App created", "modules", len(app.config))
	return app, nil
}

// WithLogger sets the base logger. The app tags every entry with its id.
func WithLogger(logger Logger) AppOption {
	return func(b *appBuilder) error {
		b.logger = logger
		return nil
	}
}

// WithModules adds modules to the configuration.
func WithModules(modules ...*Module) AppOption {
	return func(b *appBuilder) error {
		b.modules = append(b.modules, modules...)
		return nil
	}
}

// WithModuleOptions adds per-module options keyed by module id.
func WithModuleOptions(options map[string]Options) AppOption {
	return func(b *appBuilder) error {
		for id, opts := range options {
			if opts == nil {
				return fmt.Errorf("%w: module %s", ErrInvalidOptions, id)
			}
			b.options[id] = MergeOptions(b.options[id], opts)
		}
		return nil
	}
}

// WithOptionsFile adds per-module options read from a YAML, TOML or JSON file
// whose top-level keys are module ids.
func WithOptionsFile(path string) AppOption {
	return func(b *appBuilder) error {
		loaded, err := config.LoadModuleOptions(path)
		if err != nil {
			return fmt.Errorf("failed to load module options: %w", err)
		}
		return WithModuleOptions(toOptions(loaded))(b)
	}
}

// WithEnvOptions adds per-module options from environment variables named
// PREFIX_<MODULE>__<KEY>. Other variables sharing the prefix are ignored.
// Values are kept as strings; Options.Decode casts them.
func WithEnvOptions(prefix string) AppOption {
	return func(b *appBuilder) error {
		return WithModuleOptions(toOptions(config.EnvModuleOptions(prefix, os.Environ())))(b)
	}
}

// WithObservers registers app observers.
func WithObservers(observers ...Observer) AppOption {
	return func(b *appBuilder) error {
		b.observers = append(b.observers, observers...)
		return nil
	}
}

func toOptions(in map[string]map[string]any) map[string]Options {
	out := make(map[string]Options, len(in))
	for id, opts := range in {
		out[id] = Options(opts)
	}
	return out
}
