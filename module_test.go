package modkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustModule(t *testing.T, id string, options Options, deps ...string) *Module {
	t.Helper()
	m, err := NewModule(id, options)
	require.NoError(t, err)
	if len(deps) > 0 {
		require.NoError(t, m.AddDependencies(deps...))
	}
	return m
}

func TestNewModule(t *testing.T) {
	m, err := NewModule("db", Options{"dsn": "sqlite://memory"})
	require.NoError(t, err)

	assert.Equal(t, "db", m.ID())
	assert.Empty(t, m.Version())
	assert.Equal(t, ModuleCreated, m.Status())
	assert.Equal(t, Options{"dsn": "sqlite://memory"}, m.Options())
	assert.Empty(t, m.Dependencies())
}

func TestNewModuleNilOptions(t *testing.T) {
	m, err := NewModule("db", nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Options())
	assert.Empty(t, m.Options())
}

func TestNewModuleInvalidID(t *testing.T) {
	_, err := NewModule("", nil)
	assert.ErrorIs(t, err, ErrInvalidModuleID)
}

func TestModuleOptionsAreCopied(t *testing.T) {
	source := Options{"port": 8080}
	m := mustModule(t, "server", source)

	source["port"] = 1
	assert.Equal(t, 8080, m.Options()["port"])

	view := m.Options()
	view["port"] = 2
	assert.Equal(t, 8080, m.Options()["port"])
}

func TestModuleAddOptions(t *testing.T) {
	m := mustModule(t, "server", Options{"port": 8080, "host": "localhost"})

	require.NoError(t, m.AddOptions(Options{"port": 9090, "tls": true}))
	assert.Equal(t, Options{"port": 9090, "host": "localhost", "tls": true}, m.Options())

	assert.ErrorIs(t, m.AddOptions(nil), ErrInvalidOptions)
}

func TestModuleAddDependencies(t *testing.T) {
	m := mustModule(t, "db", nil)

	require.NoError(t, m.AddDependencies("logger", "server"))
	require.NoError(t, m.AddDependencies("logger", "cache"))
	assert.Equal(t, []string{"logger", "server", "cache"}, m.Dependencies())

	err := m.AddDependencies("metrics", "")
	assert.ErrorIs(t, err, ErrInvalidDependency)
	assert.Equal(t, []string{"logger", "server", "cache"}, m.Dependencies(), "nothing is added when one id is invalid")
}

func TestModuleSetVersion(t *testing.T) {
	m := mustModule(t, "db", nil)
	require.NoError(t, m.SetVersion("1.0.0"))
	assert.Equal(t, "1.0.0", m.Version())

	app, err := NewApp(WithModules(m))
	require.NoError(t, err)
	require.NoError(t, app.Resolve(t.Context()))

	err = m.SetVersion("2.0.0")
	assert.ErrorIs(t, err, ErrModuleVersionLocked)
	assert.Equal(t, "MODULE_VERSION_LOCKED", ErrorCode(err))
	assert.Equal(t, "1.0.0", m.Version())
}

func TestModuleHookOverride(t *testing.T) {
	m := mustModule(t, "db", nil)
	hook := func(context.Context, *App, Options, Imports) error { return nil }

	require.NoError(t, m.OnSetup(hook))
	require.NoError(t, m.OnEnable(hook))
	require.NoError(t, m.OnDisable(hook))
	require.NoError(t, m.OnDestroy(hook))

	assert.ErrorIs(t, m.OnSetup(hook), ErrHookAlreadyOverridden)
	assert.ErrorIs(t, m.OnDestroy(hook), ErrHookAlreadyOverridden)
	assert.ErrorIs(t, mustModule(t, "x", nil).OnEnable(nil), ErrNilHook)
}

func TestModuleHooksConsumedByWrapper(t *testing.T) {
	m := mustModule(t, "db", nil)
	app, err := NewApp()
	require.NoError(t, err)

	_, err = NewModuleWrapper(app, m, nil)
	require.NoError(t, err)

	err = m.OnSetup(func(context.Context, *App, Options, Imports) error { return nil })
	assert.ErrorIs(t, err, ErrHookConsumed)

	_, err = NewModuleWrapper(app, m, nil)
	assert.ErrorIs(t, err, ErrModuleAlreadyWrapped)
}

func TestModuleLockedAfterSetup(t *testing.T) {
	m := mustModule(t, "db", Options{"dsn": "a"})
	app, err := NewApp(WithModules(m))
	require.NoError(t, err)
	require.NoError(t, app.Setup(t.Context()))
	assert.Equal(t, ModuleSetup, m.Status())

	err = m.AddOptions(Options{"dsn": "b"})
	assert.ErrorIs(t, err, ErrModuleOptionsLocked)
	assert.Equal(t, "a", m.Options()["dsn"])

	err = m.AddDependencies("logger")
	assert.ErrorIs(t, err, ErrModuleDependenciesLocked)
	assert.Empty(t, m.Dependencies())
}

func TestModuleObservers(t *testing.T) {
	m := mustModule(t, "db", nil)
	var seen []EventType
	require.NoError(t, m.RegisterObserver(NewFunctionalObserver("rec", func(_ context.Context, e Event) error {
		assert.Equal(t, SourceModule, e.Kind)
		assert.Equal(t, "db", e.Source)
		seen = append(seen, e.Type)
		return nil
	})))

	app, err := NewApp(WithModules(m))
	require.NoError(t, err)
	require.NoError(t, app.Start(t.Context()))
	require.NoError(t, app.Stop(t.Context()))
	require.NoError(t, app.Destroy(t.Context()))

	assert.Equal(t, []EventType{
		EventSettingUp, EventSetup,
		EventEnabling, EventEnabled,
		EventDisabling, EventDisabled,
		EventDestroying, EventDestroyed,
	}, seen)
	assert.Equal(t, ModuleDestroyed, m.Status())
}

func TestModuleObserverRejectsNil(t *testing.T) {
	m := mustModule(t, "db", nil)
	assert.True(t, errors.Is(m.RegisterObserver(nil), ErrNilObserver))
}
