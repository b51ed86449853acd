package modkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFunctionalObserver(t *testing.T) {
	called := false
	observer := NewFunctionalObserver("test-observer", func(_ context.Context, e Event) error {
		called = true
		assert.Equal(t, EventStarted, e.Type)
		return nil
	})

	assert.Equal(t, "test-observer", observer.ObserverID())
	require.NoError(t, observer.OnEvent(t.Context(), Event{Type: EventStarted}))
	assert.True(t, called)
}

func TestObserverRegistration(t *testing.T) {
	app := newTestApp(t)
	first := NewFunctionalObserver("first", func(context.Context, Event) error { return nil })
	second := NewFunctionalObserver("second", func(context.Context, Event) error { return nil })

	require.NoError(t, app.RegisterObserver(first, EventStarted, EventResolved))
	require.NoError(t, app.RegisterObserver(second))
	assert.ErrorIs(t, app.RegisterObserver(nil), ErrNilObserver)

	info := app.GetObservers()
	require.Len(t, info, 2)
	assert.Equal(t, "first", info[0].ID)
	assert.Equal(t, []EventType{EventResolved, EventStarted}, info[0].EventTypes)
	assert.Equal(t, "second", info[1].ID)
	assert.Empty(t, info[1].EventTypes)
	assert.False(t, info[0].RegisteredAt.IsZero())

	require.NoError(t, app.UnregisterObserver(first))
	require.NoError(t, app.UnregisterObserver(first))
	info = app.GetObservers()
	require.Len(t, info, 1)
	assert.Equal(t, "second", info[0].ID)
}

func TestObserverReRegistrationKeepsPosition(t *testing.T) {
	app := newTestApp(t, WithModules(mustModule(t, "db", nil)))
	var order []string
	named := func(id string) Observer {
		return NewFunctionalObserver(id, func(context.Context, Event) error {
			order = append(order, id)
			return nil
		})
	}

	require.NoError(t, app.RegisterObserver(named("a")))
	require.NoError(t, app.RegisterObserver(named("b")))
	require.NoError(t, app.RegisterObserver(named("a"), EventResolved))

	require.NoError(t, app.Resolve(t.Context()))
	assert.Equal(t, []string{"b", "a", "b"}, order, "a only sees resolved and stays first")
}

func TestObserverFailuresDoNotInterruptLifecycle(t *testing.T) {
	inner := new(MockLogger)
	inner.On("Debug", mock.Anything, mock.Anything).Maybe()
	inner.On("Info", mock.Anything, mock.Anything).Maybe()
	inner.On("Error", "Observer error", mock.Anything).Once()
	inner.On("Error", "Observer panicked", mock.Anything).Once()

	db := mustModule(t, "db", nil)
	app, err := NewApp(WithLogger(inner), WithModules(db))
	require.NoError(t, err)

	delivered := 0
	require.NoError(t, app.RegisterObserver(NewFunctionalObserver("failing", func(context.Context, Event) error {
		return errors.New("observer failure")
	}), EventSetup))
	require.NoError(t, app.RegisterObserver(NewFunctionalObserver("panicking", func(context.Context, Event) error {
		panic("observer panic")
	}), EventStarted))
	require.NoError(t, app.RegisterObserver(NewFunctionalObserver("counting", func(context.Context, Event) error {
		delivered++
		return nil
	})))

	require.NoError(t, app.Start(t.Context()))
	assert.Equal(t, AppStarted, app.Status())
	assert.Equal(t, 6, delivered)
	inner.AssertExpectations(t)
}

func TestObserverMaySelfUnregister(t *testing.T) {
	app := newTestApp(t, WithModules(mustModule(t, "db", nil)))
	calls := 0
	var self Observer
	self = NewFunctionalObserver("once", func(context.Context, Event) error {
		calls++
		return app.UnregisterObserver(self)
	})
	require.NoError(t, app.RegisterObserver(self))

	require.NoError(t, app.Start(t.Context()))
	assert.Equal(t, 1, calls)
	assert.Empty(t, app.GetObservers())
}

func TestEventPayload(t *testing.T) {
	db := mustModule(t, "db", nil)
	var events []Event
	require.NoError(t, db.RegisterObserver(NewFunctionalObserver("rec", func(_ context.Context, e Event) error {
		events = append(events, e)
		return nil
	}), EventSettingUp))

	app := newTestApp(t, WithModules(db))
	require.NoError(t, app.Setup(t.Context()))

	require.Len(t, events, 1)
	e := events[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventSettingUp, e.Type)
	assert.Equal(t, "setting_up", e.Phase)
	assert.Equal(t, SourceModule, e.Kind)
	assert.Equal(t, "db", e.Source)
	assert.False(t, e.Time.IsZero())
}
