package modkit

import (
	"context"
	"sync"
)

// Imports maps a dependency id to the wrapper of that dependency.
type Imports map[string]*ModuleWrapper

// Hook is a module lifecycle callback. The wrapper always calls it with the
// owning app, the merged module options and the resolved imports. A non-nil
// error aborts the current phase and is returned to the caller unchanged.
type Hook func(ctx context.Context, app *App, options Options, imports Imports) error

// CallbackHook adapts a hook that signals completion through done instead of
// returning. The adapted hook blocks until done is first called; later calls
// are ignored. If ctx ends before that, the hook reports ctx.Err().
func CallbackHook(fn func(ctx context.Context, app *App, options Options, imports Imports, done func(error))) Hook {
	return func(ctx context.Context, app *App, options Options, imports Imports) error {
		result := make(chan error, 1)
		var once sync.Once
		done := func(err error) {
			once.Do(func() { result <- err })
		}

		fn(ctx, app, options, imports, done)

		// A result reported before fn returned wins over a done context.
		select {
		case err := <-result:
			return err
		default:
		}

		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func noopHook(context.Context, *App, Options, Imports) error {
	return nil
}

type hookSlot int

const (
	hookSetup hookSlot = iota
	hookEnable
	hookDisable
	hookDestroy
	hookCount
)

func (s hookSlot) String() string {
	switch s {
	case hookSetup:
		return "setup"
	case hookEnable:
		return "enable"
	case hookDisable:
		return "disable"
	case hookDestroy:
		return "destroy"
	}
	return "unknown"
}

// hookSet is the set of hooks a wrapper takes over from its module.
type hookSet [hookCount]Hook
