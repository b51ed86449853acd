package modkit

import (
	"context"
	"fmt"
	"slices"
)

// Setup runs every module's setup hook, dependencies first. A created or
// stopped app is resolved first. Rejected while started.
func (app *App) Setup(ctx context.Context) error {
	if app.status == AppStarted {
		return fmt.Errorf("%w: app is %s", ErrAppSetupPrecondition, app.status)
	}
	if app.status == AppCreated || app.status == AppStopped {
		if err := app.Resolve(ctx); err != nil {
			return err
		}
	}
	return app.runPhase(ctx, phaseRun{
		name:   PhaseSetup,
		before: EventSettingUp,
		after:  EventSetup,
		next:   AppSetup,
		step:   (*ModuleWrapper).SetupModule,
	})
}

// Start enables every module, dependencies first. An app that is not set up
// yet is set up first. Rejected while started.
func (app *App) Start(ctx context.Context) error {
	if app.status == AppStarted {
		return fmt.Errorf("%w: app is %s", ErrAppStartPrecondition, app.status)
	}
	if app.status == AppCreated || app.status == AppResolved || app.status == AppStopped {
		if err := app.Setup(ctx); err != nil {
			return err
		}
	}
	return app.runPhase(ctx, phaseRun{
		name:   PhaseStart,
		before: EventStarting,
		after:  EventStarted,
		next:   AppStarted,
		step:   (*ModuleWrapper).EnableModule,
	})
}

// Stop disables every module, dependents first. The app must be started.
func (app *App) Stop(ctx context.Context) error {
	if app.status != AppStarted {
		return fmt.Errorf("%w: app is %s", ErrAppStopPrecondition, app.status)
	}
	return app.runPhase(ctx, phaseRun{
		name:    PhaseStop,
		before:  EventStopping,
		after:   EventStopped,
		next:    AppStopped,
		step:    (*ModuleWrapper).DisableModule,
		reverse: true,
	})
}

// Destroy runs every module's destroy hook, dependents first. The app must
// be stopped, and stays stopped afterwards.
func (app *App) Destroy(ctx context.Context) error {
	if app.status != AppStopped {
		return fmt.Errorf("%w: app is %s", ErrAppDestroyPrecondition, app.status)
	}
	return app.runPhase(ctx, phaseRun{
		name:    PhaseDestroy,
		before:  EventDestroying,
		after:   EventDestroyed,
		next:    AppStopped,
		step:    (*ModuleWrapper).DestroyModule,
		reverse: true,
	})
}

// Run starts the app, blocks until ctx is done, then stops and destroys it.
// Stop and Destroy get a context that is not cancelled with ctx.
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer cancel()
//	if err := app.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
func (app *App) Run(ctx context.Context) error {
	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	app.logger.Info("Context done, shutting down", "cause", context.Cause(ctx))

	shutdownCtx := context.WithoutCancel(ctx)
	if err := app.Stop(shutdownCtx); err != nil {
		return err
	}
	return app.Destroy(shutdownCtx)
}

// Invoke runs phase and passes its outcome to done instead of returning it.
// done may be nil.
func (app *App) Invoke(ctx context.Context, phase Phase, done func(error)) {
	var err error
	switch phase {
	case PhaseResolve:
		err = app.Resolve(ctx)
	case PhaseSetup:
		err = app.Setup(ctx)
	case PhaseStart:
		err = app.Start(ctx)
	case PhaseStop:
		err = app.Stop(ctx)
	case PhaseDestroy:
		err = app.Destroy(ctx)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}
	if done != nil {
		done(err)
	}
}

type phaseRun struct {
	name    Phase
	before  EventType
	after   EventType
	next    AppStatus
	step    func(w *ModuleWrapper, ctx context.Context) error
	reverse bool
}

// runPhase calls step on every wrapper, one at a time, in resolve order or
// its reverse. The app status only advances once every module succeeded.
func (app *App) runPhase(ctx context.Context, p phaseRun) error {
	app.emit(ctx, p.before)

	order := slices.Clone(app.order)
	if p.reverse {
		slices.Reverse(order)
	}

	for _, id := range order {
		w, ok := app.graph.Payload(id)
		if !ok {
			continue
		}
		if err := p.step(w, ctx); err != nil {
			app.logger.Error("Lifecycle phase aborted", "phase", p.name, "module", id, "error", err)
			return err
		}
	}

	app.status = p.next
	app.logger.Info("Lifecycle phase completed", "phase", p.name, "modules", len(order))
	app.emit(ctx, p.after)
	return nil
}
