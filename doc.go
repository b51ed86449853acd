// Package modkit composes an application from in-process modules and drives
// them through a shared lifecycle.
//
// A Module has an id, an optional version, options, the ids of the modules it
// depends on and four hooks: setup, enable, disable and destroy. An App holds
// the configured modules and per-module options. Resolve orders the modules
// so that every module comes after its dependencies, rejecting dependency
// cycles and references to modules that are not configured. Setup and Start
// then run the hooks in that order; Stop and Destroy run them in reverse.
//
//	logger, _ := modkit.NewModule("logger", nil)
//	server, _ := modkit.NewModule("server", modkit.Options{"port": 8080})
//	_ = server.AddDependencies("logger")
//	_ = server.OnEnable(func(ctx context.Context, app *modkit.App, opts modkit.Options, imports modkit.Imports) error {
//		var port int
//		if err := opts.Decode("port", &port); err != nil {
//			return err
//		}
//		return listen(ctx, port, imports["logger"])
//	})
//
//	app, err := modkit.NewApp(modkit.WithModules(server, logger))
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
//
// Phases are sequential and fail fast: the first hook error stops the phase
// and is returned unchanged, and the App keeps its previous status. Errors
// produced by the framework itself carry a stable symbolic code, see
// ErrorCode.
//
// Apps and modules emit an Event on every transition to their registered
// observers. CloudEventObserver forwards them as CloudEvents.
package modkit
