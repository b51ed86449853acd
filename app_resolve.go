package modkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoCodeAlone/modkit/internal/graph"
)

// Resolve builds and validates the dependency graph, wraps every configured
// module and attaches the wrappers of its dependencies as imports.
//
// It fails with a *CycleError when dependencies form a cycle and with a
// *MissingDependencyError when a module depends on an id no configured module
// has. On failure the app status and graph are left unchanged.
//
// Resolve may be called again while resolved, set up or stopped; it is
// rejected while started.
func (app *App) Resolve(ctx context.Context) error {
	if app.status == AppStarted {
		return fmt.Errorf("%w: app is %s", ErrAppResolvePrecondition, app.status)
	}

	app.emit(ctx, EventResolving)

	seen := make(map[string]*Module, len(app.config))
	for _, m := range app.config {
		if other, ok := seen[m.id]; ok && other != m {
			return fmt.Errorf("%w: %s", ErrDuplicateModuleID, m.id)
		}
		seen[m.id] = m
	}

	g := graph.New[*ModuleWrapper]()
	for _, m := range app.config {
		w, err := app.wrapperFor(m)
		if err != nil {
			return fmt.Errorf("failed to wrap module %s: %w", m.id, err)
		}
		g.SetPayload(m.id, w)
		for _, dep := range m.dependencies {
			g.AddEdge(m.id, dep)
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		var cycle *graph.CycleError
		if errors.As(err, &cycle) {
			app.logger.Error("Dependency cycle detected", "cycle", cycle.Path)
			return &CycleError{Path: cycle.Path}
		}
		return err
	}

	// Every referenced id is a node, so a count above the configured modules
	// means some ids never got a wrapper.
	if len(order) != len(app.config) {
		missing := g.Placeholders()
		app.logger.Error("Unresolved dependencies", "missing", missing)
		return &MissingDependencyError{IDs: missing}
	}

	for _, id := range order {
		w, ok := g.Payload(id)
		if !ok {
			continue
		}
		imports := make(Imports)
		for _, dep := range g.Successors(id) {
			if dw, ok := g.Payload(dep); ok {
				imports[dep] = dw
			}
		}
		// Wrappers past created keep their imports: the graph cannot have
		// changed since they were attached.
		if w.Status() == ModuleCreated {
			if err := w.SetImports(imports); err != nil {
				return err
			}
		}
	}

	app.graph = g
	app.order = order
	app.status = AppResolved
	app.logger.Debug("Module order resolved", "order", order)
	app.emit(ctx, EventResolved)
	return nil
}
