// Package dispatch is the service-side front end for a handler table.
//
// A Dispatcher wraps a *handlertable.Table with the things a service wants
// around it and a non-blocking caller does not: event names, structured
// logging, OpenTelemetry metrics and spans, and retried registration.
//
// # Basic Usage
//
//	table := handlertable.New[handlertable.Handler](32)
//	names := registry.NewNames(table.Cap())
//	_ = names.Bind("timer", 0)
//
//	d := dispatch.New(table,
//	    dispatch.WithLogger(logger),
//	    dispatch.WithNames(names),
//	    dispatch.WithMetrics(true),
//	)
//
//	_ = d.RegisterNamed(ctx, "timer", onTick)
//	_ = d.HandleNamed(ctx, "timer")
//
// # From Configuration
//
//	spec, err := config.LoadTableSpec("table.yaml")
//	if err != nil {
//	    return err
//	}
//	d, err := dispatch.FromSpec[handlertable.Handler](spec, logger)
//
// # Non-blocking Callers
//
// Every Dispatcher method may allocate, take locks or sleep. Code that must
// not block calls the underlying table directly:
//
//	d.Table().Handle(index)
//
// Both views operate on the same slots.
package dispatch
