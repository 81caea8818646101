// Package engine resolves every application of an inventory into a Plan.
//
// For each application the engine normalizes the descriptor and overrides,
// selects one driver per concern from a driver.Registry and asks it for a
// resolved mapping and the artifacts that mapping renders into. Concerns are
// independent: a database that cannot be resolved does not stop the web
// server mapping from being produced, and one application's failure never
// touches another's plan.
//
// # Usage
//
//	reg, err := builtin.NewRegistry()
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(cfg, reg)
//	plan, err := eng.Resolve(ctx, inv)
//	if err != nil {
//	    return err // invalid inventory or canceled context
//	}
//	if err := plan.Err(); err != nil {
//	    slog.Warn("some applications failed", "error", err)
//	}
//
// Resolution performs no I/O. Persisting TLS material and writing artifacts
// is the render package's job.
package engine
