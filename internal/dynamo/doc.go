// Package dynamo provides core primitives shared by the simulation packages.
//
// The package defines the pieces every layer agrees on:
//
//   - [State]: flat vector used for whole-system integration (RK4)
//   - domain errors ([ErrNotInitialized], [ErrUnknownMethod], ...)
//   - [StepError]: a failed step with its simulation context
//
// # Error Handling
//
// Callers distinguish "not ready" from "misconfigured" with errors.Is:
//
//	if errors.Is(err, dynamo.ErrNotInitialized) {
//	    // initialize first
//	}
//
// Configuration errors wrap [ErrUnknownMethod], [ErrInvalidTimeScale] or
// [ErrInvalidTimeStep].
package dynamo
