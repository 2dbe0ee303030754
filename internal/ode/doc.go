// Package ode provides an event-aware initial-value-problem driver.
//
// The package defines the contracts between the three parties of a
// simulation:
//
//   - [System]: the slope function, dx/dt = Derive(t, x)
//   - [Stepper] / [AdaptiveStepper]: numerical steppers proposing steps
//   - [Driver]: the run loop owning accept/reject, event detection and
//     dense-output refinement of crossing times
//
// # Example
//
//	sys := models.NewFreeFall()
//	drv := ode.New(sys, solver.NewRK45())
//	drv.AddEvent(sys.GroundEvent())
//	res, err := drv.Run(ctx, ode.State{381, 0}, ode.DefaultConfig())
//
// # Thread Safety
//
// Driver instances are NOT thread-safe. Independent runs are
// embarrassingly parallel; use [Batch] and give every problem its own
// values.
package ode
