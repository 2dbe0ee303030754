package ode

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Driver integrates a System over a time span, watching event
// functions for zero crossings on every accepted step. It owns the
// accept/reject loop; the Stepper only proposes steps.
type Driver struct {
	sys       System
	stepper   Stepper
	events    []Event
	observers []Observer
}

func New(sys System, stepper Stepper) *Driver {
	return &Driver{sys: sys, stepper: stepper}
}

func (d *Driver) AddEvent(ev Event)      { d.events = append(d.events, ev) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// crossingHit is one refined crossing inside a single accepted step.
type crossingHit struct {
	name string
	t    float64
	x    State
	stop bool
}

// countingSystem tallies slope evaluations and enforces the shape
// contract on every derivative.
type countingSystem struct {
	System
	evals *int
}

func (c *countingSystem) Derive(t float64, x State) (State, error) {
	*c.evals++
	dx, err := c.System.Derive(t, x)
	if err != nil {
		return nil, err
	}
	if len(dx) != len(x) {
		return nil, fmt.Errorf("%w: slope returned %d values for %d-dimensional state",
			ErrDimensionMismatch, len(dx), len(x))
	}
	return dx, nil
}

// Run integrates from cfg.T0 to cfg.TEnd starting at x0.
//
// On a solver failure (tolerance not met above MinStep, step budget
// exhausted, state diverging to NaN/Inf) the partial trajectory is
// returned alongside an *IntegrationError and Result.Success is false.
// Errors raised by slope or event functions propagate immediately.
func (d *Driver) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != d.sys.Dim() {
		return nil, fmt.Errorf("%w: initial state has %d fields, system has dimension %d",
			ErrDimensionMismatch, len(x0), d.sys.Dim())
	}
	if !x0.IsValid() {
		return nil, fmt.Errorf("%w: initial state", ErrInvalidState)
	}

	span := cfg.TEnd - cfg.T0
	minStep := cfg.MinStep
	if minStep <= 0 {
		minStep = 1e-12
	}
	maxStep := cfg.MaxStep
	if maxStep <= 0 {
		maxStep = span
	}
	h := cfg.InitialStep
	if h <= 0 {
		h = span / 100
	}
	h = math.Min(h, maxStep)

	res := &Result{Success: true, Message: "reached end of interval"}
	sys := &countingSystem{System: d.sys, evals: &res.Evals}

	t := cfg.T0
	x := x0.Clone()
	f, err := sys.Derive(t, x)
	if err != nil {
		return nil, err
	}

	// Baseline event values. An exact zero here is not a crossing.
	g := make([]float64, len(d.events))
	for i := range d.events {
		g[i], err = d.events[i].F(t, x)
		if err != nil {
			return nil, fmt.Errorf("event %q at t=%g: %w", d.events[i].Name, t, err)
		}
	}

	res.append(t, x)
	d.notify(t, x)

	adaptive, isAdaptive := d.stepper.(AdaptiveStepper)

	for t < cfg.TEnd {
		select {
		case <-ctx.Done():
			res.Success = false
			res.Message = "canceled"
			return res, ctx.Err()
		default:
		}

		if res.Steps+res.Rejected >= cfg.MaxSteps {
			res.Success = false
			res.Message = "step budget exhausted"
			return res, &IntegrationError{Step: res.Steps, Time: t, Cause: ErrMaxSteps}
		}

		final := false
		if h >= cfg.TEnd-t {
			h = cfg.TEnd - t
			final = true
		}

		var (
			xNew  State
			hNext = h
		)
		if isAdaptive {
			var ratio float64
			xNew, ratio, hNext, err = adaptive.TryStep(sys, t, x, h, cfg.RelTol, cfg.AbsTol)
			if err != nil {
				res.Success = false
				res.Message = err.Error()
				return res, err
			}
			if ratio > 1 {
				res.Rejected++
				if !(hNext > 0) || hNext < minStep {
					res.Success = false
					res.Message = "step size underflow"
					return res, &IntegrationError{Step: res.Steps, Time: t, Cause: ErrStepTooSmall}
				}
				h = hNext
				continue
			}
			hNext = math.Min(hNext, maxStep)
		} else {
			xNew, err = d.stepper.Step(sys, t, x, h)
			if err != nil {
				res.Success = false
				res.Message = err.Error()
				return res, err
			}
		}

		tNew := t + h
		if final {
			tNew = cfg.TEnd
		}

		if !xNew.IsValid() {
			res.Success = false
			res.Message = "state diverged (NaN or Inf)"
			return res, &IntegrationError{Step: res.Steps, Time: tNew, Cause: ErrInvalidState}
		}

		// Derivative at the accepted point anchors the dense output
		// used for event refinement.
		fNew, err := sys.Derive(tNew, xNew)
		if err != nil {
			res.Success = false
			res.Message = err.Error()
			return res, err
		}

		var hits []crossingHit
		for i := range d.events {
			ev := &d.events[i]
			gNew, err := ev.F(tNew, xNew)
			if err != nil {
				res.Success = false
				res.Message = err.Error()
				return res, fmt.Errorf("event %q at t=%g: %w", ev.Name, tNew, err)
			}

			if crossed(g[i], gNew, ev.Direction) {
				tol := cfg.EventTol
				if tol <= 0 {
					tol = defaultEventTol(tNew)
				}
				tStar, xStar, rerr := refineCrossing(ev, t, x, f, tNew, xNew, fNew, g[i], tol)
				if rerr != nil {
					res.Success = false
					res.Message = rerr.Error()
					return res, fmt.Errorf("event %q: %w", ev.Name, rerr)
				}
				hits = append(hits, crossingHit{name: ev.Name, t: tStar, x: xStar, stop: !ev.NonTerminal})
			}
			g[i] = gNew
		}

		if len(hits) > 0 {
			// With several crossings inside one step, the earliest
			// terminal one ends the run; later crossings never happened.
			sort.SliceStable(hits, func(a, b int) bool { return hits[a].t < hits[b].t })
			cut := math.Inf(1)
			var stop *crossingHit
			for i := range hits {
				if hits[i].stop {
					stop = &hits[i]
					cut = hits[i].t
					break
				}
			}
			for i := range hits {
				if hits[i].t <= cut {
					res.Crossings = append(res.Crossings, Crossing{Name: hits[i].name, T: hits[i].t, X: hits[i].x})
				}
			}
			if stop != nil {
				res.Steps++
				res.append(stop.t, stop.x)
				d.notify(stop.t, stop.x)
				res.Message = fmt.Sprintf("termination event %q at t=%.6g", stop.name, stop.t)
				return res, nil
			}
		}

		t, x, f = tNew, xNew, fNew
		res.Steps++
		res.append(t, x)
		d.notify(t, x)
		h = hNext
	}

	return res, nil
}

func (d *Driver) notify(t float64, x State) {
	for _, o := range d.observers {
		o.OnStep(t, x)
	}
}

func validateConfig(cfg Config) error {
	if cfg.TEnd <= cfg.T0 {
		return fmt.Errorf("%w: t_end %g must exceed t0 %g", ErrConfig, cfg.TEnd, cfg.T0)
	}
	if cfg.RelTol <= 0 {
		return fmt.Errorf("%w: rel_tol must be positive, got %g", ErrConfig, cfg.RelTol)
	}
	if cfg.AbsTol <= 0 {
		return fmt.Errorf("%w: abs_tol must be positive, got %g", ErrConfig, cfg.AbsTol)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("%w: max_steps must be positive, got %d", ErrConfig, cfg.MaxSteps)
	}
	return nil
}
