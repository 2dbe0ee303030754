package ode

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is the flattened numeric state vector handed to steppers.
// Models with named fields pack and unpack their records to and from
// this representation; field order is part of each model's contract.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// Add returns s + o. Both states must have the same shape.
func (s State) Add(o State) State {
	r := s.Clone()
	floats.Add(r, o)
	return r
}

// Sub returns s - o. Both states must have the same shape.
func (s State) Sub(o State) State {
	r := s.Clone()
	floats.Sub(r, o)
	return r
}

// Scale returns s multiplied componentwise by k.
func (s State) Scale(k float64) State {
	r := s.Clone()
	floats.Scale(k, r)
	return r
}

// System is an autonomous or time-dependent ODE: dx/dt = Derive(t, x).
// Derive must return one derivative per state field, in field order.
type System interface {
	Derive(t float64, x State) (State, error)
	Dim() int
}

// Stepper advances a system by one step of size h.
type Stepper interface {
	Step(sys System, t float64, x State, h float64) (State, error)
}

// AdaptiveStepper additionally offers trial steps with an embedded
// error estimate. TryStep returns the candidate state, the error ratio
// against the requested tolerances (the step is acceptable when the
// ratio is <= 1) and a suggested size for the next attempt.
type AdaptiveStepper interface {
	Stepper
	TryStep(sys System, t float64, x State, h, relTol, absTol float64) (xNew State, errRatio, hNext float64, err error)
}

// Direction filters which zero crossings of an event function fire.
type Direction int

const (
	Either Direction = iota
	Rising
	Falling
)

// Event is a scalar function of (t, x) whose zero crossing marks a
// condition of interest. The value at t0 is a baseline only: an exact
// zero at the initial state never fires.
type Event struct {
	Name      string
	F         func(t float64, x State) (float64, error)
	Direction Direction
	// NonTerminal records crossings and keeps integrating. By default
	// the first crossing stops the run at the refined crossing time.
	NonTerminal bool
}

// Crossing is a detected event occurrence, with the state interpolated
// at the refined crossing time.
type Crossing struct {
	Name string
	T    float64
	X    State
}

// Observer is notified after every accepted step.
type Observer interface {
	OnStep(t float64, x State)
}

// Config bounds one integration run.
type Config struct {
	T0   float64
	TEnd float64

	// InitialStep is the first step size attempted; zero picks
	// (TEnd-T0)/100. Fixed steppers use it as their step size.
	InitialStep float64
	// MinStep aborts the run with ErrStepTooSmall when adaptive
	// control would shrink below it; zero means 1e-12.
	MinStep float64
	// MaxStep caps accepted steps; zero means the full span.
	MaxStep float64

	RelTol float64
	AbsTol float64

	// MaxSteps ceilings attempted steps (accepted plus rejected) so a
	// stalled integration fails instead of spinning.
	MaxSteps int

	// EventTol is the width to which a crossing time is refined; zero
	// derives a tight default from the crossing time's magnitude.
	EventTol float64
}

func DefaultConfig() Config {
	return Config{
		TEnd:     10,
		MinStep:  1e-12,
		RelTol:   1e-6,
		AbsTol:   1e-9,
		MaxSteps: 100000,
	}
}

// Result is the trajectory and outcome of one run. Times are strictly
// increasing; when a terminal event fired the last sample sits exactly
// at the refined crossing time.
type Result struct {
	Times  []float64
	States []State

	Success bool
	Message string

	Crossings []Crossing

	Steps    int // accepted steps
	Rejected int // rejected trial steps
	Evals    int // slope function evaluations
}

func (r *Result) append(t float64, x State) {
	r.Times = append(r.Times, t)
	r.States = append(r.States, x.Clone())
}

// Last returns the final sample.
func (r *Result) Last() (float64, State) {
	n := len(r.Times)
	if n == 0 {
		return 0, nil
	}
	return r.Times[n-1], r.States[n-1]
}

// Component extracts one state field as a series, for output layers.
func (r *Result) Component(i int) []float64 {
	out := make([]float64, len(r.States))
	for j, s := range r.States {
		out[j] = s[i]
	}
	return out
}
