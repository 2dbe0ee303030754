package models

import (
	"math"

	"github.com/san-kum/modsim/internal/ode"
)

// FallState names the fields of the falling-object state vector.
// All lengths in meters, times in seconds; velocity is positive up.
type FallState struct {
	Y float64
	V float64
}

func (s FallState) Vector() ode.State { return ode.State{s.Y, s.V} }

func FallStateOf(x ode.State) FallState { return FallState{Y: x[0], V: x[1]} }

// FreeFall models an object dropped through still air: constant
// gravity plus quadratic drag. Setting Cd to zero gives pure free
// fall.
type FreeFall struct {
	Gravity float64 // m/s^2
	Mass    float64 // kg
	Rho     float64 // air density, kg/m^3
	Cd      float64 // drag coefficient
	Area    float64 // cross section, m^2
}

// NewFreeFall returns parameters for a falling penny.
func NewFreeFall() *FreeFall {
	return &FreeFall{
		Gravity: 9.8,
		Mass:    2.5e-3,
		Rho:     1.2,
		Cd:      0.44,
		Area:    math.Pi * 9.5e-3 * 9.5e-3,
	}
}

func (f *FreeFall) Dim() int { return 2 }

func (f *FreeFall) Derive(t float64, x ode.State) (ode.State, error) {
	s := FallStateOf(x)

	a := -f.Gravity
	if f.Cd > 0 {
		a -= 0.5 * f.Rho * f.Cd * f.Area * s.V * math.Abs(s.V) / f.Mass
	}

	return ode.State{s.V, a}, nil
}

// TerminalVelocity is the speed at which drag balances gravity.
func (f *FreeFall) TerminalVelocity() float64 {
	return math.Sqrt(2 * f.Mass * f.Gravity / (f.Rho * f.Cd * f.Area))
}

// GroundEvent fires when altitude falls through zero.
func (f *FreeFall) GroundEvent() ode.Event {
	return ode.Event{
		Name: "ground",
		F: func(t float64, x ode.State) (float64, error) {
			return x[0], nil
		},
		Direction: ode.Falling,
	}
}
