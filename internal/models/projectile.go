package models

import (
	"math"

	"github.com/san-kum/modsim/internal/ode"
	"github.com/san-kum/modsim/internal/vec"
)

// FlightState names the fields of the 2-D projectile state vector.
type FlightState struct {
	X, Y   float64
	VX, VY float64
}

func (s FlightState) Vector() ode.State { return ode.State{s.X, s.Y, s.VX, s.VY} }

func FlightStateOf(x ode.State) FlightState {
	return FlightState{X: x[0], Y: x[1], VX: x[2], VY: x[3]}
}

// Projectile models a ball in 2-D under gravity and velocity-squared
// drag.
type Projectile struct {
	Gravity float64 // m/s^2
	Mass    float64 // kg
	Rho     float64 // kg/m^3
	Cd      float64
	Area    float64 // m^2
}

// NewProjectile returns parameters for a baseball.
func NewProjectile() *Projectile {
	d := 0.073 // m
	return &Projectile{
		Gravity: 9.8,
		Mass:    0.145,
		Rho:     1.2,
		Cd:      0.33,
		Area:    math.Pi * d * d / 4,
	}
}

func (p *Projectile) Dim() int { return 4 }

func (p *Projectile) Derive(t float64, x ode.State) (ode.State, error) {
	s := FlightStateOf(x)

	v := vec.New2(s.VX, s.VY)
	a := vec.New2(0, -p.Gravity)

	if speed := v.Len(); speed > 0 && p.Cd > 0 {
		a = a.Add(v.Mul(-0.5 * p.Rho * p.Cd * p.Area * speed / p.Mass))
	}

	return ode.State{s.VX, s.VY, a.X(), a.Y()}, nil
}

// Launch builds an initial state for a ball hit from height y0 at the
// given speed and elevation angle (radians).
func Launch(y0, speed, angle float64) ode.State {
	v := vec.FromPolar(angle, speed)
	return FlightState{X: 0, Y: y0, VX: v.X(), VY: v.Y()}.Vector()
}

// GroundEvent fires when the ball's height falls through zero.
func (p *Projectile) GroundEvent() ode.Event {
	return ode.Event{
		Name: "ground",
		F: func(t float64, x ode.State) (float64, error) {
			return x[1], nil
		},
		Direction: ode.Falling,
	}
}
