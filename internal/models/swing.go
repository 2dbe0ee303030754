package models

import (
	"math"

	"github.com/san-kum/modsim/internal/ode"
	"github.com/san-kum/modsim/internal/vec"
)

// Swing models a point mass hanging from an elastic cable anchored at
// the origin, with air drag. The cable pulls only when taut (length
// beyond L0); slack it exerts nothing, so the mass flies ballistically.
// State layout matches FlightState: {x, y, vx, vy}.
type Swing struct {
	Gravity float64 // m/s^2
	Mass    float64 // kg
	K       float64 // cable spring constant, N/m
	L0      float64 // natural cable length, m
	Rho     float64 // kg/m^3
	Cd      float64
	Area    float64 // m^2
}

// NewSwing returns parameters for a person swinging on a 100 m cable.
func NewSwing() *Swing {
	return &Swing{
		Gravity: 9.8,
		Mass:    75,
		K:       40,
		L0:      100,
		Rho:     1.2,
		Cd:      1,
		Area:    1,
	}
}

func (w *Swing) Dim() int { return 4 }

func (w *Swing) Derive(t float64, x ode.State) (ode.State, error) {
	s := FlightStateOf(x)

	pos := vec.New2(s.X, s.Y)
	v := vec.New2(s.VX, s.VY)
	a := vec.New2(0, -w.Gravity)

	if r := pos.Len(); r > w.L0 {
		dir, err := vec.Unit2(pos)
		if err != nil {
			return nil, err
		}
		a = a.Add(dir.Mul(-w.K * (r - w.L0) / w.Mass))
	}

	if speed := v.Len(); speed > 0 && w.Cd > 0 {
		a = a.Add(v.Mul(-0.5 * w.Rho * w.Cd * w.Area * speed / w.Mass))
	}

	return ode.State{s.VX, s.VY, a.X(), a.Y()}, nil
}

// Angle is the cable angle measured from straight down, in radians.
func (w *Swing) Angle(x ode.State) float64 {
	s := FlightStateOf(x)
	return math.Atan2(s.X, -s.Y)
}

// ReleaseEvent fires when the cable angle rises through the given
// release angle (radians from vertical).
func (w *Swing) ReleaseEvent(angle float64) ode.Event {
	return ode.Event{
		Name: "release",
		F: func(t float64, x ode.State) (float64, error) {
			return w.Angle(x) - angle, nil
		},
		Direction: ode.Rising,
	}
}
