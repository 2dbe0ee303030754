package models

import (
	"fmt"

	"github.com/san-kum/modsim/internal/ode"
)

// RadialState names the fields of the radial infall state vector:
// separation R (m) and radial velocity V (m/s).
type RadialState struct {
	R float64
	V float64
}

func (s RadialState) Vector() ode.State { return ode.State{s.R, s.V} }

func RadialStateOf(x ode.State) RadialState { return RadialState{R: x[0], V: x[1]} }

// Kepler models straight-line gravitational infall toward a point
// mass: d2r/dt2 = -GM/r^2. The acceleration is singular at r = 0, so
// a run without a stop event drives adaptive step control into the
// ground and surfaces an integration failure rather than NaNs.
type Kepler struct {
	GM float64 // gravitational parameter, m^3/s^2
}

// NewKepler returns the Sun's gravitational parameter.
func NewKepler() *Kepler {
	return &Kepler{GM: 1.32712e20}
}

func (k *Kepler) Dim() int { return 2 }

func (k *Kepler) Derive(t float64, x ode.State) (ode.State, error) {
	s := RadialStateOf(x)
	if s.R == 0 {
		return nil, fmt.Errorf("kepler: zero separation")
	}
	return ode.State{s.V, -k.GM / (s.R * s.R)}, nil
}

// SurfaceEvent stops the infall at the given separation, before the
// singularity.
func (k *Kepler) SurfaceEvent(radius float64) ode.Event {
	return ode.Event{
		Name: "surface",
		F: func(t float64, x ode.State) (float64, error) {
			return x[0] - radius, nil
		},
		Direction: ode.Falling,
	}
}
