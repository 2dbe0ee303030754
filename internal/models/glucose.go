package models

import (
	"github.com/san-kum/modsim/internal/interp"
	"github.com/san-kum/modsim/internal/ode"
)

// GlucoseState names the fields of the minimal model state vector:
// blood glucose concentration G (mg/dL) and remote insulin action X
// (1/min).
type GlucoseState struct {
	G float64
	X float64
}

func (s GlucoseState) Vector() ode.State { return ode.State{s.G, s.X} }

func GlucoseStateOf(x ode.State) GlucoseState { return GlucoseState{G: x[0], X: x[1]} }

// Glucose is the Bergman minimal model of glucose-insulin kinetics.
// Plasma insulin is measured data supplied as an interpolated time
// series; its domain must cover the integration span or the run aborts
// with the interpolator's OutOfDomain error.
type Glucose struct {
	K1 float64 // glucose effectiveness, 1/min
	K2 float64 // remote insulin decay, 1/min
	K3 float64 // insulin sensitivity coupling, L/(min^2*uU)
	Gb float64 // basal glucose, mg/dL
	Ib float64 // basal insulin, uU/mL

	Insulin *interp.Linear // plasma insulin over time, uU/mL
}

func NewGlucose(insulin *interp.Linear) *Glucose {
	return &Glucose{
		K1:      0.02,
		K2:      0.02,
		K3:      1.5e-5,
		Gb:      92,
		Ib:      11,
		Insulin: insulin,
	}
}

func (g *Glucose) Dim() int { return 2 }

func (g *Glucose) Derive(t float64, x ode.State) (ode.State, error) {
	s := GlucoseStateOf(x)

	i, err := g.Insulin.At(t)
	if err != nil {
		return nil, err
	}

	dG := -g.K1*(s.G-g.Gb) - s.X*s.G
	dX := g.K3*(i-g.Ib) - g.K2*s.X

	return ode.State{dG, dX}, nil
}
