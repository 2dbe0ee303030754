package solver

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/modsim/internal/ode"
)

// Euler is the explicit first-order method. Useful as a baseline and
// in tests; accuracy is poor for anything stiff or long.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys ode.System, t float64, x ode.State, h float64) (ode.State, error) {
	dx, err := sys.Derive(t, x)
	if err != nil {
		return nil, err
	}
	out := make(ode.State, len(x))
	floats.AddScaledTo(out, x, h, dx)
	return out, nil
}
