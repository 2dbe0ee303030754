package solver

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/modsim/internal/ode"
)

// RK4 is the classic fixed-step fourth-order method. The scratch
// buffer makes a single instance unsafe for concurrent use; give each
// goroutine its own.
type RK4 struct {
	scratch ode.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys ode.System, t float64, x ode.State, h float64) (ode.State, error) {
	n := len(x)
	if len(r.scratch) != n {
		r.scratch = make(ode.State, n)
	}

	k1, err := sys.Derive(t, x)
	if err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, 0.5*h, k1)
	k2, err := sys.Derive(t+0.5*h, r.scratch)
	if err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, 0.5*h, k2)
	k3, err := sys.Derive(t+0.5*h, r.scratch)
	if err != nil {
		return nil, err
	}

	floats.AddScaledTo(r.scratch, x, h, k3)
	k4, err := sys.Derive(t+h, r.scratch)
	if err != nil {
		return nil, err
	}

	out := make(ode.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		out[i] = x[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out, nil
}
