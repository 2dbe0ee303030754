package solver

import (
	"math"
	"testing"

	"github.com/san-kum/modsim/internal/ode"
)

func TestRK4DecayStep(t *testing.T) {
	rk := NewRK4()

	x := ode.State{1}
	h := 0.01
	for i := 0; i < 100; i++ {
		var err error
		x, err = rk.Step(decay{}, float64(i)*h, x, h)
		if err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}

	if got, want := x[0], math.Exp(-1); math.Abs(got-want) > 1e-9 {
		t.Errorf("x(1) = %.12f, want %.12f", got, want)
	}
}

func TestRK4FourthOrder(t *testing.T) {
	errAt := func(h float64) float64 {
		rk := NewRK4()
		x := ode.State{1}
		steps := int(math.Round(1 / h))
		for i := 0; i < steps; i++ {
			var err error
			x, err = rk.Step(decay{}, float64(i)*h, x, h)
			if err != nil {
				t.Fatalf("step failed: %v", err)
			}
		}
		return math.Abs(x[0] - math.Exp(-1))
	}

	e1 := errAt(0.1)
	e2 := errAt(0.05)

	// halving h should shrink the error by roughly 2^4
	ratio := e1 / e2
	if ratio < 8 || ratio > 40 {
		t.Errorf("error ratio %v for halved step, want ~16", ratio)
	}
}

func TestEulerStep(t *testing.T) {
	e := NewEuler()

	x, err := e.Step(decay{}, 0, ode.State{1}, 0.1)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if x[0] != 0.9 {
		t.Errorf("Euler step = %v, want 0.9", x[0])
	}
}
