package solver

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/modsim/internal/ode"
)

// decay is dx/dt = -x.
type decay struct{}

func (decay) Derive(t float64, x ode.State) (ode.State, error) { return ode.State{-x[0]}, nil }
func (decay) Dim() int                                         { return 1 }

// oscillator is x'' = -x as a first-order pair.
type oscillator struct{}

func (oscillator) Derive(t float64, x ode.State) (ode.State, error) {
	return ode.State{x[1], -x[0]}, nil
}
func (oscillator) Dim() int { return 2 }

// constantGravity is free fall without drag: y' = v, v' = -g.
type constantGravity struct {
	g float64
}

func (c constantGravity) Derive(t float64, x ode.State) (ode.State, error) {
	return ode.State{x[1], -c.g}, nil
}
func (c constantGravity) Dim() int { return 2 }

func TestRK45DecayAccuracy(t *testing.T) {
	cfg := ode.DefaultConfig()
	cfg.TEnd = 1
	cfg.RelTol = 1e-8
	cfg.AbsTol = 1e-10

	res, err := ode.New(decay{}, NewRK45()).Run(context.Background(), ode.State{1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	_, xf := res.Last()
	if got, want := xf[0], math.Exp(-1); math.Abs(got-want) > 1e-7 {
		t.Errorf("final state = %.10f, want %.10f", got, want)
	}
}

func TestRK45OscillatorPeriod(t *testing.T) {
	cfg := ode.DefaultConfig()
	cfg.TEnd = 2 * math.Pi
	cfg.RelTol = 1e-9
	cfg.AbsTol = 1e-11

	res, err := ode.New(oscillator{}, NewRK45()).Run(context.Background(), ode.State{1, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	_, xf := res.Last()
	if math.Abs(xf[0]-1) > 1e-6 || math.Abs(xf[1]) > 1e-6 {
		t.Errorf("state after one period = %v, want (1, 0)", xf)
	}
}

func TestRK45StepSuggestions(t *testing.T) {
	rk := NewRK45()

	// an oversized step must be rejected with a smaller suggestion
	_, ratio, hNext, err := rk.TryStep(oscillator{}, 0, ode.State{1, 0}, 10, 1e-10, 1e-12)
	if err != nil {
		t.Fatalf("TryStep failed: %v", err)
	}
	if ratio <= 1 {
		t.Errorf("error ratio = %v, want > 1 for an oversized step", ratio)
	}
	if hNext >= 10 {
		t.Errorf("suggested step %v, want smaller than attempted", hNext)
	}

	// a tiny step should pass and invite growth
	_, ratio, hNext, err = rk.TryStep(oscillator{}, 0, ode.State{1, 0}, 1e-6, 1e-6, 1e-9)
	if err != nil {
		t.Fatalf("TryStep failed: %v", err)
	}
	if ratio > 1 {
		t.Errorf("error ratio = %v, want <= 1 for a tiny step", ratio)
	}
	if hNext <= 1e-6 {
		t.Errorf("suggested step %v, want growth", hNext)
	}
}

func TestFreeFallEventTime(t *testing.T) {
	// Drop from 381 m under g=9.8 with no drag; the ground crossing is
	// at sqrt(2*381/9.8).
	sys := constantGravity{g: 9.8}

	drv := ode.New(sys, NewRK45())
	drv.AddEvent(ode.Event{
		Name:      "ground",
		F:         func(t float64, x ode.State) (float64, error) { return x[0], nil },
		Direction: ode.Falling,
	})

	cfg := ode.DefaultConfig()
	cfg.TEnd = 20

	res, err := drv.Run(context.Background(), ode.State{381, 0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("run unsuccessful: %s", res.Message)
	}
	if len(res.Crossings) != 1 {
		t.Fatalf("expected one crossing, got %d", len(res.Crossings))
	}

	want := math.Sqrt(2 * 381 / 9.8)
	c := res.Crossings[0]
	if math.Abs(c.T-want) > 1e-6 {
		t.Errorf("crossing time = %.8f, want %.8f", c.T, want)
	}
	if math.Abs(c.X[0]) > 1e-6 {
		t.Errorf("altitude at crossing = %v, want ~0", c.X[0])
	}

	tf, _ := res.Last()
	if tf != c.T {
		t.Errorf("trajectory ends at %v, want crossing time %v", tf, c.T)
	}
}

func TestRK45DeterministicAcrossRuns(t *testing.T) {
	run := func() *ode.Result {
		cfg := ode.DefaultConfig()
		cfg.TEnd = 3
		res, err := ode.New(oscillator{}, NewRK45()).Run(context.Background(), ode.State{1, 0}, cfg)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if len(a.Times) != len(b.Times) {
		t.Fatalf("sample counts differ: %d vs %d", len(a.Times), len(b.Times))
	}
	for i := range a.Times {
		if a.Times[i] != b.Times[i] || a.States[i][0] != b.States[i][0] || a.States[i][1] != b.States[i][1] {
			t.Fatalf("trajectories diverge at sample %d", i)
		}
	}
	if a.Steps != b.Steps || a.Rejected != b.Rejected || a.Evals != b.Evals {
		t.Error("solver statistics differ between identical runs")
	}
}
