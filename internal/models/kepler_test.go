package models

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/modsim/internal/ode"
	"github.com/san-kum/modsim/internal/solver"
)

// infallTime is the closed-form time to fall from rest at r0 down to r
// under an inverse-square pull.
func infallTime(gm, r0, r float64) float64 {
	q := r / r0
	return math.Sqrt(r0*r0*r0/(2*gm)) * (math.Acos(math.Sqrt(q)) + math.Sqrt(q*(1-q)))
}

func TestKeplerZeroSeparation(t *testing.T) {
	k := NewKepler()
	if _, err := k.Derive(0, RadialState{R: 0, V: -1}.Vector()); err == nil {
		t.Error("expected an error at zero separation")
	}
}

func TestKeplerSurfaceCrossing(t *testing.T) {
	k := NewKepler()
	r0, surface := 1.496e11, 6.96e8

	drv := ode.New(k, solver.NewRK45())
	drv.AddEvent(k.SurfaceEvent(surface))

	cfg := ode.DefaultConfig()
	cfg.TEnd = 1e7

	res, err := drv.Run(context.Background(), RadialState{R: r0}.Vector(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Crossings) != 1 {
		t.Fatalf("expected one surface crossing, got %d", len(res.Crossings))
	}

	c := res.Crossings[0]
	want := infallTime(k.GM, r0, surface)
	if math.Abs(c.T-want) > 0.005*want {
		t.Errorf("infall time = %v, want %v within 0.5%%", c.T, want)
	}
	if math.Abs(c.X[0]-surface) > 1e-3*surface {
		t.Errorf("separation at crossing = %v, want %v", c.X[0], surface)
	}
	if c.X[1] >= 0 {
		t.Errorf("radial velocity at crossing = %v, want inbound", c.X[1])
	}
}

func TestKeplerWithoutStopEventFails(t *testing.T) {
	k := NewKepler()

	cfg := ode.DefaultConfig()
	cfg.TEnd = 1e7

	res, err := ode.New(k, solver.NewRK45()).Run(context.Background(), RadialState{R: 1.496e11}.Vector(), cfg)
	if err == nil {
		t.Fatal("expected the singularity to surface a failure")
	}
	if res == nil {
		t.Fatal("partial result must be returned")
	}
	if res.Success {
		t.Error("result must be marked unsuccessful")
	}
	for i, x := range res.States {
		if !x.IsValid() {
			t.Fatalf("recorded state %d contains NaN/Inf: %v", i, x)
		}
	}
}
