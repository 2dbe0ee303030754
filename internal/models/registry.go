package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/modsim/internal/interp"
	"github.com/san-kum/modsim/internal/ode"
)

// Setup bundles a model with a default initial state, stop events, a
// run configuration with a model-appropriate time span, and labels for
// the state fields in vector order.
type Setup struct {
	Sys    ode.System
	X0     ode.State
	Events []ode.Event
	Config ode.Config
	Labels []string
}

// Registry maps model names to ready-to-run setups.
type Registry struct {
	builders map[string]func() Setup
	describe map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		builders: make(map[string]func() Setup),
		describe: make(map[string]string),
	}

	r.register("freefall", "penny dropped from the Empire State Building, quadratic drag", func() Setup {
		sys := NewFreeFall()
		cfg := ode.DefaultConfig()
		cfg.TEnd = 30
		return Setup{
			Sys:    sys,
			X0:     FallState{Y: 381, V: 0}.Vector(),
			Events: []ode.Event{sys.GroundEvent()},
			Config: cfg,
			Labels: []string{"y", "v"},
		}
	})

	r.register("projectile", "baseball hit at 40 m/s, 45 degrees, with drag", func() Setup {
		sys := NewProjectile()
		cfg := ode.DefaultConfig()
		cfg.TEnd = 10
		return Setup{
			Sys:    sys,
			X0:     Launch(1, 40, math.Pi/4),
			Events: []ode.Event{sys.GroundEvent()},
			Config: cfg,
			Labels: []string{"x", "y", "vx", "vy"},
		}
	})

	r.register("glucose", "Bergman minimal model driven by measured insulin", func() Setup {
		sys := NewGlucose(demoInsulin())
		cfg := ode.DefaultConfig()
		cfg.TEnd = 182
		return Setup{
			Sys:    sys,
			X0:     GlucoseState{G: 270, X: 0}.Vector(),
			Config: cfg,
			Labels: []string{"G", "X"},
		}
	})

	r.register("logistic", "quadratic population growth toward carrying capacity", func() Setup {
		sys := NewLogistic()
		cfg := ode.DefaultConfig()
		cfg.TEnd = 200
		return Setup{
			Sys:    sys,
			X0:     ode.State{2.5},
			Config: cfg,
			Labels: []string{"p"},
		}
	})

	r.register("swing", "mass on an elastic cable with drag, released at an angle", func() Setup {
		sys := NewSwing()
		cfg := ode.DefaultConfig()
		cfg.TEnd = 30
		start := FlightState{
			X: -sys.L0 * math.Sin(math.Pi/4),
			Y: -sys.L0 * math.Cos(math.Pi/4),
		}
		return Setup{
			Sys:    sys,
			X0:     start.Vector(),
			Events: []ode.Event{sys.ReleaseEvent(20 * math.Pi / 180)},
			Config: cfg,
			Labels: []string{"x", "y", "vx", "vy"},
		}
	})

	r.register("kepler", "radial infall from 1 AU, stopped at the solar surface", func() Setup {
		sys := NewKepler()
		cfg := ode.DefaultConfig()
		cfg.TEnd = 1e7
		return Setup{
			Sys:    sys,
			X0:     RadialState{R: 1.496e11, V: 0}.Vector(),
			Events: []ode.Event{sys.SurfaceEvent(6.96e8)},
			Config: cfg,
			Labels: []string{"r", "v"},
		}
	})

	return r
}

func (r *Registry) register(name, desc string, build func() Setup) {
	r.builders[name] = build
	r.describe[name] = desc
}

func (r *Registry) Get(name string) (Setup, error) {
	build, ok := r.builders[name]
	if !ok {
		return Setup{}, fmt.Errorf("unknown model: %s", name)
	}
	return build(), nil
}

func (r *Registry) Describe(name string) string {
	return r.describe[name]
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// demoInsulin is the bundled plasma insulin trace for the glucose
// demo, in minutes and uU/mL.
func demoInsulin() *interp.Linear {
	ts := []float64{0, 2, 4, 6, 8, 10, 12, 14, 16, 19, 22, 27, 32, 42, 52, 62, 72, 82, 92, 102, 122, 142, 162, 182}
	vs := []float64{11, 26, 130, 85, 51, 49, 45, 41, 35, 30, 30, 27, 30, 22, 15, 15, 11, 10, 8, 11, 7, 8, 8, 7}

	l, err := interp.NewLinear(ts, vs, interp.ExtrapolateFlat)
	if err != nil {
		panic(err) // fixed table, cannot fail
	}
	return l
}
