package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/modsim/internal/ode"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model != "freefall" {
		t.Errorf("default model = %q, want freefall", cfg.Model)
	}
	if cfg.Solver != "rk45" {
		t.Errorf("default solver = %q, want rk45", cfg.Solver)
	}
	if cfg.InitState != nil {
		t.Error("default config must not carry an initial state")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	in := DefaultConfig()
	in.Model = "projectile"
	in.TEnd = 12.5
	in.RelTol = 1e-8
	in.InitState = &InitStateConfig{X: 1, Y: 2, VX: 3, VY: 4}

	if err := Save(path, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if out.Model != in.Model || out.TEnd != in.TEnd || out.RelTol != in.RelTol {
		t.Errorf("round trip changed fields: got %+v, want %+v", out, in)
	}
	if out.InitState == nil || *out.InitState != *in.InitState {
		t.Errorf("round trip changed init state: got %+v, want %+v", out.InitState, in.InitState)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !os.IsNotExist(err) {
		t.Errorf("error = %v, want not-exist", err)
	}
}

func TestDriverConfigOverlay(t *testing.T) {
	base := ode.DefaultConfig()
	base.TEnd = 30

	cfg := &Config{TEnd: 5, RelTol: 1e-10}
	out := cfg.DriverConfig(base)

	if out.TEnd != 5 {
		t.Errorf("TEnd = %v, want overlay value 5", out.TEnd)
	}
	if out.RelTol != 1e-10 {
		t.Errorf("RelTol = %v, want overlay value 1e-10", out.RelTol)
	}

	// untouched fields keep the model defaults
	if out.AbsTol != base.AbsTol || out.MaxSteps != base.MaxSteps {
		t.Errorf("zero-valued fields must defer to base: got %+v", out)
	}
}

func TestGetInitState(t *testing.T) {
	tests := []struct {
		model string
		init  InitStateConfig
		want  ode.State
	}{
		{"freefall", InitStateConfig{Y: 381, V: -1}, ode.State{381, -1}},
		{"projectile", InitStateConfig{X: 0, Y: 1, VX: 28, VY: 28}, ode.State{0, 1, 28, 28}},
		{"swing", InitStateConfig{X: -70, Y: -70}, ode.State{-70, -70, 0, 0}},
		{"glucose", InitStateConfig{G: 270, Xi: 0}, ode.State{270, 0}},
		{"logistic", InitStateConfig{P: 2.5}, ode.State{2.5}},
		{"kepler", InitStateConfig{R: 1.496e11}, ode.State{1.496e11, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			init := tt.init
			cfg := &Config{Model: tt.model, InitState: &init}
			got := cfg.GetInitState()
			if len(got) != len(tt.want) {
				t.Fatalf("GetInitState() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("GetInitState() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGetInitStateAbsent(t *testing.T) {
	if got := DefaultConfig().GetInitState(); got != nil {
		t.Errorf("GetInitState() without a section = %v, want nil", got)
	}
}
