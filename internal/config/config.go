package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/modsim/internal/ode"
)

// Config is the YAML surface for one run. Zero-valued fields defer to
// the model's bundled defaults.
type Config struct {
	Model       string  `yaml:"model"`
	Solver      string  `yaml:"solver"`
	T0          float64 `yaml:"t0"`
	TEnd        float64 `yaml:"t_end"`
	RelTol      float64 `yaml:"rel_tol"`
	AbsTol      float64 `yaml:"abs_tol"`
	InitialStep float64 `yaml:"initial_step"`
	MaxSteps    int     `yaml:"max_steps"`
	NoEvents    bool    `yaml:"no_events"`

	InitState *InitStateConfig `yaml:"init_state"`
}

// InitStateConfig collects the initial-condition fields of every
// bundled model; each model reads the fields it understands.
type InitStateConfig struct {
	Y  float64 `yaml:"y"`
	V  float64 `yaml:"v"`
	X  float64 `yaml:"x"`
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
	P  float64 `yaml:"p"`
	G float64 `yaml:"g"`
	// Xi is the glucose model's insulin action, labeled X in output;
	// the x key belongs to horizontal position above.
	Xi float64 `yaml:"xi"`
	R  float64 `yaml:"r"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:  "freefall",
		Solver: "rk45",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DriverConfig overlays the file's nonzero fields onto a model's
// default run configuration.
func (c *Config) DriverConfig(base ode.Config) ode.Config {
	out := base
	if c.T0 != 0 {
		out.T0 = c.T0
	}
	if c.TEnd != 0 {
		out.TEnd = c.TEnd
	}
	if c.RelTol != 0 {
		out.RelTol = c.RelTol
	}
	if c.AbsTol != 0 {
		out.AbsTol = c.AbsTol
	}
	if c.InitialStep != 0 {
		out.InitialStep = c.InitialStep
	}
	if c.MaxSteps != 0 {
		out.MaxSteps = c.MaxSteps
	}
	return out
}

// GetInitState builds the initial state vector for the configured
// model, or nil when the file carries no init_state section.
func (c *Config) GetInitState() ode.State {
	if c.InitState == nil {
		return nil
	}
	s := c.InitState
	switch c.Model {
	case "projectile", "swing":
		return ode.State{s.X, s.Y, s.VX, s.VY}
	case "glucose":
		return ode.State{s.G, s.Xi}
	case "logistic":
		return ode.State{s.P}
	case "kepler":
		return ode.State{s.R, s.V}
	default:
		return ode.State{s.Y, s.V}
	}
}
