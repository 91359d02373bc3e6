// Package config describes simulation runs and builds their starting
// ensembles.
package config

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
	"github.com/gitrymt/cold-atoms/internal/metrics"
)

// Default run parameters, loosely a small cloud of calcium ions.
const (
	DefaultDt        = 1e-8
	DefaultSteps     = 1000
	DefaultParticles = 64
	DefaultMass      = 6.64e-26           // kg, ⁴⁰Ca⁺
	DefaultCharge    = 1.602176634e-19    // C, one elementary charge
	DefaultDelta     = 1e-14              // m², softening
	DefaultSpacing   = 5e-6               // m
	DefaultRadius    = 1e-5               // m
	DefaultTemp      = 1e-3               // K
)

type Config struct {
	Dt            float64 `yaml:"dt"`
	Steps         int     `yaml:"steps"`
	Seed          int64   `yaml:"seed"`
	SnapshotEvery int     `yaml:"snapshot_every"`

	Particles int     `yaml:"particles"`
	Mass      float64 `yaml:"mass"`
	Charge    float64 `yaml:"charge"`
	Delta     float64 `yaml:"delta"`
	// CoulombK overrides the Coulomb constant for scaled-unit runs; 0
	// keeps the SI value.
	CoulombK float64 `yaml:"coulomb_k"`

	TileWidth int `yaml:"tile_width"`
	Workers   int `yaml:"workers"`

	InitState InitStateConfig `yaml:"init_state"`
	Cooling   CoolingConfig   `yaml:"cooling"`
}

type InitStateConfig struct {
	// Shape is "lattice" (cubic grid) or "cloud" (gaussian ball).
	Shape       string  `yaml:"shape"`
	Spacing     float64 `yaml:"spacing"`
	Radius      float64 `yaml:"radius"`
	Temperature float64 `yaml:"temperature"`
}

// CoolingConfig sets up a pair of counter-propagating red-detuned beams
// along x.
type CoolingConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Gamma    float64 `yaml:"gamma"`
	HbarK    float64 `yaml:"hbar_k"`
	S0       float64 `yaml:"s0"`
	Detuning float64 `yaml:"detuning"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:        DefaultDt,
		Steps:     DefaultSteps,
		Particles: DefaultParticles,
		Mass:      DefaultMass,
		Charge:    DefaultCharge,
		Delta:     DefaultDelta,
		InitState: InitStateConfig{
			Shape:       "cloud",
			Spacing:     DefaultSpacing,
			Radius:      DefaultRadius,
			Temperature: DefaultTemp,
		},
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

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Particles < 0 {
		return fmt.Errorf("particles must be non-negative, got %d", c.Particles)
	}
	if c.Delta < 0 {
		return fmt.Errorf("delta must be non-negative, got %g", c.Delta)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %g", c.Mass)
	}
	return nil
}

// GetInitEnsemble builds the starting ensemble: particles on a cubic
// lattice or in a gaussian cloud, with thermal velocities drawn for the
// configured temperature.
func (c *Config) GetInitEnsemble() *ensemble.Ensemble {
	ens := ensemble.New(c.Particles)
	ens.Properties["mass"] = c.Mass
	ens.Properties["charge"] = c.Charge

	rng := rand.New(rand.NewSource(c.Seed))

	switch c.InitState.Shape {
	case "lattice":
		side := int(math.Ceil(math.Cbrt(float64(c.Particles))))
		for i := 0; i < c.Particles; i++ {
			ix := i % side
			iy := i / side % side
			iz := i / (side * side)
			ens.X[3*i] = float64(ix) * c.InitState.Spacing
			ens.X[3*i+1] = float64(iy) * c.InitState.Spacing
			ens.X[3*i+2] = float64(iz) * c.InitState.Spacing
		}
	default: // cloud
		for i := 0; i < 3*c.Particles; i++ {
			ens.X[i] = rng.NormFloat64() * c.InitState.Radius
		}
	}

	if c.InitState.Temperature > 0 {
		sigma := math.Sqrt(metrics.Boltzmann * c.InitState.Temperature / c.Mass)
		for i := range ens.V {
			ens.V[i] = rng.NormFloat64() * sigma
		}
	}
	return ens
}
