package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultGravityConstant   = integrators.DefaultGravityConstant
	DefaultTickSpeed         = integrators.DefaultTickSpeed
	DefaultScaleFactor       = 2.0
	DefaultParallelThreshold = integrators.DefaultParallelThreshold
	DefaultFrameRate         = 30
	DefaultTheme             = "cyberpunk"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	GravityConstant   float64      `yaml:"gravity_constant"`
	TickSpeed         int          `yaml:"tick_speed"`
	ScaleFactor       float64      `yaml:"scale_factor"`
	Workers           int          `yaml:"workers"`
	ParallelThreshold int          `yaml:"parallel_threshold"`
	ZeroDistance      string       `yaml:"zero_distance"`
	ValidateMass      bool         `yaml:"validate_mass"`
	FrameRate         int          `yaml:"frame_rate"`
	Theme             string       `yaml:"theme"`
	Bodies            []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Mass float64    `yaml:"mass"`
	Pos  [2]float64 `yaml:"pos,flow"`
	Vel  [2]float64 `yaml:"vel,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		GravityConstant:   DefaultGravityConstant,
		TickSpeed:         DefaultTickSpeed,
		ScaleFactor:       DefaultScaleFactor,
		ParallelThreshold: DefaultParallelThreshold,
		ZeroDistance:      integrators.Propagate.String(),
		FrameRate:         DefaultFrameRate,
		Theme:             DefaultTheme,
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
	if err := cfg.Validate(); err != nil {
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
	if math.IsNaN(c.GravityConstant) || math.IsInf(c.GravityConstant, 0) {
		return fmt.Errorf("%w: gravity_constant must be finite, got %v", ErrInvalidConfig, c.GravityConstant)
	}
	if c.TickSpeed < 1 {
		return fmt.Errorf("%w: tick_speed must be at least 1ms, got %d", ErrInvalidConfig, c.TickSpeed)
	}
	if c.FrameRate < 1 {
		return fmt.Errorf("%w: frame_rate must be positive, got %d", ErrInvalidConfig, c.FrameRate)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("%w: parallel_threshold must not be negative, got %d", ErrInvalidConfig, c.ParallelThreshold)
	}
	if _, err := integrators.ParsePolicy(c.ZeroDistance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ValidateMass {
		for i, b := range c.Bodies {
			if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
				return fmt.Errorf("%w: body %d has non-positive mass %v", ErrInvalidConfig, i, b.Mass)
			}
		}
	}
	return nil
}

// Gravity builds the integrator described by the configuration.
func (c *Config) Gravity() (*integrators.Gravity, error) {
	policy, err := integrators.ParsePolicy(c.ZeroDistance)
	if err != nil {
		return nil, err
	}
	g := integrators.NewGravity(c.GravityConstant, c.TickSpeed)
	g.Policy = policy
	g.Workers = c.Workers
	g.ParallelThreshold = c.ParallelThreshold
	return g, nil
}

func (c *Config) InitialBodies() []physics.Body {
	bodies := make([]physics.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		bodies[i] = b.Body()
	}
	return bodies
}

func (b BodyConfig) Body() physics.Body {
	return physics.NewBody(
		physics.Vec2{X: b.Pos[0], Y: b.Pos[1]},
		physics.Vec2{X: b.Vel[0], Y: b.Vel[1]},
		b.Mass,
	)
}
