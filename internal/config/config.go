package config

import (
	"fmt"
	"os"

	"github.com/san-kum/linksim/internal/pbd"
	"github.com/san-kum/linksim/internal/scene"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSteps = 600
	DefaultName  = "editor"
)

type Config struct {
	Name    string        `yaml:"name"`
	Steps   int           `yaml:"steps"`
	Track   []int         `yaml:"track,omitempty"`
	Physics PhysicsConfig `yaml:"physics"`
	Scene   scene.Scene   `yaml:"scene"`
}

type PhysicsConfig struct {
	Gravity    float64 `yaml:"gravity"`
	Damping    float64 `yaml:"damping"`
	Iterations int     `yaml:"iterations"`
	TimeStep   float64 `yaml:"time_step"`
	// FloorY places an inelastic floor; nil means no floor.
	FloorY *float64 `yaml:"floor_y,omitempty"`
}

// FloorAt returns a floor height for PhysicsConfig.FloorY.
func FloorAt(y float64) *float64 { return &y }

func (p PhysicsConfig) HasFloor() bool { return p.FloorY != nil }

// DefaultConfig matches the interactive editor: default physics with the
// floor at the bottom of a 600-pixel canvas.
func DefaultConfig() *Config {
	return &Config{
		Name:  DefaultName,
		Steps: DefaultSteps,
		Physics: PhysicsConfig{
			Gravity:    pbd.DefaultGravity,
			Damping:    pbd.DefaultDamping,
			Iterations: pbd.DefaultIterations,
			TimeStep:   pbd.DefaultTimeStep,
			FloorY:     FloorAt(pbd.EditorFloorY),
		},
		Scene: scene.Scene{Kind: scene.KindCustom},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// FileDefaults is the base a config file is decoded onto: DefaultConfig
// without its floor, so a file that omits floor_y has none.
func FileDefaults() *Config {
	cfg := DefaultConfig()
	cfg.Physics.FloorY = nil
	return cfg
}

// Parse decodes YAML on top of FileDefaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := FileDefaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg in the format Parse reads.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) Params() pbd.Params {
	p := pbd.Params{
		Gravity:    c.Physics.Gravity,
		Damping:    c.Physics.Damping,
		Iterations: c.Physics.Iterations,
		TimeStep:   c.Physics.TimeStep,
	}
	if c.Physics.FloorY != nil {
		p = p.WithFloor(*c.Physics.FloorY)
	}
	return p
}

// NewWorld builds a world with the configured physics and scene.
func (c *Config) NewWorld() (*pbd.World, error) {
	w, err := pbd.NewWorld(c.Params())
	if err != nil {
		return nil, err
	}
	if err := c.Scene.Build(w); err != nil {
		return nil, err
	}
	return w, nil
}

// TrackedParticles returns the configured indices, or every particle of w
// when none are configured.
func (c *Config) TrackedParticles(w *pbd.World) []int {
	if len(c.Track) > 0 {
		return append([]int(nil), c.Track...)
	}
	all := make([]int, w.ParticleCount())
	for i := range all {
		all[i] = i
	}
	return all
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Track = append([]int(nil), c.Track...)
	if c.Physics.FloorY != nil {
		cp.Physics.FloorY = FloorAt(*c.Physics.FloorY)
	}
	cp.Scene.Particles = append([]scene.ParticleSpec(nil), c.Scene.Particles...)
	cp.Scene.Links = append([][2]int(nil), c.Scene.Links...)
	cp.Scene.Drivers = append([]scene.DriverSpec(nil), c.Scene.Drivers...)
	return &cp
}
