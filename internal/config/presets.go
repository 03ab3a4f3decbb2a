package config

import (
	"sort"

	"github.com/san-kum/linksim/internal/pbd"
	"github.com/san-kum/linksim/internal/scene"
)

func physics(iterations int, floor bool) PhysicsConfig {
	p := PhysicsConfig{
		Gravity:    pbd.DefaultGravity,
		Damping:    pbd.DefaultDamping,
		Iterations: iterations,
		TimeStep:   pbd.DefaultTimeStep,
	}
	if floor {
		p.FloorY = FloorAt(pbd.EditorFloorY)
	}
	return p
}

var Presets = map[string]*Config{
	"editor": {
		Name: "editor", Steps: 600,
		Physics: physics(pbd.DefaultIterations, true),
		Scene: scene.Scene{
			Kind: scene.KindCustom,
			Particles: []scene.ParticleSpec{
				{X: 380, Y: 200}, {X: 440, Y: 200}, {X: 440, Y: 260}, {X: 380, Y: 260},
				{X: 200, Y: 80, Mobility: "fixed"}, {X: 240, Y: 80}, {X: 280, Y: 80},
			},
			Links: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}, {4, 5}, {5, 6}},
		},
	},
	"rope": {
		Name: "rope", Steps: 600, Track: []int{19},
		Physics: physics(pbd.DefaultIterations, true),
		Scene:   scene.Scene{Kind: scene.KindRope, Origin: scene.Point{X: 300, Y: 100}, Count: 20, Spacing: 15},
	},
	"cloth": {
		Name: "cloth", Steps: 400,
		Physics: physics(pbd.DefaultIterations, true),
		Scene: scene.Scene{
			Kind: scene.KindCloth, Origin: scene.Point{X: 150, Y: 60},
			Cols: 24, Rows: 14, Spacing: 15, PinEvery: 4,
		},
	},
	"crank": {
		Name: "crank", Steps: 720, Track: []int{2, 3},
		Physics: physics(pbd.LinkageIterations, false),
		Scene:   scene.Scene{Kind: scene.KindCrank, Origin: scene.Point{X: 200, Y: 300}},
	},
	"pendulum": {
		Name: "pendulum", Steps: 600, Track: []int{1},
		Physics: physics(pbd.DefaultIterations, false),
		Scene:   scene.Scene{Kind: scene.KindPendulum, Origin: scene.Point{X: 300, Y: 100}, Radius: 150},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
