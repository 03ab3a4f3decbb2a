package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/linksim/internal/config"
	"github.com/san-kum/linksim/internal/metrics"
	"github.com/san-kum/linksim/internal/pbd"
	"github.com/san-kum/linksim/internal/sim"
	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("automation: unknown action")

const (
	ActionTeleport    = "teleport"
	ActionToggleFixed = "toggle_fixed"
	ActionSetMobility = "set_mobility"
)

// Scenario is a scripted run: a world description plus host actions applied
// at given steps, and optionally a tengo program run before every step.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Preset      string    `yaml:"preset"`
	Config      yaml.Node `yaml:"config"`
	Steps       int       `yaml:"steps"`
	Events      []Event   `yaml:"events"`
	Script      string    `yaml:"script"`
}

// Event is applied before the step with the same number.
type Event struct {
	Step     int     `yaml:"step"`
	Action   string  `yaml:"action"`
	Index    int     `yaml:"index"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Mobility string  `yaml:"mobility"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	for i, ev := range sc.Events {
		if err := ev.validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	if sc.Script != "" {
		if _, err := CompileProgram(sc.Script); err != nil {
			return nil, err
		}
	}
	return &sc, nil
}

// Scripted reports whether the scenario changes the world while it runs, so
// its config alone does not reproduce the run.
func (sc *Scenario) Scripted() bool { return len(sc.Events) > 0 || sc.Script != "" }

func (ev Event) validate() error {
	if ev.Step < 0 {
		return fmt.Errorf("step must not be negative, got %d", ev.Step)
	}
	switch ev.Action {
	case ActionTeleport, ActionToggleFixed:
		return nil
	case ActionSetMobility:
		_, err := pbd.ParseMobility(ev.Mobility)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, ev.Action)
}

// Apply performs the event on w.
func (ev Event) Apply(w *pbd.World) error {
	switch ev.Action {
	case ActionTeleport:
		return w.Teleport(ev.Index, ev.X, ev.Y)
	case ActionToggleFixed:
		return w.ToggleFixed(ev.Index)
	case ActionSetMobility:
		m, err := pbd.ParseMobility(ev.Mobility)
		if err != nil {
			return err
		}
		return w.SetMobility(ev.Index, m)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, ev.Action)
}

// Resolve returns the scenario's config: the named preset (or the defaults of
// a config file) with the inline config decoded on top.
func (sc *Scenario) Resolve() (*config.Config, error) {
	cfg := config.FileDefaults()
	if sc.Preset != "" {
		cfg = config.GetPreset(sc.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("preset not found: %s", sc.Preset)
		}
	}
	if !sc.Config.IsZero() {
		if err := sc.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("scenario config: %w", err)
		}
	}
	if sc.Steps > 0 {
		cfg.Steps = sc.Steps
	}
	if sc.Name != "" {
		cfg.Name = sc.Name
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Script replays events as a runner hook.
type Script struct {
	events []Event
	next   int
}

func NewScript(events []Event) *Script {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Step < sorted[j].Step })
	return &Script{events: sorted}
}

func (s *Script) BeforeStep(step int, w *pbd.World) error {
	for s.next < len(s.events) && s.events[s.next].Step <= step {
		ev := s.events[s.next]
		s.next++
		if err := ev.Apply(w); err != nil {
			return fmt.Errorf("%s %d: %w", ev.Action, ev.Index, err)
		}
	}
	return nil
}

// Pending is the number of events not yet applied.
func (s *Script) Pending() int { return len(s.events) - s.next }

// RunScenario builds the scenario's world and runs it with its events.
func RunScenario(ctx context.Context, sc *Scenario) (*sim.Result, *config.Config, error) {
	cfg, err := sc.Resolve()
	if err != nil {
		return nil, nil, err
	}

	w, err := cfg.NewWorld()
	if err != nil {
		return nil, cfg, err
	}

	r := sim.New(w)
	r.AddHook(NewScript(sc.Events))
	if sc.Script != "" {
		prog, err := CompileProgram(sc.Script)
		if err != nil {
			return nil, cfg, err
		}
		r.AddHook(prog)
	}
	r.AddMetric(metrics.NewStretch())
	r.AddMetric(metrics.NewKineticEnergy())

	simCfg := sim.DefaultConfig()
	simCfg.Steps = cfg.Steps
	simCfg.Track = cfg.TrackedParticles(w)

	result, err := r.Run(ctx, simCfg)
	return result, cfg, err
}

const (
	ParamIterations = "iterations"
	ParamDamping    = "damping"
	ParamGravity    = "gravity"
)

// ParameterSweep varies one physics parameter over [Min, Max].
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

type SweepResult struct {
	ParamValue   float64
	MaxStretch   float64
	FinalStretch float64
	MeanKinetic  float64
	Stable       bool
}

// Values returns the NumSteps evenly spaced parameter values.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	vals := make([]float64, s.NumSteps)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

func applyParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case ParamIterations:
		cfg.Physics.Iterations = int(math.Round(v))
	case ParamDamping:
		cfg.Physics.Damping = v
	case ParamGravity:
		cfg.Physics.Gravity = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep runs one world per parameter value in parallel.
func RunSweep(ctx context.Context, base *config.Config, sweep *ParameterSweep) ([]SweepResult, error) {
	if err := applyParam(base.Clone(), sweep.Param, sweep.Min); err != nil {
		return nil, err
	}

	vals := sweep.Values()
	stretch := make([]*metrics.Stretch, len(vals))

	ens := sim.NewEnsemble(func(i int) (*sim.Runner, error) {
		cfg := base.Clone()
		if err := applyParam(cfg, sweep.Param, vals[i]); err != nil {
			return nil, err
		}
		w, err := cfg.NewWorld()
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, vals[i], err)
		}
		r := sim.New(w)
		stretch[i] = metrics.NewStretch()
		r.AddMetric(stretch[i])
		r.AddMetric(metrics.NewKineticEnergy())
		return r, nil
	}, len(vals))

	simCfg := sim.DefaultConfig()
	simCfg.Steps = base.Steps

	runs, err := ens.Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(vals))
	for i, res := range runs {
		results[i] = SweepResult{
			ParamValue:   vals[i],
			MaxStretch:   res.Metrics["max_stretch"],
			FinalStretch: stretch[i].Last(),
			MeanKinetic:  res.Metrics["kinetic_energy"],
			Stable:       len(res.Errors) == 0,
		}
	}
	return results, nil
}

// DefaultCoherence is the noise wavelength, in world units, of coherent
// perturbations.
const DefaultCoherence = 50.0

// MonteCarloConfig jitters the free particles of a scene before each trial
// to check that the solver pulls the structure back together. Offsets are
// uniform per particle, or with Coherent set, sampled from a Perlin field so
// that neighbouring particles move together.
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Threshold    float64
	Seed         int64
	Coherent     bool
	Coherence    float64
}

type MonteCarloResult struct {
	TrialID      int
	InitStretch  float64
	FinalStretch float64
	Stable       bool
}

func RunMonteCarlo(ctx context.Context, base *config.Config, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	if mc.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", mc.NumTrials)
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Offsets are drawn up front so results do not depend on goroutine order.
	probe, err := base.NewWorld()
	if err != nil {
		return nil, err
	}
	offsets := drawOffsets(probe, mc, seed)

	initial := make([]float64, mc.NumTrials)
	stretch := make([]*metrics.Stretch, mc.NumTrials)

	ens := sim.NewEnsemble(func(t int) (*sim.Runner, error) {
		w, err := base.NewWorld()
		if err != nil {
			return nil, err
		}
		for i := 0; i < w.ParticleCount(); i++ {
			p, _ := w.Particle(i)
			if p.Mobility != pbd.Free {
				continue
			}
			pos := p.Pos.Add(offsets[t][i])
			if err := w.Teleport(i, pos.X, pos.Y); err != nil {
				return nil, err
			}
		}
		initial[t] = metrics.MaxStretch(w)
		r := sim.New(w)
		stretch[t] = metrics.NewStretch()
		r.AddMetric(stretch[t])
		return r, nil
	}, mc.NumTrials)

	simCfg := sim.DefaultConfig()
	simCfg.Steps = base.Steps

	runs, err := ens.Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, mc.NumTrials)
	for t, res := range runs {
		final := stretch[t].Last()
		results[t] = MonteCarloResult{
			TrialID:      t,
			InitStretch:  initial[t],
			FinalStretch: final,
			Stable:       len(res.Errors) == 0 && final <= mc.Threshold,
		}
	}
	return results, nil
}

func drawOffsets(w *pbd.World, mc *MonteCarloConfig, seed int64) [][]pbd.Vec2 {
	rng := rand.New(rand.NewSource(seed))
	n := w.ParticleCount()

	var noise *perlin.Perlin
	scale := mc.Coherence
	if mc.Coherent {
		noise = perlin.NewPerlin(2, 2, 3, seed)
		if scale <= 0 {
			scale = DefaultCoherence
		}
	}

	offsets := make([][]pbd.Vec2, mc.NumTrials)
	for t := range offsets {
		offsets[t] = make([]pbd.Vec2, n)
		if noise == nil {
			for i := range offsets[t] {
				offsets[t][i] = pbd.Vec2{
					X: (rng.Float64() - 0.5) * 2 * mc.Perturbation,
					Y: (rng.Float64() - 0.5) * 2 * mc.Perturbation,
				}
			}
			continue
		}

		// each trial samples its own window of the field
		ox, oy := rng.Float64()*1000, rng.Float64()*1000
		for i := range offsets[t] {
			p, _ := w.Position(i)
			x, y := p.X/scale, p.Y/scale
			offsets[t][i] = pbd.Vec2{
				X: unit(noise.Noise2D(x+ox, y+oy)) * mc.Perturbation,
				Y: unit(noise.Noise2D(x+oy+31.7, y+ox+17.3)) * mc.Perturbation,
			}
		}
	}
	return offsets
}

func unit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
