package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/linksim/internal/pbd"
)

// Runner steps one world headlessly, feeding metrics and observers and
// recording the tracked particles after every step.
type Runner struct {
	world     *pbd.World
	metrics   []Metric
	observers []Observer
	hooks     []Hook
	scratch   []pbd.Vec2
}

func New(w *pbd.World) *Runner {
	return &Runner{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		hooks:     make([]Hook, 0),
	}
}

func (r *Runner) World() *pbd.World { return r.world }

func (r *Runner) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) AddHook(h Hook) { r.hooks = append(r.hooks, h) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	w := r.world
	result := &Result{
		Track:   append([]int(nil), cfg.Track...),
		Frames:  make([]Frame, 0, cfg.Steps+1),
		Times:   make([]float64, 0, cfg.Steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	r.record(result, cfg)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, h := range r.hooks {
			if err := h.BeforeStep(i, w); err != nil {
				return result, fmt.Errorf("step %d: %w", i, err)
			}
		}

		w.Step()
		result.StepsTaken++

		for _, m := range r.metrics {
			m.Observe(w)
		}
		for _, obs := range r.observers {
			obs.OnStep(i, w)
		}

		if cfg.ValidateState {
			if msg := r.checkState(cfg.Bound); msg != "" {
				result.Errors = append(result.Errors, SimError{Time: w.Elapsed(), Step: i, Message: msg})
				break
			}
		}

		r.record(result, cfg)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.Bound < 0 {
		return fmt.Errorf("bound must not be negative, got %f", cfg.Bound)
	}
	for _, i := range cfg.Track {
		if _, err := r.world.Position(i); err != nil {
			return fmt.Errorf("track: %w", err)
		}
	}
	return nil
}

func (r *Runner) record(result *Result, cfg Config) {
	f := make(Frame, len(cfg.Track))
	for n, i := range cfg.Track {
		// Indices were validated and worlds never shrink mid-run unless a hook clears them.
		if p, err := r.world.Position(i); err == nil {
			f[n] = p
		}
	}
	result.Frames = append(result.Frames, f)
	result.Times = append(result.Times, r.world.Elapsed())
}

func (r *Runner) checkState(bound float64) string {
	r.scratch = r.world.Positions(r.scratch[:0])
	for i, p := range r.scratch {
		if !p.IsFinite() {
			return fmt.Sprintf("particle %d is not finite", i)
		}
		if bound > 0 && p.Len() > bound {
			return fmt.Sprintf("particle %d diverged to %v", i, p)
		}
	}
	return ""
}

// RunWithCallback steps until the callback returns false, the context ends
// or cfg.Steps is reached.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(step int, w *pbd.World) bool) error {
	if err := r.validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(i, r.world) {
			return nil
		}

		r.world.Step()

		if cfg.ValidateState {
			if msg := r.checkState(cfg.Bound); msg != "" {
				return SimError{Time: r.world.Elapsed(), Step: i, Message: msg}
			}
		}
	}

	return nil
}
