package sim

import (
	"fmt"

	"github.com/san-kum/linksim/internal/pbd"
)

// Frame holds the positions of the tracked particles at one instant.
type Frame []pbd.Vec2

func (f Frame) Clone() Frame {
	c := make(Frame, len(f))
	copy(c, f)
	return c
}

// IsValid reports whether every position is finite.
func (f Frame) IsValid() bool {
	for _, p := range f {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(w *pbd.World)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, w *pbd.World)
}

// Hook runs before a step and may act on the world the way a host would
// (drag, pin, unpin). An error aborts the run.
type Hook interface {
	BeforeStep(step int, w *pbd.World) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(step int, w *pbd.World) error

func (f HookFunc) BeforeStep(step int, w *pbd.World) error { return f(step, w) }

type Config struct {
	Steps         int
	Track         []int
	ValidateState bool
	// Bound flags positions farther than this from the origin as diverged.
	// Zero disables the check.
	Bound float64
}

func DefaultConfig() Config {
	return Config{
		Steps:         600,
		ValidateState: true,
		Bound:         1e6,
	}
}

type Result struct {
	Track      []int
	Frames     []Frame
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Series returns the x and y history of the n-th tracked particle.
func (r *Result) Series(n int) (xs, ys []float64) {
	xs = make([]float64, 0, len(r.Frames))
	ys = make([]float64, 0, len(r.Frames))
	for _, f := range r.Frames {
		if n < len(f) {
			xs = append(xs, f[n].X)
			ys = append(ys, f[n].Y)
		}
	}
	return xs, ys
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
