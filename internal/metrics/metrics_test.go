package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/linksim/internal/pbd"
)

func newWorld(t *testing.T) *pbd.World {
	t.Helper()
	w, err := pbd.NewWorld(pbd.DefaultParams())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func TestMaxStretch(t *testing.T) {
	w := newWorld(t)
	a := w.AddParticle(0, 0, pbd.Fixed)
	b := w.AddParticle(10, 0, pbd.Free)
	c := w.AddParticle(20, 0, pbd.Free)
	for _, l := range [][2]int{{a, b}, {b, c}} {
		if err := w.AddConstraint(l[0], l[1]); err != nil {
			t.Fatal(err)
		}
	}

	if got := MaxStretch(w); got != 0 {
		t.Errorf("expected zero stretch at rest, got %f", got)
	}

	if err := w.Teleport(c, 23, 4); err != nil {
		t.Fatal(err)
	}
	// |(23,4)-(10,0)| = sqrt(169+16)
	want := math.Sqrt(185) - 10
	if got := MaxStretch(w); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected stretch %f, got %f", want, got)
	}
}

func TestStretchMetric(t *testing.T) {
	w := newWorld(t)
	a := w.AddParticle(0, 0, pbd.Fixed)
	b := w.AddParticle(10, 0, pbd.Free)
	if err := w.AddConstraint(a, b); err != nil {
		t.Fatal(err)
	}

	m := NewStretch()
	if m.Name() != "max_stretch" {
		t.Errorf("unexpected name %q", m.Name())
	}

	_ = w.Teleport(b, 15, 0)
	m.Observe(w)
	_ = w.Teleport(b, 11, 0)
	m.Observe(w)

	if got := m.Value(); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected worst stretch 5, got %f", got)
	}
	if got := m.Last(); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected last stretch 1, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 || m.Last() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestKineticEnergy(t *testing.T) {
	w := newWorld(t)
	w.AddParticle(0, 0, pbd.Free)
	w.AddParticle(50, 0, pbd.Fixed)

	m := NewKineticEnergy()
	m.Observe(w)
	if m.Value() != 0 {
		t.Errorf("expected zero energy at rest, got %f", m.Value())
	}

	w.Step()
	// one step from rest moves the free particle by gravity
	want := 0.5 * pbd.DefaultGravity * pbd.DefaultGravity
	if got := Kinetic(w); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected kinetic %f, got %f", want, got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
	m.Observe(w)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected mean %f, got %f", want, m.Value())
	}
}

func TestStability(t *testing.T) {
	w := newWorld(t)
	a := w.AddParticle(0, 0, pbd.Fixed)
	b := w.AddParticle(10, 0, pbd.Free)
	if err := w.AddConstraint(a, b); err != nil {
		t.Fatal(err)
	}

	s := NewStability(1.0)
	if s.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", s.Value())
	}

	s.Observe(w)
	_ = w.Teleport(b, 20, 0)
	s.Observe(w)

	if got := s.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}

	_ = w.Teleport(b, 10, 0)
	s.Observe(w)
	s.Observe(w)
	if s.Longest() != 2 {
		t.Errorf("expected longest streak 2, got %d", s.Longest())
	}

	s.Reset()
	if s.Value() != 1.0 {
		t.Error("expected 1.0 after reset")
	}
}

func TestTravel(t *testing.T) {
	w := newWorld(t)
	p := w.AddParticle(0, 0, pbd.Fixed)

	m := NewTravel(p)
	if m.Name() != "travel_0" {
		t.Errorf("unexpected name %q", m.Name())
	}

	m.Observe(w)
	_ = w.Teleport(p, 3, 4)
	m.Observe(w)
	_ = w.Teleport(p, 3, 0)
	m.Observe(w)

	if got := m.Value(); got != 9 {
		t.Errorf("expected travel 9, got %f", got)
	}

	missing := NewTravel(7)
	missing.Observe(w)
	if missing.Value() != 0 {
		t.Error("expected no travel for missing particle")
	}
}
