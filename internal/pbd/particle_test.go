package pbd

import (
	"errors"
	"testing"
)

func TestParticleStore_AddSequential(t *testing.T) {
	var s ParticleStore
	for want := 0; want < 4; want++ {
		if got := s.Add(Vec2{float64(want), 0}, Free); got != want {
			t.Errorf("Add returned %d, want %d", got, want)
		}
	}
	if s.Len() != 4 {
		t.Errorf("expected 4 particles, got %d", s.Len())
	}

	p, err := s.Get(2)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if p.Pos != p.Prev {
		t.Errorf("new particle should be at rest, pos %v prev %v", p.Pos, p.Prev)
	}
}

func TestParticleStore_Teleport(t *testing.T) {
	var s ParticleStore
	i := s.Add(Vec2{0, 0}, Free)
	s.items[i].Pos = Vec2{5, 5}

	if err := s.Teleport(i, Vec2{40, -3}); err != nil {
		t.Fatalf("teleport failed: %v", err)
	}
	p, _ := s.Get(i)
	if p.Pos != (Vec2{40, -3}) || p.Prev != (Vec2{40, -3}) {
		t.Errorf("teleport left pos %v prev %v", p.Pos, p.Prev)
	}
	if v := p.Velocity(); v != (Vec2{}) {
		t.Errorf("expected zero velocity, got %v", v)
	}
}

func TestParticleStore_OutOfRange(t *testing.T) {
	var s ParticleStore
	s.Add(Vec2{}, Free)

	tests := []struct {
		name string
		call func() error
	}{
		{"get negative", func() error { _, err := s.Get(-1); return err }},
		{"get past end", func() error { _, err := s.Get(1); return err }},
		{"position", func() error { _, err := s.Position(7); return err }},
		{"mobility", func() error { _, err := s.Mobility(1); return err }},
		{"set mobility", func() error { return s.SetMobility(1, Fixed) }},
		{"teleport", func() error { return s.Teleport(-2, Vec2{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
			var ie *IndexError
			if !errors.As(err, &ie) {
				t.Errorf("expected *IndexError, got %T", err)
			}
		})
	}
}

func TestParticleStore_Clear(t *testing.T) {
	var s ParticleStore
	s.Add(Vec2{}, Free)
	s.Add(Vec2{}, Fixed)
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
	if got := s.Add(Vec2{}, Free); got != 0 {
		t.Errorf("indices should restart at 0, got %d", got)
	}
}

func TestParseMobility(t *testing.T) {
	tests := []struct {
		in      string
		want    Mobility
		wantErr bool
	}{
		{"", Free, false},
		{"free", Free, false},
		{"Fixed", Fixed, false},
		{"pinned", Fixed, false},
		{" kinematic ", Kinematic, false},
		{"driven", Kinematic, false},
		{"sticky", Free, true},
	}

	for _, tt := range tests {
		got, err := ParseMobility(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMobility(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMobility(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, m := range []Mobility{Free, Fixed, Kinematic} {
		back, err := ParseMobility(m.String())
		if err != nil || back != m {
			t.Errorf("String/Parse mismatch for %v: %v, %v", m, back, err)
		}
	}
}
