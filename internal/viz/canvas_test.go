package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	if got := c.Cell(0, 0); got != 0x2801 {
		t.Errorf("expected ⠁, got %U", got)
	}
	if got := c.Cell(1, 0); got != 0x2880 {
		t.Errorf("expected ⢀, got %U", got)
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if got := c.Cell(0, 0); got != brailleBlank {
		t.Errorf("expected blank after clear, got %U", got)
	}

	// off-canvas writes are ignored
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.IsSet(-1, 0) {
		t.Error("negative coordinates reported as set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"horizontal", 0, 0, 7, 0, 8},
		{"vertical", 1, 0, 1, 7, 8},
		{"diagonal", 0, 0, 7, 7, 8},
		{"point", 2, 2, 2, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 2)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)
			if got := countDots(c); got != tt.want {
				t.Errorf("expected %d dots, got %d", tt.want, got)
			}
			if !c.IsSet(tt.x0, tt.y0) || !c.IsSet(tt.x1, tt.y1) {
				t.Error("line misses an endpoint")
			}
		})
	}
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Fill(5, 5, 1)
	if got := countDots(c); got != 9 {
		t.Errorf("fill: expected 9 dots, got %d", got)
	}

	c.Clear()
	c.Box(5, 5, 2)
	if got := countDots(c); got != 16 {
		t.Errorf("box: expected 16 dots, got %d", got)
	}
	if c.IsSet(5, 5) {
		t.Error("box centre should be empty")
	}

	c.Clear()
	c.Cross(5, 5, 2)
	if got := countDots(c); got != 9 {
		t.Errorf("cross: expected 9 dots, got %d", got)
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "⠀⠀⠀" {
		t.Errorf("unexpected row %q", lines[0])
	}
}

func countDots(c *Canvas) int {
	n := 0
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if c.IsSet(x, y) {
				n++
			}
		}
	}
	return n
}
