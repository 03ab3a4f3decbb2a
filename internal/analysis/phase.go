package analysis

import (
	"math"
	"strings"
)

// axis maps one coordinate onto cells 0..cells-1 with 10% margin each side.
type axis struct {
	lo, span float64
	cells    int
}

func newAxis(vs []float64, cells int) axis {
	lo, hi := vs[0], vs[0]
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return axis{lo: lo - span*0.1, span: span * 1.2, cells: cells}
}

func (a axis) cell(v float64) int {
	return int((v - a.lo) / a.span * float64(a.cells-1))
}

// TrajectoryToASCII plots a path in screen orientation (y grows downward).
// The first sample is marked 'o'.
func TrajectoryToASCII(xs, ys []float64, width, height int) string {
	n := min(len(xs), len(ys))
	if n == 0 || width < 2 || height < 2 {
		return ""
	}
	xs, ys = xs[:n], ys[:n]
	ax, ay := newAxis(xs, width), newAxis(ys, height)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	for i := n - 1; i >= 0; i-- {
		mark := '•'
		if i == 0 {
			mark = 'o'
		}
		grid[ay.cell(ys[i])][ax.cell(xs[i])] = mark
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
