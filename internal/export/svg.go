package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/linksim/internal/pbd"
	"github.com/san-kum/linksim/internal/viz"
)

const background = "#0a0a0a"

var mobilityColor = map[pbd.Mobility]string{
	pbd.Free:      "#00ccff",
	pbd.Fixed:     "#ff4444",
	pbd.Kinematic: "#ffcc00",
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// frame maps world points into a width x height image with 10% padding,
// keeping the aspect ratio and y pointing down.
type frame struct {
	minX, minY, scale, offX, offY float64
}

func fit(points []pbd.Vec2, width, height int) frame {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	return frame{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  (float64(width) - rangeX*scale) / 2,
		offY:  (float64(height) - rangeY*scale) / 2,
	}
}

func (f frame) apply(p pbd.Vec2) (float64, float64) {
	return (p.X-f.minX)*f.scale + f.offX, (p.Y-f.minY)*f.scale + f.offY
}

// TrajectoryToSVG draws a particle's path as a single polyline.
func TrajectoryToSVG(points []pbd.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	f := fit(points, width, height)

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range points {
		x, y := f.apply(p)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WorldToSVG draws every link as a line and every particle as a circle
// coloured by mobility. paths, if given, are drawn underneath as polylines.
func WorldToSVG(w *pbd.World, width, height int, paths ...[]pbd.Vec2) string {
	points := w.Positions(nil)
	for _, p := range paths {
		points = append(points, p...)
	}
	if len(points) == 0 {
		return ""
	}

	f := fit(points, width, height)

	var sb strings.Builder
	header(&sb, width, height)

	for _, path := range paths {
		if len(path) < 2 {
			continue
		}
		sb.WriteString(`<polyline fill="none" stroke="#444466" stroke-width="1" points="`)
		for i, p := range path {
			x, y := f.apply(p)
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("<g stroke=\"#cccccc\" stroke-width=\"2\">\n")
	w.EachConstraint(func(k int, c pbd.Constraint) {
		a, errA := w.Position(c.I)
		b, errB := w.Position(c.J)
		if errA != nil || errB != nil {
			return
		}
		x1, y1 := f.apply(a)
		x2, y2 := f.apply(b)
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n", x1, y1, x2, y2)
	})
	sb.WriteString("</g>\n")

	w.EachParticle(func(i int, p pbd.Particle) {
		x, y := f.apply(p.Pos)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", x, y, mobilityColor[p.Mobility])
	})

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.SubWidth()) * scale)
	height := int(float64(canvas.SubHeight()) * scale)
	dotRadius := scale * 0.4

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
