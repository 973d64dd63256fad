package export

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// Marker is a labelled point drawn on top of a trajectory.
type Marker struct {
	X, Y  float64
	Color string
}

// TrajectoryToSVG draws a path with a start marker and any extra markers,
// scaled to the bounding box of everything drawn plus 10% padding.
func TrajectoryToSVG(xs, ys []float64, width, height int, strokeColor string, markers ...Marker) string {
	n := min(len(xs), len(ys))
	if n == 0 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < n; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	for _, m := range markers {
		minX, maxX = math.Min(minX, m.X), math.Max(maxX, m.X)
		minY, maxY = math.Min(minY, m.Y), math.Max(maxY, m.Y)
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
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(x, y float64) (float64, float64) {
		return (x - minX) / rangeX * float64(width),
			float64(height) - (y-minY)/rangeY*float64(height)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := 0; i < n; i++ {
		x, y := project(xs[i], ys[i])
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	sx, sy := project(xs[0], ys[0])
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="#ffffff"/>`+"\n", sx, sy)
	for _, m := range markers {
		mx, my := project(m.X, m.Y)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>`+"\n", mx, my, m.Color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
