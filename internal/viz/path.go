package viz

import "math"

const (
	StartGlyph = 'o'
	EndGlyph   = 'x'
	LightGlyph = '*'
)

// PathOptions controls RenderPath. Light is drawn when HasLight is set.
type PathOptions struct {
	Width    int
	Height   int
	HasLight bool
	LightX   float64
	LightY   float64
}

// RenderPath draws a trajectory on a braille canvas scaled to the bounding
// box of the path (and light). North is up.
func RenderPath(xs, ys []float64, opts PathOptions) string {
	w, h := max(opts.Width, 1), max(opts.Height, 1)
	c := NewCanvas(w, h)
	n := min(len(xs), len(ys))
	if n == 0 {
		return c.String()
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < n; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	if opts.HasLight {
		minX, maxX = math.Min(minX, opts.LightX), math.Max(maxX, opts.LightX)
		minY, maxY = math.Min(minY, opts.LightY), math.Max(maxY, opts.LightY)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	pw, ph := w*2-1, h*4-1
	project := func(x, y float64) (int, int) {
		px := int(math.Round((x - minX) / spanX * float64(pw)))
		py := ph - int(math.Round((y-minY)/spanY*float64(ph)))
		return px, py
	}

	px, py := project(xs[0], ys[0])
	for i := 1; i < n; i++ {
		nx, ny := project(xs[i], ys[i])
		c.DrawLine(px, py, nx, ny)
		px, py = nx, ny
	}
	if n == 1 {
		c.Set(px, py)
	}

	sx, sy := project(xs[0], ys[0])
	c.Glyph(px, py, EndGlyph)
	c.Glyph(sx, sy, StartGlyph)
	if opts.HasLight {
		lx, ly := project(opts.LightX, opts.LightY)
		c.Glyph(lx, ly, LightGlyph)
	}

	return c.String()
}
