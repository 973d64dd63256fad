package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(10, 10)

	got := []rune(strings.TrimSuffix(c.String(), "\n"))
	if len(got) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(got))
	}
	if got[0] != 0x2801 {
		t.Errorf("expected top-left dot, got %U", got[0])
	}
	if got[1] != 0x2880 {
		t.Errorf("expected bottom-right dot, got %U", got[1])
	}
}

func TestCanvasUnsetAndClear(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Set(1, 0)
	c.Unset(0, 0)
	if got := c.Cell(0, 0); got != 0x2808 {
		t.Errorf("expected only the right dot, got %U", got)
	}

	c.Glyph(0, 0, 'z')
	c.Clear()
	if c.String() != string(rune(0x2800))+"\n" {
		t.Errorf("expected empty canvas, got %q", c.String())
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for j := range c.Width {
		if r := c.Cell(j, 0); r != 0x2809 {
			t.Errorf("cell %d: expected both top dots, got %U", j, r)
		}
	}
}

func TestDrawLineDiagonal(t *testing.T) {
	c := NewCanvas(1, 1)
	c.DrawLine(1, 3, 0, 0)
	// (0,0) (0,1) (1,2) (1,3): dots 1, 2, 6 and 8
	if got := c.Cell(0, 0); got != 0x28a3 {
		t.Errorf("expected diagonal dots, got %U", got)
	}

	c.Clear()
	c.DrawLine(1, 1, 1, 1)
	if got := c.Cell(0, 0); got != 0x2810 {
		t.Errorf("expected single dot, got %U", got)
	}
}

func TestRenderPath(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 0, 1, 1}

	out := RenderPath(xs, ys, PathOptions{Width: 10, Height: 5, HasLight: true, LightX: 3, LightY: -2})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 10 {
			t.Errorf("row %d: expected 10 cells, got %d", i, n)
		}
	}

	for _, g := range []rune{StartGlyph, EndGlyph, LightGlyph} {
		if !strings.ContainsRune(out, g) {
			t.Errorf("expected glyph %q in output", g)
		}
	}
	// light is the lowest point, so it sits on the bottom row
	if !strings.ContainsRune(lines[4], LightGlyph) {
		t.Errorf("expected light on bottom row, got %q", lines[4])
	}
}

func TestRenderPathDegenerate(t *testing.T) {
	out := RenderPath(nil, nil, PathOptions{Width: 3, Height: 2})
	if strings.ContainsAny(out, "ox*") {
		t.Errorf("expected no glyphs for empty path, got %q", out)
	}

	single := RenderPath([]float64{5}, []float64{5}, PathOptions{Width: 3, Height: 2})
	if !strings.ContainsRune(single, StartGlyph) {
		t.Errorf("expected start glyph, got %q", single)
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 4); got != "────" {
		t.Errorf("expected flat line, got %q", got)
	}
	if got := SparklineChart([]float64{1, 2}, 0); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}

	out := SparklineChart([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if !strings.ContainsRune(out, '▁') || !strings.ContainsRune(out, '█') {
		t.Errorf("expected lowest and highest blocks, got %q", out)
	}
}

func TestSeparator(t *testing.T) {
	if !strings.Contains(Separator(20), "◆") {
		t.Error("expected diamond in separator")
	}
	if strings.Contains(Separator(3), "◆") {
		t.Error("expected plain rule for narrow separator")
	}
}
