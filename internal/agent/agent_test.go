package agent

import (
	"errors"
	"math"
	"testing"
)

// scriptedRand replays a fixed sequence of draws, reduced modulo n.
type scriptedRand struct {
	vals []int
	i    int
}

func (s *scriptedRand) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func isCardinal(h float64) bool {
	for _, c := range Cardinals {
		if h == c {
			return true
		}
	}
	return false
}

func TestGridWalkerTurnCardinal(t *testing.T) {
	w := NewGridWalker(NewRand(7))
	if !isCardinal(w.Pose().Heading) {
		t.Fatalf("initial heading %v not cardinal", w.Pose().Heading)
	}
	seen := make(map[float64]bool)
	for i := 0; i < 1000; i++ {
		w.Turn()
		h := w.Pose().Heading
		if !isCardinal(h) {
			t.Fatalf("turn %d: heading %v not cardinal", i, h)
		}
		seen[h] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected all 4 cardinals over 1000 turns, saw %d", len(seen))
	}
}

func TestGridWalkerStep(t *testing.T) {
	w := NewGridWalker(&scriptedRand{vals: []int{0}})
	for i := 0; i < 3; i++ {
		w.Turn()
		w.Step()
	}
	p := w.Pose()
	if p.X != 3 || p.Y != 0 {
		t.Errorf("expected (3,0), got (%v,%v)", p.X, p.Y)
	}
}

func TestStepZeroSpeed(t *testing.T) {
	p := Pose{X: 2, Y: -1, Heading: 1.3, Speed: 0}
	p.Advance()
	if p.X != 2 || p.Y != -1 {
		t.Errorf("zero speed moved pose to (%v,%v)", p.X, p.Y)
	}
}

func TestRandomStartWalkerRanges(t *testing.T) {
	durations := []int{1, 4, 100, 10000}
	for _, d := range durations {
		maxSpeed := float64(MaxSpeed(d))
		for seed := int64(0); seed < 50; seed++ {
			w, err := NewRandomStartWalker(NewRand(seed), d)
			if err != nil {
				t.Fatalf("duration %d: %v", d, err)
			}
			p := w.Pose()
			if p.X < float64(-d) || p.X > float64(d) || p.X != math.Trunc(p.X) {
				t.Errorf("duration %d: x %v out of range", d, p.X)
			}
			if p.Y < float64(-d) || p.Y > float64(d) || p.Y != math.Trunc(p.Y) {
				t.Errorf("duration %d: y %v out of range", d, p.Y)
			}
			if p.Speed < 1 || p.Speed > maxSpeed {
				t.Errorf("duration %d: speed %v outside [1,%v]", d, p.Speed, maxSpeed)
			}
			if !isCardinal(p.Heading) {
				t.Errorf("duration %d: heading %v not cardinal", d, p.Heading)
			}
		}
	}
}

func TestMaxSpeed(t *testing.T) {
	tests := []struct {
		duration int
		expected int
	}{
		{1, 1},
		{100, 3},
		{10000, 10},
	}
	for _, tt := range tests {
		if got := MaxSpeed(tt.duration); got != tt.expected {
			t.Errorf("MaxSpeed(%d) = %d, want %d", tt.duration, got, tt.expected)
		}
	}
}

func TestMixedWalkerCandidates(t *testing.T) {
	pickedRandom := [4]bool{}
	pickedBase := [4]bool{}

	for seed := int64(0); seed < 200; seed++ {
		w, err := NewMixedWalker(NewRand(seed), 50)
		if err != nil {
			t.Fatal(err)
		}
		p := w.Pose()
		got := [4]float64{p.X, p.Y, p.Heading, p.Speed}
		base := [4]float64{w.Base.X, w.Base.Y, w.Base.Heading, w.Base.Speed}
		alt := [4]float64{w.Random.X, w.Random.Y, w.Random.Heading, w.Random.Speed}
		for i := range got {
			switch {
			case got[i] == base[i]:
				pickedBase[i] = true
			case got[i] == alt[i]:
				pickedRandom[i] = true
			default:
				t.Fatalf("seed %d attribute %d: %v is neither %v nor %v", seed, i, got[i], base[i], alt[i])
			}
		}
	}
	for i := range pickedBase {
		if !pickedBase[i] || !pickedRandom[i] {
			t.Errorf("attribute %d never took one of its candidates (base=%v random=%v)", i, pickedBase[i], pickedRandom[i])
		}
	}
}

func TestWalkerInvalidDuration(t *testing.T) {
	if _, err := NewRandomStartWalker(NewRand(1), 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewMixedWalker(NewRand(1), -3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestLightSourceRedrawsOrigin(t *testing.T) {
	// size 5 draws from [-4, 5): index 4 is the origin, index 7 is 3.
	rng := &scriptedRand{vals: []int{4, 4, 7, 4}}
	l, err := NewLightSource(rng, 5)
	if err != nil {
		t.Fatal(err)
	}
	if l.X != 3 || l.Y != 0 {
		t.Errorf("expected redraw to (3,0), got (%d,%d)", l.X, l.Y)
	}
	if l.X*l.X+l.Y*l.Y <= 1 {
		t.Errorf("light too close to origin: (%d,%d)", l.X, l.Y)
	}
}

func TestLightSourceRange(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		l, err := NewLightSource(NewRand(seed), 3)
		if err != nil {
			t.Fatal(err)
		}
		if l.X < -2 || l.X >= 3 || l.Y < -2 || l.Y >= 3 {
			t.Fatalf("seed %d: light (%d,%d) outside [-2,3)", seed, l.X, l.Y)
		}
		if l.DistanceFromOrigin() <= MinLightDistance {
			t.Fatalf("seed %d: light (%d,%d) too close", seed, l.X, l.Y)
		}
	}
}

func TestLightSourceInvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1} {
		if _, err := NewLightSource(NewRand(1), size); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("size %d: expected ErrInvalidParameter, got %v", size, err)
		}
	}
}
