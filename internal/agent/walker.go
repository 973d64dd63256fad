package agent

import (
	"fmt"
	"math"
)

// Pose is an agent's position, heading and speed. Heading is never
// normalized, so callers must not assume it lies in [0, 2π).
type Pose struct {
	X       float64
	Y       float64
	Heading float64
	Speed   float64
}

// Advance moves the pose speed units along its heading.
func (p *Pose) Advance() {
	p.X += p.Speed * math.Cos(p.Heading)
	p.Y += p.Speed * math.Sin(p.Heading)
}

// Distance returns the Euclidean distance from the pose to (x, y).
func (p Pose) Distance(x, y float64) float64 {
	return math.Hypot(p.X-x, p.Y-y)
}

type Walker interface {
	Pose() Pose
	Step()
	Turn()
}

// walker carries the shared state and turning policy of every walker
// variant: the heading is redrawn from the four cardinals on each turn.
type walker struct {
	pose Pose
	rng  Rand
}

func (w *walker) Pose() Pose { return w.pose }

func (w *walker) Step() { w.pose.Advance() }

func (w *walker) Turn() { w.pose.Heading = cardinal(w.rng) }

// GridWalker starts at the origin with unit speed.
type GridWalker struct {
	walker
}

func NewGridWalker(rng Rand) *GridWalker {
	return &GridWalker{walker{
		pose: Pose{Heading: cardinal(rng), Speed: 1},
		rng:  rng,
	}}
}

// RandomStartWalker starts somewhere in the box of half-width duration
// with a speed that grows slowly with duration.
type RandomStartWalker struct {
	walker
}

func NewRandomStartWalker(rng Rand, duration int) (*RandomStartWalker, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidParameter, duration)
	}
	x := randomCoord(rng, duration)
	y := randomCoord(rng, duration)
	heading := cardinal(rng)
	speed := randomSpeed(rng, duration)
	return &RandomStartWalker{walker{
		pose: Pose{X: x, Y: y, Heading: heading, Speed: speed},
		rng:  rng,
	}}, nil
}

// MixedWalker picks, per attribute, between the base value and a
// randomized one with a fair coin.
type MixedWalker struct {
	walker
	// Base and Random hold the two candidates each attribute was chosen from.
	Base   Pose
	Random Pose
}

// BasePose is the pose a MixedWalker falls back to per attribute.
var BasePose = Pose{X: 0, Y: 0, Heading: 0, Speed: 1}

func NewMixedWalker(rng Rand, duration int) (*MixedWalker, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidParameter, duration)
	}
	random := Pose{
		X:       randomCoord(rng, duration),
		Y:       randomCoord(rng, duration),
		Heading: cardinal(rng),
		Speed:   randomSpeed(rng, duration),
	}
	pick := func(base, alt float64) float64 {
		if rng.IntN(2) == 0 {
			return base
		}
		return alt
	}
	pose := Pose{
		X:       pick(BasePose.X, random.X),
		Y:       pick(BasePose.Y, random.Y),
		Heading: pick(BasePose.Heading, random.Heading),
		Speed:   pick(BasePose.Speed, random.Speed),
	}
	return &MixedWalker{
		walker: walker{pose: pose, rng: rng},
		Base:   BasePose,
		Random: random,
	}, nil
}

func randomCoord(rng Rand, duration int) float64 {
	return float64(intIn(rng, -duration, duration+1))
}

// MaxSpeed is the largest speed a randomized walker can draw for duration.
func MaxSpeed(duration int) int {
	return int(math.Sqrt(math.Sqrt(float64(duration+1)) + 1))
}

func randomSpeed(rng Rand, duration int) float64 {
	return float64(intIn(rng, 1, MaxSpeed(duration)+1))
}
