package agent

import (
	"fmt"
	"math"
)

// MinLightDistance is the distance from the origin a light must exceed.
const MinLightDistance = 1.0

// Light is a fixed point source the vehicles steer towards.
type Light struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewLightSource draws integer coordinates in [1-size, size) per axis and
// redraws the pair until it lies more than MinLightDistance from the
// origin. A size below 2 leaves only the origin to draw from and is
// rejected.
func NewLightSource(rng Rand, size int) (Light, error) {
	if size < 2 {
		return Light{}, fmt.Errorf("%w: light size must be at least 2, got %d", ErrInvalidParameter, size)
	}
	for {
		l := Light{X: intIn(rng, 1-size, size), Y: intIn(rng, 1-size, size)}
		if l.DistanceFromOrigin() > MinLightDistance {
			return l, nil
		}
	}
}

func (l Light) DistanceFromOrigin() float64 {
	return math.Hypot(float64(l.X), float64(l.Y))
}

// Distance returns the Euclidean distance from (x, y) to the light.
func (l Light) Distance(x, y float64) float64 {
	return math.Hypot(x-float64(l.X), y-float64(l.Y))
}
