package sim

import (
	"math"

	"github.com/san-kum/walkersim/internal/agent"
)

// Trajectory is the recorded path of one run. Point 0 is the initial
// position and there is one further point per step.
type Trajectory struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

func newTrajectory(duration int, start agent.Pose) Trajectory {
	t := Trajectory{
		X: make([]float64, 0, duration+1),
		Y: make([]float64, 0, duration+1),
	}
	t.append(start)
	return t
}

func (t *Trajectory) append(p agent.Pose) {
	t.X = append(t.X, p.X)
	t.Y = append(t.Y, p.Y)
}

func (t Trajectory) Len() int { return len(t.X) }

func (t Trajectory) At(i int) agent.Point { return agent.Point{X: t.X[i], Y: t.Y[i]} }

func (t Trajectory) Start() agent.Point { return t.At(0) }

func (t Trajectory) End() agent.Point { return t.At(t.Len() - 1) }

// Displacement returns the distance from the origin at every point.
func (t Trajectory) Displacement() []float64 {
	d := make([]float64, t.Len())
	for i := range d {
		d[i] = math.Hypot(t.X[i], t.Y[i])
	}
	return d
}

type Metric interface {
	Name() string
	Observe(p agent.Pose, step int)
	Value() float64
	Reset()
}

// MetricFactory builds a fresh metric for every run so concurrent runs
// never share accumulator state.
type MetricFactory func() Metric

// Observer is called with the pose after every step, and once with the
// initial pose at step 0. Observers shared by a concurrent population
// must be safe for concurrent use.
type Observer interface {
	OnStep(p agent.Pose, step int)
}

type WalkerResult struct {
	Trajectory   Trajectory         `json:"trajectory"`
	Displacement []float64          `json:"displacement"`
	Exploration  int                `json:"exploration"`
	Metrics      map[string]float64 `json:"metrics"`
}

type VehicleResult struct {
	Trajectory Trajectory         `json:"trajectory"`
	Light      agent.Light        `json:"light"`
	Fitness    float64            `json:"fitness"`
	Metrics    map[string]float64 `json:"metrics"`
}
