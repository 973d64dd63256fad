package metrics

import (
	"math"

	"github.com/san-kum/walkersim/internal/agent"
)

// MaxDisplacement is the furthest the agent got from the origin.
type MaxDisplacement struct {
	name string
	max  float64
}

func NewMaxDisplacement() *MaxDisplacement {
	return &MaxDisplacement{name: "max_displacement"}
}

func (m *MaxDisplacement) Name() string { return m.name }

func (m *MaxDisplacement) Observe(pose agent.Pose, step int) {
	m.max = math.Max(m.max, math.Hypot(pose.X, pose.Y))
}

func (m *MaxDisplacement) Value() float64 { return m.max }

func (m *MaxDisplacement) Reset() { m.max = 0 }

// NetDisplacement is the straight-line distance between the first and
// last observed positions.
type NetDisplacement struct {
	name    string
	first   agent.Pose
	last    agent.Pose
	samples int
}

func NewNetDisplacement() *NetDisplacement {
	return &NetDisplacement{name: "net_displacement"}
}

func (n *NetDisplacement) Name() string { return n.name }

func (n *NetDisplacement) Observe(pose agent.Pose, step int) {
	if n.samples == 0 {
		n.first = pose
	}
	n.last = pose
	n.samples++
}

func (n *NetDisplacement) Value() float64 {
	if n.samples == 0 {
		return 0
	}
	return math.Hypot(n.last.X-n.first.X, n.last.Y-n.first.Y)
}

func (n *NetDisplacement) Reset() {
	n.first = agent.Pose{}
	n.last = agent.Pose{}
	n.samples = 0
}
