package metrics

import (
	"math"

	"github.com/san-kum/walkersim/internal/agent"
)

// PathLength is the total distance travelled over a run.
type PathLength struct {
	name    string
	total   float64
	last    agent.Pose
	samples int
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(pose agent.Pose, step int) {
	if p.samples > 0 {
		p.total += math.Hypot(pose.X-p.last.X, pose.Y-p.last.Y)
	}
	p.last = pose
	p.samples++
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.total = 0
	p.last = agent.Pose{}
	p.samples = 0
}
