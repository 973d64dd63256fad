package metrics

import "github.com/san-kum/walkersim/internal/agent"

// Turns counts the steps on which the heading changed.
type Turns struct {
	name    string
	count   int
	heading float64
	samples int
}

func NewTurns() *Turns {
	return &Turns{name: "turns"}
}

func (t *Turns) Name() string { return t.name }

func (t *Turns) Observe(pose agent.Pose, step int) {
	if t.samples > 0 && pose.Heading != t.heading {
		t.count++
	}
	t.heading = pose.Heading
	t.samples++
}

func (t *Turns) Value() float64 { return float64(t.count) }

func (t *Turns) Reset() {
	t.count = 0
	t.heading = 0
	t.samples = 0
}
