package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/walkersim/internal/agent"
)

// fixedRand always draws the same index.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

type countingMetric struct {
	observed int
}

func (c *countingMetric) Name() string            { return "count" }
func (c *countingMetric) Observe(agent.Pose, int) { c.observed++ }
func (c *countingMetric) Value() float64          { return float64(c.observed) }
func (c *countingMetric) Reset()                  { c.observed = 0 }

type recordingObserver struct {
	steps []int
}

func (r *recordingObserver) OnStep(_ agent.Pose, step int) { r.steps = append(r.steps, step) }

var _ = Describe("Simulator", func() {
	var (
		ctx context.Context
		s   *Simulator
	)

	BeforeEach(func() {
		ctx = context.Background()
		s = New(nil)
	})

	Describe("RunWalker", func() {
		It("walks a straight line when every draw faces east", func() {
			w := agent.NewGridWalker(fixedRand(0))

			res, err := s.RunWalker(ctx, w, 4)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Trajectory.X).To(Equal([]float64{0, 1, 2, 3, 4}))
			Expect(res.Trajectory.Y).To(Equal([]float64{0, 0, 0, 0, 0}))
			Expect(res.Displacement).To(Equal([]float64{0, 1, 2, 3, 4}))
			Expect(res.Exploration).To(BeNumerically(">=", 1))
		})

		DescribeTable("records duration+1 points starting at the initial pose",
			func(duration int, build func(agent.Rand, int) (agent.Walker, error)) {
				w, err := build(agent.NewRand(11), duration)
				Expect(err).NotTo(HaveOccurred())
				start := w.Pose()

				res, err := s.RunWalker(ctx, w, duration)
				Expect(err).NotTo(HaveOccurred())

				Expect(res.Trajectory.Len()).To(Equal(duration + 1))
				Expect(res.Trajectory.Y).To(HaveLen(duration + 1))
				Expect(res.Displacement).To(HaveLen(duration + 1))
				Expect(res.Trajectory.Start()).To(Equal(agent.Point{X: start.X, Y: start.Y}))
				Expect(res.Displacement[0]).To(BeNumerically("~", math.Hypot(start.X, start.Y), 1e-12))

				for _, d := range res.Displacement {
					Expect(d).To(BeNumerically(">=", 0))
				}

				size := int(math.Sqrt(float64(duration)))
				Expect(res.Exploration).To(BeNumerically(">=", 1))
				Expect(res.Exploration).To(BeNumerically("<=", size*size))
			},
			Entry("grid walker, single step", 1, gridFactory),
			Entry("grid walker", 100, gridFactory),
			Entry("random start walker", 50, randomStartFactory),
			Entry("mixed walker", 250, mixedFactory),
		)

		It("rejects a non-positive duration", func() {
			_, err := s.RunWalker(ctx, agent.NewGridWalker(agent.NewRand(1)), 0)
			Expect(err).To(MatchError(agent.ErrInvalidParameter))
		})

		It("stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.RunWalker(cctx, agent.NewGridWalker(agent.NewRand(1)), 10)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("feeds metrics and observers every point", func() {
			var last *countingMetric
			s.AddMetric(func() Metric {
				last = &countingMetric{}
				return last
			})
			obs := &recordingObserver{}
			s.AddObserver(obs)

			res, err := s.RunWalker(ctx, agent.NewGridWalker(agent.NewRand(3)), 9)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Metrics).To(HaveKeyWithValue("count", 10.0))
			Expect(last.observed).To(Equal(10))
			Expect(obs.steps).To(HaveLen(10))
			Expect(obs.steps[0]).To(Equal(0))
			Expect(obs.steps[9]).To(Equal(9))
		})
	})

	Describe("RunVehicle", func() {
		It("records the trajectory and scores it against the light", func() {
			v := agent.NewBraitenberg(fixedRand(0), nil)
			light := agent.Light{X: 8, Y: 0}

			res, err := s.RunVehicle(ctx, v, light, 100)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Trajectory.Len()).To(Equal(101))
			Expect(res.Trajectory.Start()).To(Equal(agent.Point{}))
			Expect(res.Light).To(Equal(light))
			Expect(res.Fitness).To(BeNumerically(">", 0))
			Expect(res.Fitness).To(BeNumerically("<=", 1))
		})

		It("halts once a sensor reads below the stop threshold", func() {
			v := agent.NewBraitenberg(fixedRand(0), nil)
			light := agent.Light{X: 0, Y: 1}

			res, err := s.RunVehicle(ctx, v, light, 16)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < res.Trajectory.Len(); i++ {
				Expect(res.Trajectory.At(i)).To(Equal(agent.Point{}))
			}
			Expect(v.Stopped()).To(BeTrue())
		})

		It("rejects a non-positive duration", func() {
			v := agent.NewBraitenberg(agent.NewRand(1), nil)
			_, err := s.RunVehicle(ctx, v, agent.Light{X: 2, Y: 2}, -5)
			Expect(err).To(MatchError(agent.ErrInvalidParameter))
		})
	})
})

func gridFactory(rng agent.Rand, _ int) (agent.Walker, error) {
	return agent.NewGridWalker(rng), nil
}

func randomStartFactory(rng agent.Rand, d int) (agent.Walker, error) {
	return agent.NewRandomStartWalker(rng, d)
}

func mixedFactory(rng agent.Rand, d int) (agent.Walker, error) {
	return agent.NewMixedWalker(rng, d)
}
