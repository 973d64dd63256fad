package sim

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/walkersim/internal/agent"
)

var _ = Describe("Population", func() {
	var (
		ctx context.Context
		pop *Population
	)

	BeforeEach(func() {
		ctx = context.Background()
		pop = NewPopulation(New(nil), 100)
	})

	Describe("RunWalkers", func() {
		It("returns one result per run in run order", func() {
			results, err := pop.RunWalkers(ctx, randomStartFactory, 5, 64)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(5))

			for i, res := range results {
				w, err := agent.NewRandomStartWalker(agent.NewRand(100+int64(i)), 64)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Trajectory.Len()).To(Equal(65))
				Expect(res.Trajectory.Start()).To(Equal(agent.Point{X: w.Pose().X, Y: w.Pose().Y}))
			}
		})

		It("is reproducible from the seed", func() {
			first, err := pop.RunWalkers(ctx, mixedFactory, 4, 49)
			Expect(err).NotTo(HaveOccurred())
			second, err := NewPopulation(New(nil), 100).RunWalkers(ctx, mixedFactory, 4, 49)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("gives the same results with concurrent workers", func() {
			sequential, err := pop.RunWalkers(ctx, gridFactory, 8, 36)
			Expect(err).NotTo(HaveOccurred())

			parallel := NewPopulation(New(nil), 100)
			parallel.SetWorkers(4)
			concurrent, err := parallel.RunWalkers(ctx, gridFactory, 8, 36)
			Expect(err).NotTo(HaveOccurred())

			Expect(concurrent).To(Equal(sequential))
		})

		DescribeTable("rejects invalid batch parameters",
			func(count, duration int) {
				_, err := pop.RunWalkers(ctx, gridFactory, count, duration)
				Expect(err).To(MatchError(agent.ErrInvalidParameter))
			},
			Entry("zero count", 0, 10),
			Entry("negative count", -2, 10),
			Entry("zero duration", 3, 0),
		)
	})

	Describe("RunPrototype", func() {
		It("carries the walker state from one run to the next", func() {
			w := agent.NewGridWalker(agent.NewRand(5))

			results, err := pop.RunPrototype(ctx, w, 3, 25)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))

			Expect(results[0].Trajectory.Start()).To(Equal(agent.Point{}))
			Expect(results[1].Trajectory.Start()).To(Equal(results[0].Trajectory.End()))
			Expect(results[2].Trajectory.Start()).To(Equal(results[1].Trajectory.End()))
		})
	})

	Describe("RunVehicles", func() {
		It("pairs every run with a light away from the origin", func() {
			results, err := pop.RunVehicles(ctx, nil, 6, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(6))

			for _, res := range results {
				Expect(res.Trajectory.Len()).To(Equal(101))
				Expect(res.Light.DistanceFromOrigin()).To(BeNumerically(">", agent.MinLightDistance))
				Expect(res.Light.X).To(BeNumerically(">", -10))
				Expect(res.Light.X).To(BeNumerically("<", 10))
				Expect(res.Fitness).To(BeNumerically(">=", 0))
				Expect(res.Fitness).To(BeNumerically("<=", 1))
			}
		})

		It("uses the requested control policy", func() {
			results, err := pop.RunVehicles(ctx, func() agent.ControlPolicy {
				return agent.NewWorldScalePolicy()
			}, 2, 400)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("rejects durations too short to place a light", func() {
			_, err := pop.RunVehicles(ctx, nil, 1, 3)
			Expect(err).To(MatchError(agent.ErrInvalidParameter))
		})
	})
})
