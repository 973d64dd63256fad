package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/walkersim/internal/agent"
	"github.com/san-kum/walkersim/internal/analysis"
)

type Simulator struct {
	metrics   []MetricFactory
	observers []Observer
	cells     *CellPool
	logger    *log.Logger
}

// New returns a simulator that logs to logger. A nil logger discards.
func New(logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{
		metrics:   make([]MetricFactory, 0),
		observers: make([]Observer, 0),
		cells:     NewCellPool(),
		logger:    logger,
	}
}

func (s *Simulator) AddMetric(m MetricFactory) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)    { s.observers = append(s.observers, o) }

func (s *Simulator) Logger() *log.Logger { return s.logger }

// RunWalker advances w for duration turn-then-step cycles.
func (s *Simulator) RunWalker(ctx context.Context, w agent.Walker, duration int) (*WalkerResult, error) {
	if err := validateDuration(duration); err != nil {
		return nil, err
	}

	metrics := s.newMetrics()
	grid := s.cells.Grid(duration)
	defer s.cells.Release(grid)
	traj := newTrajectory(duration, w.Pose())
	s.observe(metrics, w.Pose(), 0)

	for i := 0; i < duration; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		w.Turn()
		w.Step()

		p := w.Pose()
		traj.append(p)
		grid.Advance(p.Speed*math.Cos(p.Heading), p.Speed*math.Sin(p.Heading))
		s.observe(metrics, p, i+1)
	}

	result := &WalkerResult{
		Trajectory:   traj,
		Displacement: traj.Displacement(),
		Exploration:  grid.Explored(),
		Metrics:      collect(metrics),
	}

	s.logger.Debug("walker run complete",
		"duration", duration,
		"exploration", result.Exploration,
		"grid", grid.Size(),
	)

	return result, nil
}

// RunVehicle advances v for duration sense-think-move cycles towards
// light. Readings are clipped to ⌊√duration⌋.
func (s *Simulator) RunVehicle(ctx context.Context, v agent.Vehicle, light agent.Light, duration int) (*VehicleResult, error) {
	if err := validateDuration(duration); err != nil {
		return nil, err
	}

	ceiling := float64(int(math.Sqrt(float64(duration))))
	metrics := s.newMetrics()
	traj := newTrajectory(duration, v.Pose())
	s.observe(metrics, v.Pose(), 0)

	for i := 0; i < duration; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := v.Sense(light, ceiling); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		v.Think(duration)
		v.Move()

		p := v.Pose()
		traj.append(p)
		s.observe(metrics, p, i+1)
	}

	result := &VehicleResult{
		Trajectory: traj,
		Light:      light,
		Fitness:    analysis.Fitness(traj.Start(), traj.End(), light),
		Metrics:    collect(metrics),
	}

	s.logger.Debug("vehicle run complete",
		"duration", duration,
		"light", fmt.Sprintf("(%d,%d)", light.X, light.Y),
		"fitness", result.Fitness,
	)

	return result, nil
}

func (s *Simulator) newMetrics() []Metric {
	metrics := make([]Metric, 0, len(s.metrics))
	for _, fn := range s.metrics {
		m := fn()
		m.Reset()
		metrics = append(metrics, m)
	}
	return metrics
}

func (s *Simulator) observe(metrics []Metric, p agent.Pose, step int) {
	for _, m := range metrics {
		m.Observe(p, step)
	}
	for _, obs := range s.observers {
		obs.OnStep(p, step)
	}
}

func collect(metrics []Metric) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func validateDuration(duration int) error {
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", agent.ErrInvalidParameter, duration)
	}
	return nil
}
