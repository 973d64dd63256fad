package sim

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/walkersim/internal/agent"
)

// WalkerFactory builds a walker for one run.
type WalkerFactory func(rng agent.Rand, duration int) (agent.Walker, error)

// PolicyFactory builds the control policy for one vehicle run.
type PolicyFactory func() agent.ControlPolicy

// Population repeats single-agent runs. Run i draws from a generator
// seeded with seedStart+i, so results depend only on the seed and the
// run index, never on scheduling.
type Population struct {
	sim       *Simulator
	seedStart int64
	workers   int
}

func NewPopulation(s *Simulator, seedStart int64) *Population {
	return &Population{sim: s, seedStart: seedStart, workers: 1}
}

// SetWorkers sets how many fresh-instance runs may execute at once.
func (p *Population) SetWorkers(n int) {
	p.workers = max(1, n)
}

// RunWalkers builds a fresh walker per run. Results are in run order.
func (p *Population) RunWalkers(ctx context.Context, factory WalkerFactory, count, duration int) ([]*WalkerResult, error) {
	if err := validateBatch(count, duration); err != nil {
		return nil, err
	}

	results := make([]*WalkerResult, count)
	err := p.each(ctx, count, func(ctx context.Context, idx int) error {
		w, err := factory(p.rng(idx), duration)
		if err != nil {
			return fmt.Errorf("run %d: %w", idx, err)
		}
		res, err := p.sim.RunWalker(ctx, w, duration)
		if err != nil {
			return fmt.Errorf("run %d: %w", idx, err)
		}
		results[idx] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.sim.logger.Info("population complete", "runs", count, "duration", duration, "workers", p.workers)
	return results, nil
}

// RunPrototype reuses w for every run: the final state of run i is the
// initial state of run i+1. Runs are always sequential.
func (p *Population) RunPrototype(ctx context.Context, w agent.Walker, count, duration int) ([]*WalkerResult, error) {
	if err := validateBatch(count, duration); err != nil {
		return nil, err
	}

	results := make([]*WalkerResult, 0, count)
	for i := 0; i < count; i++ {
		res, err := p.sim.RunWalker(ctx, w, duration)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		results = append(results, res)
	}

	p.sim.logger.Info("prototype population complete", "runs", count, "duration", duration)
	return results, nil
}

// RunVehicles pairs a fresh light of size ⌊√duration⌋ with a fresh
// vehicle for every run.
func (p *Population) RunVehicles(ctx context.Context, policy PolicyFactory, count, duration int) ([]*VehicleResult, error) {
	if err := validateBatch(count, duration); err != nil {
		return nil, err
	}
	if policy == nil {
		policy = func() agent.ControlPolicy { return agent.NewBoundedPolicy() }
	}

	size := int(math.Sqrt(float64(duration)))
	results := make([]*VehicleResult, count)
	err := p.each(ctx, count, func(ctx context.Context, idx int) error {
		rng := p.rng(idx)
		light, err := agent.NewLightSource(rng, size)
		if err != nil {
			return fmt.Errorf("run %d: %w", idx, err)
		}
		v := agent.NewBraitenberg(rng, policy())
		res, err := p.sim.RunVehicle(ctx, v, light, duration)
		if err != nil {
			return fmt.Errorf("run %d: %w", idx, err)
		}
		results[idx] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.sim.logger.Info("vehicle batch complete", "runs", count, "duration", duration, "workers", p.workers)
	return results, nil
}

func (p *Population) rng(idx int) agent.Rand {
	return agent.NewRand(p.seedStart + int64(idx))
}

func (p *Population) each(ctx context.Context, count int, fn func(context.Context, int) error) error {
	if p.workers <= 1 {
		for i := 0; i < count; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := 0; i < count; i++ {
		g.Go(func() error { return fn(gctx, i) })
	}
	return g.Wait()
}

func validateBatch(count, duration int) error {
	if count <= 0 {
		return fmt.Errorf("%w: run count must be positive, got %d", agent.ErrInvalidParameter, count)
	}
	return validateDuration(duration)
}
