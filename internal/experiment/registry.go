package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/walkersim/internal/agent"
	"github.com/san-kum/walkersim/internal/config"
	"github.com/san-kum/walkersim/internal/metrics"
	"github.com/san-kum/walkersim/internal/sim"
)

const (
	WalkerGrid        = "grid"
	WalkerRandomStart = "random_start"
	WalkerMixed       = "mixed"
)

// walkerOrder is the order "all" runs the walker types in.
var walkerOrder = []string{WalkerGrid, WalkerRandomStart, WalkerMixed}

type Registry struct {
	walkers map[string]sim.WalkerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		walkers: make(map[string]sim.WalkerFactory),
	}

	r.walkers[WalkerGrid] = func(rng agent.Rand, _ int) (agent.Walker, error) {
		return agent.NewGridWalker(rng), nil
	}
	r.walkers[WalkerRandomStart] = func(rng agent.Rand, duration int) (agent.Walker, error) {
		return agent.NewRandomStartWalker(rng, duration)
	}
	r.walkers[WalkerMixed] = func(rng agent.Rand, duration int) (agent.Walker, error) {
		return agent.NewMixedWalker(rng, duration)
	}

	return r
}

func (r *Registry) GetWalker(name string) (sim.WalkerFactory, error) {
	fn, ok := r.walkers[name]
	if !ok {
		return nil, fmt.Errorf("unknown walker: %s", name)
	}
	return fn, nil
}

// GetPolicy returns a factory for the named policy with cfg's vehicle
// overrides applied.
func (r *Registry) GetPolicy(name string, cfg *config.Config) (sim.PolicyFactory, error) {
	if _, err := agent.PolicyByName(name); err != nil {
		return nil, err
	}
	return func() agent.ControlPolicy {
		p, _ := agent.PolicyByName(name)
		if cfg != nil {
			cfg.ApplyPolicy(p)
		}
		return p
	}, nil
}

func (r *Registry) ListWalkers() []string {
	names := make([]string, 0, len(r.walkers))
	for name := range r.walkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand resolves an agent selector to the walker types it runs.
func (r *Registry) Expand(selector string) ([]string, error) {
	if selector == config.AgentAll {
		return walkerOrder, nil
	}
	if _, err := r.GetWalker(selector); err != nil {
		return nil, err
	}
	return []string{selector}, nil
}

func (r *Registry) DefaultMetrics() []sim.MetricFactory {
	return []sim.MetricFactory{
		func() sim.Metric { return metrics.NewPathLength() },
		func() sim.Metric { return metrics.NewMaxDisplacement() },
		func() sim.Metric { return metrics.NewNetDisplacement() },
		func() sim.Metric { return metrics.NewTurns() },
	}
}
