package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/walkersim/internal/agent"
	"github.com/san-kum/walkersim/internal/config"
	"github.com/san-kum/walkersim/internal/sim"
)

// Batch holds the runs of one agent type.
type Batch struct {
	Agent    string               `json:"agent"`
	Walkers  []*sim.WalkerResult  `json:"walkers,omitempty"`
	Vehicles []*sim.VehicleResult `json:"vehicles,omitempty"`
}

type Report struct {
	Config  config.Config `json:"config"`
	Batches []Batch       `json:"batches"`
	Elapsed time.Duration `json:"elapsed"`
}

type Experiment struct {
	cfg       config.Config
	registry  *Registry
	simulator *sim.Simulator
	logger    *log.Logger
}

func New(cfg config.Config, registry *Registry, logger *log.Logger) *Experiment {
	s := sim.New(logger)
	for _, m := range registry.DefaultMetrics() {
		s.AddMetric(m)
	}
	return &Experiment{
		cfg:       cfg,
		registry:  registry,
		simulator: s,
		logger:    s.Logger(),
	}
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() config.Config {
	return e.cfg
}

// SeedSpan is how many consecutive seeds from the configured seed a run
// draws on: one per walker per type, or one per light.
func (e *Experiment) SeedSpan() (int64, error) {
	if e.cfg.Agent == config.AgentVehicle {
		return int64(e.cfg.Lights), nil
	}
	names, err := e.registry.Expand(e.cfg.Agent)
	if err != nil {
		return 0, err
	}
	return int64(len(names) * e.cfg.Population), nil
}

func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{Config: e.cfg}

	if e.cfg.Agent == config.AgentVehicle {
		batch, err := e.runVehicles(ctx)
		if err != nil {
			return nil, err
		}
		report.Batches = append(report.Batches, batch)
	} else {
		names, err := e.registry.Expand(e.cfg.Agent)
		if err != nil {
			return nil, err
		}
		for k, name := range names {
			batch, err := e.runWalkers(ctx, name, e.cfg.Seed+int64(k*e.cfg.Population))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			report.Batches = append(report.Batches, batch)
		}
	}

	report.Elapsed = time.Since(start)
	e.logger.Info("experiment complete", "agent", e.cfg.Agent, "batches", len(report.Batches), "elapsed", report.Elapsed)
	return report, nil
}

func (e *Experiment) runWalkers(ctx context.Context, name string, seed int64) (Batch, error) {
	factory, err := e.registry.GetWalker(name)
	if err != nil {
		return Batch{}, err
	}

	pop := sim.NewPopulation(e.simulator, seed)
	pop.SetWorkers(e.cfg.Workers)

	var results []*sim.WalkerResult
	if e.cfg.Prototype {
		w, err := factory(agent.NewRand(seed), e.cfg.Duration)
		if err != nil {
			return Batch{}, err
		}
		results, err = pop.RunPrototype(ctx, w, e.cfg.Population, e.cfg.Duration)
		if err != nil {
			return Batch{}, err
		}
	} else {
		results, err = pop.RunWalkers(ctx, factory, e.cfg.Population, e.cfg.Duration)
		if err != nil {
			return Batch{}, err
		}
	}

	e.logger.Debug("walker batch complete", "agent", name, "runs", len(results))
	return Batch{Agent: name, Walkers: results}, nil
}

func (e *Experiment) runVehicles(ctx context.Context) (Batch, error) {
	policy, err := e.registry.GetPolicy(e.cfg.Policy, &e.cfg)
	if err != nil {
		return Batch{}, err
	}

	pop := sim.NewPopulation(e.simulator, e.cfg.Seed)
	pop.SetWorkers(e.cfg.Workers)

	results, err := pop.RunVehicles(ctx, policy, e.cfg.Lights, e.cfg.Duration)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Agent: config.AgentVehicle + "/" + e.cfg.Policy, Vehicles: results}, nil
}
