package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/walkersim/internal/config"
	"github.com/san-kum/walkersim/internal/experiment"
)

// Scenario is a scripted sequence of experiments, e.g. every part of a
// study run back to back.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and applies any
// non-zero override.
type ScenarioStep struct {
	Preset     string `yaml:"preset"`
	Agent      string `yaml:"agent"`
	Duration   int    `yaml:"duration"`
	Population int    `yaml:"population"`
	Lights     int    `yaml:"lights"`
	Policy     string `yaml:"policy"`
	Seed       int64  `yaml:"seed"`
	Workers    int    `yaml:"workers"`
	Prototype  bool   `yaml:"prototype"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step into a validated configuration. A step without
// its own seed uses fallback.
func (s ScenarioStep) Config(fallback int64) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Agent != "" {
		cfg.Agent = s.Agent
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.Population != 0 {
		cfg.Population = s.Population
	}
	if s.Lights != 0 {
		cfg.Lights = s.Lights
	}
	if s.Policy != "" {
		cfg.Policy = s.Policy
	}
	if s.Workers != 0 {
		cfg.Workers = s.Workers
	}
	if s.Prototype {
		cfg.Prototype = true
	}
	cfg.Seed = fallback
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StepFunc receives each finished step, e.g. to persist it.
type StepFunc func(step int, report *experiment.Report) error

// RunScenario executes every step in order. A step without its own seed
// starts where the seeds of the steps before it end, so no two steps share
// a per-run seed. Reports completed before a failure are returned with the
// error.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *log.Logger, done StepFunc) ([]*experiment.Report, error) {
	reports := make([]*experiment.Report, 0, len(scenario.Steps))
	next := scenario.Seed

	for i, step := range scenario.Steps {
		cfg, err := step.Config(next)
		if err != nil {
			return reports, fmt.Errorf("step %d: %w", i+1, err)
		}

		if logger != nil {
			logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "agent", cfg.Agent, "seed", cfg.Seed)
		}

		exp := experiment.New(*cfg, registry, logger)
		span, err := exp.SeedSpan()
		if err != nil {
			return reports, fmt.Errorf("step %d: %w", i+1, err)
		}
		next += span

		report, err := exp.Run(ctx)
		if err != nil {
			return reports, fmt.Errorf("step %d run: %w", i+1, err)
		}
		reports = append(reports, report)

		if done != nil {
			if err := done(i, report); err != nil {
				return reports, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}

	return reports, nil
}
