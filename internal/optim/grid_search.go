package optim

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/san-kum/walkersim/internal/agent"
	"github.com/san-kum/walkersim/internal/analysis"
	"github.com/san-kum/walkersim/internal/config"
	"github.com/san-kum/walkersim/internal/experiment"
)

// Tunable vehicle parameters, named as in the config file.
const (
	ParamStopThreshold = "stop_threshold"
	ParamMotorCeiling  = "motor_ceiling"
	ParamSensorEpsilon = "sensor_epsilon"
	ParamMaxSpeedGain  = "max_speed_gain"
	ParamMaxTurnGain   = "max_turn_gain"
)

// BuildFunc builds the experiment evaluated for one parameter combination.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

// ScoreFunc rates a finished experiment. Higher is better.
type ScoreFunc func(report *experiment.Report) float64

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Result is one evaluated combination.
type Result struct {
	Params map[string]float64
	Score  float64
}

// Search returns every evaluated combination in enumeration order and the
// index of the best one. Ties keep the earliest combination.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, score ScoreFunc) ([]Result, int, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, -1, fmt.Errorf("%w: %d parameters but %d ranges", agent.ErrInvalidParameter, len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return nil, -1, fmt.Errorf("%w: no values for %s", agent.ErrInvalidParameter, g.paramNames[i])
		}
	}

	var results []Result
	best := -1
	bestScore := math.Inf(-1)

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		exp, err := build(params)
		if err != nil {
			return err
		}
		report, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		s := score(report)
		results = append(results, Result{Params: params, Score: s})
		if s > bestScore {
			bestScore = s
			best = len(results) - 1
		}
		return nil
	})
	if err != nil {
		return results, best, err
	}
	return results, best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval); err != nil {
			return err
		}
	}
	return nil
}

// VehicleBuilder returns a BuildFunc running base with the vehicle
// constants overridden by params.
func VehicleBuilder(base config.Config, registry *experiment.Registry, logger *log.Logger) BuildFunc {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base
		cfg.Agent = config.AgentVehicle
		for name, v := range params {
			switch name {
			case ParamStopThreshold:
				cfg.Vehicle.StopThreshold = config.Float(v)
			case ParamMotorCeiling:
				cfg.Vehicle.MotorCeiling = config.Float(v)
			case ParamSensorEpsilon:
				cfg.Vehicle.SensorEpsilon = config.Float(v)
			case ParamMaxSpeedGain:
				cfg.Vehicle.MaxSpeedGain = config.Float(v)
			case ParamMaxTurnGain:
				cfg.Vehicle.MaxTurnGain = config.Float(v)
			default:
				return nil, fmt.Errorf("%w: unknown vehicle parameter %q", agent.ErrInvalidParameter, name)
			}
		}
		return experiment.New(cfg, registry, logger), nil
	}
}

// TotalFitness scores a report by the mean fitness over all vehicle runs.
func TotalFitness(report *experiment.Report) float64 {
	var scores []float64
	for _, b := range report.Batches {
		for _, v := range b.Vehicles {
			scores = append(scores, v.Fitness)
		}
	}
	return analysis.MeanFitness(scores)
}

// ParseGrid parses "name=v1,v2,..." entries into parameter names and value
// ranges, sorted by name.
func ParseGrid(entries []string) ([]string, [][]float64, error) {
	byName := make(map[string][]float64)
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("%w: grid entry %q, want name=v1,v2", agent.ErrInvalidParameter, entry)
		}
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", agent.ErrInvalidParameter, name, err)
			}
			byName[name] = append(byName[name], v)
		}
	}

	names := slices.Sorted(maps.Keys(byName))
	ranges := make([][]float64, len(names))
	for i, n := range names {
		ranges[i] = byName[n]
	}
	return names, ranges, nil
}
