package config

import (
	"sort"

	"github.com/san-kum/walkersim/internal/agent"
)

var Presets = map[string]*Config{
	"part1": {
		Agent: "grid", Duration: 10000, Population: 5, Lights: DefaultLights,
		Policy: agent.PolicyBounded, Workers: DefaultWorkers, DataDir: DefaultDataDir,
	},
	"part2": {
		Agent: AgentAll, Duration: 10000, Population: 5, Lights: DefaultLights,
		Policy: agent.PolicyBounded, Workers: DefaultWorkers, DataDir: DefaultDataDir,
	},
	"part3": {
		Agent: AgentVehicle, Duration: 10000, Population: DefaultPopulation, Lights: 10,
		Policy: agent.PolicyBounded, Workers: DefaultWorkers, DataDir: DefaultDataDir,
	},
	"world": {
		Agent: AgentVehicle, Duration: 10000, Population: DefaultPopulation, Lights: 10,
		Policy: agent.PolicyWorld, Workers: DefaultWorkers, DataDir: DefaultDataDir,
	},
	"quick": {
		Agent: AgentAll, Duration: 400, Population: 5, Lights: 5,
		Policy: agent.PolicyBounded, Workers: DefaultWorkers, DataDir: DefaultDataDir,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
