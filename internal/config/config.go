package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/walkersim/internal/agent"
)

const (
	DefaultAgent      = "grid"
	DefaultDuration   = 10000
	DefaultPopulation = 5
	DefaultLights     = 10
	DefaultDataDir    = ".walkersim"
	DefaultWorkers    = 1
)

const (
	// AgentAll runs every walker type in turn.
	AgentAll     = "all"
	AgentVehicle = "vehicle"
)

type Config struct {
	Agent      string        `yaml:"agent" json:"agent"`
	Duration   int           `yaml:"duration" json:"duration"`
	Population int           `yaml:"population" json:"population"`
	Lights     int           `yaml:"lights" json:"lights"`
	Seed       int64         `yaml:"seed" json:"seed"`
	Policy     string        `yaml:"policy" json:"policy"`
	Workers    int           `yaml:"workers" json:"workers"`
	Prototype  bool          `yaml:"prototype" json:"prototype"`
	DataDir    string        `yaml:"data_dir" json:"data_dir"`
	Vehicle    VehicleConfig `yaml:"vehicle" json:"vehicle"`
}

// VehicleConfig overrides control policy constants. A nil field keeps the
// policy default; zero is a real value (stop_threshold 0 never stops).
type VehicleConfig struct {
	StopThreshold *float64 `yaml:"stop_threshold,omitempty" json:"stop_threshold,omitempty"`
	MotorCeiling  *float64 `yaml:"motor_ceiling,omitempty" json:"motor_ceiling,omitempty"`
	SensorEpsilon *float64 `yaml:"sensor_epsilon,omitempty" json:"sensor_epsilon,omitempty"`
	MaxSpeedGain  *float64 `yaml:"max_speed_gain,omitempty" json:"max_speed_gain,omitempty"`
	MaxTurnGain   *float64 `yaml:"max_turn_gain,omitempty" json:"max_turn_gain,omitempty"`
}

// Float returns a pointer to v, for filling VehicleConfig.
func Float(v float64) *float64 { return &v }

func DefaultConfig() *Config {
	return &Config{
		Agent:      DefaultAgent,
		Duration:   DefaultDuration,
		Population: DefaultPopulation,
		Lights:     DefaultLights,
		Policy:     agent.PolicyBounded,
		Workers:    DefaultWorkers,
		DataDir:    DefaultDataDir,
	}
}

// Clone returns a copy of c that shares no vehicle overrides with it.
func (c *Config) Clone() *Config {
	out := *c
	for _, f := range []**float64{
		&out.Vehicle.StopThreshold,
		&out.Vehicle.MotorCeiling,
		&out.Vehicle.SensorEpsilon,
		&out.Vehicle.MaxSpeedGain,
		&out.Vehicle.MaxTurnGain,
	} {
		if *f != nil {
			*f = Float(**f)
		}
	}
	return &out
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads the yaml file at path over a copy of base, so keys the
// file leaves out keep base's values.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the config against the schema, then the rules the
// schema cannot express.
func (c *Config) Validate() error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", agent.ErrInvalidParameter, err)
	}

	if c.Agent == AgentVehicle && int(math.Sqrt(float64(c.Duration))) < 2 {
		return fmt.Errorf("%w: vehicle runs need a duration of at least 4, got %d", agent.ErrInvalidParameter, c.Duration)
	}
	return nil
}

// ApplyPolicy copies the vehicle overrides that are set onto p.
func (c *Config) ApplyPolicy(p agent.ControlPolicy) {
	v := c.Vehicle
	set := func(dst *float64, val *float64) {
		if val != nil {
			*dst = *val
		}
	}
	switch p := p.(type) {
	case *agent.BoundedPolicy:
		set(&p.StopThreshold, v.StopThreshold)
		set(&p.MotorCeiling, v.MotorCeiling)
		set(&p.Epsilon, v.SensorEpsilon)
		set(&p.MaxSpeedGain, v.MaxSpeedGain)
		set(&p.MaxTurnGain, v.MaxTurnGain)
	case *agent.WorldScalePolicy:
		set(&p.StopThreshold, v.StopThreshold)
		set(&p.MotorCeiling, v.MotorCeiling)
		set(&p.Epsilon, v.SensorEpsilon)
		set(&p.MaxSpeedGain, v.MaxSpeedGain)
		set(&p.MaxTurnGain, v.MaxTurnGain)
	}
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", configSchema)
})

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["agent", "duration"],
  "properties": {
    "agent": {"enum": ["grid", "random_start", "mixed", "all", "vehicle"]},
    "duration": {"type": "integer", "minimum": 1},
    "population": {"type": "integer", "minimum": 1},
    "lights": {"type": "integer", "minimum": 1},
    "seed": {"type": "integer"},
    "policy": {"enum": ["bounded", "world"]},
    "workers": {"type": "integer", "minimum": 0},
    "prototype": {"type": "boolean"},
    "data_dir": {"type": "string"},
    "vehicle": {
      "type": "object",
      "properties": {
        "stop_threshold": {"type": "number", "minimum": 0},
        "motor_ceiling": {"type": "number", "minimum": 0},
        "sensor_epsilon": {"type": "number", "minimum": 0},
        "max_speed_gain": {"type": "number", "minimum": 0},
        "max_turn_gain": {"type": "number", "minimum": 0}
      }
    }
  }
}`
