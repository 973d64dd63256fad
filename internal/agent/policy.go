package agent

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultStopThreshold is the sensor reading below which a vehicle
	// counts as arrived and halts.
	DefaultStopThreshold = 0.5

	// BoundedMotorCeiling caps motor values under the bounded policy.
	BoundedMotorCeiling = 10.0

	// WorldMotorCeiling caps motor values under the world-scale policy.
	WorldMotorCeiling = 5.0

	// SensorEpsilon floors a reading before its reciprocal is taken.
	SensorEpsilon = 1e-9

	DefaultMaxSpeedGain     = 100.0
	DefaultSpeedGainDivisor = 5.0
	DefaultMaxTurnGain      = 250.0
)

const (
	PolicyBounded = "bounded"
	PolicyWorld   = "world"
)

// Readings are the left and right sensor values for one step.
type Readings struct {
	Left  float64
	Right float64
}

// Command is what a control policy hands back to the vehicle.
type Command struct {
	LeftMotor  float64
	RightMotor float64
	SpeedGain  float64
	TurnGain   float64
}

// ControlPolicy maps sensor readings to motor values and gains.
type ControlPolicy interface {
	Name() string
	Control(in Readings, duration int) Command
}

// BoundedPolicy keeps the vehicle local: motors are reciprocal readings
// capped at MotorCeiling, and both gains grow with log10 of the run
// duration.
type BoundedPolicy struct {
	MotorCeiling     float64
	StopThreshold    float64
	Epsilon          float64
	MaxSpeedGain     float64
	SpeedGainDivisor float64
	MaxTurnGain      float64
}

func NewBoundedPolicy() *BoundedPolicy {
	return &BoundedPolicy{
		MotorCeiling:     BoundedMotorCeiling,
		StopThreshold:    DefaultStopThreshold,
		Epsilon:          SensorEpsilon,
		MaxSpeedGain:     DefaultMaxSpeedGain,
		SpeedGainDivisor: DefaultSpeedGainDivisor,
		MaxTurnGain:      DefaultMaxTurnGain,
	}
}

func (p *BoundedPolicy) Name() string { return PolicyBounded }

func (p *BoundedPolicy) Control(in Readings, duration int) Command {
	cmd := Command{
		LeftMotor:  motor(in.Left, p.Epsilon, p.MotorCeiling),
		RightMotor: motor(in.Right, p.Epsilon, p.MotorCeiling),
	}

	scale := math.Log10(math.Max(float64(duration), 10))
	cmd.SpeedGain = Clamp(scale, 0, p.MaxSpeedGain) / p.SpeedGainDivisor
	cmd.TurnGain = Clamp(scale, -p.MaxTurnGain, p.MaxTurnGain) * (1 + math.Abs(cmd.RightMotor-cmd.LeftMotor))

	return stopIfArrived(cmd, in, p.StopThreshold)
}

// WorldScalePolicy is meant for very long runs: the speed gain follows
// motor symmetry and the turn gain scales with √duration, so the vehicle
// covers world-sized distances.
type WorldScalePolicy struct {
	MotorCeiling  float64
	StopThreshold float64
	Epsilon       float64
	MaxSpeedGain  float64
	MaxTurnGain   float64
}

func NewWorldScalePolicy() *WorldScalePolicy {
	return &WorldScalePolicy{
		MotorCeiling:  WorldMotorCeiling,
		StopThreshold: DefaultStopThreshold,
		Epsilon:       SensorEpsilon,
		MaxSpeedGain:  DefaultMaxSpeedGain,
		MaxTurnGain:   DefaultMaxTurnGain,
	}
}

func (p *WorldScalePolicy) Name() string { return PolicyWorld }

func (p *WorldScalePolicy) Control(in Readings, duration int) Command {
	cmd := Command{
		LeftMotor:  motor(in.Left, p.Epsilon, p.MotorCeiling),
		RightMotor: motor(in.Right, p.Epsilon, p.MotorCeiling),
	}

	root := float64(max(1, int(math.Sqrt(float64(max(duration, 0))))))

	speed := (cmd.LeftMotor + cmd.RightMotor) / root
	if int(cmd.LeftMotor) == int(cmd.RightMotor) {
		// equal brightness on both sides: drive straight at full reading
		speed = in.Left * in.Right
	}
	cmd.SpeedGain = Clamp(speed, 0, p.MaxSpeedGain)
	cmd.TurnGain = Clamp(cmd.SpeedGain*root, -p.MaxTurnGain, p.MaxTurnGain)

	return stopIfArrived(cmd, in, p.StopThreshold)
}

func motor(reading, epsilon, ceiling float64) float64 {
	return Clamp(1/math.Max(reading, epsilon), 0, ceiling)
}

func stopIfArrived(cmd Command, in Readings, threshold float64) Command {
	if in.Left < threshold || in.Right < threshold {
		return Command{}
	}
	return cmd
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

var policies = map[string]func() ControlPolicy{
	PolicyBounded: func() ControlPolicy { return NewBoundedPolicy() },
	PolicyWorld:   func() ControlPolicy { return NewWorldScalePolicy() },
}

// PolicyByName returns a fresh policy with default constants.
func PolicyByName(name string) (ControlPolicy, error) {
	fn, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return fn(), nil
}

func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
