package agent

import (
	"fmt"
	"math"
)

const (
	DefaultBodyRadius  = 1.0
	DefaultSensorAngle = math.Pi / 2
	DefaultGain        = 0.1
)

// Vehicle is an agent driven by a sense, think, move cycle.
type Vehicle interface {
	Pose() Pose
	Sense(light Light, ceiling float64) error
	Think(duration int)
	Move()
}

// Point is a position on the plane.
type Point struct {
	X, Y float64
}

// Braitenberg is a two-sensor, two-motor vehicle. Readings grow with
// distance to the light, and motors take their reciprocal, so the
// vehicle speeds up and turns harder as it closes in.
type Braitenberg struct {
	pose Pose

	Radius      float64
	SensorAngle float64

	LeftReading  float64
	RightReading float64

	LeftMotor  float64
	RightMotor float64

	TurnGain   float64
	SpeedGain  float64
	SensorGain float64

	leftSensor  Point
	rightSensor Point

	policy ControlPolicy
}

// NewBraitenberg places a vehicle at the origin facing a random cardinal.
// A nil policy selects the bounded policy.
func NewBraitenberg(rng Rand, policy ControlPolicy) *Braitenberg {
	if policy == nil {
		policy = NewBoundedPolicy()
	}
	b := &Braitenberg{
		pose:        Pose{Heading: cardinal(rng), Speed: 1},
		Radius:      DefaultBodyRadius,
		SensorAngle: DefaultSensorAngle,
		TurnGain:    DefaultGain,
		SpeedGain:   DefaultGain,
		SensorGain:  DefaultGain,
		policy:      policy,
	}
	b.placeSensors()
	return b
}

func (b *Braitenberg) Pose() Pose { return b.pose }

func (b *Braitenberg) Policy() ControlPolicy { return b.policy }

func (b *Braitenberg) LeftSensor() Point  { return b.leftSensor }
func (b *Braitenberg) RightSensor() Point { return b.rightSensor }

// Sense reads the scaled distance from each sensor to the light, clipped
// to [0, ceiling].
func (b *Braitenberg) Sense(light Light, ceiling float64) error {
	if ceiling < 0 {
		return fmt.Errorf("%w: clip ceiling must be non-negative, got %f", ErrInvalidParameter, ceiling)
	}
	b.LeftReading = Clamp(b.SensorGain*light.Distance(b.leftSensor.X, b.leftSensor.Y), 0, ceiling)
	b.RightReading = Clamp(b.SensorGain*light.Distance(b.rightSensor.X, b.rightSensor.Y), 0, ceiling)
	return nil
}

func (b *Braitenberg) Think(duration int) {
	cmd := b.policy.Control(Readings{Left: b.LeftReading, Right: b.RightReading}, duration)
	b.LeftMotor = cmd.LeftMotor
	b.RightMotor = cmd.RightMotor
	b.SpeedGain = cmd.SpeedGain
	b.TurnGain = cmd.TurnGain
}

func (b *Braitenberg) Move() {
	b.pose.Heading += b.TurnGain * (b.RightMotor - b.LeftMotor)
	b.pose.Speed = b.SpeedGain * (b.LeftMotor + b.RightMotor)
	b.pose.Advance()
	b.placeSensors()
}

// Stopped reports whether the last Think zeroed both motors and gains.
func (b *Braitenberg) Stopped() bool {
	return b.LeftMotor == 0 && b.RightMotor == 0 && b.SpeedGain == 0 && b.TurnGain == 0
}

func (b *Braitenberg) placeSensors() {
	b.rightSensor = Point{
		X: b.pose.X + b.Radius*math.Cos(b.pose.Heading+b.SensorAngle),
		Y: b.pose.Y + b.Radius*math.Sin(b.pose.Heading+b.SensorAngle),
	}
	b.leftSensor = Point{
		X: b.pose.X + b.Radius*math.Cos(b.pose.Heading-b.SensorAngle),
		Y: b.pose.Y + b.Radius*math.Sin(b.pose.Heading-b.SensorAngle),
	}
}
