package agent

import (
	"errors"
	"math"
	"testing"
)

func eastVehicle() *Braitenberg {
	return NewBraitenberg(&scriptedRand{vals: []int{0}}, nil)
}

func TestBraitenbergSensorPlacement(t *testing.T) {
	b := eastVehicle()
	right := b.RightSensor()
	left := b.LeftSensor()
	if math.Abs(right.X) > 1e-12 || math.Abs(right.Y-1) > 1e-12 {
		t.Errorf("right sensor at (%v,%v), want (0,1)", right.X, right.Y)
	}
	if math.Abs(left.X) > 1e-12 || math.Abs(left.Y+1) > 1e-12 {
		t.Errorf("left sensor at (%v,%v), want (0,-1)", left.X, left.Y)
	}
}

func TestBraitenbergSenseClips(t *testing.T) {
	b := eastVehicle()
	if err := b.Sense(Light{X: 100, Y: 0}, 2); err != nil {
		t.Fatal(err)
	}
	if b.LeftReading != 2 || b.RightReading != 2 {
		t.Errorf("expected readings clipped to 2, got %v %v", b.LeftReading, b.RightReading)
	}

	if err := b.Sense(Light{X: 10, Y: 0}, 100); err != nil {
		t.Fatal(err)
	}
	want := 0.1 * math.Hypot(10, 1)
	if math.Abs(b.LeftReading-want) > 1e-9 || math.Abs(b.RightReading-want) > 1e-9 {
		t.Errorf("expected readings %v, got %v %v", want, b.LeftReading, b.RightReading)
	}
}

func TestBraitenbergSenseNegativeCeiling(t *testing.T) {
	b := eastVehicle()
	if err := b.Sense(Light{X: 3}, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestBraitenbergStopsAtLight(t *testing.T) {
	b := eastVehicle()
	light := Light{X: 0, Y: 1}

	if err := b.Sense(light, 10); err != nil {
		t.Fatal(err)
	}
	b.Think(100)

	if !b.Stopped() {
		t.Fatalf("expected vehicle stopped, got motors %v %v gains %v %v",
			b.LeftMotor, b.RightMotor, b.SpeedGain, b.TurnGain)
	}

	before := b.Pose()
	b.Move()
	after := b.Pose()
	if after.X != before.X || after.Y != before.Y || after.Heading != before.Heading {
		t.Errorf("stopped vehicle moved from %+v to %+v", before, after)
	}
	if after.Speed != 0 {
		t.Errorf("expected speed 0, got %v", after.Speed)
	}
}

func TestBraitenbergApproachesLight(t *testing.T) {
	b := eastVehicle()
	light := Light{X: 8, Y: 0}
	start := b.Pose().Distance(8, 0)

	for i := 0; i < 20; i++ {
		if err := b.Sense(light, 10); err != nil {
			t.Fatal(err)
		}
		b.Think(100)
		b.Move()
	}

	end := b.Pose().Distance(8, 0)
	if end >= start {
		t.Errorf("expected vehicle to close in on light: start %v end %v", start, end)
	}
}

func TestBoundedPolicy(t *testing.T) {
	p := NewBoundedPolicy()

	tests := []struct {
		name     string
		in       Readings
		duration int
		want     Command
	}{
		{"symmetric", Readings{1, 1}, 100, Command{1, 1, 0.4, 2}},
		{"asymmetric", Readings{2, 4}, 100, Command{0.5, 0.25, 0.4, 2.5}},
		{"short run floors duration", Readings{1, 1}, 3, Command{1, 1, 0.2, 1}},
		{"close readings", Readings{0.6, 0.6}, 100, Command{1 / 0.6, 1 / 0.6, 0.4, 2}},
		{"arrived", Readings{0.4, 3}, 100, Command{}},
		{"zero reading", Readings{0, 0}, 100, Command{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Control(tt.in, tt.duration)
			if !commandNear(got, tt.want) {
				t.Errorf("Control(%+v, %d) = %+v, want %+v", tt.in, tt.duration, got, tt.want)
			}
		})
	}
}

func TestBoundedPolicyMotorCeiling(t *testing.T) {
	p := NewBoundedPolicy()
	p.StopThreshold = 0
	got := p.Control(Readings{0, 0.01}, 100)
	if got.LeftMotor != BoundedMotorCeiling || got.RightMotor != BoundedMotorCeiling {
		t.Errorf("expected motors at ceiling, got %+v", got)
	}
	if math.IsInf(got.TurnGain, 0) || math.IsNaN(got.TurnGain) {
		t.Errorf("turn gain not finite: %v", got.TurnGain)
	}
}

func TestWorldScalePolicy(t *testing.T) {
	p := NewWorldScalePolicy()

	tests := []struct {
		name     string
		in       Readings
		duration int
		want     Command
	}{
		{"symmetric drives straight", Readings{2, 2}, 100, Command{0.5, 0.5, 4, 40}},
		{"asymmetric", Readings{0.8, 2}, 100, Command{1.25, 0.5, 0.175, 1.75}},
		{"turn gain clamped", Readings{5, 5}, 10000, Command{0.2, 0.2, 25, DefaultMaxTurnGain}},
		{"arrived", Readings{3, 0.1}, 100, Command{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Control(tt.in, tt.duration)
			if !commandNear(got, tt.want) {
				t.Errorf("Control(%+v, %d) = %+v, want %+v", tt.in, tt.duration, got, tt.want)
			}
		})
	}
}

func TestPolicyByName(t *testing.T) {
	for _, name := range PolicyNames() {
		p, err := PolicyByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("policy %s reports name %s", name, p.Name())
		}
	}

	if _, err := PolicyByName("nonexistent"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}
}

func commandNear(a, b Command) bool {
	const tol = 1e-9
	return math.Abs(a.LeftMotor-b.LeftMotor) < tol &&
		math.Abs(a.RightMotor-b.RightMotor) < tol &&
		math.Abs(a.SpeedGain-b.SpeedGain) < tol &&
		math.Abs(a.TurnGain-b.TurnGain) < tol
}
