package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/dynamo"
)

func TestRoverYawWrap(t *testing.T) {
	r := NewRover()

	x := dynamo.NewState()
	x[dynamo.Yaw] = math.Pi + 0.01
	_, wrapped := r.Evaluate(x, WheelVec{}, Load{}, 0)
	if math.Abs(wrapped[dynamo.Yaw]-(-math.Pi+0.01)) > 1e-12 {
		t.Errorf("expected yaw %f, got %f", -math.Pi+0.01, wrapped[dynamo.Yaw])
	}

	x[dynamo.Yaw] = -math.Pi - 0.01
	_, wrapped = r.Evaluate(x, WheelVec{}, Load{}, 0)
	if math.Abs(wrapped[dynamo.Yaw]-(math.Pi-0.01)) > 1e-12 {
		t.Errorf("expected yaw %f, got %f", math.Pi-0.01, wrapped[dynamo.Yaw])
	}

	// Exactly pi wraps, just under does not.
	x[dynamo.Yaw] = math.Pi
	_, wrapped = r.Evaluate(x, WheelVec{}, Load{}, 0)
	if math.Abs(wrapped[dynamo.Yaw]-(-math.Pi)) > 1e-12 {
		t.Errorf("yaw == pi should wrap to -pi, got %f", wrapped[dynamo.Yaw])
	}
}

func TestRoverInputNotMutated(t *testing.T) {
	r := NewRover()

	x := dynamo.NewState()
	x[dynamo.Yaw] = math.Pi + 0.5
	x[dynamo.SurgeVel] = 1.0

	_, _ = r.Evaluate(x, Uniform(1), Load{}, 0)

	if x[dynamo.Yaw] != math.Pi+0.5 {
		t.Errorf("input state was mutated: yaw %f", x[dynamo.Yaw])
	}
}

func TestRoverSlipAngleZeroGuard(t *testing.T) {
	r := NewRover()

	// At zero planar speed the slip angle defaults to 0, so all propulsion
	// goes to surge and none to sway.
	x := dynamo.NewState()
	dx, _ := r.Evaluate(x, Uniform(1), Load{}, 0)

	if math.IsNaN(dx[dynamo.SurgeVel]) || math.IsNaN(dx[dynamo.SwayVel]) {
		t.Fatal("zero-speed evaluation produced NaN")
	}
	if dx[dynamo.SwayVel] != 0 {
		t.Errorf("expected zero sway acceleration at zero slip, got %f", dx[dynamo.SwayVel])
	}
	wantSurge := 4.0 / r.WheelRadius / r.Mass
	if math.Abs(dx[dynamo.SurgeVel]-wantSurge) > 1e-12 {
		t.Errorf("expected surge acceleration %f, got %f", wantSurge, dx[dynamo.SurgeVel])
	}
}

func TestRoverSymmetricTorqueNoYaw(t *testing.T) {
	r := NewRover()

	x := dynamo.NewState()
	dx, _ := r.Evaluate(x, Uniform(1), Load{}, 0)

	if dx[dynamo.YawRate] != 0 {
		t.Errorf("equal wheel torque must give zero yaw moment, got %f", dx[dynamo.YawRate])
	}
	if dx[dynamo.RollRate] != 0 || dx[dynamo.PitchRate] != 0 {
		t.Errorf("expected zero roll/pitch acceleration, got %f, %f", dx[dynamo.RollRate], dx[dynamo.PitchRate])
	}
}

func TestRoverDifferentialTorqueYaws(t *testing.T) {
	r := NewRover()

	x := dynamo.NewState()
	torque := WheelVec{}
	torque[FrontLeft], torque[RearLeft] = 1, 1

	dx, _ := r.Evaluate(x, torque, Load{}, 0)
	if dx[dynamo.YawRate] <= 0 {
		t.Errorf("left-heavy torque should yaw positive, got %f", dx[dynamo.YawRate])
	}

	torque = WheelVec{}
	torque[FrontRight], torque[RearRight] = 1, 1
	dx, _ = r.Evaluate(x, torque, Load{}, 0)
	if dx[dynamo.YawRate] >= 0 {
		t.Errorf("right-heavy torque should yaw negative, got %f", dx[dynamo.YawRate])
	}
}

func TestRoverGravityResolution(t *testing.T) {
	r := NewRover()

	phi, theta := 0.3, 0.2
	x := dynamo.NewState()
	x[dynamo.Roll] = phi
	x[dynamo.Pitch] = theta

	dx, _ := r.Evaluate(x, WheelVec{}, Load{}, 0)

	wantU := -r.Gravity * math.Sin(theta)
	wantV := r.Gravity * math.Sin(phi) * math.Cos(theta)
	wantW := r.Gravity * math.Cos(phi) * math.Cos(theta)

	if math.Abs(dx[dynamo.SurgeVel]-wantU) > 1e-12 {
		t.Errorf("expected surge accel %f, got %f", wantU, dx[dynamo.SurgeVel])
	}
	if math.Abs(dx[dynamo.SwayVel]-wantV) > 1e-12 {
		t.Errorf("expected sway accel %f, got %f", wantV, dx[dynamo.SwayVel])
	}
	if math.Abs(dx[dynamo.HeaveVel]-wantW) > 1e-12 {
		t.Errorf("expected heave accel %f, got %f", wantW, dx[dynamo.HeaveVel])
	}
}

func TestRoverDisturbancePassThrough(t *testing.T) {
	r := NewRover()
	r.Gravity = 0 // isolate the load terms

	load := Load{Heave: 40, Roll: 1.6, Pitch: -2.4}
	x := dynamo.NewState()
	dx, _ := r.Evaluate(x, WheelVec{}, load, 0)

	if math.Abs(dx[dynamo.HeaveVel]-load.Heave/r.Mass) > 1e-12 {
		t.Errorf("heave load not passed through: %f", dx[dynamo.HeaveVel])
	}
	if math.Abs(dx[dynamo.RollRate]-load.Roll/r.Jx) > 1e-12 {
		t.Errorf("roll load not passed through: %f", dx[dynamo.RollRate])
	}
	if math.Abs(dx[dynamo.PitchRate]-load.Pitch/r.Jy) > 1e-12 {
		t.Errorf("pitch load not passed through: %f", dx[dynamo.PitchRate])
	}
}

// Locks the corrected sign convention of the Z-Y-X kinematic transform.
func TestRoverKinematicSigns(t *testing.T) {
	r := NewRover()

	// Pure surge at yaw pi/2 moves along world +y.
	x := dynamo.NewState()
	x[dynamo.SurgeVel] = 1
	x[dynamo.Yaw] = math.Pi / 2
	dx, _ := r.Evaluate(x, WheelVec{}, Load{}, 0)
	if math.Abs(dx[dynamo.PosX]) > 1e-12 {
		t.Errorf("expected zero x rate, got %g", dx[dynamo.PosX])
	}
	if math.Abs(dx[dynamo.PosY]-1) > 1e-12 {
		t.Errorf("expected y rate 1, got %g", dx[dynamo.PosY])
	}

	// Pure sway at zero attitude moves along world +y.
	x = dynamo.NewState()
	x[dynamo.SwayVel] = 1
	dx, _ = r.Evaluate(x, WheelVec{}, Load{}, 0)
	if math.Abs(dx[dynamo.PosY]-1) > 1e-12 {
		t.Errorf("expected y rate 1 from sway, got %g", dx[dynamo.PosY])
	}

	// Nose-up pitch sends surge velocity out of the world z (z down).
	x = dynamo.NewState()
	x[dynamo.SurgeVel] = 1
	x[dynamo.Pitch] = 0.1
	dx, _ = r.Evaluate(x, WheelVec{}, Load{}, 0)
	if math.Abs(dx[dynamo.PosZ]-(-math.Sin(0.1))) > 1e-12 {
		t.Errorf("expected z rate %g, got %g", -math.Sin(0.1), dx[dynamo.PosZ])
	}

	// Euler-rate coupling: yaw rate leaks into roll rate through tan(theta).
	x = dynamo.NewState()
	x[dynamo.YawRate] = 1
	x[dynamo.Pitch] = 0.3
	dx, _ = r.Evaluate(x, WheelVec{}, Load{}, 0)
	if math.Abs(dx[dynamo.Roll]-math.Tan(0.3)) > 1e-12 {
		t.Errorf("expected roll rate %g, got %g", math.Tan(0.3), dx[dynamo.Roll])
	}
	if math.Abs(dx[dynamo.Yaw]-1/math.Cos(0.3)) > 1e-12 {
		t.Errorf("expected yaw rate %g, got %g", 1/math.Cos(0.3), dx[dynamo.Yaw])
	}
}

// The Euler-rate kinematics are singular at theta = +/-pi/2 and deliberately
// unguarded. In float64 cos(pi/2) is ~6e-17 rather than zero, so the rates
// blow up to ~1e16 instead of Inf; probe for the blow-up.
func TestRoverPitchSingularityUnguarded(t *testing.T) {
	r := NewRover()

	x := dynamo.NewState()
	x[dynamo.Pitch] = math.Pi / 2
	x[dynamo.YawRate] = 1

	dx, _ := r.Evaluate(x, WheelVec{}, Load{}, 0)

	if math.Abs(dx[dynamo.Yaw]) < 1e12 && !math.IsInf(dx[dynamo.Yaw], 0) {
		t.Errorf("expected unbounded yaw rate at vertical pitch, got %g", dx[dynamo.Yaw])
	}
	if math.Abs(dx[dynamo.Roll]) < 1e12 && !math.IsInf(dx[dynamo.Roll], 0) {
		t.Errorf("expected unbounded roll rate at vertical pitch, got %g", dx[dynamo.Roll])
	}
}

func TestRoverSetParam(t *testing.T) {
	r := NewRover()
	if err := r.SetParam("mass", 30); err != nil {
		t.Fatalf("set mass: %v", err)
	}
	if r.Mass != 30 {
		t.Errorf("expected mass 30, got %f", r.Mass)
	}
	if err := r.SetParam("bogus", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
	if err := r.SetParam("mass", -5); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for negative mass, got %v", err)
	}
	if err := r.SetParam("wheel_radius", 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for zero wheel radius, got %v", err)
	}
}

func TestRoverValidate(t *testing.T) {
	r := NewRover()
	if err := r.Validate(); err != nil {
		t.Fatalf("default rover should validate: %v", err)
	}

	tests := []struct {
		name string
		mod  func(*Rover)
	}{
		{"zero mass", func(r *Rover) { r.Mass = 0 }},
		{"negative jx", func(r *Rover) { r.Jx = -1 }},
		{"zero jz", func(r *Rover) { r.Jz = 0 }},
		{"zero wheel radius", func(r *Rover) { r.WheelRadius = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRover()
			tt.mod(r)
			if err := r.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
