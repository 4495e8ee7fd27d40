package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
)

// Rover is the 6-DOF rigid-body model of a four-wheel-drive ground vehicle.
//
// Evaluate is a pure function from (state, wheel torques, disturbance load)
// to the 12-state derivative. Propulsion comes from the wheel torques; heave,
// roll and pitch loads pass through from the disturbance; linear viscous drag
// acts on all six velocity channels with an extra quadratic air-resistance
// term on surge; gravity is resolved into the body frame through roll and
// pitch and contributes to forces only.
//
// Known limitation: the Euler-rate kinematics use tan(theta) and 1/cos(theta)
// and are singular at theta = +/-pi/2. The singularity is not guarded; driving
// pitch to vertical produces unbounded angular rates.
type Rover struct {
	Mass       float64 // kg
	Jx, Jy, Jz float64 // principal-axis inertias, kg*m^2

	WheelRadius float64 // m, torque-to-force conversion
	MomentArm   float64 // m, half track width for the yaw moment

	Gravity float64 // m/s^2

	// Linear viscous drag per velocity channel, plus a quadratic
	// speed^2*sign term on surge only.
	SurgeDrag float64
	SwayDrag  float64
	HeaveDrag float64
	RollDrag  float64
	PitchDrag float64
	YawDrag   float64
	AirDrag   float64
}

// NewRover returns a rover with empirical parameters for a 20 kg platform.
func NewRover() *Rover {
	return &Rover{
		Mass:        20.0,
		Jx:          0.8,
		Jy:          1.2,
		Jz:          1.5,
		WheelRadius: 0.1,
		MomentArm:   0.25,
		Gravity:     9.81,
		SurgeDrag:   15.0,
		SwayDrag:    30.0,
		HeaveDrag:   60.0,
		RollDrag:    2.0,
		PitchDrag:   2.0,
		YawDrag:     1.5,
		AirDrag:     1.2,
	}
}

// Evaluate computes the state derivative for the given torques and load.
// It returns the derivative together with a copy of the input state whose yaw
// angle has been wrapped into [-pi, pi); the caller should carry the wrapped
// copy forward as the current state. The input is never mutated. The time
// argument is accepted for interface symmetry; the dynamics are autonomous.
func (r *Rover) Evaluate(state dynamo.State, torque WheelVec, load Load, t float64) (dynamo.State, dynamo.State) {
	x := state.Clone()

	// Single wrap per call; the step size keeps yaw drift within one period.
	if x[dynamo.Yaw] >= math.Pi {
		x[dynamo.Yaw] -= 2 * math.Pi
	} else if x[dynamo.Yaw] < -math.Pi {
		x[dynamo.Yaw] += 2 * math.Pi
	}

	u, v, w := x[dynamo.SurgeVel], x[dynamo.SwayVel], x[dynamo.HeaveVel]
	p, q, rr := x[dynamo.RollRate], x[dynamo.PitchRate], x[dynamo.YawRate]
	phi, theta, psi := x[dynamo.Roll], x[dynamo.Pitch], x[dynamo.Yaw]

	// Wheel torque to longitudinal force, left pair {FL, RL}, right pair
	// {FR, RR}.
	var force WheelVec
	for j := 0; j < NumWheels; j++ {
		force[j] = torque[j] / r.WheelRadius
	}
	left := force[FrontLeft] + force[RearLeft]
	right := force[FrontRight] + force[RearRight]
	total := left + right

	// Slip angle with an explicit zero-speed guard. asin never exceeds
	// pi/2 in magnitude, so the clamp below cannot fire; it stays as a
	// no-op safety check.
	beta := 0.0
	if speed := math.Sqrt(u*u + v*v); speed != 0 {
		beta = math.Asin(v / speed)
	}
	if math.Abs(beta) > math.Pi {
		beta = 0
	}

	// Propulsion resolved into surge/sway; differential thrust yaws the
	// body; heave/roll/pitch come straight from the disturbance load.
	surgeProp := total * math.Cos(beta)
	swayProp := total * math.Sin(beta)
	yawMoment := (left - right) * r.MomentArm

	surgeDamp := r.SurgeDrag*u + r.AirDrag*u*math.Abs(u)
	swayDamp := r.SwayDrag * v
	heaveDamp := r.HeaveDrag * w
	rollDamp := r.RollDrag * p
	pitchDamp := r.PitchDrag * q
	yawDamp := r.YawDrag * rr

	sphi, cphi := math.Sin(phi), math.Cos(phi)
	stheta, ctheta := math.Sin(theta), math.Cos(theta)
	spsi, cpsi := math.Sin(psi), math.Cos(psi)

	// World gravity vector rotated into the body frame; forces only.
	gravX := -r.Mass * r.Gravity * stheta
	gravY := r.Mass * r.Gravity * sphi * ctheta
	gravZ := r.Mass * r.Gravity * cphi * ctheta

	fx := surgeProp - surgeDamp + gravX
	fy := swayProp - swayDamp + gravY
	fz := load.Heave - heaveDamp + gravZ
	tl := load.Roll - rollDamp
	tm := load.Pitch - pitchDamp
	tn := yawMoment - yawDamp

	dx := dynamo.NewState()

	// Body-frame translational acceleration with Coriolis cross terms.
	dx[dynamo.SurgeVel] = fx/r.Mass + v*rr - w*q
	dx[dynamo.SwayVel] = fy/r.Mass + w*p - u*rr
	dx[dynamo.HeaveVel] = fz/r.Mass + u*q - v*p

	// Euler's rotational equations with gyroscopic coupling.
	dx[dynamo.RollRate] = (tl + (r.Jy-r.Jz)*q*rr) / r.Jx
	dx[dynamo.PitchRate] = (tm + (r.Jz-r.Jx)*rr*p) / r.Jy
	dx[dynamo.YawRate] = (tn + (r.Jx-r.Jy)*p*q) / r.Jz

	// Z-Y-X direction cosine matrix: body velocities to world position rates.
	dx[dynamo.PosX] = u*ctheta*cpsi + v*(sphi*stheta*cpsi-cphi*spsi) + w*(cphi*stheta*cpsi+sphi*spsi)
	dx[dynamo.PosY] = u*ctheta*spsi + v*(sphi*stheta*spsi+cphi*cpsi) + w*(cphi*stheta*spsi-sphi*cpsi)
	dx[dynamo.PosZ] = -u*stheta + v*sphi*ctheta + w*cphi*ctheta

	// Body rates to Euler-angle rates. Singular at theta = +/-pi/2.
	ttheta := math.Tan(theta)
	dx[dynamo.Roll] = p + q*sphi*ttheta + rr*cphi*ttheta
	dx[dynamo.Pitch] = q*cphi - rr*sphi
	dx[dynamo.Yaw] = (q*sphi + rr*cphi) / ctheta

	return dx, x
}

// Validate reports a configuration error for physically impossible parameters.
func (r *Rover) Validate() error {
	if r.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %v", r.Mass)
	}
	if r.Jx <= 0 || r.Jy <= 0 || r.Jz <= 0 {
		return fmt.Errorf("inertias must be positive, got (%v, %v, %v)", r.Jx, r.Jy, r.Jz)
	}
	if r.WheelRadius <= 0 {
		return fmt.Errorf("wheel radius must be positive, got %v", r.WheelRadius)
	}
	return nil
}

func (r *Rover) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":         r.Mass,
		"jx":           r.Jx,
		"jy":           r.Jy,
		"jz":           r.Jz,
		"wheel_radius": r.WheelRadius,
		"moment_arm":   r.MomentArm,
		"gravity":      r.Gravity,
		"surge_drag":   r.SurgeDrag,
		"sway_drag":    r.SwayDrag,
		"heave_drag":   r.HeaveDrag,
		"roll_drag":    r.RollDrag,
		"pitch_drag":   r.PitchDrag,
		"yaw_drag":     r.YawDrag,
		"air_drag":     r.AirDrag,
	}
}

func (r *Rover) SetParam(name string, value float64) error {
	switch name {
	case "mass", "jx", "jy", "jz", "wheel_radius":
		if value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", dynamo.ErrParameterBounds, name, value)
		}
	}

	switch name {
	case "mass":
		r.Mass = value
	case "jx":
		r.Jx = value
	case "jy":
		r.Jy = value
	case "jz":
		r.Jz = value
	case "wheel_radius":
		r.WheelRadius = value
	case "moment_arm":
		r.MomentArm = value
	case "gravity":
		r.Gravity = value
	case "surge_drag":
		r.SurgeDrag = value
	case "sway_drag":
		r.SwayDrag = value
	case "heave_drag":
		r.HeaveDrag = value
	case "roll_drag":
		r.RollDrag = value
	case "pitch_drag":
		r.PitchDrag = value
	case "yaw_drag":
		r.YawDrag = value
	case "air_drag":
		r.AirDrag = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}

// Energy returns the vehicle's kinetic energy for a given state.
func (r *Rover) Energy(x dynamo.State) float64 {
	u, v, w := x[dynamo.SurgeVel], x[dynamo.SwayVel], x[dynamo.HeaveVel]
	p, q, rr := x[dynamo.RollRate], x[dynamo.PitchRate], x[dynamo.YawRate]
	ke := 0.5 * r.Mass * (u*u + v*v + w*w)
	keRot := 0.5 * (r.Jx*p*p + r.Jy*q*q + r.Jz*rr*rr)
	return ke + keRot
}
