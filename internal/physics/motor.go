package physics

import (
	"fmt"

	"github.com/san-kum/roversim/internal/dynamo"
)

// Wheel indices used consistently across voltage, current, speed and torque
// vectors.
const (
	FrontLeft = iota
	RearLeft
	FrontRight
	RearRight

	NumWheels
)

// WheelVec holds one scalar per wheel.
type WheelVec [NumWheels]float64

// Uniform returns a WheelVec with the same value on every wheel.
func Uniform(v float64) WheelVec {
	return WheelVec{v, v, v, v}
}

// Load is an external disturbance: a vertical force plus roll and pitch
// torques not produced by wheel propulsion (terrain reaction, payload shift).
type Load struct {
	Heave float64
	Roll  float64
	Pitch float64
}

// Motor models the electromechanics of the four drive motors. All four wheels
// share the same parameters and evolve independently; wheel j's outputs depend
// only on wheel j's inputs.
//
// Per wheel, the electrical circuit is first order with back-EMF opposition,
//
//	Idot = (V - R*I - Ke*Omega) / L
//
// and the rotor is first order with viscous plus base friction,
//
//	OmegaDot = (Kt*I - b*Omega - zeta*Omega) / Jm
//
// Output torque carries a linear current-dependent efficiency factor,
//
//	torque = Kt * I * (alpha*I + gamma)
//
// The efficiency factor is deliberately unclamped: at extreme currents it can
// exceed 1 or go negative, and downstream torque follows it.
type Motor struct {
	Resistance   float64 // R, ohm
	Inductance   float64 // L, henry
	TorqueConst  float64 // Kt, N*m/A
	BackEMF      float64 // Ke, V*s/rad
	RotorInertia float64 // Jm, kg*m^2
	Damping      float64 // b, viscous friction
	BaseFriction float64 // zeta, speed-proportional base friction
	EffSlope     float64 // alpha
	EffOffset    float64 // gamma
}

// NewMotor returns a motor with the reference drive constants. The electrical
// pole is much faster than the mechanical one, so the pair is overdamped and
// a free-spinning wheel decays without reversing.
func NewMotor() *Motor {
	return &Motor{
		Resistance:   1.0,
		Inductance:   0.01,
		TorqueConst:  0.35,
		BackEMF:      0.35,
		RotorInertia: 0.01,
		Damping:      0.1,
		BaseFriction: 0.05,
		EffSlope:     0.01,
		EffOffset:    0.9,
	}
}

// Evaluate computes shaft torque and the current/speed rates for all four
// wheels. Pure: no state is held between calls and no input is mutated.
func (m *Motor) Evaluate(voltage, current, speed WheelVec) (torque, currentRate, speedRate WheelVec) {
	for j := 0; j < NumWheels; j++ {
		currentRate[j] = (voltage[j] - m.Resistance*current[j] - m.BackEMF*speed[j]) / m.Inductance
		speedRate[j] = (m.TorqueConst*current[j] - m.Damping*speed[j] - m.BaseFriction*speed[j]) / m.RotorInertia
		eta := m.EffSlope*current[j] + m.EffOffset
		torque[j] = m.TorqueConst * current[j] * eta
	}
	return torque, currentRate, speedRate
}

// Validate reports a configuration error for physically impossible parameters.
func (m *Motor) Validate() error {
	if m.Inductance <= 0 {
		return fmt.Errorf("motor inductance must be positive, got %v", m.Inductance)
	}
	if m.RotorInertia <= 0 {
		return fmt.Errorf("motor rotor inertia must be positive, got %v", m.RotorInertia)
	}
	return nil
}

func (m *Motor) GetParams() map[string]float64 {
	return map[string]float64{
		"resistance":    m.Resistance,
		"inductance":    m.Inductance,
		"torque_const":  m.TorqueConst,
		"back_emf":      m.BackEMF,
		"rotor_inertia": m.RotorInertia,
		"damping":       m.Damping,
		"base_friction": m.BaseFriction,
		"eff_slope":     m.EffSlope,
		"eff_offset":    m.EffOffset,
	}
}

func (m *Motor) SetParam(name string, value float64) error {
	switch name {
	case "inductance", "rotor_inertia":
		if value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", dynamo.ErrParameterBounds, name, value)
		}
	}

	switch name {
	case "resistance":
		m.Resistance = value
	case "inductance":
		m.Inductance = value
	case "torque_const":
		m.TorqueConst = value
	case "back_emf":
		m.BackEMF = value
	case "rotor_inertia":
		m.RotorInertia = value
	case "damping":
		m.Damping = value
	case "base_friction":
		m.BaseFriction = value
	case "eff_slope":
		m.EffSlope = value
	case "eff_offset":
		m.EffOffset = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}
