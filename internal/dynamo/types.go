package dynamo

import "math"

// State is a vehicle state vector. The simulation uses 12 channels ordered
// per the index constants below, but the vector operations are generic.
type State []float64

// Indices into the 12-dimensional vehicle state.
const (
	SurgeVel  = iota // u: body-frame longitudinal velocity
	SwayVel          // v: body-frame lateral velocity
	HeaveVel         // w: body-frame vertical velocity
	RollRate         // p
	PitchRate        // q
	YawRate          // r
	PosX             // x: world frame
	PosY             // y
	PosZ             // z
	Roll             // phi
	Pitch            // theta
	Yaw              // psi, wrapped to [-pi, pi)
)

// StateDim is the number of channels in a vehicle state vector.
const StateDim = 12

// NewState returns a zero-initialized 12-channel state.
func NewState() State {
	return make(State, StateDim)
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean magnitude of the state, used as a blow-up gauge.
func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Configurable is implemented by models whose physical parameters can be
// inspected and adjusted at runtime.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
