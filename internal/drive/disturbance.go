package drive

import (
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/physics"
)

// NoLoad supplies a zero disturbance for the whole run.
type NoLoad struct{}

func (NoLoad) Load(_ dynamo.State, _ float64) physics.Load {
	return physics.Load{}
}

// SteadyLoad applies a fixed disturbance for the whole run, e.g. a constant
// terrain reaction under the chassis.
type SteadyLoad struct {
	L physics.Load
}

func (s *SteadyLoad) Load(_ dynamo.State, _ float64) physics.Load {
	return s.L
}

// PulseLoad applies a disturbance inside a time window and nothing outside
// it, modeling a transient bump or shove.
type PulseLoad struct {
	L     physics.Load
	Start float64
	End   float64
}

func (p *PulseLoad) Load(_ dynamo.State, t float64) physics.Load {
	if t >= p.Start && t < p.End {
		return p.L
	}
	return physics.Load{}
}
