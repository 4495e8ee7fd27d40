// Package drive provides open-loop voltage and disturbance sources for the
// simulation driver. A source is queried once per step; the state argument
// exists so a closed-loop source can be slotted in later without changing the
// driver.
package drive

import (
	"sort"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/physics"
)

// Constant applies the same per-wheel voltage for the whole run.
type Constant struct {
	V physics.WheelVec
}

// NewConstant drives all four wheels at volts.
func NewConstant(volts float64) *Constant {
	return &Constant{V: physics.Uniform(volts)}
}

func (c *Constant) Voltage(_ dynamo.State, _ float64) physics.WheelVec {
	return c.V
}

// Ramp increases uniformly from zero to Peak over RiseTime, then holds.
type Ramp struct {
	Peak     float64
	RiseTime float64
}

func (r *Ramp) Voltage(_ dynamo.State, t float64) physics.WheelVec {
	if r.RiseTime <= 0 || t >= r.RiseTime {
		return physics.Uniform(r.Peak)
	}
	return physics.Uniform(r.Peak * t / r.RiseTime)
}

// Segment is one piece of a voltage schedule, active from Start until the
// next segment begins.
type Segment struct {
	Start float64
	V     physics.WheelVec
}

// Schedule is a piecewise-constant voltage profile. Before the first segment
// starts the output is zero.
type Schedule struct {
	segments []Segment
}

func NewSchedule(segments []Segment) *Schedule {
	s := make([]Segment, len(segments))
	copy(s, segments)
	sort.Slice(s, func(i, j int) bool { return s[i].Start < s[j].Start })
	return &Schedule{segments: s}
}

func (s *Schedule) Voltage(_ dynamo.State, t float64) physics.WheelVec {
	var out physics.WheelVec
	for i := range s.segments {
		if t < s.segments[i].Start {
			break
		}
		out = s.segments[i].V
	}
	return out
}

// Scaled wraps a source and multiplies its output, used by sweep runs.
type Scaled struct {
	Source interface {
		Voltage(x dynamo.State, t float64) physics.WheelVec
	}
	Factor float64
}

func (s *Scaled) Voltage(x dynamo.State, t float64) physics.WheelVec {
	v := s.Source.Voltage(x, t)
	for j := range v {
		v[j] *= s.Factor
	}
	return v
}
