package sim

import (
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/physics"
)

// WheelState holds the electromechanical state of the four drive motors:
// winding current and shaft speed per wheel.
type WheelState struct {
	Current physics.WheelVec
	Speed   physics.WheelVec
}

// VoltageSource supplies the per-wheel drive voltage for a step. The current
// state is passed so a future closed-loop source can use it; the open-loop
// sources in the drive package ignore it.
type VoltageSource interface {
	Voltage(x dynamo.State, t float64) physics.WheelVec
}

// DisturbanceSource supplies the external load for a step.
type DisturbanceSource interface {
	Load(x dynamo.State, t float64) physics.Load
}

// Record is one history row: the yaw-wrapped state at time T together with
// the derivative evaluated at that state, plus the wheel channels and the
// inputs that produced them.
type Record struct {
	T       float64
	Voltage physics.WheelVec
	Torque  physics.WheelVec

	State dynamo.State
	Deriv dynamo.State

	Current     physics.WheelVec
	CurrentRate physics.WheelVec
	Speed       physics.WheelVec
	SpeedRate   physics.WheelVec
}

// History is the append-only result of a run. Records[0] is the seed row at
// t=0 holding the initial condition; each later row is one Euler step.
type History struct {
	Records []Record
	Metrics map[string]float64
}

func (h *History) Len() int { return len(h.Records) }

func (h *History) Times() []float64 {
	out := make([]float64, len(h.Records))
	for i, rec := range h.Records {
		out[i] = rec.T
	}
	return out
}

// StateChannel extracts one vehicle state channel across the run.
func (h *History) StateChannel(i int) []float64 {
	out := make([]float64, len(h.Records))
	for k, rec := range h.Records {
		out[k] = rec.State[i]
	}
	return out
}

// WheelChannel extracts one per-wheel series across the run. The pick
// function selects which WheelVec of the record to read.
func (h *History) WheelChannel(j int, pick func(*Record) physics.WheelVec) []float64 {
	out := make([]float64, len(h.Records))
	for k := range h.Records {
		out[k] = pick(&h.Records[k])[j]
	}
	return out
}

func (h *History) Final() *Record {
	if len(h.Records) == 0 {
		return nil
	}
	return &h.Records[len(h.Records)-1]
}

// Metric accumulates a scalar over the run's records.
type Metric interface {
	Name() string
	Observe(rec *Record)
	Value() float64
	Reset()
}

// Observer is notified of every record as it is appended.
type Observer interface {
	OnStep(rec *Record)
}

// Config describes a run. A nil InitState means all-zero.
type Config struct {
	Dt      float64
	MaxTime float64

	InitState  dynamo.State
	InitWheels WheelState
}
