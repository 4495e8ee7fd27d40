package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/physics"
)

// Simulator owns the evolving vehicle and wheel state and advances the
// coupled motor/rigid-body system with a fixed explicit-Euler step. The model
// evaluators are pure; all mutation happens here, between steps.
type Simulator struct {
	motor       *physics.Motor
	body        *physics.Rover
	voltage     VoltageSource
	disturbance DisturbanceSource
	metrics     []Metric
	observers   []Observer
}

func New(motor *physics.Motor, body *physics.Rover, voltage VoltageSource, disturbance DisturbanceSource) *Simulator {
	return &Simulator{
		motor:       motor,
		body:        body,
		voltage:     voltage,
		disturbance: disturbance,
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances the simulation from t=0 to t=MaxTime and returns the history.
// All configuration errors surface before the first step; once stepping
// begins the loop runs to completion unless the context is canceled between
// steps. Numerical blow-up is not intercepted: the model is total over its
// real-valued domain apart from the documented pitch singularity.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*History, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	x := dynamo.NewState()
	if cfg.InitState != nil {
		x = cfg.InitState.Clone()
	}
	wheels := cfg.InitWheels

	steps := int(math.Floor(cfg.MaxTime/cfg.Dt + 1e-9))
	history := &History{
		Records: make([]Record, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	dt := cfg.Dt

	for k := 0; k <= steps; k++ {
		select {
		case <-ctx.Done():
			return history, ctx.Err()
		default:
		}

		v := s.voltage.Voltage(x, t)
		load := s.disturbance.Load(x, t)

		torque, currentRate, speedRate := s.motor.Evaluate(v, wheels.Current, wheels.Speed)
		deriv, wrapped := s.body.Evaluate(x, torque, load, t)

		history.Records = append(history.Records, Record{
			T:           t,
			Voltage:     v,
			Torque:      torque,
			State:       wrapped.Clone(),
			Deriv:       deriv,
			Current:     wheels.Current,
			CurrentRate: currentRate,
			Speed:       wheels.Speed,
			SpeedRate:   speedRate,
		})

		rec := &history.Records[len(history.Records)-1]
		for _, m := range s.metrics {
			m.Observe(rec)
		}
		for _, obs := range s.observers {
			obs.OnStep(rec)
		}

		if k == steps {
			break
		}

		// Explicit Euler from the yaw-wrapped state.
		for i := range x {
			x[i] = wrapped[i] + deriv[i]*dt
		}
		for j := 0; j < physics.NumWheels; j++ {
			wheels.Current[j] += currentRate[j] * dt
			wheels.Speed[j] += speedRate[j] * dt
		}
		t += dt
	}

	for _, m := range s.metrics {
		history.Metrics[m.Name()] = m.Value()
	}

	return history, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.MaxTime < cfg.Dt {
		return fmt.Errorf("%w: maxtime %f shorter than one step %f", dynamo.ErrInvalidConfig, cfg.MaxTime, cfg.Dt)
	}
	if cfg.InitState != nil && len(cfg.InitState) != dynamo.StateDim {
		return fmt.Errorf("%w: initial state needs %d channels, got %d", dynamo.ErrInvalidConfig, dynamo.StateDim, len(cfg.InitState))
	}
	if cfg.InitState != nil && !cfg.InitState.IsValid() {
		return fmt.Errorf("%w: initial state: %w", dynamo.ErrInvalidConfig, dynamo.ErrInvalidState)
	}
	if err := s.motor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	if err := s.body.Validate(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	return nil
}
