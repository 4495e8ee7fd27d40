package sim

import (
	"context"
	"sync"

	"github.com/san-kum/roversim/internal/physics"
)

// Ensemble runs one independent simulation per voltage source, concurrently.
// The model evaluators are pure and shared; each run owns its own state and
// history. Used for drive-amplitude sweeps.
type Ensemble struct {
	motor       *physics.Motor
	body        *physics.Rover
	disturbance DisturbanceSource
	sources     []VoltageSource
}

func NewEnsemble(motor *physics.Motor, body *physics.Rover, disturbance DisturbanceSource, sources []VoltageSource) *Ensemble {
	return &Ensemble{
		motor:       motor,
		body:        body,
		disturbance: disturbance,
		sources:     sources,
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*History, error) {
	results := make([]*History, len(e.sources))
	errs := make([]error, len(e.sources))

	var wg sync.WaitGroup
	for i, src := range e.sources {
		wg.Add(1)
		go func(idx int, src VoltageSource) {
			defer wg.Done()
			s := New(e.motor, e.body, src, e.disturbance)
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, src)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
