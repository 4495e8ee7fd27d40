// Package metrics provides scalar run metrics computed over history records.
package metrics

import "github.com/san-kum/roversim/internal/sim"

// Stability reports the fraction of records whose state stayed finite and
// whose norm stayed below a threshold. 1.0 means no violations.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(rec *sim.Record) {
	s.samples++
	if !rec.State.IsValid() {
		s.violations++
		return
	}
	if rec.State.Norm() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
