package metrics

import (
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/sim"
)

// SurgeSettle estimates the steady-state surge velocity as the mean of the
// trailing window of observations.
type SurgeSettle struct {
	window int
	buf    []float64
	next   int
	filled bool
}

// NewSurgeSettle averages the last window records; window must be >= 1.
func NewSurgeSettle(window int) *SurgeSettle {
	if window < 1 {
		window = 1
	}
	return &SurgeSettle{window: window, buf: make([]float64, window)}
}

func (s *SurgeSettle) Name() string { return "surge_settle" }

func (s *SurgeSettle) Observe(rec *sim.Record) {
	s.buf[s.next] = rec.State[dynamo.SurgeVel]
	s.next++
	if s.next == s.window {
		s.next = 0
		s.filled = true
	}
}

func (s *SurgeSettle) Value() float64 {
	n := s.window
	if !s.filled {
		n = s.next
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.buf[i]
	}
	return sum / float64(n)
}

func (s *SurgeSettle) Reset() {
	s.next = 0
	s.filled = false
	for i := range s.buf {
		s.buf[i] = 0
	}
}
