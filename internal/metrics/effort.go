package metrics

import "github.com/san-kum/roversim/internal/sim"

// DriveEffort integrates the squared drive voltage over the run, summed
// across all four wheels.
type DriveEffort struct {
	total float64
	prevT float64
	first bool
}

func NewDriveEffort() *DriveEffort {
	return &DriveEffort{first: true}
}

func (e *DriveEffort) Name() string { return "drive_effort" }

func (e *DriveEffort) Observe(rec *sim.Record) {
	if e.first {
		e.first = false
		e.prevT = rec.T
		return
	}
	dt := rec.T - e.prevT
	e.prevT = rec.T
	for _, v := range rec.Voltage {
		e.total += v * v * dt
	}
}

func (e *DriveEffort) Value() float64 { return e.total }

func (e *DriveEffort) Reset() {
	e.total = 0
	e.prevT = 0
	e.first = true
}
