package sim

import (
	"github.com/rs/zerolog"

	"github.com/san-kum/roversim/internal/dynamo"
)

// LogObserver emits a progress event every Interval records. With a debug
// logger attached this gives a cheap heartbeat on long runs without touching
// the hot loop otherwise.
type LogObserver struct {
	Logger   zerolog.Logger
	Interval int

	seen int
}

func NewLogObserver(logger zerolog.Logger, interval int) *LogObserver {
	if interval < 1 {
		interval = 1
	}
	return &LogObserver{Logger: logger, Interval: interval}
}

func (o *LogObserver) OnStep(rec *Record) {
	o.seen++
	if o.seen%o.Interval != 0 {
		return
	}
	o.Logger.Debug().
		Float64("t", rec.T).
		Float64("u", rec.State[dynamo.SurgeVel]).
		Float64("yaw", rec.State[dynamo.Yaw]).
		Float64("wheel_speed", rec.Speed[0]).
		Msg("simulation progress")
}
