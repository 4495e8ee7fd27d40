package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/sim"
)

// Summary renders a boxed run overview: final pose, final velocities and the
// run metrics.
func Summary(history *sim.History, dt, maxTime float64) string {
	final := history.Final()
	if final == nil {
		return Panel.Render("empty run")
	}

	var b strings.Builder
	b.WriteString(Header.Render("run summary"))
	b.WriteString("\n")

	row := func(label string, format string, args ...interface{}) {
		b.WriteString(Label.Render(label))
		b.WriteString(Value.Render(fmt.Sprintf(format, args...)))
		b.WriteString("\n")
	}

	row("steps", "%d (dt=%g, t=%g)", history.Len()-1, dt, maxTime)
	row("surge u", "%.4f m/s", final.State[dynamo.SurgeVel])
	row("sway v", "%.4f m/s", final.State[dynamo.SwayVel])
	row("heave w", "%.4f m/s", final.State[dynamo.HeaveVel])
	row("position", "(%.3f, %.3f, %.3f) m", final.State[dynamo.PosX], final.State[dynamo.PosY], final.State[dynamo.PosZ])
	row("attitude", "(%.4f, %.4f, %.4f) rad", final.State[dynamo.Roll], final.State[dynamo.Pitch], final.State[dynamo.Yaw])
	row("wheel speed", "%.3f rad/s (FL)", final.Speed[0])

	if len(history.Metrics) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(history.Metrics))
		for name := range history.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(Label.Render(name))
			b.WriteString(MetricValue.Render(fmt.Sprintf("%.6g", history.Metrics[name])))
			b.WriteString("\n")
		}
	}

	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// Plot renders an ASCII chart of a channel, downsampled to the given width.
func Plot(series []float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	plotted := Downsample(series, width)
	graph := asciigraph.Plot(plotted,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
	return Graph.Render(graph)
}

// Downsample reduces a series to at most width points by striding.
func Downsample(series []float64, width int) []float64 {
	if width <= 0 || len(series) <= width {
		return series
	}
	stride := float64(len(series)) / float64(width)
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		out[i] = series[int(float64(i)*stride)]
	}
	return out
}
