// Package tui provides a live terminal telemetry view of a running
// simulation, built on bubbletea. The view owns its own copy of the vehicle
// and wheel state and advances the same fixed-step update as the driver,
// paced to the frame rate.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/physics"
	"github.com/san-kum/roversim/internal/sim"
	"github.com/san-kum/roversim/internal/viz"
)

const historyCapacity = 600

type TickMsg time.Time

type Model struct {
	motor       *physics.Motor
	body        *physics.Rover
	voltage     sim.VoltageSource
	disturbance sim.DisturbanceSource

	state  dynamo.State
	wheels sim.WheelState
	t      float64
	dt     float64
	maxT   float64

	initState  dynamo.State
	initWheels sim.WheelState

	frameRate int
	running   bool
	done      bool

	surgeHist []float64
	yawHist   []float64
}

func NewModel(motor *physics.Motor, body *physics.Rover, voltage sim.VoltageSource, disturbance sim.DisturbanceSource, cfg sim.Config, frameRate int) Model {
	x := dynamo.NewState()
	if cfg.InitState != nil {
		x = cfg.InitState.Clone()
	}
	return Model{
		motor:       motor,
		body:        body,
		voltage:     voltage,
		disturbance: disturbance,
		state:       x,
		wheels:      cfg.InitWheels,
		dt:          cfg.Dt,
		maxT:        cfg.MaxTime,
		initState:   x.Clone(),
		initWheels:  cfg.InitWheels,
		frameRate:   frameRate,
		running:     true,
		surgeHist:   make([]float64, 0, historyCapacity),
		yawHist:     make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initState.Clone()
			m.wheels = m.initWheels
			m.t = 0
			m.done = false
			m.surgeHist = m.surgeHist[:0]
			m.yawHist = m.yawHist[:0]
		}
		return m, nil

	case TickMsg:
		if m.running && !m.done {
			m.advanceFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// advanceFrame steps the coupled system by one frame of wall time.
func (m *Model) advanceFrame() {
	frame := 1.0 / float64(m.frameRate)
	steps := int(frame / m.dt)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		if m.t >= m.maxT {
			m.done = true
			break
		}
		v := m.voltage.Voltage(m.state, m.t)
		load := m.disturbance.Load(m.state, m.t)
		torque, currentRate, speedRate := m.motor.Evaluate(v, m.wheels.Current, m.wheels.Speed)
		deriv, wrapped := m.body.Evaluate(m.state, torque, load, m.t)

		for j := range m.state {
			m.state[j] = wrapped[j] + deriv[j]*m.dt
		}
		for j := 0; j < physics.NumWheels; j++ {
			m.wheels.Current[j] += currentRate[j] * m.dt
			m.wheels.Speed[j] += speedRate[j] * m.dt
		}
		m.t += m.dt
	}

	m.surgeHist = append(m.surgeHist, m.state[dynamo.SurgeVel])
	m.yawHist = append(m.yawHist, m.state[dynamo.Yaw])
	if len(m.surgeHist) > historyCapacity {
		m.surgeHist = m.surgeHist[1:]
		m.yawHist = m.yawHist[1:]
	}
}

func (m Model) View() string {
	var stats strings.Builder
	stats.WriteString(viz.Header.Render("rover telemetry"))
	stats.WriteString("\n")

	row := func(label, value string) {
		stats.WriteString(viz.Label.Render(label))
		stats.WriteString(viz.Value.Render(value))
		stats.WriteString("\n")
	}

	row("time", fmt.Sprintf("%.2f / %.2f s", m.t, m.maxT))
	row("surge u", fmt.Sprintf("%.3f m/s", m.state[dynamo.SurgeVel]))
	row("sway v", fmt.Sprintf("%.3f m/s", m.state[dynamo.SwayVel]))
	row("yaw", fmt.Sprintf("%.3f rad", m.state[dynamo.Yaw]))
	row("position", fmt.Sprintf("(%.2f, %.2f)", m.state[dynamo.PosX], m.state[dynamo.PosY]))
	stats.WriteString("\n")
	stats.WriteString(viz.Label.Render("wheel"))
	stats.WriteString(viz.Value.Render("I (A)    omega (rad/s)"))
	stats.WriteString("\n")
	names := [physics.NumWheels]string{"FL", "RL", "FR", "RR"}
	for j := 0; j < physics.NumWheels; j++ {
		row(names[j], fmt.Sprintf("%7.3f  %8.3f", m.wheels.Current[j], m.wheels.Speed[j]))
	}

	status := "running"
	if m.done {
		status = "finished"
	} else if !m.running {
		status = "paused"
	}

	graphs := lipgloss.JoinVertical(lipgloss.Left,
		viz.Plot(m.surgeHist, "surge velocity", 60, 8),
		viz.Plot(m.yawHist, "yaw angle", 60, 8),
	)

	panel := lipgloss.JoinHorizontal(lipgloss.Top,
		viz.Panel.Render(strings.TrimRight(stats.String(), "\n")),
		graphs,
	)
	help := viz.Help.Render(fmt.Sprintf("[%s]  space pause  r reset  q quit", status))
	return panel + "\n" + help + "\n"
}

// Run starts the live view and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
