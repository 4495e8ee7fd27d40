// Package config loads and saves run configurations as YAML and assembles
// the simulation inputs they describe.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/roversim/internal/drive"
	"github.com/san-kum/roversim/internal/dynamo"
	"github.com/san-kum/roversim/internal/physics"
	"github.com/san-kum/roversim/internal/sim"
)

const (
	DefaultDt      = 0.001
	DefaultMaxTime = 10.0
	DefaultVolts   = 12.0
)

type Config struct {
	Drive       string             `yaml:"drive"` // constant, ramp, schedule
	Volts       float64            `yaml:"volts"`
	RiseTime    float64            `yaml:"rise_time"`
	Schedule    []ScheduleEntry    `yaml:"schedule"`
	Dt          float64            `yaml:"dt"`
	MaxTime     float64            `yaml:"maxtime"`
	InitState   InitStateConfig    `yaml:"init_state"`
	InitWheels  InitWheelsConfig   `yaml:"init_wheels"`
	Disturbance DisturbanceConfig  `yaml:"disturbance"`
	Motor       map[string]float64 `yaml:"motor"`
	Vehicle     map[string]float64 `yaml:"vehicle"`
}

type ScheduleEntry struct {
	Start float64    `yaml:"start"`
	Volts [4]float64 `yaml:"volts"`
}

type InitStateConfig struct {
	U     float64 `yaml:"u"`
	V     float64 `yaml:"v"`
	W     float64 `yaml:"w"`
	P     float64 `yaml:"p"`
	Q     float64 `yaml:"q"`
	R     float64 `yaml:"r"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Phi   float64 `yaml:"phi"`
	Theta float64 `yaml:"theta"`
	Psi   float64 `yaml:"psi"`
}

type InitWheelsConfig struct {
	Current [4]float64 `yaml:"current"`
	Speed   [4]float64 `yaml:"speed"`
}

type DisturbanceConfig struct {
	Heave float64 `yaml:"heave"`
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
	Start float64 `yaml:"start"` // pulse window; Start==End means steady
	End   float64 `yaml:"end"`
}

func DefaultConfig() *Config {
	return &Config{
		Drive:   "constant",
		Volts:   DefaultVolts,
		Dt:      DefaultDt,
		MaxTime: DefaultMaxTime,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetInitState assembles the 12-channel initial vehicle state.
func (c *Config) GetInitState() dynamo.State {
	x := dynamo.NewState()
	x[dynamo.SurgeVel] = c.InitState.U
	x[dynamo.SwayVel] = c.InitState.V
	x[dynamo.HeaveVel] = c.InitState.W
	x[dynamo.RollRate] = c.InitState.P
	x[dynamo.PitchRate] = c.InitState.Q
	x[dynamo.YawRate] = c.InitState.R
	x[dynamo.PosX] = c.InitState.X
	x[dynamo.PosY] = c.InitState.Y
	x[dynamo.PosZ] = c.InitState.Z
	x[dynamo.Roll] = c.InitState.Phi
	x[dynamo.Pitch] = c.InitState.Theta
	x[dynamo.Yaw] = c.InitState.Psi
	return x
}

// GetInitWheels assembles the initial wheel currents and speeds.
func (c *Config) GetInitWheels() sim.WheelState {
	return sim.WheelState{
		Current: physics.WheelVec(c.InitWheels.Current),
		Speed:   physics.WheelVec(c.InitWheels.Speed),
	}
}

// BuildVoltageSource constructs the drive profile named by the config.
func (c *Config) BuildVoltageSource() (sim.VoltageSource, error) {
	switch c.Drive {
	case "", "constant":
		return drive.NewConstant(c.Volts), nil
	case "ramp":
		return &drive.Ramp{Peak: c.Volts, RiseTime: c.RiseTime}, nil
	case "schedule":
		segments := make([]drive.Segment, len(c.Schedule))
		for i, e := range c.Schedule {
			segments[i] = drive.Segment{Start: e.Start, V: physics.WheelVec(e.Volts)}
		}
		return drive.NewSchedule(segments), nil
	default:
		return nil, fmt.Errorf("unknown drive profile: %s", c.Drive)
	}
}

// BuildDisturbanceSource constructs the disturbance described by the config.
func (c *Config) BuildDisturbanceSource() sim.DisturbanceSource {
	load := physics.Load{Heave: c.Disturbance.Heave, Roll: c.Disturbance.Roll, Pitch: c.Disturbance.Pitch}
	if load == (physics.Load{}) {
		return drive.NoLoad{}
	}
	if c.Disturbance.End > c.Disturbance.Start {
		return &drive.PulseLoad{L: load, Start: c.Disturbance.Start, End: c.Disturbance.End}
	}
	return &drive.SteadyLoad{L: load}
}

// BuildModels constructs the motor and vehicle with any parameter overrides.
func (c *Config) BuildModels() (*physics.Motor, *physics.Rover, error) {
	motor := physics.NewMotor()
	if err := applyOverrides(motor, c.Motor); err != nil {
		return nil, nil, err
	}
	rover := physics.NewRover()
	if err := applyOverrides(rover, c.Vehicle); err != nil {
		return nil, nil, err
	}
	return motor, rover, nil
}

func applyOverrides(model dynamo.Configurable, overrides map[string]float64) error {
	for name, value := range overrides {
		if err := model.SetParam(name, value); err != nil {
			return err
		}
	}
	return nil
}
