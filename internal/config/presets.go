package config

import "sort"

var Presets = map[string]*Config{
	"cruise": {
		Drive: "constant", Volts: 12.0, Dt: 0.001, MaxTime: 10.0,
	},
	"rampup": {
		Drive: "ramp", Volts: 12.0, RiseTime: 4.0, Dt: 0.001, MaxTime: 12.0,
	},
	"coast": {
		Drive: "constant", Volts: 0.0, Dt: 0.001, MaxTime: 6.0,
		InitState:  InitStateConfig{U: 2.0},
		InitWheels: InitWheelsConfig{Speed: [4]float64{10, 10, 10, 10}},
	},
	"pivot": {
		Drive: "schedule", Dt: 0.001, MaxTime: 8.0,
		Schedule: []ScheduleEntry{
			{Start: 0, Volts: [4]float64{12, 12, 12, 12}},
			{Start: 3, Volts: [4]float64{12, 12, 4, 4}},
			{Start: 6, Volts: [4]float64{12, 12, 12, 12}},
		},
	},
	"bump": {
		Drive: "constant", Volts: 12.0, Dt: 0.001, MaxTime: 10.0,
		Disturbance: DisturbanceConfig{Heave: -80, Pitch: 6, Start: 4.0, End: 4.5},
	},
}

// GetPreset returns a copy of the named preset so callers can override
// fields without touching the shared table. Nil if the name is unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	cp.Schedule = append([]ScheduleEntry(nil), p.Schedule...)
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
