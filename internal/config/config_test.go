package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/roversim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt != DefaultDt {
		t.Errorf("expected dt %f, got %f", DefaultDt, cfg.Dt)
	}
	if cfg.MaxTime != DefaultMaxTime {
		t.Errorf("expected maxtime %f, got %f", DefaultMaxTime, cfg.MaxTime)
	}
	if cfg.Drive != "constant" {
		t.Errorf("expected constant drive, got %s", cfg.Drive)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Drive = "ramp"
	cfg.Volts = 9.5
	cfg.RiseTime = 2
	cfg.InitState.U = 1.25
	cfg.InitState.Psi = -0.4
	cfg.Motor = map[string]float64{"resistance": 2}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Drive != "ramp" || loaded.Volts != 9.5 || loaded.RiseTime != 2 {
		t.Errorf("drive fields did not round-trip: %+v", loaded)
	}
	if loaded.InitState.U != 1.25 || loaded.InitState.Psi != -0.4 {
		t.Errorf("init state did not round-trip: %+v", loaded.InitState)
	}
	if loaded.Motor["resistance"] != 2 {
		t.Errorf("motor overrides did not round-trip: %+v", loaded.Motor)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("volts: 6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Volts != 6 {
		t.Errorf("expected volts 6, got %f", cfg.Volts)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("unset fields should keep defaults, got dt %f", cfg.Dt)
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitState = InitStateConfig{U: 1, V: 2, W: 3, P: 4, Q: 5, R: 6, X: 7, Y: 8, Z: 9, Phi: 0.1, Theta: 0.2, Psi: 0.3}

	x := cfg.GetInitState()
	want := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 0.1, 0.2, 0.3}
	for i, v := range want {
		if math.Abs(x[i]-v) > 1e-15 {
			t.Errorf("channel %d: expected %f, got %f", i, v, x[i])
		}
	}
	if len(x) != dynamo.StateDim {
		t.Errorf("expected %d channels, got %d", dynamo.StateDim, len(x))
	}
}

func TestBuildVoltageSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Drive = "schedule"
	cfg.Schedule = []ScheduleEntry{
		{Start: 0, Volts: [4]float64{1, 1, 1, 1}},
		{Start: 2, Volts: [4]float64{3, 3, 3, 3}},
	}

	src, err := cfg.BuildVoltageSource()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if v := src.Voltage(nil, 2.5); v[0] != 3 {
		t.Errorf("expected scheduled 3 V, got %f", v[0])
	}

	cfg.Drive = "warp"
	if _, err := cfg.BuildVoltageSource(); err == nil {
		t.Error("expected error for unknown drive profile")
	}
}

func TestBuildModelsOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Motor = map[string]float64{"resistance": 2.5}
	cfg.Vehicle = map[string]float64{"mass": 30}

	motor, rover, err := cfg.BuildModels()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if motor.Resistance != 2.5 {
		t.Errorf("motor override not applied: %f", motor.Resistance)
	}
	if rover.Mass != 30 {
		t.Errorf("vehicle override not applied: %f", rover.Mass)
	}

	cfg.Motor = map[string]float64{"bogus": 1}
	if _, _, err := cfg.BuildModels(); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter for unknown motor param, got %v", err)
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("cruise") == nil {
		t.Error("cruise preset should exist")
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should return nil")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets should name every preset")
	}
}
