package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Simulation.TicksPerMonth != 10 {
		t.Errorf("ticks_per_month = %d, want 10", cfg.Simulation.TicksPerMonth)
	}
	if cfg.Simulation.LifespanMonths != 96 {
		t.Errorf("lifespan_months = %d, want 96", cfg.Simulation.LifespanMonths)
	}
	if cfg.Derived.LifespanTicks != 960 {
		t.Errorf("derived lifespan ticks = %d, want 960", cfg.Derived.LifespanTicks)
	}
	if cfg.Derived.VirtueSpan != 10 {
		t.Errorf("derived virtue span = %v, want 10", cfg.Derived.VirtueSpan)
	}
	if len(cfg.Stages.Thresholds) != 5 {
		t.Errorf("expected 5 stage thresholds, got %v", cfg.Stages.Thresholds)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("energy:\n  base_decay: 0.9\ncohort:\n  size: 7\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay: %v", err)
	}

	if cfg.Energy.BaseDecay != 0.9 {
		t.Errorf("base_decay = %v, want 0.9", cfg.Energy.BaseDecay)
	}
	if cfg.Cohort.Size != 7 {
		t.Errorf("cohort size = %d, want 7", cfg.Cohort.Size)
	}
	// Keys absent from the overlay keep their defaults
	if cfg.Energy.Max != 1000 {
		t.Errorf("energy max = %v, want default 1000", cfg.Energy.Max)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"zero ticks per month", "simulation:\n  ticks_per_month: 0\n"},
		{"negative lifespan", "simulation:\n  lifespan_months: -1\n"},
		{"empty virtue range", "virtues:\n  min: 5\n  max: 5\n"},
		{"initial energy above max", "energy:\n  initial_max: 2000\n"},
		{"chance above one", "recognition:\n  base_chance: 1.5\n"},
		{"stages not from zero", "stages:\n  thresholds: [1, 12]\n"},
		{"stages not ascending", "stages:\n  thresholds: [0, 12, 12]\n"},
		{"zero decay floor", "energy:\n  min_decay: 0\n"},
		{"negative initial energy", "energy:\n  initial_min: -900\n  initial_max: -500\n"},
		{"negative love credit", "recognition:\n  love_credit: -500\n  base_chance: 1\n"},
		{"negative prudence bonus", "recognition:\n  prudence_bonus: -0.1\n"},
		{"kappa damping above one", "nurture:\n  kappa_damping: 1.5\n"},
		{"negative kappa damping", "nurture:\n  kappa_damping: -0.5\n"},
		{"too many stages", "stages:\n  thresholds: [0, 10, 20, 30, 40, 50, 60]\n"},
		{"lifespan inside new phase", "simulation:\n  lifespan_months: 2\n  embodied_after_months: 1\n"},
		{"negative embodiment delay", "simulation:\n  embodied_after_months: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.overlay))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidConfig", tt.overlay, err)
			}
		})
	}
}

func TestParseBoundaryValues(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"zero initial energy floor", "energy:\n  initial_min: 0\n"},
		{"zero love credit", "recognition:\n  love_credit: 0\n"},
		{"kappa damping at bounds", "nurture:\n  kappa_damping: 1\n"},
		{"five stages", "stages:\n  thresholds: [0, 10, 20, 30, 40]\n"},
		{"shortest lifespan with embodiment", "simulation:\n  lifespan_months: 3\n  embodied_after_months: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.overlay)); err != nil {
				t.Errorf("Parse(%q) error = %v, want nil", tt.overlay, err)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("energy: [not, a, map"))
	if err == nil {
		t.Fatal("expected YAML error")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Error("syntax errors should not be reported as validation errors")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Kappa.JusticeDrift = 0.25

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Kappa.JusticeDrift != 0.25 {
		t.Errorf("justice_drift = %v, want 0.25", loaded.Kappa.JusticeDrift)
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg().Telemetry.StatsWindow <= 0 {
		t.Error("expected positive stats window")
	}
}
