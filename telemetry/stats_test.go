package telemetry

import (
	"math"
	"testing"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p15", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.15, 2.0},
		{"p85", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.85, 9.0},
		{"clamped low", []float64{1, 2, 3}, -1, 1.0},
		{"clamped high", []float64{1, 2, 3}, 2, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Quantile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{1.0, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.1}
	mean, p10, p50, p90 := ComputeEnergyStats(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p10-0.1) > 0.001 {
		t.Errorf("p10 = %v, want 0.1", p10)
	}
	if math.Abs(p50-0.5) > 0.001 {
		t.Errorf("p50 = %v, want 0.5", p50)
	}
	if math.Abs(p90-0.9) > 0.001 {
		t.Errorf("p90 = %v, want 0.9", p90)
	}

	// Input order must be left untouched.
	if values[0] != 1.0 || values[9] != 0.1 {
		t.Errorf("input was reordered: %v", values)
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeEnergyStats([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestComputeKappaStats(t *testing.T) {
	mean, std := ComputeKappaStats([]float64{1, 2, 3, 4, 5})
	if math.Abs(mean-3) > 1e-9 {
		t.Errorf("mean = %v, want 3", mean)
	}
	if math.Abs(std-math.Sqrt2) > 1e-9 {
		t.Errorf("std = %v, want %v", std, math.Sqrt2)
	}

	mean, std = ComputeKappaStats([]float64{-4})
	if mean != -4 || std != 0 {
		t.Errorf("single value: mean=%v std=%v, want -4 and 0", mean, std)
	}

	mean, std = ComputeKappaStats(nil)
	if mean != 0 || std != 0 {
		t.Error("empty slice should return zeros")
	}
}
