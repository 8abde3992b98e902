package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Alive     int `csv:"alive"`
	Embodied  int `csv:"embodied"`
	Unified   int `csv:"unified_total"`   // cumulative
	Decohered int `csv:"decohered_total"` // cumulative

	// Events during window
	Recognitions        int     `csv:"recognitions"`
	Crossings           int     `csv:"crossings"`
	Nurtures            int     `csv:"nurtures"`
	NewlyEmbodied       int     `csv:"newly_embodied"`
	NewlyUnified        int     `csv:"newly_unified"`
	NewlyDecohered      int     `csv:"newly_decohered"`
	RecognitionsPerSoul float64 `csv:"recognitions_per_soul"`

	// Energy distribution of living souls (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Kappa distribution of living souls
	KappaMean float64 `csv:"kappa_mean"`
	KappaStd  float64 `csv:"kappa_std"`
}

// Quantile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = max(0, min(1, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = Quantile(sorted, 0.10)
	p50 = Quantile(sorted, 0.50)
	p90 = Quantile(sorted, 0.90)
	return mean, p10, p50, p90
}

// ComputeKappaStats calculates mean and population standard deviation.
func ComputeKappaStats(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	return mean, math.Sqrt(max(0, variance))
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("alive", s.Alive),
		slog.Int("embodied", s.Embodied),
		slog.Int("unified_total", s.Unified),
		slog.Int("decohered_total", s.Decohered),
		slog.Int("recognitions", s.Recognitions),
		slog.Int("crossings", s.Crossings),
		slog.Int("nurtures", s.Nurtures),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("kappa_mean", s.KappaMean),
		slog.Float64("kappa_std", s.KappaStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"alive", s.Alive,
		"embodied", s.Embodied,
		"unified_total", s.Unified,
		"decohered_total", s.Decohered,
		"recognitions", s.Recognitions,
		"recognitions_per_soul", s.RecognitionsPerSoul,
		"crossings", s.Crossings,
		"nurtures", s.Nurtures,
		"newly_embodied", s.NewlyEmbodied,
		"newly_unified", s.NewlyUnified,
		"newly_decohered", s.NewlyDecohered,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"kappa_mean", s.KappaMean,
		"kappa_std", s.KappaStd,
	)
}
