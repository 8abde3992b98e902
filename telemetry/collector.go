package telemetry

import "github.com/pthm-cable/souls/soul"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	recognitions   int
	crossings      int
	nurtures       int
	newlyEmbodied  int
	newlyUnified   int
	newlyDecohered int

	// Cumulative terminal counts
	unifiedTotal   int
	decoheredTotal int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
	}
}

// Record counts one event in the current window.
func (c *Collector) Record(e Event) {
	n := max(e.Count, 1)
	switch e.Type {
	case EventRecognition:
		c.recognitions += n
	case EventCrossing:
		c.crossings += n
	case EventNurture:
		c.nurtures += n
	case EventEmbodied:
		c.newlyEmbodied++
	case EventUnified:
		c.newlyUnified++
		c.unifiedTotal++
	case EventDecohered:
		c.newlyDecohered++
		c.decoheredTotal++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Pending returns true if ticks have passed since the last flush.
func (c *Collector) Pending(currentTick int32) bool {
	return currentTick > c.windowStartTick
}

// Flush produces a WindowStats from the living souls' states and resets
// counters for the next window.
func (c *Collector) Flush(currentTick int32, alive []soul.State) WindowStats {
	energies := make([]float64, 0, len(alive))
	kappas := make([]float64, 0, len(alive))
	embodied := 0
	for i := range alive {
		energies = append(energies, alive[i].Energy)
		kappas = append(kappas, alive[i].Kappa)
		if alive[i].Phase == soul.PhaseEmbodied {
			embodied++
		}
	}

	energyMean, p10, p50, p90 := ComputeEnergyStats(energies)
	kappaMean, kappaStd := ComputeKappaStats(kappas)

	var perSoul float64
	if len(alive) > 0 {
		perSoul = float64(c.recognitions) / float64(len(alive))
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Alive:     len(alive),
		Embodied:  embodied,
		Unified:   c.unifiedTotal,
		Decohered: c.decoheredTotal,

		Recognitions:        c.recognitions,
		Crossings:           c.crossings,
		Nurtures:            c.nurtures,
		NewlyEmbodied:       c.newlyEmbodied,
		NewlyUnified:        c.newlyUnified,
		NewlyDecohered:      c.newlyDecohered,
		RecognitionsPerSoul: perSoul,

		EnergyMean: energyMean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		KappaMean: kappaMean,
		KappaStd:  kappaStd,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.recognitions = 0
	c.crossings = 0
	c.nurtures = 0
	c.newlyEmbodied = 0
	c.newlyUnified = 0
	c.newlyDecohered = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

// Totals returns the cumulative unified and decohered counts.
func (c *Collector) Totals() (unified, decohered int) {
	return c.unifiedTotal, c.decoheredTotal
}
