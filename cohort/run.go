package cohort

import "log/slog"

// Summary describes a finished or capped run.
type Summary struct {
	Ticks     int32
	Souls     int
	Alive     int
	Unified   int
	Decohered int
}

// UnifiedFraction returns the share of resolved souls that unified.
func (s Summary) UnifiedFraction() float64 {
	resolved := s.Unified + s.Decohered
	if resolved == 0 {
		return 0
	}
	return float64(s.Unified) / float64(resolved)
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", int(s.Ticks)),
		slog.Int("souls", s.Souls),
		slog.Int("alive", s.Alive),
		slog.Int("unified", s.Unified),
		slog.Int("decohered", s.Decohered),
		slog.Float64("unified_fraction", s.UnifiedFraction()),
	)
}

// Run steps the cohort until every soul resolves or maxTicks steps have been
// taken (0 = unlimited), then flushes the last partial stats window.
func (c *Cohort) Run(maxTicks int) Summary {
	for c.alive > 0 {
		if maxTicks > 0 && int(c.tick) >= maxTicks {
			break
		}
		c.Step()
	}
	if c.collector.Pending(c.tick) {
		c.flushTelemetry(true)
	}
	return c.Summary()
}

// Summary reports the cohort's current totals.
func (c *Cohort) Summary() Summary {
	s := Summary{
		Ticks: c.tick,
		Souls: c.alive + len(c.outcomes),
		Alive: c.alive,
	}
	for _, o := range c.outcomes {
		if o.Unified() {
			s.Unified++
		} else {
			s.Decohered++
		}
	}
	return s
}
