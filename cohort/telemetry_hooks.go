package cohort

import (
	"log/slog"

	"github.com/pthm-cable/souls/telemetry"
)

// flushTelemetry flushes the stats window when it is due, or unconditionally
// when force is set, and handles milestones.
func (c *Cohort) flushTelemetry(force bool) {
	if !force && !c.collector.ShouldFlush(c.tick) {
		return
	}

	stats := c.collector.Flush(c.tick, c.States())
	perfStats := c.perfCollector.Stats()

	if c.statsCallback != nil {
		c.statsCallback(stats)
	}

	if c.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := c.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := c.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, m := range c.milestoneDetector.Check(stats) {
		if c.logStats {
			m.LogMilestone()
		}
		if err := c.outputManager.WriteMilestone(m); err != nil {
			slog.Error("failed to write milestone", "error", err)
		}
		if c.snapshotDir != "" {
			c.SaveSnapshot(&m)
		}
	}
}

// SaveSnapshot writes a snapshot of the cohort to the snapshot directory.
// Returns the file path, or "" when snapshots are disabled or saving failed.
func (c *Cohort) SaveSnapshot(milestone *telemetry.Milestone) string {
	if c.snapshotDir == "" {
		return ""
	}
	path, err := telemetry.SaveSnapshot(c.Snapshot(milestone), c.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return ""
	}
	slog.Info("snapshot saved", "path", path, "tick", c.tick)
	return path
}

// Snapshot builds a snapshot from the current state.
func (c *Cohort) Snapshot(milestone *telemetry.Milestone) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Seed:      c.seed,
		Tick:      c.tick,
		Outcomes:  append([]telemetry.Outcome(nil), c.outcomes...),
		Milestone: milestone,
	}

	for _, st := range c.States() {
		snapshot.Souls = append(snapshot.Souls, telemetry.SoulState{
			State:    st,
			Lifetime: c.lifetimeTracker.Get(st.Identity).ToJSON(),
		})
	}
	return snapshot
}
