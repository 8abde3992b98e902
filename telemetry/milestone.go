package telemetry

import (
	"fmt"
	"log/slog"
)

// MilestoneType identifies the type of milestone.
type MilestoneType string

const (
	MilestoneFirstEmbodied   MilestoneType = "first_embodied"
	MilestoneFirstUnified    MilestoneType = "first_unified"
	MilestoneFirstDecohered  MilestoneType = "first_decohered"
	MilestoneMassDecoherence MilestoneType = "mass_decoherence"
	MilestoneCrossingSurge   MilestoneType = "crossing_surge"
	MilestoneCohortResolved  MilestoneType = "cohort_resolved"
)

// Milestone represents an automatically detected moment in a cohort's run.
type Milestone struct {
	Type        MilestoneType `csv:"type" json:"type"`
	Tick        int32         `csv:"tick" json:"tick"`
	Description string        `csv:"description" json:"description"`
}

// LogMilestone logs the milestone using slog.
func (m Milestone) LogMilestone() {
	slog.Info("milestone",
		"type", string(m.Type),
		"tick", m.Tick,
		"description", m.Description,
	)
}

// massDecoherenceFraction is the share of a window's souls that must
// decohere within that window to count as mass decoherence.
const massDecoherenceFraction = 0.25

// MilestoneDetector detects milestones from successive window stats.
type MilestoneDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	seen     map[MilestoneType]bool
	resolved bool
}

// NewMilestoneDetector creates a detector with the given history size.
func NewMilestoneDetector(historySize int) *MilestoneDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a rolling crossing average
	}
	return &MilestoneDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		seen:        make(map[MilestoneType]bool),
	}
}

// Check analyzes the latest stats and returns any triggered milestones.
func (md *MilestoneDetector) Check(stats WindowStats) []Milestone {
	var milestones []Milestone

	if m := md.checkFirst(MilestoneFirstEmbodied, stats.NewlyEmbodied, stats,
		"first soul embodied"); m != nil {
		milestones = append(milestones, *m)
	}
	if m := md.checkFirst(MilestoneFirstUnified, stats.NewlyUnified, stats,
		"first soul unified"); m != nil {
		milestones = append(milestones, *m)
	}
	if m := md.checkFirst(MilestoneFirstDecohered, stats.NewlyDecohered, stats,
		"first soul decohered"); m != nil {
		milestones = append(milestones, *m)
	}
	if m := md.checkMassDecoherence(stats); m != nil {
		milestones = append(milestones, *m)
	}
	if m := md.checkCrossingSurge(stats); m != nil {
		milestones = append(milestones, *m)
	}
	if m := md.checkResolved(stats); m != nil {
		milestones = append(milestones, *m)
	}

	md.addToHistory(stats)
	return milestones
}

func (md *MilestoneDetector) addToHistory(stats WindowStats) {
	md.history[md.historyIdx] = stats
	md.historyIdx = (md.historyIdx + 1) % md.historySize
	if md.historyIdx == 0 {
		md.historyFull = true
	}
}

func (md *MilestoneDetector) getHistory() []WindowStats {
	if md.historyFull {
		return md.history
	}
	return md.history[:md.historyIdx]
}

// checkFirst fires once, the first window in which count is positive.
func (md *MilestoneDetector) checkFirst(t MilestoneType, count int, stats WindowStats, what string) *Milestone {
	if md.seen[t] || count == 0 {
		return nil
	}
	md.seen[t] = true
	return &Milestone{
		Type:        t,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%s (%d this window)", what, count),
	}
}

func (md *MilestoneDetector) checkMassDecoherence(stats WindowStats) *Milestone {
	atStart := stats.Alive + stats.NewlyDecohered + stats.NewlyUnified
	if atStart == 0 || stats.NewlyDecohered < 2 {
		return nil
	}
	frac := float64(stats.NewlyDecohered) / float64(atStart)
	if frac < massDecoherenceFraction {
		return nil
	}
	return &Milestone{
		Type:        MilestoneMassDecoherence,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d souls decohered (%.0f%%)", stats.NewlyDecohered, atStart, frac*100),
	}
}

// checkCrossingSurge fires when a window's crossings exceed twice the
// rolling average.
func (md *MilestoneDetector) checkCrossingSurge(stats WindowStats) *Milestone {
	history := md.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Crossings
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Crossings) > avg*2.0 && stats.Crossings >= 3 {
		return &Milestone{
			Type:        MilestoneCrossingSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d gap crossings is %.1fx average (%.2f)", stats.Crossings, float64(stats.Crossings)/avg, avg),
		}
	}
	return nil
}

func (md *MilestoneDetector) checkResolved(stats WindowStats) *Milestone {
	if md.resolved || stats.Alive > 0 || stats.Unified+stats.Decohered == 0 {
		return nil
	}
	md.resolved = true
	return &Milestone{
		Type:        MilestoneCohortResolved,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("cohort resolved: %d unified, %d decohered", stats.Unified, stats.Decohered),
	}
}
