package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/souls/soul"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds a cohort's state at one tick for offline analysis.
// Souls are rebuilt from their identity, so a snapshot is never restored.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	Souls    []SoulState `json:"souls"`
	Outcomes []Outcome   `json:"outcomes,omitempty"`

	Milestone *Milestone `json:"milestone,omitempty"`
}

// SoulState holds one living soul's state and lifetime extremes.
type SoulState struct {
	soul.State
	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	BornTick     int32   `json:"born_tick"`
	EmbodiedTick int32   `json:"embodied_tick"`
	PeakEnergy   float64 `json:"peak_energy"`
	MinEnergy    float64 `json:"min_energy"`
	PeakKappa    float64 `json:"peak_kappa"`
	MinKappa     float64 `json:"min_kappa"`
	Boosts       [4]int  `json:"boosts"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		BornTick:     ls.BornTick,
		EmbodiedTick: ls.EmbodiedTick,
		PeakEnergy:   ls.PeakEnergy,
		MinEnergy:    ls.MinEnergy,
		PeakKappa:    ls.PeakKappa,
		MinKappa:     ls.MinKappa,
		Boosts:       ls.Boosts,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Milestone != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Milestone.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unmarshal snapshot: version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
