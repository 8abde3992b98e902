package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pthm-cable/souls/config"
)

// HallEntry is a finished unified soul and its fitness.
type HallEntry struct {
	Identity        string     `json:"identity"`
	Fitness         float64    `json:"fitness"`
	Energy          float64    `json:"energy"`
	RecognitionFlow int        `json:"recognition_flow"`
	GapCrossings    int        `json:"gap_crossings"`
	Nurtures        int        `json:"nurtures"`
	EndTick         int32      `json:"end_tick"`
	Virtues         [5]float64 `json:"virtues"` // love, justice, courage, temperance, prudence
}

// HallOfFame keeps the fittest unified souls of a run, sorted by fitness.
type HallOfFame struct {
	entries   []HallEntry
	maxSize   int
	maxEnergy float64
	cfg       config.HallOfFameFitnessConfig
}

// NewHallOfFame creates a hall holding at most cfg.Size entries.
// maxEnergy normalizes the energy term of the fitness.
func NewHallOfFame(cfg config.HallOfFameConfig, maxEnergy float64) *HallOfFame {
	return &HallOfFame{
		entries:   make([]HallEntry, 0, cfg.Size),
		maxSize:   cfg.Size,
		maxEnergy: maxEnergy,
		cfg:       cfg.Fitness,
	}
}

// Consider evaluates a finished soul for entry.
// Returns true if the soul was added to the hall.
func (hof *HallOfFame) Consider(o Outcome) bool {
	if hof == nil || hof.maxSize == 0 || !o.Unified() {
		return false
	}

	entry := HallEntry{
		Identity:        o.Identity,
		Fitness:         hof.calculateFitness(o),
		Energy:          o.Energy,
		RecognitionFlow: o.RecognitionFlow,
		GapCrossings:    o.GapCrossings,
		Nurtures:        o.Nurtures,
		EndTick:         o.EndTick,
		Virtues:         [5]float64{o.Love, o.Justice, o.Courage, o.Temperance, o.Prudence},
	}

	var added bool
	hof.entries, added = hof.insertEntry(hof.entries, entry)
	return added
}

// calculateFitness computes the weighted fitness score.
func (hof *HallOfFame) calculateFitness(o Outcome) float64 {
	var energyFrac float64
	if hof.maxEnergy > 0 {
		energyFrac = o.Energy / hof.maxEnergy
	}
	fitness := energyFrac * hof.cfg.EnergyWeight
	fitness += float64(o.RecognitionFlow) * hof.cfg.RecognitionWeight
	fitness += float64(o.GapCrossings) * hof.cfg.CrossingWeight
	return fitness
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	// Find insertion point (sorted descending by fitness, ties keep arrival order)
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall, true
}

// Entries returns the hall in descending fitness order.
func (hof *HallOfFame) Entries() []HallEntry {
	if hof == nil {
		return nil
	}
	return hof.entries
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	if hof == nil {
		return 0
	}
	return len(hof.entries)
}

// TopFitness returns the highest fitness in the hall, or 0 if it is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if hof.Size() == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	entries := hof.Entries()
	if entries == nil {
		entries = []HallEntry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file back for analysis.
func LoadHallOfFameFromFile(path string) ([]HallEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}
	return entries, nil
}
