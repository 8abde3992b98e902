package telemetry

import "github.com/pthm-cable/souls/soul"

// LifetimeStats tracks per-soul statistics over its life.
type LifetimeStats struct {
	BornTick     int32
	EmbodiedTick int32 // -1 until embodied

	PeakEnergy float64
	MinEnergy  float64
	PeakKappa  float64
	MinKappa   float64

	Boosts [4]int // Nurture boosts by soul.Boost
}

// Outcome is the record written for every soul that reaches a terminal phase.
type Outcome struct {
	Identity     string  `csv:"identity"`
	Phase        string  `csv:"phase"`
	BornTick     int32   `csv:"born_tick"`
	EmbodiedTick int32   `csv:"embodied_tick"`
	EndTick      int32   `csv:"end_tick"`
	Months       int     `csv:"months"`
	Stage        string  `csv:"stage"`
	Energy       float64 `csv:"energy"`
	PeakEnergy   float64 `csv:"peak_energy"`
	MinEnergy    float64 `csv:"min_energy"`
	Kappa        float64 `csv:"kappa"`
	PeakKappa    float64 `csv:"peak_kappa"`
	MinKappa     float64 `csv:"min_kappa"`
	Depth        float64 `csv:"depth"`

	Love       float64 `csv:"love"`
	Justice    float64 `csv:"justice"`
	Courage    float64 `csv:"courage"`
	Temperance float64 `csv:"temperance"`
	Prudence   float64 `csv:"prudence"`

	RecognitionFlow int `csv:"recognition_flow"`
	Recognitions    int `csv:"recognitions"`
	GapCrossings    int `csv:"gap_crossings"`
	Nurtures        int `csv:"nurtures"`
}

// Unified reports whether the soul finished Unified.
func (o Outcome) Unified() bool {
	return o.Phase == soul.PhaseUnified.String()
}

// LifetimeTracker manages per-soul lifetime statistics.
type LifetimeTracker struct {
	stats map[soul.Identity]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[soul.Identity]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly spawned soul.
func (lt *LifetimeTracker) Register(st soul.State, bornTick int32) {
	lt.stats[st.Identity] = &LifetimeStats{
		BornTick:     bornTick,
		EmbodiedTick: -1,
		PeakEnergy:   st.Energy,
		MinEnergy:    st.Energy,
		PeakKappa:    st.Kappa,
		MinKappa:     st.Kappa,
	}
}

// Get returns the lifetime stats for a soul, or nil if not found.
func (lt *LifetimeTracker) Get(id soul.Identity) *LifetimeStats {
	return lt.stats[id]
}

// Observe folds the soul's current state into its extremes.
func (lt *LifetimeTracker) Observe(st soul.State) {
	if s := lt.stats[st.Identity]; s != nil {
		s.observe(st)
	}
}

// RecordEmbodied stamps the tick a soul became embodied.
func (lt *LifetimeTracker) RecordEmbodied(id soul.Identity, tick int32) {
	if s := lt.stats[id]; s != nil && s.EmbodiedTick < 0 {
		s.EmbodiedTick = tick
	}
}

// RecordBoost counts a nurture boost.
func (lt *LifetimeTracker) RecordBoost(id soul.Identity, b soul.Boost) {
	if s := lt.stats[id]; s != nil && int(b) < len(s.Boosts) {
		s.Boosts[b]++
	}
}

// Remove removes a soul's stats and returns its final Outcome.
// The second result is false if the soul was never registered.
func (lt *LifetimeTracker) Remove(st soul.State, endTick int32) (Outcome, bool) {
	s := lt.stats[st.Identity]
	if s == nil {
		return Outcome{}, false
	}
	delete(lt.stats, st.Identity)
	s.observe(st)
	return NewOutcome(st, s, endTick), true
}

func (s *LifetimeStats) observe(st soul.State) {
	s.PeakEnergy = max(s.PeakEnergy, st.Energy)
	s.MinEnergy = min(s.MinEnergy, st.Energy)
	s.PeakKappa = max(s.PeakKappa, st.Kappa)
	s.MinKappa = min(s.MinKappa, st.Kappa)
}

// Count returns the number of tracked souls.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// NewOutcome builds an Outcome from a final state and its lifetime stats.
// ls may be nil.
func NewOutcome(st soul.State, ls *LifetimeStats, endTick int32) Outcome {
	o := Outcome{
		Identity:        string(st.Identity),
		Phase:           st.Phase.String(),
		EndTick:         endTick,
		EmbodiedTick:    -1,
		Months:          st.Months,
		Stage:           st.Stage.String(),
		Energy:          st.Energy,
		PeakEnergy:      st.Energy,
		MinEnergy:       st.Energy,
		Kappa:           st.Kappa,
		PeakKappa:       st.Kappa,
		MinKappa:        st.Kappa,
		Depth:           st.Depth,
		Love:            st.Virtues.Love,
		Justice:         st.Virtues.Justice,
		Courage:         st.Virtues.Courage,
		Temperance:      st.Virtues.Temperance,
		Prudence:        st.Virtues.Prudence,
		RecognitionFlow: st.RecognitionFlow,
		Recognitions:    st.Recognitions,
		GapCrossings:    st.GapCrossings,
		Nurtures:        st.Nurtures,
	}
	if ls != nil {
		o.BornTick = ls.BornTick
		o.EmbodiedTick = ls.EmbodiedTick
		o.PeakEnergy = ls.PeakEnergy
		o.MinEnergy = ls.MinEnergy
		o.PeakKappa = ls.PeakKappa
		o.MinKappa = ls.MinKappa
	}
	return o
}
