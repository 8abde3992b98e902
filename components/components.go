// Package components defines ECS components for the cohort.
package components

import "github.com/pthm-cable/souls/soul"

// Identity names a soul within its cohort.
type Identity struct {
	Token soul.Identity
	Index int // Spawn order
}

// Vitals holds the simulated soul itself.
type Vitals struct {
	Soul *soul.Soul
}

// Lifetime holds what the cohort saw of the soul at the end of the last tick,
// so per-tick deltas can be turned into telemetry events.
type Lifetime struct {
	BornTick            int32
	LastRecognitionFlow int
	LastCrossings       int
	LastPhase           soul.Phase
}

// Observe returns the recognition and crossing deltas since the last call,
// whether the phase changed, and records st as the new baseline.
func (l *Lifetime) Observe(st soul.State) (recognitions, crossings int, phaseChanged bool) {
	recognitions = st.RecognitionFlow - l.LastRecognitionFlow
	crossings = st.GapCrossings - l.LastCrossings
	phaseChanged = st.Phase != l.LastPhase

	l.LastRecognitionFlow = st.RecognitionFlow
	l.LastCrossings = st.GapCrossings
	l.LastPhase = st.Phase
	return recognitions, crossings, phaseChanged
}
