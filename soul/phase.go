package soul

import "fmt"

// Phase is the coarse lifecycle marker of a soul.
// It only moves forward: New -> Embodied -> Unified | Decohered.
type Phase uint8

const (
	PhaseNew Phase = iota
	PhaseEmbodied
	PhaseUnified   // Reached the end of its lifespan with energy left
	PhaseDecohered // Ran out of energy
)

var phaseNames = [...]string{
	PhaseNew:       "New Spirit",
	PhaseEmbodied:  "Embodied",
	PhaseUnified:   "Unified",
	PhaseDecohered: "Decohered",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// Terminal reports whether p is Unified or Decohered.
func (p Phase) Terminal() bool {
	return p == PhaseUnified || p == PhaseDecohered
}

// MarshalText encodes the phase by name for JSON and CSV output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Stage is the fine-grained age marker, 0..4, derived from elapsed months.
type Stage uint8

var stageNames = [...]string{"Spark", "Kindling", "Flame", "Radiance", "Ember"}

// LastStage is the final named stage.
const LastStage = Stage(len(stageNames) - 1)

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "Beyond"
}

// CanAdvance reports whether a soul may legally move from p to next.
// A New soul can only skip embodiment by running out of energy.
func CanAdvance(p, next Phase) bool {
	switch p {
	case PhaseNew:
		return next == PhaseEmbodied || next == PhaseDecohered
	case PhaseEmbodied:
		return next.Terminal()
	}
	return false
}
