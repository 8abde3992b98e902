package soul

import (
	"fmt"
	"strings"
)

// BarCells is the width of a bar built by Bar.
const BarCells = 10

// Bar renders fraction (clamped to [0, 1]) as a row of filled and empty cells.
func Bar(fraction float64) string {
	filled := int(fraction * BarCells)
	filled = max(0, min(BarCells, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", BarCells-filled)
}

var virtueDescriptions = map[string]string{
	"love":       "Minimizes recognition debt. Governs empathy and connection; credits energy on every recognition.",
	"justice":    "Maintains ledger equilibrium. Above the baseline it pushes kappa positive, below it negative.",
	"courage":    "Spends energy to overcome costly recognition events. Raises both decay and kappa volatility.",
	"temperance": "Conserves energy. Relieves decay, most strongly while energy is high.",
	"prudence":   "Long-term pattern recognition. Grows slowly with time and makes recognitions likelier.",
}

// VirtueDescription returns the tooltip text for a virtue name.
func VirtueDescription(name string) string {
	if d, ok := virtueDescriptions[strings.ToLower(name)]; ok {
		return d
	}
	return "A fundamental cosmic algorithm."
}

// Card returns the text panel for the soul's current state.
func (s *Soul) Card() string {
	return RenderCard(s.st, s.params)
}

// RenderCard formats st as a fixed-layout text panel.
func RenderCard(st State, p Params) string {
	var b strings.Builder

	b.WriteString("      -- VIRTUE TECHNOLOGY SOUL --\n")
	fmt.Fprintf(&b, "[ SOUL #%s | %s | %d/%d months ]\n\n",
		st.Identity.Label(), strings.ToUpper(st.Phase.String()), st.Months, p.LifespanMonths)

	fmt.Fprintf(&b, "   κ-CURVATURE: %.4f\n", st.Kappa)
	energyFrac := 0.0
	if st.MaxEnergy > 0 {
		energyFrac = st.Energy / st.MaxEnergy
	}
	fmt.Fprintf(&b, "        ENERGY: %s [%.1f%%]\n", Bar(energyFrac), energyFrac*100)
	fmt.Fprintf(&b, "         DEPTH: %.2f\n", st.Depth)
	fmt.Fprintf(&b, "         STAGE: %s  breath %s\n\n", st.Stage, breath(st.BreathPhase, p.BreathCycle))

	b.WriteString("VIRTUE TECHS:\n")
	span := p.VirtueMax - p.VirtueMin
	for _, name := range VirtueNames {
		v, _ := st.Virtues.Get(name)
		frac := 0.0
		if span > 0 {
			frac = (v - p.VirtueMin) / span
		}
		label := strings.ToUpper(name[:1]) + name[1:] + ":"
		fmt.Fprintf(&b, "    %-11s %s %5.2f\n", label, Bar(frac), v)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "RECOGNITION FLOW: %d events\n", st.RecognitionFlow)
	fmt.Fprintf(&b, "GAP CROSSINGS:    %d\n", st.GapCrossings)
	if st.Recognitions > 0 || st.Nurtures > 0 {
		fmt.Fprintf(&b, "RECOGNIZED: %d  NURTURED: %d\n", st.Recognitions, st.Nurtures)
	}
	return b.String()
}

// breath renders the breath phase as a pulse of cycle dots.
func breath(phase, cycle int) string {
	if cycle <= 0 {
		return ""
	}
	cells := make([]rune, cycle)
	for i := range cells {
		cells[i] = '·'
	}
	cells[phase%cycle] = '●'
	return string(cells)
}
