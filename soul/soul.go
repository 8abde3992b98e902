// Package soul implements the deterministic life simulation of a single soul.
//
// A soul is built from an Identity alone. Every random draw comes from a
// stream seeded by that identity, so two souls with the same identity and
// the same sequence of calls always hold identical state. A soul is not safe
// for concurrent use; distinct souls share nothing.
package soul

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pthm-cable/souls/rng"
)

// Identity is the immutable key a soul's whole evolution derives from.
type Identity string

// IdentityOf converts a string or integer token to an Identity.
func IdentityOf(v any) Identity {
	switch t := v.(type) {
	case Identity:
		return t
	case string:
		return Identity(t)
	case fmt.Stringer:
		return Identity(t.String())
	}
	return Identity(fmt.Sprint(v))
}

// Label returns the display form, zero padding numeric identities to 4 digits.
func (id Identity) Label() string {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && n >= 0 {
		return fmt.Sprintf("%04d", n)
	}
	return string(id)
}

// Virtues holds the five named traits that modulate decay and drift.
type Virtues struct {
	Love       float64 `json:"love"`
	Justice    float64 `json:"justice"`
	Courage    float64 `json:"courage"`
	Temperance float64 `json:"temperance"`
	Prudence   float64 `json:"prudence"`
}

// VirtueNames lists the virtues in display order.
var VirtueNames = []string{"love", "justice", "courage", "temperance", "prudence"}

// Get returns the named virtue.
func (v Virtues) Get(name string) (float64, bool) {
	switch name {
	case "love":
		return v.Love, true
	case "justice":
		return v.Justice, true
	case "courage":
		return v.Courage, true
	case "temperance":
		return v.Temperance, true
	case "prudence":
		return v.Prudence, true
	}
	return 0, false
}

// Map returns the virtues keyed by name.
func (v Virtues) Map() map[string]float64 {
	return map[string]float64{
		"love":       v.Love,
		"justice":    v.Justice,
		"courage":    v.Courage,
		"temperance": v.Temperance,
		"prudence":   v.Prudence,
	}
}

// State is a snapshot of everything a soul exposes.
type State struct {
	Identity    Identity `json:"identity"`
	Ticks       int      `json:"ticks"`
	Months      int      `json:"months"`
	Stage       Stage    `json:"stage"`
	BreathPhase int      `json:"breath_phase"`
	Phase       Phase    `json:"phase"`
	Evolving    bool     `json:"evolving"`

	Energy    float64 `json:"energy"`
	MaxEnergy float64 `json:"max_energy"`
	Kappa     float64 `json:"kappa"`
	Depth     float64 `json:"depth"`
	Virtues   Virtues `json:"virtues"`

	RecognitionFlow int `json:"recognition_flow"` // Stochastic events from Advance
	Recognitions    int `json:"recognitions"`     // External calls to Recognize
	GapCrossings    int `json:"gap_crossings"`
	Nurtures        int `json:"nurtures"`
}

// LogValue implements slog.LogValuer for structured logging.
func (st State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("identity", string(st.Identity)),
		slog.String("phase", st.Phase.String()),
		slog.Int("ticks", st.Ticks),
		slog.Int("months", st.Months),
		slog.Float64("energy", st.Energy),
		slog.Float64("kappa", st.Kappa),
		slog.Int("recognition_flow", st.RecognitionFlow),
		slog.Int("gap_crossings", st.GapCrossings),
	)
}

// Boost names one of the nurture actions.
type Boost uint8

const (
	BoostCourage    Boost = iota // Courage up, energy restored
	BoostJustice                 // Justice up, kappa damped toward zero
	BoostTemperance              // Temperance up
	BoostLove                    // Love up, half energy restored
	numBoosts
)

func (b Boost) String() string {
	switch b {
	case BoostCourage:
		return "courage"
	case BoostJustice:
		return "justice"
	case BoostTemperance:
		return "temperance"
	case BoostLove:
		return "love"
	}
	return "unknown"
}

// Soul is one simulated entity.
type Soul struct {
	params Params
	stream *rng.Stream
	st     State
}

// New creates a soul for id. The soul starts paused; call SetEvolving to let
// Advance take effect.
func New(id Identity, p Params) *Soul {
	p.StageThresholds = append([]int(nil), p.StageThresholds...)
	s := &Soul{
		params: p,
		stream: rng.New(string(id)),
	}
	s.initialize(id)
	return s
}

// initialize draws the initial state. The draw order is part of the
// determinism contract: kappa, energy, depth, then the virtues in name order.
func (s *Soul) initialize(id Identity) {
	p := &s.params
	r := s.stream
	s.st = State{
		Identity:  id,
		Phase:     PhaseNew,
		MaxEnergy: p.MaxEnergy,
	}
	s.st.Kappa = r.Range(p.KappaInitialMin, p.KappaInitialMax)
	s.st.Energy = r.Range(p.EnergyInitialMin, p.EnergyInitialMax)
	s.st.Depth = r.Range(p.DepthMin, p.DepthMax)
	s.st.Virtues = Virtues{
		Love:       r.Range(p.VirtueInitialMin, p.VirtueInitialMax),
		Justice:    r.Range(p.VirtueInitialMin, p.VirtueInitialMax),
		Courage:    r.Range(p.VirtueInitialMin, p.VirtueInitialMax),
		Temperance: r.Range(p.VirtueInitialMin, p.VirtueInitialMax),
		Prudence:   r.Range(p.VirtueInitialMin, p.VirtueInitialMax),
	}
	s.st.Stage = p.stageFor(0)
}

// Identity returns the soul's identity.
func (s *Soul) Identity() Identity { return s.st.Identity }

// Params returns the coefficients the soul runs with.
func (s *Soul) Params() Params { return s.params }

// State returns a snapshot of the soul. It never mutates the soul.
func (s *Soul) State() State { return s.st }

// Phase returns the current phase.
func (s *Soul) Phase() Phase { return s.st.Phase }

// Terminal reports whether the soul is Unified or Decohered.
func (s *Soul) Terminal() bool { return s.st.Phase.Terminal() }

// Evolving reports whether Advance currently takes effect.
func (s *Soul) Evolving() bool { return s.st.Evolving }

// SetEvolving pauses or resumes the soul. A terminal soul stays paused.
func (s *Soul) SetEvolving(on bool) {
	if s.Terminal() {
		return
	}
	s.st.Evolving = on
}

// Reset rebuilds the soul from its identity, discarding all progress.
func (s *Soul) Reset() {
	id := s.st.Identity
	s.stream = rng.New(string(id))
	s.initialize(id)
}

// Advance runs one timestep. It returns false, changing nothing, when the
// soul is terminal or paused.
func (s *Soul) Advance() bool {
	st := &s.st
	if !st.Evolving || st.Phase.Terminal() {
		return false
	}
	p := &s.params

	st.Ticks++
	st.Months = st.Ticks / p.TicksPerMonth
	st.BreathPhase = st.Ticks % p.BreathCycle
	if stage := p.stageFor(st.Months); stage > st.Stage {
		st.Stage = stage
	}

	if st.Months >= p.LifespanMonths {
		if st.Energy > 0 {
			st.Phase = PhaseUnified
		} else {
			st.Phase = PhaseDecohered
		}
		st.Evolving = false
		return true
	}
	if st.Phase == PhaseNew && st.Months > p.EmbodiedAfterMonths {
		st.Phase = PhaseEmbodied
	}

	if !s.decay() {
		return true
	}
	s.driftKappa()
	s.recognitionEvent()
	s.growPrudence()
	s.gapCrossing()
	return true
}

// decay drains energy for one tick. It returns false when the soul decoheres.
func (s *Soul) decay() bool {
	p := &s.params
	st := &s.st
	v := &st.Virtues

	temperance := (v.Temperance - p.VirtueMin) / (p.VirtueMax - p.VirtueMin)
	relief := 1 - p.TemperanceRelief*temperance*(st.Energy/p.MaxEnergy)
	amount := p.BaseDecay*relief + p.CourageCost*v.Courage
	if amount < p.MinDecay {
		amount = p.MinDecay
	}

	st.Energy -= amount
	if st.Energy <= 0 {
		st.Energy = 0
		st.Phase = PhaseDecohered
		st.Evolving = false
		return false
	}
	return true
}

func (s *Soul) driftKappa() {
	p := &s.params
	v := &s.st.Virtues

	volatility := p.VolatilityBase + p.CourageVolatility*v.Courage
	drift := p.JusticeDrift * (v.Justice - p.JusticeBaseline)
	s.st.Kappa += (s.stream.Next()-0.5)*volatility + drift
}

func (s *Soul) recognitionEvent() {
	p := &s.params
	st := &s.st

	chance := p.RecognitionChance + p.PrudenceBonus*st.Virtues.Prudence
	if s.stream.Next() < chance {
		st.RecognitionFlow++
		st.Energy = s.clampEnergy(st.Energy + p.LoveCredit*st.Virtues.Love)
	}
}

func (s *Soul) growPrudence() {
	p := &s.params
	if s.stream.Next() < p.PrudenceGrowthChance {
		s.st.Virtues.Prudence = s.clampVirtue(s.st.Virtues.Prudence + p.PrudenceGrowthStep)
	}
}

// gapCrossing rolls a crossing opportunity on every interval month boundary.
func (s *Soul) gapCrossing() {
	p := &s.params
	st := &s.st
	if st.Ticks%p.TicksPerMonth != 0 || st.Months%p.CrossingIntervalMonths != 0 {
		return
	}
	if s.stream.Next() < p.CrossingChance {
		st.GapCrossings++
	}
}

// Nurture applies one boost picked from the soul's stream. It returns false,
// changing nothing, once the soul is terminal.
func (s *Soul) Nurture() (Boost, bool) {
	if s.Terminal() {
		return 0, false
	}
	p := &s.params
	st := &s.st
	v := &st.Virtues

	b := Boost(s.stream.Intn(int(numBoosts)))
	switch b {
	case BoostCourage:
		v.Courage = s.clampVirtue(v.Courage + p.NurtureVirtueStep)
		st.Energy = s.clampEnergy(st.Energy + p.NurtureEnergyRestore)
	case BoostJustice:
		v.Justice = s.clampVirtue(v.Justice + p.NurtureVirtueStep)
		st.Kappa *= p.NurtureKappaDamping
	case BoostTemperance:
		v.Temperance = s.clampVirtue(v.Temperance + p.NurtureVirtueStep)
	case BoostLove:
		v.Love = s.clampVirtue(v.Love + p.NurtureVirtueStep)
		st.Energy = s.clampEnergy(st.Energy + p.NurtureEnergyRestore/2)
	}
	st.Nurtures++
	return b, true
}

// Recognize records one external recognition. No-op once terminal.
func (s *Soul) Recognize() bool {
	if s.Terminal() {
		return false
	}
	s.st.Recognitions++
	return true
}

func (s *Soul) clampVirtue(v float64) float64 {
	return max(s.params.VirtueMin, min(s.params.VirtueMax, v))
}

func (s *Soul) clampEnergy(e float64) float64 {
	return max(0, min(s.params.MaxEnergy, e))
}
