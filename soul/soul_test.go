package soul

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/souls/config"
)

// newEvolving builds a soul with default params and starts it.
func newEvolving(id string) *Soul {
	s := New(Identity(id), DefaultParams())
	s.SetEvolving(true)
	return s
}

// advanceN calls Advance n times and returns how many took effect.
func advanceN(s *Soul, n int) int {
	applied := 0
	for i := 0; i < n; i++ {
		if s.Advance() {
			applied++
		}
	}
	return applied
}

func TestScenarioLifespan(t *testing.T) {
	s := newEvolving("test-1")
	advanceN(s, 960)

	st := s.State()
	if !st.Phase.Terminal() {
		t.Errorf("phase = %v after 960 ticks, want terminal", st.Phase)
	}
	if st.Months != 96 {
		t.Errorf("months = %d, want 96", st.Months)
	}
	if st.Evolving {
		t.Error("terminal soul should not be evolving")
	}
}

func TestScenarioSameIdentityDeepEqual(t *testing.T) {
	a := newEvolving("abc")
	b := newEvolving("abc")
	advanceN(a, 50)
	advanceN(b, 50)

	if !reflect.DeepEqual(a.State(), b.State()) {
		t.Errorf("snapshots differ:\n%+v\n%+v", a.State(), b.State())
	}
}

func TestDeterminismWithNurture(t *testing.T) {
	run := func() []State {
		s := newEvolving("determinism")
		var states []State
		for i := 0; i < 600; i++ {
			if i%37 == 0 {
				s.Nurture()
			}
			if i%91 == 0 {
				s.Recognize()
			}
			s.Advance()
			states = append(states, s.State())
		}
		return states
	}

	first, second := run(), run()
	for i := range first {
		if !reflect.DeepEqual(first[i], second[i]) {
			t.Fatalf("state %d differs:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}

func TestDistinctIdentitiesDiverge(t *testing.T) {
	a := New("soul-1", DefaultParams()).State()
	b := New("soul-2", DefaultParams()).State()
	if a.Energy == b.Energy && a.Kappa == b.Kappa {
		t.Error("distinct identities produced identical initial state")
	}
}

func TestInitialStateWithinRanges(t *testing.T) {
	p := DefaultParams()
	for i := 0; i < 200; i++ {
		st := New(IdentityOf(i), p).State()

		if st.Ticks != 0 || st.Phase != PhaseNew || st.Evolving {
			t.Fatalf("soul %d: unexpected initial lifecycle %+v", i, st)
		}
		if st.Energy < p.EnergyInitialMin || st.Energy >= p.EnergyInitialMax {
			t.Errorf("soul %d: energy %v outside initial range", i, st.Energy)
		}
		if st.Kappa < p.KappaInitialMin || st.Kappa >= p.KappaInitialMax {
			t.Errorf("soul %d: kappa %v outside initial range", i, st.Kappa)
		}
		if st.Depth < p.DepthMin || st.Depth >= p.DepthMax {
			t.Errorf("soul %d: depth %v outside range", i, st.Depth)
		}
		for name, v := range st.Virtues.Map() {
			if v < p.VirtueInitialMin || v >= p.VirtueInitialMax {
				t.Errorf("soul %d: %s %v outside initial range", i, name, v)
			}
		}
	}
}

func TestBoundsHoldForAllReachableStates(t *testing.T) {
	p := DefaultParams()
	for i := 0; i < 40; i++ {
		s := newEvolving(fmt.Sprintf("bounds-%d", i))
		for tick := 0; tick < 1000; tick++ {
			if tick%5 == 0 {
				s.Nurture()
			}
			s.Advance()

			st := s.State()
			if st.Energy < 0 || st.Energy > p.MaxEnergy {
				t.Fatalf("%s tick %d: energy %v outside [0, %v]", st.Identity, tick, st.Energy, p.MaxEnergy)
			}
			for name, v := range st.Virtues.Map() {
				if v < p.VirtueMin || v > p.VirtueMax {
					t.Fatalf("%s tick %d: %s %v outside [%v, %v]", st.Identity, tick, name, v, p.VirtueMin, p.VirtueMax)
				}
			}
		}
	}
}

func TestTicksMonotonic(t *testing.T) {
	s := newEvolving("ticks")
	prev := s.State().Ticks
	for i := 0; i < 1200; i++ {
		applied := s.Advance()
		cur := s.State().Ticks
		switch {
		case applied && cur != prev+1:
			t.Fatalf("applied advance moved ticks %d -> %d", prev, cur)
		case !applied && cur != prev:
			t.Fatalf("no-op advance moved ticks %d -> %d", prev, cur)
		}
		prev = cur
	}
}

func TestPausedSoulDoesNotAdvance(t *testing.T) {
	s := New("paused", DefaultParams())
	before := s.State()
	if s.Advance() {
		t.Error("Advance on a paused soul reported progress")
	}
	if !reflect.DeepEqual(before, s.State()) {
		t.Error("Advance on a paused soul mutated state")
	}

	s.SetEvolving(true)
	if !s.Advance() {
		t.Error("Advance after SetEvolving(true) did nothing")
	}
	s.SetEvolving(false)
	if s.Advance() {
		t.Error("Advance after SetEvolving(false) reported progress")
	}
}

func TestTerminalFreeze(t *testing.T) {
	s := newEvolving("freeze")
	advanceN(s, 960)
	if !s.Terminal() {
		t.Fatalf("expected terminal soul, got %v", s.Phase())
	}

	frozen := s.State()
	s.SetEvolving(true)
	if s.Evolving() {
		t.Error("terminal soul accepted SetEvolving(true)")
	}
	if n := advanceN(s, 100); n != 0 {
		t.Errorf("%d advances applied after terminal", n)
	}
	if _, ok := s.Nurture(); ok {
		t.Error("Nurture applied after terminal")
	}
	if s.Recognize() {
		t.Error("Recognize applied after terminal")
	}
	if !reflect.DeepEqual(frozen, s.State()) {
		t.Errorf("terminal state changed:\n%+v\n%+v", frozen, s.State())
	}
}

func TestDecoheresWhenEnergyRunsOut(t *testing.T) {
	p := DefaultParams()
	p.BaseDecay = 1000
	s := New("doomed", p)
	s.SetEvolving(true)

	applied := advanceN(s, 50)
	st := s.State()
	if st.Phase != PhaseDecohered {
		t.Fatalf("phase = %v, want Decohered", st.Phase)
	}
	if st.Energy != 0 {
		t.Errorf("energy = %v, want 0", st.Energy)
	}
	if applied > 2 {
		t.Errorf("took %d ticks to decohere, want at most 2", applied)
	}
	if st.Months >= p.LifespanMonths {
		t.Error("decoherence should come before the lifespan ends")
	}

	s.SetEvolving(true)
	if n := advanceN(s, 10); n != 0 {
		t.Errorf("%d advances applied after decoherence", n)
	}
	if _, ok := s.Nurture(); ok {
		t.Error("Nurture applied after decoherence")
	}
	if s.Recognize() {
		t.Error("Recognize applied after decoherence")
	}
	if !reflect.DeepEqual(st, s.State()) {
		t.Errorf("decohered state changed:\n%+v\n%+v", st, s.State())
	}
}

func TestNegativeRecognitionCreditKeepsEnergyBounded(t *testing.T) {
	p := DefaultParams()
	p.LoveCredit = -500
	p.RecognitionChance = 1
	s := New("drain", p)
	s.SetEvolving(true)

	for i := 0; i < 5 && s.Advance(); i++ {
		st := s.State()
		if st.Energy < 0 || st.Energy > st.MaxEnergy {
			t.Fatalf("energy %v outside [0, %v] at tick %d", st.Energy, st.MaxEnergy, st.Ticks)
		}
	}
	if s.Phase() != PhaseDecohered {
		t.Errorf("phase = %v, want Decohered", s.Phase())
	}
}

func TestStageCappedAtLastStage(t *testing.T) {
	if config.MaxStages != int(LastStage)+1 {
		t.Fatalf("config allows %d stages, %d are named", config.MaxStages, LastStage+1)
	}

	p := DefaultParams()
	p.StageThresholds = []int{0, 1, 2, 3, 4, 5, 6}
	s := New("stages", p)
	s.SetEvolving(true)

	advanceN(s, 10*p.TicksPerMonth)
	if got := s.State().Stage; got != LastStage {
		t.Errorf("stage = %v (%d), want %v", got, got, LastStage)
	}
}

func TestDecayFloor(t *testing.T) {
	p := DefaultParams()
	p.BaseDecay = 0
	p.CourageCost = 0
	p.RecognitionChance = 0
	p.PrudenceBonus = 0
	s := New("floor", p)
	s.SetEvolving(true)

	before := s.State().Energy
	s.Advance()
	if got := before - s.State().Energy; got < p.MinDecay*0.999 {
		t.Errorf("energy dropped by %v, want at least the floor %v", got, p.MinDecay)
	}
}

func TestPhaseOrdering(t *testing.T) {
	for i := 0; i < 60; i++ {
		p := DefaultParams()
		if i%3 == 0 {
			p.BaseDecay = 1.2 // push a share of souls into decoherence
		}
		s := New(IdentityOf(i), p)
		s.SetEvolving(true)

		prev := s.Phase()
		for tick := 0; tick < 1000; tick++ {
			s.Advance()
			cur := s.Phase()
			if cur != prev && !CanAdvance(prev, cur) {
				t.Fatalf("soul %d: illegal transition %v -> %v", i, prev, cur)
			}
			prev = cur
		}
		if !prev.Terminal() {
			t.Errorf("soul %d ended in %v, want terminal", i, prev)
		}
	}
}

func TestEmbodiedAfterFirstMonths(t *testing.T) {
	s := newEvolving("embodied")
	p := s.Params()
	boundary := (p.EmbodiedAfterMonths + 1) * p.TicksPerMonth

	advanceN(s, boundary-1)
	if s.Phase() != PhaseNew {
		t.Errorf("phase at tick %d = %v, want New", boundary-1, s.Phase())
	}
	s.Advance()
	if s.Phase() != PhaseEmbodied {
		t.Errorf("phase at tick %d = %v, want Embodied", boundary, s.Phase())
	}
}

func TestStageAndBreath(t *testing.T) {
	s := newEvolving("stages")
	p := s.Params()
	prevStage := s.State().Stage

	for s.Advance() {
		st := s.State()
		if st.Stage < prevStage {
			t.Fatalf("stage regressed %v -> %v at tick %d", prevStage, st.Stage, st.Ticks)
		}
		prevStage = st.Stage
		if st.BreathPhase != st.Ticks%p.BreathCycle {
			t.Fatalf("breath phase %d at tick %d", st.BreathPhase, st.Ticks)
		}
	}

	if s.Phase() == PhaseUnified && prevStage != Stage(len(p.StageThresholds)-1) {
		t.Errorf("unified soul ended at stage %v", prevStage)
	}
}

func TestGapCrossingsBounded(t *testing.T) {
	s := newEvolving("crossings")
	advanceN(s, 960)
	st := s.State()
	p := s.Params()

	opportunities := st.Months / p.CrossingIntervalMonths
	if st.GapCrossings > opportunities {
		t.Errorf("%d crossings from %d opportunities", st.GapCrossings, opportunities)
	}
}

func TestNurtureBoosts(t *testing.T) {
	seen := make(map[Boost]bool)
	for i := 0; i < 50; i++ {
		s := New(IdentityOf(fmt.Sprintf("nurture-%d", i)), DefaultParams())
		before := s.State()
		b, ok := s.Nurture()
		if !ok {
			t.Fatal("Nurture on a fresh soul was rejected")
		}
		seen[b] = true
		after := s.State()

		if after.Nurtures != before.Nurtures+1 {
			t.Errorf("nurture count %d -> %d", before.Nurtures, after.Nurtures)
		}
		switch b {
		case BoostCourage:
			if after.Virtues.Courage <= before.Virtues.Courage || after.Energy <= before.Energy {
				t.Errorf("courage boost did not raise courage and energy")
			}
		case BoostJustice:
			if after.Virtues.Justice <= before.Virtues.Justice {
				t.Errorf("justice boost did not raise justice")
			}
			if abs(after.Kappa) > abs(before.Kappa) {
				t.Errorf("justice boost moved kappa away from zero: %v -> %v", before.Kappa, after.Kappa)
			}
		case BoostTemperance:
			if after.Virtues.Temperance <= before.Virtues.Temperance {
				t.Errorf("temperance boost did not raise temperance")
			}
		case BoostLove:
			if after.Virtues.Love <= before.Virtues.Love || after.Energy <= before.Energy {
				t.Errorf("love boost did not raise love and energy")
			}
		}
	}
	if len(seen) != int(numBoosts) {
		t.Errorf("only saw boosts %v across 50 souls", seen)
	}
}

func TestNurtureClampsVirtues(t *testing.T) {
	s := New("clamp", DefaultParams())
	for i := 0; i < 500; i++ {
		s.Nurture()
	}
	p := s.Params()
	for name, v := range s.State().Virtues.Map() {
		if v > p.VirtueMax {
			t.Errorf("%s = %v above max %v", name, v, p.VirtueMax)
		}
	}
	if s.State().Energy > p.MaxEnergy {
		t.Errorf("energy %v above max", s.State().Energy)
	}
}

func TestResetRestoresBirthState(t *testing.T) {
	s := newEvolving("reset")
	birth := New("reset", DefaultParams()).State()

	advanceN(s, 300)
	s.Nurture()
	s.Reset()

	if !reflect.DeepEqual(birth, s.State()) {
		t.Errorf("reset state differs from birth:\n%+v\n%+v", birth, s.State())
	}
}

func TestIdentityOf(t *testing.T) {
	tests := []struct {
		in    any
		want  Identity
		label string
	}{
		{42, "42", "0042"},
		{"42", "42", "0042"},
		{int64(12345), "12345", "12345"},
		{"abc", "abc", "abc"},
		{Identity("x"), "x", "x"},
	}
	for _, tt := range tests {
		id := IdentityOf(tt.in)
		if id != tt.want {
			t.Errorf("IdentityOf(%v) = %q, want %q", tt.in, id, tt.want)
		}
		if id.Label() != tt.label {
			t.Errorf("Label(%q) = %q, want %q", id, id.Label(), tt.label)
		}
	}

	// Integer and string forms of the same token evolve identically
	a := New(IdentityOf(7), DefaultParams()).State()
	b := New(IdentityOf("7"), DefaultParams()).State()
	if !reflect.DeepEqual(a, b) {
		t.Error("IdentityOf(7) and IdentityOf(\"7\") diverged")
	}
}

func TestParamsFromDefaultConfigMatchConstants(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ParamsFromConfig(cfg), DefaultParams(); !reflect.DeepEqual(got, want) {
		t.Errorf("defaults.yaml and Default* constants disagree:\n%+v\n%+v", got, want)
	}
}

func TestPhaseText(t *testing.T) {
	for _, p := range []Phase{PhaseNew, PhaseEmbodied, PhaseUnified, PhaseDecohered} {
		text, _ := p.MarshalText()
		var back Phase
		if err := back.UnmarshalText(text); err != nil || back != p {
			t.Errorf("phase %v round-tripped to %v (%v)", p, back, err)
		}
	}
	var p Phase
	if err := p.UnmarshalText([]byte("Ascended")); err == nil {
		t.Error("expected error for unknown phase name")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		frac   float64
		filled int
	}{
		{-1, 0}, {0, 0}, {0.05, 0}, {0.5, 5}, {0.99, 9}, {1, 10}, {3, 10},
	}
	for _, tt := range tests {
		bar := Bar(tt.frac)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("Bar(%v) filled %d cells, want %d", tt.frac, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != BarCells {
			t.Errorf("Bar(%v) has %d cells", tt.frac, got)
		}
	}
}

func TestCard(t *testing.T) {
	s := New(IdentityOf(42), DefaultParams())
	card := s.Card()

	for _, want := range []string{"SOUL #0042", "NEW SPIRIT", "0/96 months", "Temperance:", "RECOGNITION FLOW: 0 events"} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
	if VirtueDescription("Love") == VirtueDescription("unknown") {
		t.Error("love should have its own description")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseNew, PhaseEmbodied, true},
		{PhaseNew, PhaseDecohered, true},
		{PhaseNew, PhaseUnified, false},
		{PhaseEmbodied, PhaseUnified, true},
		{PhaseEmbodied, PhaseDecohered, true},
		{PhaseEmbodied, PhaseNew, false},
		{PhaseUnified, PhaseDecohered, false},
		{PhaseDecohered, PhaseEmbodied, false},
	}
	for _, tt := range tests {
		if got := CanAdvance(tt.from, tt.to); got != tt.want {
			t.Errorf("CanAdvance(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
