package main

import (
	"math"
	"testing"
)

func TestEvaluateDeterministic(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector()
	x := pv.ExtractFromConfig(cfg)

	fe := NewFitnessEvaluator(pv, 8, []int64{1, 2}, 1.0, cfg)
	first := fe.Evaluate(x)
	fraction := fe.LastFraction()
	second := fe.Evaluate(x)

	if first != second {
		t.Errorf("Evaluate not deterministic: %v then %v", first, second)
	}
	if fraction < 0 || fraction > 1 {
		t.Fatalf("LastFraction = %v", fraction)
	}
	want := (fraction - 1.0) * (fraction - 1.0)
	if math.Abs(first-want) > 1e-12 {
		t.Errorf("fitness = %v, want %v", first, want)
	}
}

func TestEvaluateAtTargetIsZero(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector()
	x := pv.ExtractFromConfig(cfg)

	probe := NewFitnessEvaluator(pv, 8, []int64{5}, 0, cfg)
	probe.Evaluate(x)

	fe := NewFitnessEvaluator(pv, 8, []int64{5}, probe.LastFraction(), cfg)
	if got := fe.Evaluate(x); got != 0 {
		t.Errorf("fitness at target = %v, want 0", got)
	}
}

func TestEvaluateLeavesBaseConfigUntouched(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector()
	before := pv.ExtractFromConfig(cfg)

	fe := NewFitnessEvaluator(pv, 4, []int64{1}, 0.5, cfg)
	fe.Evaluate([]float64{1.2, 0.4, 0.5, 0.05})

	after := pv.ExtractFromConfig(cfg)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("%s changed from %g to %g", pv.Specs[i].Path, before[i], after[i])
		}
	}
}

func TestHarshDecayLowersUnifiedFraction(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Cohort.NurtureChance = 0
	pv := NewParamVector()

	fe := NewFitnessEvaluator(pv, 16, []int64{3}, 0, cfg)
	fe.Evaluate([]float64{1.5, 0.5, 0, 0.01})
	if got := fe.LastFraction(); got != 0 {
		t.Errorf("unified fraction under maximal decay = %v, want 0", got)
	}
}
