package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/souls/cohort"
	"github.com/pthm-cable/souls/config"
	"github.com/pthm-cable/souls/telemetry"
)

// FitnessEvaluator runs headless cohorts and scores how far their unified
// fraction lands from the target.
type FitnessEvaluator struct {
	params     *ParamVector
	souls      int
	seeds      []int64
	target     float64
	baseConfig *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastFraction   float64 // mean unified fraction from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, souls int, seeds []int64, target float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		souls:       souls,
		seeds:       seeds,
		target:      target,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastFraction returns the mean unified fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastFraction() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFraction
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fraction   float64
	hallOfFame *telemetry.HallOfFame
	err        error
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the squared distance of the mean unified fraction from the target.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runCohort(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFraction float64
	var bestSeedHallOfFame *telemetry.HallOfFame
	bestTop := math.Inf(-1)
	n := 0
	for _, r := range results {
		if r.err != nil {
			continue
		}
		totalFraction += r.fraction
		n++
		if top := r.hallOfFame.TopFitness(); top > bestTop {
			bestTop = top
			bestSeedHallOfFame = r.hallOfFame
		}
	}
	if n == 0 {
		return math.Inf(1)
	}

	fraction := totalFraction / float64(n)
	d := fraction - fe.target
	fitness := d * d

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastFraction = fraction
	fe.mu.Unlock()

	return fitness
}

// runCohort executes a single headless cohort to completion.
func (fe *FitnessEvaluator) runCohort(x []float64, seed int64) seedResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	c, err := cohort.New(cfg, cohort.Options{Seed: seed, Size: fe.souls})
	if err != nil {
		return seedResult{err: err}
	}
	defer c.Close()

	sum := c.Run(0)
	return seedResult{
		fraction:   sum.UnifiedFraction(),
		hallOfFame: c.HallOfFame(),
	}
}

// copyConfig creates a copy of the base config for one run.
// Stage thresholds stay shared; nothing in a run writes them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
