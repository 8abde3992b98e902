package cohort

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/souls/soul"
	"github.com/pthm-cable/souls/telemetry"
)

// Step runs a single tick of the cohort. It returns false, doing nothing,
// once every soul has resolved.
func (c *Cohort) Step() bool {
	if c.alive == 0 {
		return false
	}
	c.perfCollector.StartTick()

	// 1. Nurture rolls from the driver RNG (sequential, ordered)
	c.perfCollector.StartPhase(telemetry.StepNurture)
	c.nurturePass()

	// 2. Advance every soul
	c.perfCollector.StartPhase(telemetry.StepAdvance)
	c.advancePass()
	c.tick++

	// 3. Turn per-soul deltas into events
	c.perfCollector.StartPhase(telemetry.StepAccounting)
	c.accountingPass()

	// 4. Remove resolved souls
	c.perfCollector.StartPhase(telemetry.StepCleanup)
	c.cleanupResolved()

	// 5. Flush stats windows
	c.perfCollector.StartPhase(telemetry.StepTelemetry)
	c.flushTelemetry(false)

	c.perfCollector.EndTick()
	return true
}

// nurturePass gives each soul a cohort.nurture_chance roll for a boost.
func (c *Cohort) nurturePass() {
	chance := c.cfg.Cohort.NurtureChance
	if chance <= 0 {
		return
	}

	query := c.soulFilter.Query()
	for query.Next() {
		ident, vitals, _ := query.Get()
		if c.rng.Float64() >= chance {
			continue
		}
		if b, ok := vitals.Soul.Nurture(); ok {
			c.collector.Record(telemetry.NewNurtureEvent(c.tick, string(ident.Token)))
			c.lifetimeTracker.RecordBoost(ident.Token, b)
		}
	}
}

// advancePass collects the souls, then advances them outside the query.
func (c *Cohort) advancePass() {
	p := c.parallel
	p.souls = p.souls[:0]

	query := c.soulFilter.Query()
	for query.Next() {
		_, vitals, _ := query.Get()
		p.souls = append(p.souls, vitals.Soul)
	}

	p.advanceAll(c.useParallel)
}

// accountingPass records recognition, crossing and phase events.
func (c *Cohort) accountingPass() {
	query := c.soulFilter.Query()
	for query.Next() {
		ident, vitals, life := query.Get()
		st := vitals.Soul.State()
		id := string(ident.Token)

		recognitions, crossings, phaseChanged := life.Observe(st)
		if recognitions > 0 {
			c.collector.Record(telemetry.NewRecognitionEvent(c.tick, id, recognitions))
		}
		if crossings > 0 {
			c.collector.Record(telemetry.NewCrossingEvent(c.tick, id, crossings))
		}
		c.lifetimeTracker.Observe(st)

		if !phaseChanged {
			continue
		}
		switch st.Phase {
		case soul.PhaseEmbodied:
			c.collector.Record(telemetry.NewPhaseEvent(telemetry.EventEmbodied, c.tick, id))
			c.lifetimeTracker.RecordEmbodied(ident.Token, c.tick)
		case soul.PhaseUnified:
			c.collector.Record(telemetry.NewPhaseEvent(telemetry.EventUnified, c.tick, id))
		case soul.PhaseDecohered:
			c.collector.Record(telemetry.NewPhaseEvent(telemetry.EventDecohered, c.tick, id))
		}
	}
}

// cleanupResolved removes terminal souls and records their outcomes.
func (c *Cohort) cleanupResolved() {
	// First pass: collect resolved entities (must complete before modifying)
	type resolved struct {
		entity ecs.Entity
		state  soul.State
	}
	var toRemove []resolved

	query := c.soulFilter.Query()
	for query.Next() {
		_, vitals, _ := query.Get()
		if vitals.Soul.Terminal() {
			toRemove = append(toRemove, resolved{entity: query.Entity(), state: vitals.Soul.State()})
		}
	}
	if len(toRemove) == 0 {
		return
	}

	// Second pass: remove entities (query iteration complete)
	c.pending = c.pending[:0]
	for _, r := range toRemove {
		o, ok := c.lifetimeTracker.Remove(r.state, c.tick)
		if !ok {
			o = telemetry.NewOutcome(r.state, nil, c.tick)
		}
		c.outcomes = append(c.outcomes, o)
		c.pending = append(c.pending, o)
		c.hallOfFame.Consider(o)

		if c.logEvents {
			slog.Info("soul resolved", "soul", r.state, "tick", c.tick)
		}

		c.world.RemoveEntity(r.entity)
		c.alive--
	}

	if err := c.outputManager.WriteOutcomes(c.pending); err != nil {
		slog.Error("failed to write outcomes", "error", err)
	}
}
