// Package cohort runs many souls side by side as ECS entities and feeds their
// lifecycle into telemetry.
package cohort

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/souls/components"
	"github.com/pthm-cable/souls/config"
	"github.com/pthm-cable/souls/soul"
	"github.com/pthm-cable/souls/telemetry"
)

// milestoneHistory is the number of stats windows the milestone detector keeps.
const milestoneHistory = 10

// Options configures a cohort run.
type Options struct {
	Seed       int64           // Driver RNG seed for nurture rolls
	Identities []soul.Identity // Explicit identities; empty = cohort.size souls named <prefix>-<i>
	Size       int             // Overrides cohort.size when positive
	Prefix     string          // Overrides cohort.prefix when non-empty
	Parallel   bool            // Advance souls on a worker pool

	LogStats    bool   // Log window stats and milestones via slog
	LogEvents   bool   // Log every soul resolution via slog
	OutputDir   string // CSV and config output; empty = disabled
	SnapshotDir string // Snapshot on milestones; empty = disabled

	StatsCallback func(telemetry.WindowStats)
}

// Cohort holds the complete cohort state.
type Cohort struct {
	cfg    *config.Config
	params soul.Params
	world  *ecs.World
	rng    *rand.Rand
	seed   int64

	soulMapper *ecs.Map3[components.Identity, components.Vitals, components.Lifetime]
	soulFilter *ecs.Filter3[components.Identity, components.Vitals, components.Lifetime]

	// Telemetry
	collector         *telemetry.Collector
	lifetimeTracker   *telemetry.LifetimeTracker
	milestoneDetector *telemetry.MilestoneDetector
	perfCollector     *telemetry.PerfCollector
	outputManager     *telemetry.OutputManager
	hallOfFame        *telemetry.HallOfFame
	statsCallback     func(telemetry.WindowStats)
	logStats          bool
	logEvents         bool
	snapshotDir       string

	parallel    *parallelState
	useParallel bool

	// State
	tick     int32
	alive    int
	outcomes []telemetry.Outcome
	pending  []telemetry.Outcome // resolved this tick, not yet written
}

// New creates a cohort and spawns its souls, all set evolving.
func New(cfg *config.Config, opts Options) (*Cohort, error) {
	ids, err := identities(cfg, opts)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	c := &Cohort{
		cfg:    cfg,
		params: soul.ParamsFromConfig(cfg),
		world:  world,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		seed:   opts.Seed,

		soulMapper: ecs.NewMap3[components.Identity, components.Vitals, components.Lifetime](world),
		soulFilter: ecs.NewFilter3[components.Identity, components.Vitals, components.Lifetime](world),

		collector:         telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		lifetimeTracker:   telemetry.NewLifetimeTracker(),
		milestoneDetector: telemetry.NewMilestoneDetector(milestoneHistory),
		perfCollector:     telemetry.NewPerfCollector(cfg.Telemetry.StatsWindow),
		hallOfFame:        telemetry.NewHallOfFame(cfg.HallOfFame, cfg.Energy.Max),
		statsCallback:     opts.StatsCallback,
		logStats:          opts.LogStats,
		logEvents:         opts.LogEvents,
		snapshotDir:       opts.SnapshotDir,

		parallel:    newParallelState(),
		useParallel: opts.Parallel,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	c.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	for i, id := range ids {
		c.spawnSoul(id, i)
	}
	return c, nil
}

// identities resolves the soul identities for a new cohort.
func identities(cfg *config.Config, opts Options) ([]soul.Identity, error) {
	if len(opts.Identities) > 0 {
		seen := make(map[soul.Identity]bool, len(opts.Identities))
		for _, id := range opts.Identities {
			if seen[id] {
				return nil, fmt.Errorf("duplicate soul identity %q", id)
			}
			seen[id] = true
		}
		return append([]soul.Identity(nil), opts.Identities...), nil
	}

	size := cfg.Cohort.Size
	if opts.Size > 0 {
		size = opts.Size
	}
	prefix := cfg.Cohort.Prefix
	if opts.Prefix != "" {
		prefix = opts.Prefix
	}
	ids := make([]soul.Identity, size)
	for i := range ids {
		ids[i] = soul.Identity(fmt.Sprintf("%s-%d", prefix, i))
	}
	return ids, nil
}

// spawnSoul creates a new soul entity.
func (c *Cohort) spawnSoul(id soul.Identity, index int) ecs.Entity {
	s := soul.New(id, c.params)
	s.SetEvolving(true)
	st := s.State()

	ident := components.Identity{Token: id, Index: index}
	vitals := components.Vitals{Soul: s}
	life := components.Lifetime{
		BornTick:            c.tick,
		LastRecognitionFlow: st.RecognitionFlow,
		LastCrossings:       st.GapCrossings,
		LastPhase:           st.Phase,
	}

	entity := c.soulMapper.NewEntity(&ident, &vitals, &life)
	c.lifetimeTracker.Register(st, c.tick)
	c.alive++
	return entity
}

// Tick returns the number of steps taken.
func (c *Cohort) Tick() int32 {
	return c.tick
}

// Alive returns the number of souls not yet resolved.
func (c *Cohort) Alive() int {
	return c.alive
}

// Seed returns the driver RNG seed.
func (c *Cohort) Seed() int64 {
	return c.seed
}

// Outcomes returns every resolved soul in resolution order.
func (c *Cohort) Outcomes() []telemetry.Outcome {
	return c.outcomes
}

// HallOfFame returns the ranking of resolved unified souls.
func (c *Cohort) HallOfFame() *telemetry.HallOfFame {
	return c.hallOfFame
}

// States returns the living souls' states sorted by identity.
func (c *Cohort) States() []soul.State {
	states := make([]soul.State, 0, c.alive)
	query := c.soulFilter.Query()
	for query.Next() {
		_, vitals, _ := query.Get()
		states = append(states, vitals.Soul.State())
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Identity < states[j].Identity
	})
	return states
}

// Find returns the living soul with the given identity.
func (c *Cohort) Find(id soul.Identity) (*soul.Soul, bool) {
	query := c.soulFilter.Query()
	for query.Next() {
		ident, vitals, _ := query.Get()
		if ident.Token == id {
			s := vitals.Soul
			query.Close()
			return s, true
		}
	}
	return nil, false
}

// Close stops the worker pool, writes the hall of fame, and closes output files.
func (c *Cohort) Close() error {
	c.parallel.stopWorkers()
	if err := c.outputManager.WriteHallOfFame(c.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return c.outputManager.Close()
}
