// Package config provides configuration loading and access for the soul simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MaxStages is the number of named stages a soul can pass through.
const MaxStages = 5

// ErrInvalidConfig is wrapped by every validation failure returned from Load.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation  SimulationConfig  `yaml:"simulation"`
	Energy      EnergyConfig      `yaml:"energy"`
	Kappa       KappaConfig       `yaml:"kappa"`
	Depth       RangeConfig       `yaml:"depth"`
	Virtues     VirtuesConfig     `yaml:"virtues"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Prudence    PrudenceConfig    `yaml:"prudence"`
	Nurture     NurtureConfig     `yaml:"nurture"`
	Crossings   CrossingsConfig   `yaml:"crossings"`
	Stages      StagesConfig      `yaml:"stages"`
	Cohort      CohortConfig      `yaml:"cohort"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Viewer      ViewerConfig      `yaml:"viewer"`
	HallOfFame  HallOfFameConfig  `yaml:"hall_of_fame"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds the clock of a soul's life.
type SimulationConfig struct {
	TicksPerMonth       int `yaml:"ticks_per_month"`
	LifespanMonths      int `yaml:"lifespan_months"`       // Month at which the soul resolves
	EmbodiedAfterMonths int `yaml:"embodied_after_months"` // New -> Embodied once months exceed this
	BreathCycle         int `yaml:"breath_cycle"`          // Breath phase = ticks mod this
}

// RangeConfig is a closed [min, max] interval.
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// EnergyConfig holds energy bounds and the per-tick decay rule.
// decay = base_decay * (1 - temperance_relief * temperance/virtue_max * energy/max) + courage_cost * courage
type EnergyConfig struct {
	Max              float64 `yaml:"max"`
	InitialMin       float64 `yaml:"initial_min"`
	InitialMax       float64 `yaml:"initial_max"`
	BaseDecay        float64 `yaml:"base_decay"`
	TemperanceRelief float64 `yaml:"temperance_relief"`
	CourageCost      float64 `yaml:"courage_cost"`
	MinDecay         float64 `yaml:"min_decay"` // Floor so decay never stalls
}

// KappaConfig holds the kappa random walk parameters.
type KappaConfig struct {
	InitialMin        float64 `yaml:"initial_min"`
	InitialMax        float64 `yaml:"initial_max"`
	VolatilityBase    float64 `yaml:"volatility_base"`
	CourageVolatility float64 `yaml:"courage_volatility"` // Added volatility per courage point
	JusticeBaseline   float64 `yaml:"justice_baseline"`   // Justice above this drifts kappa positive
	JusticeDrift      float64 `yaml:"justice_drift"`
}

// VirtuesConfig holds virtue bounds and initial draw range.
type VirtuesConfig struct {
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	InitialMin float64 `yaml:"initial_min"`
	InitialMax float64 `yaml:"initial_max"`
}

// RecognitionConfig holds recognition event parameters.
type RecognitionConfig struct {
	BaseChance    float64 `yaml:"base_chance"`
	PrudenceBonus float64 `yaml:"prudence_bonus"` // Added chance per prudence point
	LoveCredit    float64 `yaml:"love_credit"`    // Energy credited per love point
}

// PrudenceConfig holds the slow prudence growth parameters.
type PrudenceConfig struct {
	GrowthChance float64 `yaml:"growth_chance"`
	GrowthStep   float64 `yaml:"growth_step"`
}

// NurtureConfig holds the manual boost parameters.
type NurtureConfig struct {
	VirtueStep    float64 `yaml:"virtue_step"`
	EnergyRestore float64 `yaml:"energy_restore"`
	KappaDamping  float64 `yaml:"kappa_damping"` // Kappa multiplied by this on a justice boost
}

// CrossingsConfig holds gap crossing opportunity parameters.
type CrossingsConfig struct {
	IntervalMonths int     `yaml:"interval_months"`
	Chance         float64 `yaml:"chance"`
}

// StagesConfig holds the starting month of each fine-grained stage.
type StagesConfig struct {
	Thresholds []int `yaml:"thresholds"`
}

// CohortConfig holds headless cohort parameters.
type CohortConfig struct {
	Size          int     `yaml:"size"`
	Prefix        string  `yaml:"prefix"`
	NurtureChance float64 `yaml:"nurture_chance"` // Per soul per tick
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
}

// ViewerConfig holds terminal viewer parameters.
type ViewerConfig struct {
	IntervalMS int `yaml:"interval_ms"`
}

// HallOfFameConfig holds the ranking of finished unified souls.
type HallOfFameConfig struct {
	Size    int                     `yaml:"size"`
	Fitness HallOfFameFitnessConfig `yaml:"fitness"`
}

// HallOfFameFitnessConfig holds fitness weights for ranking.
type HallOfFameFitnessConfig struct {
	EnergyWeight      float64 `yaml:"energy_weight"`      // Per unit of final energy fraction
	RecognitionWeight float64 `yaml:"recognition_weight"` // Per recognition flow event
	CrossingWeight    float64 `yaml:"crossing_weight"`    // Per gap crossing
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LifespanTicks int     // Simulation.TicksPerMonth * Simulation.LifespanMonths
	VirtueSpan    float64 // Virtues.Max - Virtues.Min
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Parse is like Load but reads the overlay from memory.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	sim := c.Simulation
	if sim.TicksPerMonth <= 0 {
		return invalid("simulation.ticks_per_month must be positive, got %d", sim.TicksPerMonth)
	}
	if sim.LifespanMonths <= 0 {
		return invalid("simulation.lifespan_months must be positive, got %d", sim.LifespanMonths)
	}
	if sim.EmbodiedAfterMonths < 0 || sim.LifespanMonths <= sim.EmbodiedAfterMonths+1 {
		return invalid("simulation.lifespan_months (%d) must exceed embodied_after_months+1 (%d)", sim.LifespanMonths, sim.EmbodiedAfterMonths+1)
	}
	if sim.BreathCycle <= 0 {
		return invalid("simulation.breath_cycle must be positive, got %d", sim.BreathCycle)
	}

	if c.Energy.Max <= 0 {
		return invalid("energy.max must be positive, got %g", c.Energy.Max)
	}
	if c.Energy.InitialMin < 0 || c.Energy.InitialMin > c.Energy.InitialMax || c.Energy.InitialMax > c.Energy.Max {
		return invalid("energy initial range [%g, %g] outside [0, %g]", c.Energy.InitialMin, c.Energy.InitialMax, c.Energy.Max)
	}
	if c.Energy.MinDecay <= 0 {
		return invalid("energy.min_decay must be positive, got %g", c.Energy.MinDecay)
	}
	if c.Kappa.InitialMin > c.Kappa.InitialMax {
		return invalid("kappa initial range [%g, %g] is reversed", c.Kappa.InitialMin, c.Kappa.InitialMax)
	}
	if c.Depth.Min > c.Depth.Max {
		return invalid("depth range [%g, %g] is reversed", c.Depth.Min, c.Depth.Max)
	}

	v := c.Virtues
	if v.Min >= v.Max {
		return invalid("virtues range [%g, %g] is empty", v.Min, v.Max)
	}
	if v.InitialMin < v.Min || v.InitialMax > v.Max || v.InitialMin > v.InitialMax {
		return invalid("virtues initial range [%g, %g] outside [%g, %g]", v.InitialMin, v.InitialMax, v.Min, v.Max)
	}

	for name, p := range map[string]float64{
		"recognition.base_chance": c.Recognition.BaseChance,
		"prudence.growth_chance":  c.Prudence.GrowthChance,
		"crossings.chance":        c.Crossings.Chance,
		"cohort.nurture_chance":   c.Cohort.NurtureChance,
	} {
		if p < 0 || p > 1 {
			return invalid("%s must be in [0, 1], got %g", name, p)
		}
	}
	for name, x := range map[string]float64{
		"recognition.love_credit":    c.Recognition.LoveCredit,
		"recognition.prudence_bonus": c.Recognition.PrudenceBonus,
		"prudence.growth_step":       c.Prudence.GrowthStep,
		"nurture.virtue_step":        c.Nurture.VirtueStep,
		"nurture.energy_restore":     c.Nurture.EnergyRestore,
	} {
		if x < 0 {
			return invalid("%s must not be negative, got %g", name, x)
		}
	}
	if c.Nurture.KappaDamping < 0 || c.Nurture.KappaDamping > 1 {
		return invalid("nurture.kappa_damping must be in [0, 1], got %g", c.Nurture.KappaDamping)
	}
	if c.Crossings.IntervalMonths <= 0 {
		return invalid("crossings.interval_months must be positive, got %d", c.Crossings.IntervalMonths)
	}

	th := c.Stages.Thresholds
	if len(th) == 0 || th[0] != 0 {
		return invalid("stages.thresholds must start at month 0")
	}
	if len(th) > MaxStages {
		return invalid("stages.thresholds holds at most %d stages, got %d", MaxStages, len(th))
	}
	for i := 1; i < len(th); i++ {
		if th[i] <= th[i-1] {
			return invalid("stages.thresholds must be strictly ascending, got %v", th)
		}
	}

	if c.Telemetry.StatsWindow <= 0 {
		return invalid("telemetry.stats_window must be positive, got %d", c.Telemetry.StatsWindow)
	}
	if c.HallOfFame.Size < 0 {
		return invalid("hall_of_fame.size must not be negative, got %d", c.HallOfFame.Size)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.LifespanTicks = c.Simulation.TicksPerMonth * c.Simulation.LifespanMonths
	c.Derived.VirtueSpan = c.Virtues.Max - c.Virtues.Min

	if c.Cohort.Prefix == "" {
		c.Cohort.Prefix = "soul"
	}
	if c.Viewer.IntervalMS <= 0 {
		c.Viewer.IntervalMS = 100
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
