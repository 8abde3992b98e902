package soul

import "github.com/pthm-cable/souls/config"

// Default tuning constants. config/defaults.yaml carries the same values.
const (
	DefaultTicksPerMonth       = 10
	DefaultLifespanMonths      = 96
	DefaultEmbodiedAfterMonths = 1
	DefaultBreathCycle         = 8

	DefaultMaxEnergy        = 1000.0
	DefaultEnergyInitialMin = 500.0
	DefaultEnergyInitialMax = 900.0
	DefaultBaseDecay        = 0.5
	DefaultTemperanceRelief = 0.5
	DefaultCourageCost      = 0.1
	DefaultMinDecay         = 0.05

	DefaultKappaInitialMin   = -10.0
	DefaultKappaInitialMax   = 10.0
	DefaultVolatilityBase    = 1.0
	DefaultCourageVolatility = 0.2
	DefaultJusticeBaseline   = 5.0
	DefaultJusticeDrift      = 0.1

	DefaultDepthMin = 10.0
	DefaultDepthMax = 20.0

	DefaultVirtueMin        = 0.0
	DefaultVirtueMax        = 10.0
	DefaultVirtueInitialMin = 1.0
	DefaultVirtueInitialMax = 8.0

	DefaultRecognitionChance = 0.1
	DefaultPrudenceBonus     = 0.005
	DefaultLoveCredit        = 1.5

	DefaultPrudenceGrowthChance = 0.02
	DefaultPrudenceGrowthStep   = 0.05

	DefaultNurtureVirtueStep    = 0.5
	DefaultNurtureEnergyRestore = 50.0
	DefaultNurtureKappaDamping  = 0.5

	DefaultCrossingIntervalMonths = 3
	DefaultCrossingChance         = 0.2
)

// DefaultStageThresholds holds the starting month of stages 0..4.
var DefaultStageThresholds = []int{0, 12, 36, 60, 84}

// Params holds every tunable coefficient of the life rule.
type Params struct {
	TicksPerMonth       int
	LifespanMonths      int
	EmbodiedAfterMonths int
	BreathCycle         int

	MaxEnergy        float64
	EnergyInitialMin float64
	EnergyInitialMax float64
	BaseDecay        float64
	TemperanceRelief float64
	CourageCost      float64
	MinDecay         float64

	KappaInitialMin   float64
	KappaInitialMax   float64
	VolatilityBase    float64
	CourageVolatility float64
	JusticeBaseline   float64
	JusticeDrift      float64

	DepthMin float64
	DepthMax float64

	VirtueMin        float64
	VirtueMax        float64
	VirtueInitialMin float64
	VirtueInitialMax float64

	RecognitionChance float64
	PrudenceBonus     float64
	LoveCredit        float64

	PrudenceGrowthChance float64
	PrudenceGrowthStep   float64

	NurtureVirtueStep    float64
	NurtureEnergyRestore float64
	NurtureKappaDamping  float64

	CrossingIntervalMonths int
	CrossingChance         float64

	StageThresholds []int
}

// DefaultParams returns the default coefficients.
func DefaultParams() Params {
	return Params{
		TicksPerMonth:       DefaultTicksPerMonth,
		LifespanMonths:      DefaultLifespanMonths,
		EmbodiedAfterMonths: DefaultEmbodiedAfterMonths,
		BreathCycle:         DefaultBreathCycle,

		MaxEnergy:        DefaultMaxEnergy,
		EnergyInitialMin: DefaultEnergyInitialMin,
		EnergyInitialMax: DefaultEnergyInitialMax,
		BaseDecay:        DefaultBaseDecay,
		TemperanceRelief: DefaultTemperanceRelief,
		CourageCost:      DefaultCourageCost,
		MinDecay:         DefaultMinDecay,

		KappaInitialMin:   DefaultKappaInitialMin,
		KappaInitialMax:   DefaultKappaInitialMax,
		VolatilityBase:    DefaultVolatilityBase,
		CourageVolatility: DefaultCourageVolatility,
		JusticeBaseline:   DefaultJusticeBaseline,
		JusticeDrift:      DefaultJusticeDrift,

		DepthMin: DefaultDepthMin,
		DepthMax: DefaultDepthMax,

		VirtueMin:        DefaultVirtueMin,
		VirtueMax:        DefaultVirtueMax,
		VirtueInitialMin: DefaultVirtueInitialMin,
		VirtueInitialMax: DefaultVirtueInitialMax,

		RecognitionChance: DefaultRecognitionChance,
		PrudenceBonus:     DefaultPrudenceBonus,
		LoveCredit:        DefaultLoveCredit,

		PrudenceGrowthChance: DefaultPrudenceGrowthChance,
		PrudenceGrowthStep:   DefaultPrudenceGrowthStep,

		NurtureVirtueStep:    DefaultNurtureVirtueStep,
		NurtureEnergyRestore: DefaultNurtureEnergyRestore,
		NurtureKappaDamping:  DefaultNurtureKappaDamping,

		CrossingIntervalMonths: DefaultCrossingIntervalMonths,
		CrossingChance:         DefaultCrossingChance,

		StageThresholds: append([]int(nil), DefaultStageThresholds...),
	}
}

// ParamsFromConfig maps a loaded config onto Params.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		TicksPerMonth:       cfg.Simulation.TicksPerMonth,
		LifespanMonths:      cfg.Simulation.LifespanMonths,
		EmbodiedAfterMonths: cfg.Simulation.EmbodiedAfterMonths,
		BreathCycle:         cfg.Simulation.BreathCycle,

		MaxEnergy:        cfg.Energy.Max,
		EnergyInitialMin: cfg.Energy.InitialMin,
		EnergyInitialMax: cfg.Energy.InitialMax,
		BaseDecay:        cfg.Energy.BaseDecay,
		TemperanceRelief: cfg.Energy.TemperanceRelief,
		CourageCost:      cfg.Energy.CourageCost,
		MinDecay:         cfg.Energy.MinDecay,

		KappaInitialMin:   cfg.Kappa.InitialMin,
		KappaInitialMax:   cfg.Kappa.InitialMax,
		VolatilityBase:    cfg.Kappa.VolatilityBase,
		CourageVolatility: cfg.Kappa.CourageVolatility,
		JusticeBaseline:   cfg.Kappa.JusticeBaseline,
		JusticeDrift:      cfg.Kappa.JusticeDrift,

		DepthMin: cfg.Depth.Min,
		DepthMax: cfg.Depth.Max,

		VirtueMin:        cfg.Virtues.Min,
		VirtueMax:        cfg.Virtues.Max,
		VirtueInitialMin: cfg.Virtues.InitialMin,
		VirtueInitialMax: cfg.Virtues.InitialMax,

		RecognitionChance: cfg.Recognition.BaseChance,
		PrudenceBonus:     cfg.Recognition.PrudenceBonus,
		LoveCredit:        cfg.Recognition.LoveCredit,

		PrudenceGrowthChance: cfg.Prudence.GrowthChance,
		PrudenceGrowthStep:   cfg.Prudence.GrowthStep,

		NurtureVirtueStep:    cfg.Nurture.VirtueStep,
		NurtureEnergyRestore: cfg.Nurture.EnergyRestore,
		NurtureKappaDamping:  cfg.Nurture.KappaDamping,

		CrossingIntervalMonths: cfg.Crossings.IntervalMonths,
		CrossingChance:         cfg.Crossings.Chance,

		StageThresholds: append([]int(nil), cfg.Stages.Thresholds...),
	}
}

// stageFor returns the index of the last threshold not after months,
// capped at the last named stage.
func (p *Params) stageFor(months int) Stage {
	var st Stage
	for i, th := range p.StageThresholds {
		if i > int(LastStage) {
			break
		}
		if months >= th {
			st = Stage(i)
		}
	}
	return st
}
