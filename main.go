package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/souls/cohort"
	"github.com/pthm-cable/souls/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	souls := flag.Int("souls", 0, "Cohort size (0 = use config)")
	prefix := flag.String("prefix", "", "Identity prefix (empty = use config)")
	seed := flag.Int64("seed", 0, "Nurture RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until every soul resolves)")
	parallel := flag.Bool("parallel", false, "Advance souls on a worker pool")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logEvents := flag.Bool("log-events", false, "Log every resolved soul via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for milestone snapshot files")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	c, err := cohort.New(cfg, cohort.Options{
		Seed:        rngSeed,
		Size:        *souls,
		Prefix:      *prefix,
		Parallel:    *parallel,
		LogStats:    *logStats,
		LogEvents:   *logEvents,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
	})
	if err != nil {
		slog.Error("failed to create cohort", "error", err)
		os.Exit(1)
	}

	slog.Info("starting cohort",
		"seed", rngSeed,
		"souls", c.Alive(),
		"max_ticks", *maxTicks,
		"parallel", *parallel,
	)

	start := time.Now()
	summary := c.Run(*maxTicks)
	if *maxTicks > 0 && summary.Alive > 0 {
		slog.Info("max ticks reached", "tick", summary.Ticks)
	}
	slog.Info("cohort finished", "summary", summary, "elapsed", time.Since(start).String())

	if err := c.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
