// Package main provides a terminal live view of a single soul.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/souls/config"
	"github.com/pthm-cable/souls/soul"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	id := flag.String("id", "", "Soul identity (empty = random)")
	interval := flag.Duration("interval", 0, "Time per tick (0 = use config)")
	sound := flag.Bool("sound", false, "Play a tone when the soul resolves")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	tickInterval := *interval
	if tickInterval <= 0 {
		tickInterval = time.Duration(cfg.Viewer.IntervalMS) * time.Millisecond
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("failed to init screen: %v", err)
	}

	v := newViewer(screen, soul.ParamsFromConfig(cfg), soul.Identity(*id), time.Now().UnixNano())

	if *sound {
		if err := v.initAudio(); err != nil {
			// Non-fatal, the viewer runs without sound
			v.status = fmt.Sprintf("audio unavailable: %v", err)
		}
	}

	v.run(tickInterval)
	v.cleanup()
}
