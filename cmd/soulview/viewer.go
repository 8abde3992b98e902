package main

import (
	"math/rand"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/mattn/go-runewidth"

	"github.com/pthm-cable/souls/soul"
)

const (
	sampleRate    = beep.SampleRate(44100)
	unifiedTone   = 880.0
	decoheredTone = 220.0
	toneDuration  = 400 * time.Millisecond

	helpLine = "space: run/pause  n: new soul  f: nurture  g: recognize  r: reset  q: quit"
)

// viewer drives one soul and draws its card on a terminal screen.
type viewer struct {
	screen tcell.Screen
	params soul.Params
	soul   *soul.Soul
	rng    *rand.Rand

	lastPhase soul.Phase
	status    string

	// Audio
	audioInit bool
}

// newViewer shows id, or a random numeric identity when id is empty.
func newViewer(screen tcell.Screen, params soul.Params, id soul.Identity, seed int64) *viewer {
	v := &viewer{
		screen: screen,
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
	}
	if id == "" {
		id = v.randomIdentity()
	}
	v.load(id)
	return v
}

func (v *viewer) randomIdentity() soul.Identity {
	return soul.IdentityOf(v.rng.Intn(10000))
}

// load replaces the current soul with a fresh, paused one.
func (v *viewer) load(id soul.Identity) {
	v.soul = soul.New(id, v.params)
	v.lastPhase = v.soul.Phase()
	v.status = ""
}

// initAudio opens the speaker. Failure leaves the viewer silent.
func (v *viewer) initAudio() error {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		v.audioInit = true
	}
	return err
}

func (v *viewer) playTone(freq float64) {
	if !v.audioInit {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(toneDuration), sine))
}

// handleKey applies one key press. It returns false when the viewer should quit.
func (v *viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q':
		return false
	case ' ':
		v.soul.SetEvolving(!v.soul.Evolving())
		v.status = ""
	case 'n':
		v.load(v.randomIdentity())
	case 'f':
		if b, ok := v.soul.Nurture(); ok {
			v.status = "nurtured: " + b.String()
		}
	case 'g':
		if v.soul.Recognize() {
			v.status = "recognized"
		}
	case 'r':
		v.soul.Reset()
		v.lastPhase = v.soul.Phase()
		v.status = ""
	}
	return true
}

// tick advances the soul once and sounds a tone when it resolves.
func (v *viewer) tick() {
	v.soul.Advance()
	phase := v.soul.Phase()
	if phase == v.lastPhase {
		return
	}
	v.lastPhase = phase
	switch phase {
	case soul.PhaseUnified:
		v.playTone(unifiedTone)
	case soul.PhaseDecohered:
		v.playTone(decoheredTone)
	}
}

func (v *viewer) runState() string {
	switch {
	case v.soul.Terminal():
		return "resolved"
	case v.soul.Evolving():
		return "running"
	default:
		return "paused"
	}
}

func (v *viewer) draw() {
	v.screen.Clear()
	y := 0
	for _, line := range strings.Split(v.soul.Card(), "\n") {
		v.drawText(0, y, line, tcell.StyleDefault)
		y++
	}

	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	state := "[" + v.runState() + "]"
	if v.status != "" {
		state += " " + v.status
	}
	v.drawText(0, y, state, tcell.StyleDefault.Bold(true))
	v.drawText(0, y+1, helpLine, dim)
	v.screen.Show()
}

func (v *viewer) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func (v *viewer) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pollEvents(v.screen, eventChan)

	v.draw()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.handleKey(ev.Key(), ev.Rune()) {
					return
				}
				v.draw()
			case *tcell.EventResize:
				v.screen.Sync()
				v.draw()
			}

		case <-ticker.C:
			v.tick()
			v.draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized, which
// makes PollEvent return nil, then closes events.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		events <- ev
	}
}

func (v *viewer) cleanup() {
	if v.audioInit {
		speaker.Close()
	}
	v.screen.Fini()
}
