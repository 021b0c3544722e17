// Package audio plays a short synthesized sound for each game event.
package audio

import (
	"log/slog"
	"sync"
	"time"

	"blockfall/tetris"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player mixes event sounds into the speaker. Every method is safe to call
// before Initialize or after it failed; nothing is played then.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	cache       map[tetris.Event][]float64
	logger      *slog.Logger
	enabled     bool
	initialized bool
}

func NewPlayer(l *slog.Logger, enabled bool) *Player {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	p := &Player{
		mixer:   &beep.Mixer{},
		cache:   make(map[tetris.Event][]float64, len(tones)),
		logger:  l,
		enabled: enabled,
	}
	for e, t := range tones {
		p.cache[e] = t.render(sampleRate)
	}
	return p
}

// Initialize opens the speaker. The game runs silently if it fails.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

func (p *Player) SetEnabled(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = on
	if !on && p.initialized {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
	}
	p.logger.Debug("sound toggled", slog.Bool("enabled", on))
}

func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play queues the sound of e. Events without a sound are ignored.
func (p *Player) Play(e tetris.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || !p.initialized {
		return
	}
	buf, ok := p.cache[e]
	if !ok {
		return
	}
	speaker.Lock()
	p.mixer.Add(&samples{buf: buf})
	speaker.Unlock()
}
