package tetris

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	t := &wrappedTicker{ticker: time.NewTicker(d)}
	t.ticker.Stop()
	return t
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs a Tetris on its own goroutine. Frames from the ticker advance the
// gravity clock and actions are applied in the order they arrive; every change
// is published as a snapshot on the update channel.
type Game struct {
	updateCh chan *Tetris
	actionCh chan Action
	doneCh   chan struct{}
	stopOnce sync.Once

	tetris  *Tetris
	ticker  Ticker
	frame   time.Duration
	last    time.Time
	session string
	logger  *slog.Logger
	mu      sync.RWMutex
}

// NewGame returns a game refreshing at the given frame interval.
func NewGame(o Options, k ScoreKeeper, frame time.Duration, l *slog.Logger) *Game {
	return NewConfigurableGame(NewTetris(o, k, nil), newWrappedTicker(frame), frame, l)
}

func NewConfigurableGame(t *Tetris, ticker Ticker, frame time.Duration, l *slog.Logger) *Game {
	if l == nil {
		l = slog.Default()
	}
	return &Game{
		updateCh: make(chan *Tetris),
		actionCh: make(chan Action),
		doneCh:   make(chan struct{}),
		tetris:   t,
		ticker:   ticker,
		frame:    frame,
		session:  uuid.NewString(),
		logger:   l,
	}
}

// Start runs the game loop. The first update is the initial state.
func (g *Game) Start() {
	g.logger.Info("game started", slog.String("session", g.session))
	go g.listen()
}

// Stop ends the loop and closes the update channel. It is safe to call more than once.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.doneCh) })
}

// Action queues a command. It blocks until the loop takes it and is dropped
// once the game is stopped.
func (g *Game) Action(a Action) {
	select {
	case g.actionCh <- a:
	case <-g.doneCh:
	}
}

func (g *Game) GetUpdate() <-chan *Tetris { return g.updateCh }

// Session identifies the current game; it changes on game over and restart.
func (g *Game) Session() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// Read returns a copy of the current Tetris status that's safe to read concurrently.
func (g *Game) Read() *Tetris {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tetris.snapshot()
}

func (g *Game) listen() {
	defer close(g.updateCh)
	defer g.ticker.Stop()

	g.ticker.Reset(g.frame)
	if !g.publish() {
		return
	}
	for {
		select {
		case now := <-g.ticker.C():
			g.mu.Lock()
			moved := !g.last.IsZero() && g.tetris.Tick(now.Sub(g.last))
			g.last = now
			g.mu.Unlock()
			if !moved {
				continue
			}
		case a := <-g.actionCh:
			g.mu.Lock()
			g.apply(a)
			g.mu.Unlock()
		case <-g.doneCh:
			g.logger.Info("game stopped", slog.String("session", g.Session()))
			return
		}
		if !g.publish() {
			return
		}
	}
}

// apply runs an action, stopping the frames while paused so that the time
// spent paused is not counted as falling time.
func (g *Game) apply(a Action) {
	paused := g.tetris.Paused
	g.tetris.Action(a)

	switch {
	case !paused && g.tetris.Paused:
		g.ticker.Stop()
	case paused && !g.tetris.Paused:
		g.last = time.Time{}
		g.ticker.Reset(g.frame)
	}
	if a == Restart {
		g.newSession("restart")
	}
}

// publish sends a snapshot, reporting false if the game was stopped meanwhile.
func (g *Game) publish() bool {
	g.mu.Lock()
	s := g.tetris.snapshot()
	g.tetris.flush()
	if s.GameOver {
		g.logger.Info("game over", slog.String("session", g.session), slog.Int("best", s.Best))
		g.newSession("game over")
	}
	g.mu.Unlock()

	select {
	case g.updateCh <- s:
		return true
	case <-g.doneCh:
		return false
	}
}

// newSession must be called with mu held.
func (g *Game) newSession(reason string) {
	prev := g.session
	g.session = uuid.NewString()
	g.logger.Debug("new session", slog.String("previous", prev), slog.String("session", g.session), slog.String("reason", reason))
}
