// Package client drives a Game from the keyboard and draws it on the terminal.
package client

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"blockfall/tetris"

	"github.com/eiannone/keyboard"
)

type clientState int

const (
	lobby clientState = iota
	playing
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

type tetrisGame interface {
	Start()
	GetUpdate() <-chan *tetris.Tetris
	Action(tetris.Action)
	Stop()
}

type soundPlayer interface {
	Play(tetris.Event)
	SetEnabled(bool)
	Enabled() bool
}

// SoundPreference persists the mute toggle.
type SoundPreference interface {
	SaveSoundPreference(bool)
}

type renderer interface {
	game(*tetris.Tetris)
	lobby()
	sound(bool)
	close()
}

type Client struct {
	tetris  tetrisGame
	render  renderer
	player  soundPlayer
	prefs   SoundPreference
	logger  *slog.Logger
	kbCh    <-chan keyboard.KeyEvent
	closeKB func() error
	state   *state
	wg      sync.WaitGroup
}

type Options struct {
	NoGhost bool
	Cols    int
	Rows    int
}

// New opens the keyboard in raw mode. The returned Client owns it until Start
// returns.
func New(l *slog.Logger, g tetrisGame, p soundPlayer, prefs SoundPreference, o *Options) (*Client, error) {
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	r := newRender(os.Stdout, l, o)
	r.sound(p.Enabled())
	return &Client{
		tetris:  g,
		render:  r,
		player:  p,
		prefs:   prefs,
		logger:  l,
		kbCh:    kb,
		closeKB: keyboard.Close,
		state:   &state{current: lobby},
	}, nil
}

// Start shows the lobby and blocks until the player quits.
func (c *Client) Start() {
	c.render.lobby()
	c.listenKB()
	if c.state.get() == playing {
		c.tetris.Stop()
		c.wg.Wait()
	}
	c.render.close()
	if c.closeKB != nil {
		if err := c.closeKB(); err != nil {
			c.logger.Error("unable to close keyboard", slog.String("error", err.Error()))
		}
	}
}

func (c *Client) listenKB() {
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC || event.Key == keyboard.KeyEsc {
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.state.set(playing)
				c.wg.Add(1)
				go c.listenTetris()
			case 'q':
				return
			}
		case playing:
			if event.Rune == 'm' {
				c.toggleSound()
				continue
			}
			if a, ok := actionFor(event); ok {
				c.tetris.Action(a)
			}
		}
	}
}

// actionFor maps a key press to a game action.
func actionFor(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'e' || event.Rune == 'w':
		return tetris.RotateRight, true
	case event.Rune == 'q':
		return tetris.RotateLeft, true
	case event.Key == keyboard.KeySpace:
		return tetris.DropDown, true
	case event.Rune == 'c':
		return tetris.HoldPiece, true
	case event.Rune == 'p':
		return tetris.Pause, true
	case event.Rune == 'r':
		return tetris.Restart, true
	}
	return "", false
}

func (c *Client) toggleSound() {
	on := !c.player.Enabled()
	c.player.SetEnabled(on)
	c.prefs.SaveSoundPreference(on)
	c.render.sound(on)
	c.logger.Debug("sound toggled", slog.Bool("enabled", on))
}

func (c *Client) listenTetris() {
	defer c.wg.Done()
	c.tetris.Start()
	for u := range c.tetris.GetUpdate() {
		c.render.game(u)
		for _, e := range u.Events {
			c.player.Play(e)
		}
	}
}
