package client

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"blockfall/tetris"

	"github.com/eiannone/keyboard"
)

type mockTetris struct {
	updateCh chan *tetris.Tetris
	start    bool
	stop     bool
	action   tetris.Action
	mu       sync.Mutex
}

func (m *mockTetris) GetUpdate() <-chan *tetris.Tetris { return m.updateCh }
func (m *mockTetris) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start = true
}
func (m *mockTetris) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stop {
		m.stop = true
		close(m.updateCh)
	}
}
func (m *mockTetris) Action(a tetris.Action) {
	m.mu.Lock()
	m.action = a
	m.mu.Unlock()
	m.updateCh <- &tetris.Tetris{Events: []tetris.Event{tetris.EventMove}}
}
func (m *mockTetris) get() (start, stop bool, action tetris.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start, m.stop, m.action
}

type mockRender struct {
	lobbyCount int
	gameCount  int
	closeCount int
	sounds     []bool
	mu         sync.Mutex
}

func (m *mockRender) lobby() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lobbyCount++
}
func (m *mockRender) game(*tetris.Tetris) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameCount++
}
func (m *mockRender) sound(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sounds = append(m.sounds, on)
}
func (m *mockRender) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCount++
}
func (m *mockRender) games() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameCount
}

type mockPlayer struct {
	enabled bool
	played  []tetris.Event
	mu      sync.Mutex
}

func (m *mockPlayer) Play(e tetris.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, e)
}
func (m *mockPlayer) SetEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = on
}
func (m *mockPlayer) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}
func (m *mockPlayer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.played)
}

type mockPrefs struct{ saved []bool }

func (m *mockPrefs) SaveSoundPreference(on bool) { m.saved = append(m.saved, on) }

func newTestClient() (*Client, chan keyboard.KeyEvent, *mockTetris, *mockRender, *mockPlayer, *mockPrefs) {
	tts := &mockTetris{updateCh: make(chan *tetris.Tetris)}
	render := &mockRender{}
	player := &mockPlayer{enabled: true}
	prefs := &mockPrefs{}
	kCh := make(chan keyboard.KeyEvent)
	cl := &Client{
		tetris: tts,
		render: render,
		player: player,
		prefs:  prefs,
		logger: slog.New(slog.DiscardHandler),
		kbCh:   kCh,
		state:  &state{current: lobby},
	}
	return cl, kCh, tts, render, player, prefs
}

func TestClient(t *testing.T) {
	cl, kCh, tts, render, player, prefs := newTestClient()

	done := make(chan struct{})
	go func() { cl.Start(); close(done) }()

	// 'p' starts the game from the lobby.
	kCh <- keyboard.KeyEvent{Rune: 'p'}
	time.Sleep(10 * time.Millisecond)
	if start, _, _ := tts.get(); !start {
		t.Errorf("wanted tetris.Start() to be called")
	}
	if cl.state.get() != playing {
		t.Errorf("wanted state to be playing after 'p' key press")
	}

	// while in game, keys are sent to tetris and every update is rendered and played.
	actions := []struct {
		key    keyboard.KeyEvent
		action tetris.Action
	}{
		{key: keyboard.KeyEvent{Rune: 's'}, action: tetris.MoveDown},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, action: tetris.MoveLeft},
		{key: keyboard.KeyEvent{Rune: 'q'}, action: tetris.RotateLeft},
		{key: keyboard.KeyEvent{Key: keyboard.KeySpace}, action: tetris.DropDown},
		{key: keyboard.KeyEvent{Rune: 'p'}, action: tetris.Pause},
	}
	wantCount := 0
	for _, a := range actions {
		wantCount++
		t.Run(fmt.Sprintf("key %v", a.key), func(t *testing.T) {
			kCh <- a.key
			time.Sleep(10 * time.Millisecond)
			if got := render.games(); got != wantCount {
				t.Errorf("wanted render.game() to be called %d times, got %d", wantCount, got)
			}
			if got := player.count(); got != wantCount {
				t.Errorf("wanted %d sounds played, got %d", wantCount, got)
			}
			if _, _, got := tts.get(); got != a.action {
				t.Errorf("wanted action %v, got %v", a.action, got)
			}
		})
	}

	// 'm' toggles the sound and persists it.
	kCh <- keyboard.KeyEvent{Rune: 'm'}
	time.Sleep(10 * time.Millisecond)
	if player.Enabled() {
		t.Errorf("wanted sound to be muted")
	}

	kCh <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Timed out waiting for the client to quit")
	}
	if !reflect.DeepEqual(prefs.saved, []bool{false}) {
		t.Errorf("wanted the muted preference to be saved, got %v", prefs.saved)
	}
	if _, stop, _ := tts.get(); !stop {
		t.Errorf("wanted tetris.Stop() to be called")
	}
	if render.lobbyCount != 1 || render.closeCount != 1 {
		t.Errorf("wanted one lobby and one close, got %d and %d", render.lobbyCount, render.closeCount)
	}
	if !reflect.DeepEqual(render.sounds, []bool{false}) {
		t.Errorf("wanted the sound status to be rendered, got %v", render.sounds)
	}
}

func TestClientQuitFromLobby(t *testing.T) {
	cl, kCh, tts, render, _, _ := newTestClient()

	done := make(chan struct{})
	go func() { cl.Start(); close(done) }()

	// actions are ignored in the lobby.
	kCh <- keyboard.KeyEvent{Key: keyboard.KeySpace}
	kCh <- keyboard.KeyEvent{Rune: 'q'}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Timed out waiting for the client to quit")
	}
	if start, stop, _ := tts.get(); start || stop {
		t.Errorf("wanted the game to be untouched, got start %t stop %t", start, stop)
	}
	if render.games() != 0 || render.closeCount != 1 {
		t.Errorf("wanted no game rendered and one close, got %d and %d", render.games(), render.closeCount)
	}
}

func TestClientKeyboardError(t *testing.T) {
	cl, kCh, _, render, _, _ := newTestClient()

	done := make(chan struct{})
	go func() { cl.Start(); close(done) }()

	kCh <- keyboard.KeyEvent{Err: fmt.Errorf("boom")}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Timed out waiting for the client to quit")
	}
	if render.closeCount != 1 {
		t.Errorf("wanted the terminal to be restored")
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		key    keyboard.KeyEvent
		action tetris.Action
		ok     bool
	}{
		{key: keyboard.KeyEvent{Rune: 's'}, action: tetris.MoveDown, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, action: tetris.MoveDown, ok: true},
		{key: keyboard.KeyEvent{Rune: 'a'}, action: tetris.MoveLeft, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, action: tetris.MoveLeft, ok: true},
		{key: keyboard.KeyEvent{Rune: 'd'}, action: tetris.MoveRight, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowRight}, action: tetris.MoveRight, ok: true},
		{key: keyboard.KeyEvent{Rune: 'e'}, action: tetris.RotateRight, ok: true},
		{key: keyboard.KeyEvent{Rune: 'w'}, action: tetris.RotateRight, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, action: tetris.RotateRight, ok: true},
		{key: keyboard.KeyEvent{Rune: 'q'}, action: tetris.RotateLeft, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeySpace}, action: tetris.DropDown, ok: true},
		{key: keyboard.KeyEvent{Rune: 'c'}, action: tetris.HoldPiece, ok: true},
		{key: keyboard.KeyEvent{Rune: 'p'}, action: tetris.Pause, ok: true},
		{key: keyboard.KeyEvent{Rune: 'r'}, action: tetris.Restart, ok: true},
		{key: keyboard.KeyEvent{Rune: 'x'}},
		{key: keyboard.KeyEvent{Key: keyboard.KeyEnter}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("key %v", tt.key), func(t *testing.T) {
			a, ok := actionFor(tt.key)
			if a != tt.action || ok != tt.ok {
				t.Errorf("wanted %q %t, got %q %t", tt.action, tt.ok, a, ok)
			}
		})
	}
}
