package tetris

import (
	"log/slog"
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) TickAt(t time.Time)  { m.ch <- t }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
	m.reset = false
}
func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
	m.stop = false
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// sequence is a Randomizer replaying the given shapes in a loop.
type sequence struct {
	shapes []Shape
	i      int
}

func (s *sequence) IntN(int) int {
	sh := s.shapes[s.i%len(s.shapes)]
	s.i++
	for i, v := range shapes {
		if v == sh {
			return i
		}
	}
	return 0
}

// NewSequence returns a Randomizer that drafts the given shapes in order, looping.
func NewSequence(s ...Shape) Randomizer {
	return &sequence{shapes: s}
}

// NewTestGame creates a game with a specific TestTetris and returns a game and a manual ticker.
func NewTestGame(t *Tetris) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	return NewConfigurableGame(t, ticker, time.Second/60, slog.New(slog.DiscardHandler)), ticker
}

// NewTestTetris creates a 10x20 Tetris whose every draft is shape.
func NewTestTetris(shape Shape) *Tetris {
	return NewTetris(DefaultOptions(), nil, NewSequence(shape))
}
