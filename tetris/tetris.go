// Package tetris contains the logic of the game: the stack, the falling
// tetromino, collisions, line clears and scoring. It is synchronous and not
// safe for concurrent use; Game serializes access to it.
package tetris

import "time"

type Action string

const (
	MoveLeft    Action = "left"      // Moves the Tetromino one step to the left.
	MoveRight   Action = "right"     // Moves the Tetromino one step to the right.
	MoveDown    Action = "down"      // Moves the Tetromino one step down, locking it if blocked.
	DropDown    Action = "drop"      // Drops the Tetromino down the stack and locks it.
	RotateRight Action = "rotatecw"  // Rotates the Tetromino clockwise.
	RotateLeft  Action = "rotateccw" // Rotates the Tetromino counter-clockwise.
	HoldPiece   Action = "hold"      // Stashes the Tetromino, swapping with the held one.
	Pause       Action = "pause"     // Toggles pause.
	Restart     Action = "restart"   // Starts over with an empty stack.
)

// ScoreKeeper persists the best score between sessions.
type ScoreKeeper interface {
	LoadBestScore() int
	SaveBestScore(int)
}

type noKeeper struct{}

func (noKeeper) LoadBestScore() int { return 0 }
func (noKeeper) SaveBestScore(int)  {}

type Tetris struct {
	Stack        Grid
	Tetromino    *Tetromino
	NexTetromino *Tetromino
	Hold         *Tetromino
	CanHold      bool

	Score      int
	LinesClear int
	Level      int
	Best       int
	// LastScore is the final score of the previous game.
	LastScore int

	Paused bool
	// GameOver is set when the stack overflowed since the last snapshot.
	// The stack and progress have already been reset when it is seen.
	GameOver bool
	Events   []Event

	opts        Options
	rand        Randomizer
	keeper      ScoreKeeper
	dropCounter time.Duration
}

// NewTetris returns a running game with its first Tetromino spawned. A nil
// keeper disables best score persistence and a nil randomizer uses math/rand.
func NewTetris(o Options, k ScoreKeeper, r Randomizer) *Tetris {
	if k == nil {
		k = noKeeper{}
	}
	if r == nil {
		r = globalRand{}
	}
	t := &Tetris{
		Stack:  NewGrid(o.Cols, o.Rows),
		opts:   o,
		rand:   r,
		keeper: k,
		Best:   k.LoadBestScore(),
	}
	t.spawnNext()
	return t
}

// Action applies a player command. Unknown actions are ignored.
func (t *Tetris) Action(a Action) {
	switch a {
	case Pause:
		t.togglePause()
		return
	case Restart:
		t.restart()
		return
	}
	if t.Tetromino == nil || (t.Paused && t.opts.LockInputOnPause) {
		return
	}
	switch a {
	case MoveLeft:
		t.move(-1)
	case MoveRight:
		t.move(1)
	case MoveDown:
		t.emit(EventSoftDrop)
		t.down()
	case DropDown:
		t.emit(EventHardDrop)
		t.drop()
	case RotateRight:
		t.rotate(1)
	case RotateLeft:
		t.rotate(-1)
	case HoldPiece:
		t.hold()
	}
}

// Tick advances the gravity clock by elapsed and moves the Tetromino down
// once the drop interval is exceeded. It reports whether anything moved.
func (t *Tetris) Tick(elapsed time.Duration) bool {
	if t.Paused || t.Tetromino == nil {
		return false
	}
	t.dropCounter += elapsed
	if t.dropCounter > t.DropInterval() {
		t.down()
		return true
	}
	return false
}

// DropInterval is the gravity interval for the current level.
func (t *Tetris) DropInterval() time.Duration {
	return max(t.opts.MinInterval, t.opts.BaseInterval-time.Duration(t.Level)*t.opts.IntervalStep)
}

func (t *Tetris) move(dir int) {
	t.Tetromino.X += dir
	if Collides(t.Stack, t.Tetromino) {
		t.Tetromino.X -= dir
		return
	}
	t.emit(EventMove)
}

func (t *Tetris) rotate(dir int) {
	if RotateWithKick(t.Stack, t.Tetromino, dir) {
		t.emit(EventRotate)
	}
}

// down moves the Tetromino one row, locking it if the row below is taken.
func (t *Tetris) down() {
	t.Tetromino.Y++
	if Collides(t.Stack, t.Tetromino) {
		t.Tetromino.Y--
		t.lock()
	}
	t.dropCounter = 0
}

func (t *Tetris) drop() {
	t.Tetromino.Y += dropDownDelta(t.Stack, t.Tetromino)
	t.lock()
	t.dropCounter = 0
}

// lock merges the Tetromino into the stack, spawns the next one and clears
// complete lines, in that order.
func (t *Tetris) lock() {
	t.Stack.Merge(t.Tetromino)
	t.spawnNext()
	t.clearLines()
	t.CanHold = true
}

// spawnNext promotes the queued Tetromino and drafts a new one. A spawn that
// collides ends the game.
//
//	.	0 1 2 3 4 5 6 7 8 9
//	0	. . . . T T T . . .
//	1	. . . . . T . . . .
func (t *Tetris) spawnNext() {
	next := t.NexTetromino
	if next == nil {
		next = t.draft()
	}
	t.NexTetromino = t.draft()
	t.place(next)
	t.Tetromino = next
	t.CanHold = true
	if Collides(t.Stack, t.Tetromino) {
		t.gameOver()
	}
}

func (t *Tetris) draft() *Tetromino {
	return newTetromino(pick(t.rand))
}

// place puts tm at the top center of the stack.
func (t *Tetris) place(tm *Tetromino) {
	tm.X = t.Stack.Cols()/2 - tm.Grid.Width()/2
	tm.Y = 0
}

// hold swaps the Tetromino with the held one, or with the next one when
// nothing is held. Only one hold is allowed per lock, and a swap that would
// not fit at the spawn position is refused.
func (t *Tetris) hold() {
	if !t.CanHold {
		return
	}
	src := t.Hold
	if src == nil {
		src = t.NexTetromino
	}
	in := &Tetromino{Grid: src.Grid, Shape: src.Shape}
	t.place(in)
	if Collides(t.Stack, in) {
		return
	}
	if t.Hold == nil {
		t.NexTetromino = t.draft()
	}
	t.Hold = &Tetromino{Grid: t.Tetromino.Grid, Shape: t.Tetromino.Shape}
	t.Tetromino = in
	t.CanHold = false
	t.emit(EventHold)
}

func (t *Tetris) clearLines() {
	n := t.Stack.Sweep()
	if n == 0 {
		return
	}
	t.Score += linePoints(n) * (t.Level + 1)
	t.LinesClear += n
	level := t.LinesClear / t.opts.LinesPerLevel
	t.emit(EventLineClear)
	if level > t.Level {
		t.emit(EventLevelUp)
	}
	t.Level = level
	t.saveBest()
}

func (t *Tetris) saveBest() {
	if t.Score > t.Best {
		t.Best = t.Score
		t.keeper.SaveBestScore(t.Best)
	}
}

func (t *Tetris) gameOver() {
	t.saveBest()
	t.LastScore = t.Score
	t.Stack.Clear()
	t.Score, t.LinesClear, t.Level = 0, 0, 0
	t.Hold = nil
	t.GameOver = true
	t.emit(EventGameOver)
}

func (t *Tetris) togglePause() {
	t.Paused = !t.Paused
	if t.Paused {
		t.emit(EventPause)
		return
	}
	t.emit(EventResume)
}

func (t *Tetris) restart() {
	t.saveBest()
	t.LastScore = t.Score
	t.Stack.Clear()
	t.Score, t.LinesClear, t.Level = 0, 0, 0
	t.Tetromino, t.NexTetromino, t.Hold = nil, nil, nil
	t.Paused = false
	t.dropCounter = 0
	t.spawnNext()
}

func (t *Tetris) emit(e Event) {
	t.Events = append(t.Events, e)
}

// snapshot returns a deep copy of the exported state with the ghost row set.
func (t *Tetris) snapshot() *Tetris {
	s := &Tetris{
		Stack:        t.Stack.copy(),
		Tetromino:    t.Tetromino.copy(),
		NexTetromino: t.NexTetromino.copy(),
		Hold:         t.Hold.copy(),
		CanHold:      t.CanHold,
		Score:        t.Score,
		LinesClear:   t.LinesClear,
		Level:        t.Level,
		Best:         t.Best,
		LastScore:    t.LastScore,
		Paused:       t.Paused,
		GameOver:     t.GameOver,
		Events:       append([]Event(nil), t.Events...),
		opts:         t.opts,
	}
	if s.Tetromino != nil {
		s.Tetromino.GhostY = s.Tetromino.Y + dropDownDelta(t.Stack, t.Tetromino)
	}
	return s
}

// flush forgets the events and the game over flag once they were published.
func (t *Tetris) flush() {
	t.Events = t.Events[:0]
	t.GameOver = false
}
