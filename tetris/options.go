package tetris

import "time"

// Options holds the rules the engine runs with.
type Options struct {
	Cols, Rows int

	// Gravity interval: max(MinInterval, BaseInterval - Level*IntervalStep).
	BaseInterval time.Duration
	IntervalStep time.Duration
	MinInterval  time.Duration

	LinesPerLevel int

	// LockInputOnPause drops piece commands while the game is paused.
	LockInputOnPause bool
}

// DefaultOptions returns the classic 10x20 well with a 1s base interval.
func DefaultOptions() Options {
	return Options{
		Cols:          10,
		Rows:          20,
		BaseInterval:  1000 * time.Millisecond,
		IntervalStep:  80 * time.Millisecond,
		MinInterval:   100 * time.Millisecond,
		LinesPerLevel: 10,
	}
}

// points awarded per number of rows cleared at once, before the level multiplier.
var points = [...]int{0, 40, 100, 300, 1200}

// linePoints clamps clears bigger than a tetris to the last entry.
func linePoints(rows int) int {
	if rows < 0 {
		return 0
	}
	if rows >= len(points) {
		return points[len(points)-1]
	}
	return points[rows]
}
