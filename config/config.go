// Package config holds the settings of the game and the terminal client.
// Values come from the defaults, then BLOCKFALL_* environment variables,
// then command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"blockfall/tetris"
)

var ErrInvalid = errors.New("invalid configuration")

const envPrefix = "BLOCKFALL_"

type Config struct {
	Cols          int
	Rows          int
	BaseInterval  time.Duration
	IntervalStep  time.Duration
	MinInterval   time.Duration
	LinesPerLevel int
	// LockInputOnPause drops piece commands while paused.
	LockInputOnPause bool

	FPS       int
	NoGhost   bool
	StorePath string // empty keeps scores in memory only
	LogPath   string // empty discards logs
	Debug     bool
}

// Default returns the classic rules and a store in the user config directory.
func Default() *Config {
	o := tetris.DefaultOptions()
	return &Config{
		Cols:          o.Cols,
		Rows:          o.Rows,
		BaseInterval:  o.BaseInterval,
		IntervalStep:  o.IntervalStep,
		MinInterval:   o.MinInterval,
		LinesPerLevel: o.LinesPerLevel,
		FPS:           60,
		StorePath:     defaultStorePath(),
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blockfall", "store.json")
}

// LoadEnv overrides fields from the environment. Unparsable values are ignored.
func (c *Config) LoadEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envInt := func(name string, dst *int) {
		if v, ok := lookup(envPrefix + name); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	envMillis := func(name string, dst *time.Duration) {
		if v, ok := lookup(envPrefix + name); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = time.Duration(n) * time.Millisecond
			}
		}
	}
	envBool := func(name string, dst *bool) {
		if v, ok := lookup(envPrefix + name); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	envString := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	envInt("COLS", &c.Cols)
	envInt("ROWS", &c.Rows)
	envMillis("BASE_INTERVAL_MS", &c.BaseInterval)
	envMillis("INTERVAL_STEP_MS", &c.IntervalStep)
	envMillis("MIN_INTERVAL_MS", &c.MinInterval)
	envInt("LINES_PER_LEVEL", &c.LinesPerLevel)
	envBool("LOCK_INPUT_ON_PAUSE", &c.LockInputOnPause)
	envInt("FPS", &c.FPS)
	envBool("NO_GHOST", &c.NoGhost)
	envString("STORE", &c.StorePath)
	envString("LOG", &c.LogPath)
	envBool("DEBUG", &c.Debug)
}

// RegisterFlags binds the fields to fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Cols, "cols", c.Cols, "stack width in cells")
	fs.IntVar(&c.Rows, "rows", c.Rows, "stack height in cells")
	fs.DurationVar(&c.BaseInterval, "interval", c.BaseInterval, "gravity interval at level 0")
	fs.DurationVar(&c.IntervalStep, "interval-step", c.IntervalStep, "gravity interval decrease per level")
	fs.DurationVar(&c.MinInterval, "min-interval", c.MinInterval, "shortest gravity interval")
	fs.IntVar(&c.LinesPerLevel, "lines-per-level", c.LinesPerLevel, "lines to clear per level")
	fs.BoolVar(&c.LockInputOnPause, "lock-on-pause", c.LockInputOnPause, "ignore piece commands while paused")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frames per second")
	fs.BoolVar(&c.NoGhost, "noghost", c.NoGhost, "hide the ghost piece")
	fs.StringVar(&c.StorePath, "store", c.StorePath, "best score file, empty to disable")
	fs.StringVar(&c.LogPath, "log", c.LogPath, "log file, empty to disable")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "debug logging")
}

func (c *Config) Validate() error {
	switch {
	case c.Cols < 4 || c.Rows < 4:
		return fmt.Errorf("%w: stack must be at least 4x4, got %dx%d", ErrInvalid, c.Cols, c.Rows)
	case c.BaseInterval <= 0 || c.MinInterval <= 0:
		return fmt.Errorf("%w: intervals must be positive", ErrInvalid)
	case c.IntervalStep < 0:
		return fmt.Errorf("%w: interval step can't be negative", ErrInvalid)
	case c.MinInterval > c.BaseInterval:
		return fmt.Errorf("%w: min interval %v is longer than the base interval %v", ErrInvalid, c.MinInterval, c.BaseInterval)
	case c.LinesPerLevel <= 0:
		return fmt.Errorf("%w: lines per level must be positive", ErrInvalid)
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps must be between 1 and 240, got %d", ErrInvalid, c.FPS)
	}
	return nil
}

// Engine returns the game rules.
func (c *Config) Engine() tetris.Options {
	return tetris.Options{
		Cols:             c.Cols,
		Rows:             c.Rows,
		BaseInterval:     c.BaseInterval,
		IntervalStep:     c.IntervalStep,
		MinInterval:      c.MinInterval,
		LinesPerLevel:    c.LinesPerLevel,
		LockInputOnPause: c.LockInputOnPause,
	}
}

// Frame is the interval between two game frames.
func (c *Config) Frame() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
