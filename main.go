package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"blockfall/audio"
	"blockfall/client"
	"blockfall/config"
	"blockfall/store"
	"blockfall/tetris"

	"golang.org/x/term"
)

func main() {
	cfg := config.Default()
	cfg.LoadEnv(os.LookupEnv)
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "blockfall: %v\n", err)
		if errors.Is(err, config.ErrInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal")
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		needW, needH := 2*cfg.Cols+20, cfg.Rows+4
		if w < needW || h < needH {
			logger.Warn("terminal is smaller than the board",
				slog.Int("width", w), slog.Int("height", h),
				slog.Int("need_width", needW), slog.Int("need_height", needH))
		}
	}

	st := store.New(cfg.StorePath, logger)
	player := audio.NewPlayer(logger, st.LoadSoundPreference())
	if err := player.Initialize(); err != nil {
		logger.Warn("audio unavailable, playing silently", slog.String("error", err.Error()))
	}
	defer player.Close()

	game := tetris.NewGame(cfg.Engine(), st, cfg.Frame(), logger)
	cl, err := client.New(logger, game, player, st, &client.Options{
		NoGhost: cfg.NoGhost,
		Cols:    cfg.Cols,
		Rows:    cfg.Rows,
	})
	if err != nil {
		return err
	}
	cl.Start()
	return nil
}

// newLogger writes text logs to the -log file. The terminal is in raw mode
// while playing so nothing is logged to the console.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	if cfg.LogPath == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
