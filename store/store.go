// Package store persists the best score and the sound preference in a small
// JSON file. Failures are logged and never reach the game: a missing or
// unreadable file reads as a best score of 0 with sound enabled.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type record struct {
	BestScore int       `json:"best_score"`
	Sound     *bool     `json:"sound,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// New returns a store backed by path. An empty path disables persistence.
func New(path string, l *slog.Logger) *Store {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Store{path: path, logger: l}
}

func (s *Store) LoadBestScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.load()
	if err != nil {
		s.logger.Error("unable to load best score", slog.String("error", err.Error()))
		return 0
	}
	return r.BestScore
}

func (s *Store) SaveBestScore(score int) {
	s.update(func(r *record) { r.BestScore = score })
}

func (s *Store) LoadSoundPreference() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.load()
	if err != nil {
		s.logger.Error("unable to load sound preference", slog.String("error", err.Error()))
		return true
	}
	if r.Sound == nil {
		return true
	}
	return *r.Sound
}

func (s *Store) SaveSoundPreference(on bool) {
	s.update(func(r *record) { r.Sound = &on })
}

func (s *Store) update(f func(r *record)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return
	}
	r, err := s.load()
	if err != nil {
		// an unreadable file is replaced rather than blocking every save.
		s.logger.Warn("overwriting unreadable store", slog.String("path", s.path), slog.String("error", err.Error()))
		r = record{}
	}
	f(&r)
	r.UpdatedAt = time.Now().UTC()
	if err := s.save(r); err != nil {
		s.logger.Error("unable to save store", slog.String("error", err.Error()))
	}
}

// load reads the record. A missing file is an empty record.
func (s *Store) load() (record, error) {
	var r record
	if s.path == "" {
		return r, nil
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return record{}, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return r, nil
}

// save writes to a temporary file and renames it over the store.
func (s *Store) save(r record) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint: errcheck
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
