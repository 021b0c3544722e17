package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope", "store.json"), nil)
	assert.Equal(t, 0, s.LoadBestScore())
	assert.True(t, s.LoadSoundPreference(), "sound is enabled by default")
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockfall", "store.json")
	s := New(path, nil)
	s.SaveBestScore(1200)
	s.SaveSoundPreference(false)

	reopened := New(path, nil)
	assert.Equal(t, 1200, reopened.LoadBestScore())
	assert.False(t, reopened.LoadSoundPreference())

	reopened.SaveBestScore(1500)
	assert.False(t, s.LoadSoundPreference(), "saving the score keeps the preference")
	assert.Equal(t, 1500, s.LoadBestScore())
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := New(path, nil)

	assert.Equal(t, 0, s.LoadBestScore())
	assert.True(t, s.LoadSoundPreference())

	s.SaveBestScore(40)
	assert.Equal(t, 40, s.LoadBestScore())
}

func TestUnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	// the parent of the store is a regular file, every save fails.
	s := New(filepath.Join(blocker, "store.json"), nil)

	assert.NotPanics(t, func() { s.SaveBestScore(100) })
	assert.Equal(t, 0, s.LoadBestScore())
}

func TestDisabled(t *testing.T) {
	s := New("", nil)
	s.SaveBestScore(100)
	s.SaveSoundPreference(false)
	assert.Equal(t, 0, s.LoadBestScore())
	assert.True(t, s.LoadSoundPreference())
}
