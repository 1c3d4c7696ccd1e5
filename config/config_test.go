package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grand-staff/notation"
)

func TestLoadFileMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`spelling: flats
input:
  preferred: [Launchkey]
geometry:
  noteShift: 20
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, notation.AllFlats, cfg.Spelling)
	assert.Equal(t, []string{"Launchkey"}, cfg.Input.Preferred)
	assert.Equal(t, 20, cfg.Geometry.NoteShift)
	// untouched fields keep their defaults
	assert.Equal(t, 66, cfg.Geometry.NoteX)
	assert.Equal(t, "127.0.0.1:8088", cfg.Server.Addr)
}

func TestLoadFileBadSpelling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spelling: naturals\n"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Spelling = notation.AllFlats
	cfg.UI.BaseOctave = 3
	require.NoError(t, cfg.SaveFile(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveKeepsOctaveZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.UI.BaseOctave = 0
	require.NoError(t, cfg.SaveFile(path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UI.BaseOctave)
}
