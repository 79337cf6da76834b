package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profiles.toml"))

	records, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_SaveAndGet(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "profiles.toml"))
	saved := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(Record{Name: "zeta", Device: "/dev/ttyS0", Rate: 9600, SavedAt: saved}))
	require.NoError(t, s.Save(Record{Name: "alpha", Device: "/dev/ttyUSB0", Rate: 115200, RunID: "run-1", SavedAt: saved}))

	records, err := s.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alpha", records[0].Name)
	assert.Equal(t, "zeta", records[1].Name)

	rec, err := s.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", rec.Device)
	assert.EqualValues(t, 115200, rec.Rate)
	assert.Equal(t, "run-1", rec.RunID)
	assert.True(t, saved.Equal(rec.SavedAt))
}

func TestStore_SaveReplaces(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profiles.toml"))

	require.NoError(t, s.Save(Record{Name: "lab", Device: "/dev/ttyS0", Rate: 9600}))
	require.NoError(t, s.Save(Record{Name: "lab", Device: "/dev/ttyS0", Rate: 38400}))

	records, err := s.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.EqualValues(t, 38400, records[0].Rate)
	assert.False(t, records[0].SavedAt.IsZero())
}

func TestStore_GetUnknown(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profiles.toml"))

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestStore_SaveInvalidName(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "profiles.toml"))

	assert.ErrorIs(t, s.Save(Record{Name: "a/b"}), ErrInvalidName)
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[profile]\nname ="), 0o644))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}
