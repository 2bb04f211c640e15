package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/file"
)

type preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := New(path, file.NewFileService())
	require.NoError(t, err)
	return s, path
}

// TestStore_SetGet tests a basic write and typed read of a slot.
func TestStore_SetGet(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Set(SlotPreferences, preferences{Theme: "dark", Language: "en"}))
	assert.True(t, s.Has(SlotPreferences))

	var got preferences
	require.NoError(t, s.Get(SlotPreferences, &got))
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "en", got.Language)
}

// TestStore_MissingSlot tests the not-found error for a slot never written.
func TestStore_MissingSlot(t *testing.T) {
	s, _ := newTestStore(t)

	var got preferences
	err := s.Get(SlotDarkMode, &got)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.False(t, s.Has(SlotDarkMode))
}

// TestStore_PersistsAcrossInstances tests that a second Store on the same
// file sees what the first wrote.
func TestStore_PersistsAcrossInstances(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set(SlotDarkMode, true))

	reopened, err := New(path, file.NewFileService())
	require.NoError(t, err)

	var darkMode bool
	require.NoError(t, reopened.Get(SlotDarkMode, &darkMode))
	assert.True(t, darkMode)
}

// TestStore_VersionMismatch tests that an entry written under a different
// schema version fails validation instead of deserializing silently.
func TestStore_VersionMismatch(t *testing.T) {
	s, _ := newTestStore(t)

	s.slots.Set(SlotUser, envelope{
		Version:   schemaVersion + 1,
		UpdatedAt: time.Now().UTC(),
		Data:      []byte(`{"id": "u-1"}`),
	})

	var got map[string]any
	err := s.Get(SlotUser, &got)
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

// TestStore_Clear tests slot removal and its persistence.
func TestStore_Clear(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set(SlotWidgetPosition, map[string]int{"x": 10, "y": 20}))
	require.NoError(t, s.Clear(SlotWidgetPosition))

	assert.False(t, s.Has(SlotWidgetPosition))

	reopened, err := New(path, file.NewFileService())
	require.NoError(t, err)
	assert.False(t, reopened.Has(SlotWidgetPosition))
}

// TestStore_MissingFileIsEmpty tests that a store path that does not exist
// yet opens as an empty store.
func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "never-written.json"), file.NewFileService())
	require.NoError(t, err)
	assert.False(t, s.Has(SlotUser))
}
