package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/file"
)

// schemaVersion is bumped when a slot's serialized shape changes. Entries
// written under a different version fail validation instead of being
// silently misread.
const schemaVersion = 1

// Named slots. Components read and write only through these, never through
// raw key strings.
const (
	SlotUser           = "user"
	SlotDarkMode       = "darkMode"
	SlotWidgetPosition = "widgetPosition"
	SlotPreferences    = "preferences"
)

var (
	// ErrSlotNotFound is returned when a slot has never been written.
	ErrSlotNotFound = errors.New("store: slot not found")
	// ErrVersionMismatch is returned when a slot was written under a
	// different schema version.
	ErrVersionMismatch = errors.New("store: slot schema version mismatch")
)

// envelope wraps every stored value with its schema version.
type envelope struct {
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	Data      json.RawMessage `json:"data"`
}

// Store is a typed local key-value store persisted as one JSON file. It
// replaces scattering raw key reads through components: each slot is named,
// versioned, and validated on deserialization.
type Store struct {
	path    string
	fileOps file.FileOperations
	slots   cmap.ConcurrentMap[string, envelope]

	// writeMu serializes the read-modify-write of the backing file.
	writeMu sync.Mutex
}

// New creates a Store backed by the JSON file at path and loads any existing
// contents. A missing file is an empty store.
func New(path string, fileOps file.FileOperations) (*Store, error) {
	s := &Store{
		path:    path,
		fileOps: fileOps,
		slots:   cmap.New[envelope](),
	}

	var persisted map[string]envelope
	err := fileOps.ReadJsonFile(path, &persisted)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("store: failed to load %s: %w", path, err)
	}
	for slot, env := range persisted {
		s.slots.Set(slot, env)
	}
	return s, nil
}

// Get deserializes the named slot into v.
func (s *Store) Get(slot string, v any) error {
	env, ok := s.slots.Get(slot)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	if env.Version != schemaVersion {
		return fmt.Errorf("%w: %s has version %d, want %d", ErrVersionMismatch, slot, env.Version, schemaVersion)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("store: invalid data in slot %s: %w", slot, err)
	}
	return nil
}

// Set serializes v into the named slot and persists the whole store
// atomically.
func (s *Store) Set(slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: failed to serialize slot %s: %w", slot, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.slots.Set(slot, envelope{
		Version:   schemaVersion,
		UpdatedAt: time.Now().UTC(),
		Data:      data,
	})
	return s.flush()
}

// Clear removes the named slot.
func (s *Store) Clear(slot string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.slots.Remove(slot)
	return s.flush()
}

// Has reports whether the slot holds a value.
func (s *Store) Has(slot string) bool {
	return s.slots.Has(slot)
}

func (s *Store) flush() error {
	persisted := make(map[string]envelope, s.slots.Count())
	for entry := range s.slots.IterBuffered() {
		persisted[entry.Key] = entry.Val
	}
	return s.fileOps.WriteJsonFile(s.path, persisted)
}
