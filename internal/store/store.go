package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/leengari/jumanji/internal/engine"
)

const fileVersion = 1

// fileSnapshot is the on-disk layout: a small metadata header wrapping the
// database snapshot itself.
type fileSnapshot struct {
	Version    int                     `json:"version"`
	SnapshotID string                  `json:"snapshot_id"`
	SavedAt    time.Time               `json:"saved_at"`
	Database   engine.DatabaseSnapshot `json:"database"`
}

// Store persists database snapshots as a single JSON file.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Save captures db and writes it to disk atomically: marshal, write a temp
// file next to the destination, then rename over it, so a crash mid-write
// can never leave a half-written snapshot behind.
func (s *Store) Save(db *engine.Database) error {
	// 1. Capture a consistent snapshot
	snap := db.Snapshot()

	// 2. Wrap it with file metadata
	file := fileSnapshot{
		Version:    fileVersion,
		SnapshotID: uuid.New().String(),
		SavedAt:    time.Now().UTC(),
		Database:   snap,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", snap.Name, err)
	}

	// 3. Write temp + atomic rename
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp → snapshot: %w", err)
	}

	slog.Info("Database saved successfully",
		slog.String("name", snap.Name),
		slog.String("path", s.path),
		slog.Int("table_count", len(snap.Tables)),
		slog.String("snapshot_id", file.SnapshotID),
	)

	return nil
}

// Load reads the snapshot file and rebuilds a database from it. Restoring
// replays every insert, so constraints are re-checked and indexes rebuilt; a
// hand-edited file that violates its own schema is rejected. A missing file
// comes back as fs.ErrNotExist for callers to treat as a first run.
func (s *Store) Load() (*engine.Database, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var file fileSnapshot
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", s.path, err)
	}
	if file.Version != fileVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d in %s (want %d)",
			file.Version, s.path, fileVersion)
	}

	db, err := engine.FromSnapshot(file.Database)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s failed validation: %w", s.path, err)
	}

	slog.Info("Database loaded successfully",
		slog.String("name", db.Name),
		slog.String("path", s.path),
		slog.Int("table_count", len(db.ListTables())),
	)

	return db, nil
}

// LoadOrCreate loads the snapshot if one exists, or starts a fresh database
// named name when the file is not there yet.
func (s *Store) LoadOrCreate(name string) (*engine.Database, error) {
	db, err := s.Load()
	if err == nil {
		return db, nil
	}
	if os.IsNotExist(err) {
		slog.Info("No snapshot found, starting fresh",
			slog.String("name", name),
			slog.String("path", s.path),
		)
		return engine.New(name), nil
	}
	return nil, err
}

// SaveIfDirty persists only when something carries unsaved changes — a
// mutated table, or the table set itself after a create or drop — then
// clears the dirty flags.
func (s *Store) SaveIfDirty(db *engine.Database) error {
	if !anyDirty(db) {
		return nil
	}

	if err := s.Save(db); err != nil {
		return err
	}

	db.ClearSchemaDirty()
	for _, name := range db.ListTables() {
		t, err := db.Table(name)
		if err != nil {
			continue
		}
		t.Lock()
		t.Dirty = false
		t.Unlock()
	}
	return nil
}

func anyDirty(db *engine.Database) bool {
	if db.SchemaDirty() {
		return true
	}
	for _, name := range db.ListTables() {
		t, err := db.Table(name)
		if err != nil {
			continue
		}
		t.RLock()
		dirty := t.Dirty
		t.RUnlock()
		if dirty {
			return true
		}
	}
	return false
}
