package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	spyerrors "github.com/spyglassdev/spyglass/internal/errors"
)

// Store persists run snapshots as JSON files, one per run, under a single
// directory. Writes go through a temp file and rename so readers never see a
// partial snapshot.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, spyerrors.NewValidationError("store dir", "must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Save persists the snapshot under its run ID, overwriting any previous
// snapshot for the same run.
func (s *Store) Save(snap Snapshot) error {
	if snap.RunID == "" {
		return spyerrors.NewValidationError("run ID", "must not be empty")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	final := s.path(snap.RunID)
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot for the given run ID. Returns ErrNoSuchRun when no
// snapshot exists for it.
func (s *Store) Load(runID string) (Snapshot, error) {
	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, fmt.Errorf("%s: %w", runID, spyerrors.ErrNoSuchRun)
		}
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", runID, err)
	}
	return snap, nil
}

// List returns all stored snapshots, newest first by finish time. Unreadable
// or malformed files are skipped.
func (s *Store) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store directory: %w", err)
	}

	var snaps []Snapshot
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		snap, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].FinishedAt.After(snaps[j].FinishedAt)
	})
	return snaps, nil
}

// Delete removes the snapshot for the given run ID. Returns ErrNoSuchRun when
// no snapshot exists for it.
func (s *Store) Delete(runID string) error {
	err := os.Remove(s.path(runID))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", runID, spyerrors.ErrNoSuchRun)
	}
	return err
}

func (s *Store) path(runID string) string {
	return filepath.Join(s.dir, runID+".json")
}
