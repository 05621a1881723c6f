package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopak/plugpak/internal/catalog"
)

const FileName = "cached_packages.json"

// ErrCorrupt is returned by Open when the cache file exists but cannot be decoded.
// The returned store is still usable and starts empty.
var ErrCorrupt = errors.New("package cache corrupt")

// Snapshot is the persisted last-known state of both package lists.
type Snapshot struct {
	RemotePackages []catalog.Package `json:"remote_packages"`
	LocalPackages  []catalog.Package `json:"local_packages"`
	FetchedAt      time.Time         `json:"fetched_at"`
}

// Fresh reports whether the remote list was fetched within ttl of now.
// A zero ttl never expires; a snapshot that was never fetched is never fresh.
func (s Snapshot) Fresh(ttl time.Duration, now time.Time) bool {
	if s.FetchedAt.IsZero() {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(s.FetchedAt) < ttl
}

type Store struct {
	path string
	mu   sync.RWMutex
	snap Snapshot
}

// Open reads <dataDir>/cached_packages.json. A missing file is not an error.
func Open(dataDir string) (*Store, error) {
	s := &Store{path: filepath.Join(dataDir, FileName)}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	s.snap = snap
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Save replaces the snapshot and writes it to disk through a temp file.
func (s *Store) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.snap = snap
	return nil
}

// Invalidate forgets the fetch time so the next startup load refetches.
func (s *Store) Invalidate() error {
	snap := s.Snapshot()
	snap.FetchedAt = time.Time{}
	return s.Save(snap)
}
