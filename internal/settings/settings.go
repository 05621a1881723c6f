package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

const FileName = "settings.yaml"

type Settings struct {
	PackageSourcesPath    string   `yaml:"package_sources_path,omitempty"`
	PackagesToBeInstalled []string `yaml:"packages_to_be_installed,omitempty"`
}

// Store is the persisted settings record. Every mutation is written through.
type Store struct {
	path string
	mu   sync.RWMutex
	s    Settings
}

// Open loads <dataDir>/settings.yaml; a missing file yields empty settings.
func Open(dataDir string) (*Store, error) {
	st := &Store{path: filepath.Join(dataDir, FileName)}
	if err := st.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return st, nil
}

func (st *Store) load() error {
	data, err := os.ReadFile(st.path)
	if err != nil {
		return err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: %w", st.path, err)
	}
	st.s = s
	return nil
}

// save must be called with mu held.
func (st *Store) save() error {
	data, err := yaml.Marshal(st.s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0o644)
}

func (st *Store) Path() string { return st.path }

func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := st.s
	out.PackagesToBeInstalled = slices.Clone(st.s.PackagesToBeInstalled)
	return out
}

func (st *Store) PackageSourcesPath() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.PackageSourcesPath
}

func (st *Store) SetPackageSourcesPath(p string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.PackageSourcesPath = p
	return st.save()
}

func (st *Store) Pending() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return slices.Clone(st.s.PackagesToBeInstalled)
}

// AddPending queues names for installation, skipping ones already queued.
func (st *Store) AddPending(names ...string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	changed := false
	for _, n := range names {
		if n == "" || slices.Contains(st.s.PackagesToBeInstalled, n) {
			continue
		}
		st.s.PackagesToBeInstalled = append(st.s.PackagesToBeInstalled, n)
		changed = true
	}
	if !changed {
		return nil
	}
	return st.save()
}

func (st *Store) RemovePending(names ...string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	before := len(st.s.PackagesToBeInstalled)
	st.s.PackagesToBeInstalled = slices.DeleteFunc(st.s.PackagesToBeInstalled, func(n string) bool {
		return slices.Contains(names, n)
	})
	if len(st.s.PackagesToBeInstalled) == before {
		return nil
	}
	return st.save()
}
