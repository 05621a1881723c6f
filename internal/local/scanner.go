package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gopak/plugpak/internal/catalog"
	"howett.net/plist"
)

// RecordName is the metadata file every installed package directory carries.
const RecordName = "package.toml"

// maxDepth bounds the walk: "Templates/File Templates/<name>/package.toml" is the deepest layout.
const maxDepth = 4

// Scanner derives the local catalog from the records under an install directory.
type Scanner struct {
	Root string
}

func NewScanner(root string) *Scanner { return &Scanner{Root: root} }

func (s *Scanner) String() string { return s.Root }

// Scan returns every valid package record under Root, sorted by name.
// A missing Root means nothing is installed. Invalid or duplicate records are
// skipped and reported in the returned error alongside a non-nil package list;
// a nil list means Root itself could not be read.
func (s *Scanner) Scan(ctx context.Context) ([]catalog.Package, error) {
	if _, err := os.Stat(s.Root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []catalog.Package{}, nil
		}
		return nil, err
	}

	var (
		pkgs     []catalog.Package
		warnings []error
		seen     = map[string]string{}
	)
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == s.Root {
				return err
			}
			warnings = append(warnings, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(s.Root, path)
		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		if d.IsDir() {
			if depth >= maxDepth || d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() != RecordName {
			return nil
		}
		p, err := readRecord(path)
		if err != nil {
			warnings = append(warnings, err)
			return nil
		}
		if prev, ok := seen[p.Name]; ok {
			warnings = append(warnings, fmt.Errorf("%s: duplicate package %q, already recorded in %s", path, p.Name, prev))
			return nil
		}
		seen[p.Name] = path
		pkgs = append(pkgs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog.Dedupe(pkgs), errors.Join(warnings...)
}

func readRecord(path string) (catalog.Package, error) {
	var p catalog.Package
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return catalog.Package{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.ValidateLocal(); err != nil {
		return catalog.Package{}, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if p.Screenshot == "" {
		if _, err := os.Stat(filepath.Join(dir, catalog.LocalScreenshotName)); err == nil {
			p.Screenshot = catalog.LocalScreenshotName
		}
	}
	if len(p.CompatibilityUUIDs) == 0 {
		p.CompatibilityUUIDs = BundleCompatibilityUUIDs(dir)
	}
	p.Installed = true
	return p, nil
}

type bundleInfo struct {
	CompatibilityUUIDs []string `plist:"DVTPlugInCompatibilityUUIDs"`
}

// BundleCompatibilityUUIDs reads DVTPlugInCompatibilityUUIDs from the first
// *.xcplugin bundle in dir (or dir itself when it is a bundle).
func BundleCompatibilityUUIDs(dir string) []string {
	candidates := []string{filepath.Join(dir, "Contents", "Info.plist")}
	bundles, _ := filepath.Glob(filepath.Join(dir, "*.xcplugin", "Contents", "Info.plist"))
	candidates = append(candidates, bundles...)
	for _, c := range candidates {
		data, err := os.ReadFile(c)
		if err != nil {
			continue
		}
		var info bundleInfo
		if _, err := plist.Unmarshal(data, &info); err != nil {
			continue
		}
		if len(info.CompatibilityUUIDs) > 0 {
			return info.CompatibilityUUIDs
		}
	}
	return nil
}
