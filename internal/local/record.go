package local

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gopak/plugpak/internal/catalog"
)

// RelativePath is where a package of the given category is installed, relative to the install dir.
func RelativePath(p catalog.Package) string {
	return filepath.Join(p.Category.Dir(), p.Name)
}

// ErrOutsideRoot is returned for a package whose directory would not be
// strictly inside the install dir.
var ErrOutsideRoot = errors.New("package path escapes install dir")

// Dir is the absolute install directory of p. It fails unless the directory
// lies below root.
func Dir(root string, p catalog.Package) (string, error) {
	rel := p.LocalRelativePath
	if rel == "" {
		rel = RelativePath(p)
	}
	dir := filepath.Join(root, rel)
	r, err := filepath.Rel(filepath.Clean(root), dir)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) || filepath.IsAbs(r) {
		return "", fmt.Errorf("%s (%s): %w", p.Name, rel, ErrOutsideRoot)
	}
	return dir, nil
}

// WriteRecord stores p's metadata inside its install directory.
func WriteRecord(root string, p catalog.Package) error {
	if err := p.ValidateLocal(); err != nil {
		return fmt.Errorf("record %s: %w", p.Name, err)
	}
	dir, err := Dir(root, p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, RecordName+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(p); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("record %s: %w", p.Name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, RecordName))
}

// RemovePackage deletes p's install directory, record included.
func RemovePackage(root string, p catalog.Package) error {
	dir, err := Dir(root, p)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
