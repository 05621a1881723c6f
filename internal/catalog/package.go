package catalog

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type Category string

const (
	CategoryPlugin          Category = "plugin"
	CategoryColorScheme     Category = "color_scheme"
	CategoryProjectTemplate Category = "project_template"
	CategoryFileTemplate    Category = "file_template"
)

// Categories lists every known category in index order.
var Categories = []Category{CategoryPlugin, CategoryColorScheme, CategoryProjectTemplate, CategoryFileTemplate}

// IndexKey is the key under "packages" in the remote index that holds this category.
func (c Category) IndexKey() string {
	switch c {
	case CategoryPlugin:
		return "plugins"
	case CategoryColorScheme:
		return "color_schemes"
	case CategoryProjectTemplate:
		return "project_templates"
	case CategoryFileTemplate:
		return "file_templates"
	}
	return ""
}

// Dir is the directory under the install dir that packages of this category live in.
func (c Category) Dir() string {
	switch c {
	case CategoryPlugin:
		return "Plug-ins"
	case CategoryColorScheme:
		return "FontAndColorThemes"
	case CategoryProjectTemplate:
		return "Templates/Project Templates"
	case CategoryFileTemplate:
		return "Templates/File Templates"
	}
	return "Other"
}

func (c Category) Valid() bool {
	return c.IndexKey() != ""
}

// LocalScreenshotName is the file a package's screenshot is stored under inside its install directory.
const LocalScreenshotName = "screenshot.png"

type Package struct {
	Name               string   `yaml:"name" json:"name" toml:"name"`
	Version            string   `yaml:"version,omitempty" json:"version,omitempty" toml:"version"`
	LocalRelativePath  string   `yaml:"local_relative_path,omitempty" json:"local_relative_path,omitempty" toml:"local_relative_path"`
	Description        string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description"`
	Category           Category `yaml:"category,omitempty" json:"category,omitempty" toml:"category"`
	CompatibilityUUIDs []string `yaml:"compatibility_uuids,omitempty" json:"compatibility_uuids,omitempty" toml:"compatibility_uuids,omitempty"`
	Screenshot         string   `yaml:"screenshot,omitempty" json:"screenshot,omitempty" toml:"screenshot,omitempty"`
	Source             string   `yaml:"url,omitempty" json:"url,omitempty" toml:"url,omitempty"`

	Installed     bool   `yaml:"-" json:"-" toml:"-"`
	LatestVersion string `yaml:"-" json:"-" toml:"-"`
}

var (
	ErrMissingName    = errors.New("missing name")
	ErrMissingVersion = errors.New("missing version")
	ErrMissingPath    = errors.New("missing local relative path")
)

// SafeName reports whether name can be used as a single directory name under
// a category directory.
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

// ValidateLocal checks the fields every installed package record must carry.
func (p Package) ValidateLocal() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, ErrMissingName)
	}
	if p.Version == "" {
		errs = append(errs, ErrMissingVersion)
	}
	if p.LocalRelativePath == "" {
		errs = append(errs, ErrMissingPath)
	}
	return errors.Join(errs...)
}

// UpdateAvailable reports whether an installed package has a newer remote version.
func (p Package) UpdateAvailable() bool {
	if !p.Installed || p.Version == "" || p.LatestVersion == "" {
		return false
	}
	ni := NormalizeVersion(p.Version)
	nl := NormalizeVersion(p.LatestVersion)
	if ni == "" || nl == "" {
		return p.Version != p.LatestVersion
	}
	return CompareVersions(nl, ni) > 0
}

// CompatibleWith reports whether the package declares the given host UUID.
// Packages that declare nothing are treated as compatible.
func (p Package) CompatibleWith(uuid string) bool {
	if len(p.CompatibilityUUIDs) == 0 || uuid == "" {
		return true
	}
	for _, u := range p.CompatibilityUUIDs {
		if u == uuid {
			return true
		}
	}
	return false
}

// Catalog is an immutable snapshot of both package sets.
type Catalog struct {
	Local       []Package
	Remote      []Package
	AddedLocal  []string
	AddedRemote []string
	LoadedAt    time.Time
}

// All merges local and remote, favoring the local record for shared names.
func (c *Catalog) All() []Package {
	if c == nil {
		return nil
	}
	return Merge(c.Local, c.Remote)
}

// IsNew reports whether name is in the remote added set.
func (c *Catalog) IsNew(name string) bool {
	if c == nil {
		return false
	}
	for _, n := range c.AddedRemote {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns the sorted names of pkgs.
func Names(pkgs []Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out
}

// Added returns names present in current but not in previous, sorted.
func Added(previous, current []Package) []string {
	seen := make(map[string]struct{}, len(previous))
	for _, p := range previous {
		seen[p.Name] = struct{}{}
	}
	out := []string{}
	for _, p := range current {
		if _, ok := seen[p.Name]; !ok {
			out = append(out, p.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Find returns the package named name, if any.
func Find(pkgs []Package, name string) (Package, bool) {
	for _, p := range pkgs {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}
