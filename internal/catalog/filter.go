package catalog

import (
	"fmt"
	"strings"
)

// Filter selects a subset of packages for display.
type Filter int

const (
	FilterAll Filter = iota
	FilterPlugins
	FilterColorSchemes
	FilterTemplates
	FilterNew
)

var filterNames = map[Filter]string{
	FilterAll:          "all",
	FilterPlugins:      "plugins",
	FilterColorSchemes: "color_schemes",
	FilterTemplates:    "templates",
	FilterNew:          "new",
}

func (f Filter) String() string {
	if s, ok := filterNames[f]; ok {
		return s
	}
	return "unknown"
}

func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for f, name := range filterNames {
		if name == s {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, plugins, color_schemes, templates or new)", s)
}

// Apply keeps the packages matching f. FilterNew consults c for the remote added set.
func (f Filter) Apply(c *Catalog, pkgs []Package) []Package {
	out := make([]Package, 0, len(pkgs))
	for _, p := range pkgs {
		if f.match(c, p) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filter) match(c *Catalog, p Package) bool {
	switch f {
	case FilterPlugins:
		return p.Category == CategoryPlugin
	case FilterColorSchemes:
		return p.Category == CategoryColorScheme
	case FilterTemplates:
		return p.Category == CategoryProjectTemplate || p.Category == CategoryFileTemplate
	case FilterNew:
		return c.IsNew(p.Name)
	default:
		return true
	}
}
