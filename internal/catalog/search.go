package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type searchSource []Package

func (s searchSource) String(i int) string {
	return s[i].Name + " " + s[i].Description
}

func (s searchSource) Len() int { return len(s) }

// Search ranks pkgs against query by fuzzy match on name and description, best first.
// An empty query returns pkgs unchanged.
func Search(query string, pkgs []Package) []Package {
	query = strings.TrimSpace(query)
	if query == "" {
		return pkgs
	}
	matches := fuzzy.FindFrom(query, searchSource(pkgs))
	out := make([]Package, 0, len(matches))
	for _, m := range matches {
		out = append(out, pkgs[m.Index])
	}
	return out
}
