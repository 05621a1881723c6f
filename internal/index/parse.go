package index

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gopak/plugpak/internal/assets"
	"github.com/gopak/plugpak/internal/catalog"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/xeipuuv/gojsonschema"
)

type item struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Screenshot  string `json:"screenshot"`
	Version     string `json:"version"`
}

type document struct {
	Packages map[string][]item `json:"packages"`
}

// Parse validates an index document against the embedded schema and flattens it
// into packages. The category comes from the list an item is in. Blank names and
// names that are not a plain directory name are dropped; a repeated name keeps
// its first occurrence.
func Parse(data []byte) ([]catalog.Package, error) {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(assets.IndexSchema()), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		var msgs []string
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, errors.New("index validation failed: " + strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var out []catalog.Package
	for _, cat := range catalog.Categories {
		for _, it := range doc.Packages[cat.IndexKey()] {
			name := strings.TrimSpace(it.Name)
			if name == "" {
				continue
			}
			if !catalog.SafeName(name) {
				logging.Warn("skipping index item with unsafe name", "name", name, "category", cat)
				continue
			}
			out = append(out, catalog.Package{
				Name:        name,
				Version:     it.Version,
				Description: it.Description,
				Category:    cat,
				Screenshot:  it.Screenshot,
				Source:      it.URL,
			})
		}
	}
	return catalog.Dedupe(out), nil
}
