package config

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gopak/plugpak/internal/assets"
	"github.com/xeipuuv/gojsonschema"
)

// ValidateAgainstSchema checks cfg against the embedded configuration schema
// and that its durations parse.
func ValidateAgainstSchema(cfg Config) error {
	schemaJSON := assets.ConfigSchema()
	if len(schemaJSON) == 0 {
		return errors.New("schema not embedded")
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(b))
	if err != nil {
		return err
	}
	if !res.Valid() {
		var msgs []string
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return errors.New("schema validation failed: " + strings.Join(msgs, "; "))
	}
	if _, err := cfg.TTL(); err != nil {
		return err
	}
	if _, err := cfg.Timeout(); err != nil {
		return err
	}
	return nil
}
