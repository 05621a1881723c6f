package assets

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
)

//go:embed default-config.yaml
var defaultConfig []byte

//go:embed config.schema.json
var configSchema []byte

//go:embed index.schema.json
var indexSchema []byte

// DefaultConfigName is the file WriteDefaultConfigIfMissing creates.
const DefaultConfigName = "config.yaml"

func DefaultConfig() []byte { return defaultConfig }

func ConfigSchema() []byte { return configSchema }

func IndexSchema() []byte { return indexSchema }

// WriteDefaultConfigIfMissing writes config.yaml to targetDir if it does not exist.
func WriteDefaultConfigIfMissing(targetDir string) error {
	if targetDir == "" {
		return errors.New("empty targetDir")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	p := filepath.Join(targetDir, DefaultConfigName)
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(p, defaultConfig, 0o644)
}
