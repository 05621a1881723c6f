package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var current = Default()

func Get() Config { return current }

// Set replaces the process-wide configuration; commands read it through Get.
func Set(cfg Config) { current = cfg }

// LoadFromFiles merges the YAML files over Default in name order.
func LoadFromFiles(files []string) (Config, error) {
	return LoadDefaultsAndFiles(nil, files)
}

// LoadDefaultsAndFiles merges defaultsYAML and then each file over Default.
// Later sources override any key they set; unknown keys are rejected.
func LoadDefaultsAndFiles(defaultsYAML []byte, files []string) (Config, error) {
	merged := Default()
	if len(defaultsYAML) > 0 {
		part, err := decode(defaultsYAML)
		if err != nil {
			return Config{}, fmt.Errorf("defaults: %w", err)
		}
		merged = mergeConfig(merged, part)
	}
	for _, f := range sortedYAML(files) {
		b, err := os.ReadFile(f)
		if err != nil {
			return Config{}, err
		}
		part, err := decode(b)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", f, err)
		}
		merged = mergeConfig(merged, part)
	}
	current = merged
	return merged, nil
}

// FilesIn lists the YAML files directly inside dir.
func FilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return sortedYAML(files), nil
}

func decode(b []byte) (Config, error) {
	var part Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&part); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return part, nil
}

func sortedYAML(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		lf := strings.ToLower(f)
		if strings.HasSuffix(lf, ".yaml") || strings.HasSuffix(lf, ".yml") {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func mergeConfig(base, overlay Config) Config {
	out := base
	if overlay.RepoURL != "" {
		out.RepoURL = overlay.RepoURL
	}
	if overlay.InstallDir != "" {
		out.InstallDir = overlay.InstallDir
	}
	if overlay.DataDir != "" {
		out.DataDir = overlay.DataDir
	}
	if overlay.CacheTTL != "" {
		out.CacheTTL = overlay.CacheTTL
	}
	if overlay.HTTPTimeout != "" {
		out.HTTPTimeout = overlay.HTTPTimeout
	}
	if overlay.HTTPRetries != nil {
		out.HTTPRetries = overlay.HTTPRetries
	}
	if overlay.BuildCommand != "" {
		out.BuildCommand = overlay.BuildCommand
	}
	if overlay.HostUUID != "" {
		out.HostUUID = overlay.HostUUID
	}
	return out
}
