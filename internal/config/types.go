package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultRepoURL     = "https://raw.githubusercontent.com/alcatraz/alcatraz-packages/master/packages.json"
	DefaultCacheTTL    = 24 * time.Hour
	DefaultHTTPTimeout = 30 * time.Second
	DefaultHTTPRetries = 3

	appDirName = "plugpak"
)

type Config struct {
	RepoURL      string `mapstructure:"repo_url" yaml:"repo_url" json:"repo_url"`
	InstallDir   string `mapstructure:"install_dir" yaml:"install_dir" json:"install_dir,omitempty"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir" json:"data_dir,omitempty"`
	CacheTTL     string `mapstructure:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl,omitempty"`
	HTTPTimeout  string `mapstructure:"http_timeout" yaml:"http_timeout" json:"http_timeout,omitempty"`
	HTTPRetries  *int   `mapstructure:"http_retries" yaml:"http_retries" json:"http_retries,omitempty"`
	BuildCommand string `mapstructure:"build_command" yaml:"build_command" json:"build_command,omitempty"`
	HostUUID     string `mapstructure:"host_uuid" yaml:"host_uuid" json:"host_uuid,omitempty"`
}

// Default returns the configuration used when no file sets a key.
func Default() Config {
	retries := DefaultHTTPRetries
	return Config{
		RepoURL:     DefaultRepoURL,
		CacheTTL:    DefaultCacheTTL.String(),
		HTTPTimeout: DefaultHTTPTimeout.String(),
		HTTPRetries: &retries,
	}
}

// Dir is the directory config files are read from.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = filepath.Join(os.TempDir(), ".config")
	}
	return filepath.Join(dir, appDirName)
}

// ResolvedDataDir is where settings, cache and logs live.
func (c Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return expandHome(c.DataDir)
	}
	return Dir()
}

// ResolvedInstallDir is the root packages are installed under.
func (c Config) ResolvedInstallDir() string {
	if c.InstallDir != "" {
		return expandHome(c.InstallDir)
	}
	return filepath.Join(c.ResolvedDataDir(), "packages")
}

func (c Config) TTL() (time.Duration, error) {
	return parseDuration("cache_ttl", c.CacheTTL, DefaultCacheTTL)
}

func (c Config) Timeout() (time.Duration, error) {
	return parseDuration("http_timeout", c.HTTPTimeout, DefaultHTTPTimeout)
}

func (c Config) Retries() int {
	if c.HTTPRetries == nil {
		return DefaultHTTPRetries
	}
	return *c.HTTPRetries
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
