package config

import (
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes the environment overrides, e.g. PLUGPAK_REPO_URL.
const EnvPrefix = "PLUGPAK"

type envOverrides struct {
	RepoURL      string `envconfig:"REPO_URL"`
	InstallDir   string `envconfig:"INSTALL_DIR"`
	DataDir      string `envconfig:"DATA_DIR"`
	CacheTTL     string `envconfig:"CACHE_TTL"`
	HTTPTimeout  string `envconfig:"HTTP_TIMEOUT"`
	HTTPRetries  string `envconfig:"HTTP_RETRIES"`
	BuildCommand string `envconfig:"BUILD_COMMAND"`
	HostUUID     string `envconfig:"HOST_UUID"`
}

// ApplyEnv overlays PLUGPAK_* environment variables on cfg.
func ApplyEnv(cfg Config) (Config, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}
	overlay := Config{
		RepoURL:      env.RepoURL,
		InstallDir:   env.InstallDir,
		DataDir:      env.DataDir,
		CacheTTL:     env.CacheTTL,
		HTTPTimeout:  env.HTTPTimeout,
		BuildCommand: env.BuildCommand,
		HostUUID:     env.HostUUID,
	}
	if env.HTTPRetries != "" {
		n, err := strconv.Atoi(env.HTTPRetries)
		if err != nil {
			return Config{}, fmt.Errorf("%s_HTTP_RETRIES: %w", EnvPrefix, err)
		}
		overlay.HTTPRetries = &n
	}
	out := mergeConfig(cfg, overlay)
	current = out
	return out, nil
}
