package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gopak/plugpak/internal/assets"
	"github.com/gopak/plugpak/internal/config"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/spf13/cobra"
)

var cfgFile string
var verbose bool
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "plugpak",
	Short:         "Xcode plugin, color scheme and template manager",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logging.Close()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logging.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to any YAML file inside the config directory (default dir: ~/.config/plugpak); all *.yaml in that directory are merged")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show detailed steps and commands")
	rootCmd.Version = version
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	logging.SetVerbose(verbose)
	cfgDir := config.Dir()
	if cfgFile != "" {
		cfgDir = filepath.Dir(cfgFile)
	}
	if err := assets.WriteDefaultConfigIfMissing(cfgDir); err != nil {
		logging.Error("cannot prepare config directory", "dir", cfgDir, "err", err)
		os.Exit(1)
	}
	files, err := config.FilesIn(cfgDir)
	if err != nil || len(files) == 0 {
		logging.Error("no YAML config files found in " + cfgDir)
		os.Exit(1)
	}
	cfg, err := config.LoadFromFiles(files)
	if err != nil {
		logging.Error("config error: " + err.Error())
		os.Exit(1)
	}
	if cfg, err = config.ApplyEnv(cfg); err != nil {
		logging.Error("environment error: " + err.Error())
		os.Exit(1)
	}
	if err := config.ValidateAgainstSchema(cfg); err != nil {
		logging.Error("schema error: " + err.Error())
		os.Exit(1)
	}
	config.Set(cfg)
	logging.Init(cfg.ResolvedDataDir())
	logging.Debug("config loaded", "dir", cfgDir, "files", len(files), "install_dir", cfg.ResolvedInstallDir())
}
