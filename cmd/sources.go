package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gopak/plugpak/internal/cache"
	"github.com/gopak/plugpak/internal/config"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/gopak/plugpak/internal/settings"
	"github.com/spf13/cobra"
)

func init() {
	var clear bool
	cmd := &cobra.Command{
		Use:   "sources [path]",
		Short: "Show or set a local package index that replaces repo_url",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := config.Get()
			st, err := settings.Open(cfg.ResolvedDataDir())
			if err != nil {
				return err
			}
			if len(args) == 0 && !clear {
				if p := st.PackageSourcesPath(); p != "" {
					fmt.Fprintln(out, p)
				} else {
					fmt.Fprintln(out, cfg.RepoURL)
				}
				return nil
			}

			path := ""
			if len(args) == 1 {
				if path, err = filepath.Abs(args[0]); err != nil {
					return err
				}
				if _, err := os.Stat(path); err != nil {
					return err
				}
			}
			if err := st.SetPackageSourcesPath(path); err != nil {
				return err
			}
			if err := invalidateCache(cfg.ResolvedDataDir()); err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(out, "using", cfg.RepoURL)
			} else {
				fmt.Fprintln(out, "using", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "go back to repo_url")
	rootCmd.AddCommand(cmd)
}

// invalidateCache forces the next load to refetch, since the cached remote
// list came from the previous source. An unreadable cache is overwritten.
func invalidateCache(dataDir string) error {
	store, err := cache.Open(dataDir)
	if err != nil {
		logging.Warn("replacing unreadable package cache", "err", err)
	}
	return store.Invalidate()
}
