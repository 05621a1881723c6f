package cmd

import (
	"fmt"
	"os"

	"github.com/gopak/plugpak/internal/config"
	"github.com/gopak/plugpak/internal/index"
	"github.com/gopak/plugpak/internal/settings"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate merged configuration against the JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Configuration is valid")

		st, err := settings.Open(config.Get().ResolvedDataDir())
		if err != nil {
			return err
		}
		path := st.PackageSourcesPath()
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("package sources: %w", err)
		}
		pkgs, err := index.Parse(data)
		if err != nil {
			return fmt.Errorf("package sources %s: %w", path, err)
		}
		fmt.Fprintf(out, "Package sources %s are valid (%d packages)\n", path, len(pkgs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
