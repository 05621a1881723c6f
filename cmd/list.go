package cmd

import (
	"github.com/gopak/plugpak/internal/catalog"
	"github.com/spf13/cobra"
)

func init() {
	var filter string
	var installedOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed and available packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.ParseFilter(filter)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				return a.ui.RunList(f, installedOnly)
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, plugins, color_schemes, templates or new")
	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only installed packages")
	rootCmd.AddCommand(cmd)
}
