package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	var later bool
	var yes bool
	cmd := &cobra.Command{
		Use:   "install [name...]",
		Short: "Install packages, or select from uninstalled ones",
		Long: "Install the named packages. Without names, offers every uninstalled package with the\n" +
			"pending list preselected; with --yes and no names, installs the pending list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				a.ui.Yes = yes
				return a.ui.Install(cmd.Context(), args, later)
			})
		},
	}
	cmd.Flags().BoolVar(&later, "later", false, "queue the named packages for a later install")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "assume yes and install without prompting")
	rootCmd.AddCommand(cmd)
}
