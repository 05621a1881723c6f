package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				a.ui.Yes = yes
				return a.ui.RunRemove(cmd.Context(), args[0])
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "assume yes and remove without prompting")
	rootCmd.AddCommand(cmd)
}
