package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	var dryRun bool
	var yes bool
	cmd := &cobra.Command{
		Use:   "update [name]",
		Short: "Update one package or all",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return withApp(cmd.Context(), func(a *app) error {
				a.ui.Yes = yes
				return a.ui.Update(cmd.Context(), name, dryRun)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print planned changes without executing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "assume yes and update all without prompting")
	rootCmd.AddCommand(cmd)
}
