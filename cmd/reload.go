package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Re-scan installed packages and re-fetch the package index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.reportDegraded(a.registry.ReloadPackages(cmd.Context())); err != nil {
				return err
			}
			a.warnIncompatible()
			snap := a.registry.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%d installed, %d available, %d new\n",
				len(snap.Local), len(snap.Remote), len(snap.AddedRemote))
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
