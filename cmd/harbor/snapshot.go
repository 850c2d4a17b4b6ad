package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored snapshots",
}

var snapshotLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		keys, err := app.Manager.Snapshots(cmd.Context())
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

var snapshotRmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Manager.DeleteSnapshot(cmd.Context(), args[0])
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotLsCmd, snapshotRmCmd)
	rootCmd.AddCommand(snapshotCmd)
}
