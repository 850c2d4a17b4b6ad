package main

import (
	"fmt"

	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the collection in its text format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Open(cmd.Context()); err != nil {
			return err
		}
		return app.Manager.Dump(cmd.OutOrStdout())
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the snapshot with a collection text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Mutate(cmd.Context(), func(m *harbor.Manager) error {
			if err := m.ImportFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d ports\n", len(m.Names()))
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the snapshot to a collection text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Open(cmd.Context()); err != nil {
			return err
		}
		return app.Manager.ExportFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd, importCmd, exportCmd)
}
