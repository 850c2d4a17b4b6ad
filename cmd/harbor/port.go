package main

import (
	"fmt"

	"github.com/aretw0/harbor/internal/cli"
	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/spf13/cobra"
)

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Manage ports",
}

var portAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an empty port",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := domain.SanitizeName(args[0])
		if err != nil {
			return err
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Mutate(cmd.Context(), func(m *harbor.Manager) error {
			if !m.AddPort(name) {
				fmt.Fprintf(cmd.OutOrStdout(), "port %q already exists\n", name)
			}
			return nil
		})
	},
}

var portRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a port and its ships",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Mutate(cmd.Context(), func(m *harbor.Manager) error {
			if !m.DelPort(args[0]) {
				return fmt.Errorf("%w: %q", domain.ErrPortNotFound, args[0])
			}
			return nil
		})
	},
}

var portLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List ports with their occupancy",
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
		cli.PrintPorts(cmd.OutOrStdout(), app.Manager)
		return nil
	},
}

func init() {
	portCmd.AddCommand(portAddCmd, portRmCmd, portLsCmd)
	rootCmd.AddCommand(portCmd)
}
