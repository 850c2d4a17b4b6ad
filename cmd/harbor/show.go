package main

import (
	"os"

	"github.com/aretw0/harbor/internal/cli"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <port>",
	Short: "Draw the places of a port as a grid",
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
		return cli.ShowPort(os.Stdout, app.Manager, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
