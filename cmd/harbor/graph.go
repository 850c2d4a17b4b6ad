package main

import (
	"fmt"

	"github.com/aretw0/harbor/internal/presentation/graph"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the collection as a Mermaid flowchart",
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

		var views []harbor.PortView
		for _, name := range app.Manager.Names() {
			view, err := app.Manager.Port(name)
			if err != nil {
				return err
			}
			views = append(views, view)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(views))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
