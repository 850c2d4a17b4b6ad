package main

import (
	"log"
	"os"

	"github.com/aretw0/harbor/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the snapshot as MCP tools over Standard Input/Output.
Changes are saved back to the snapshot when the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		if err := app.Open(ctx); err != nil {
			return err
		}

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		app.Logger.Info("Starting Harbor MCP Server (Stdio)...")
		srv := mcp.NewServer(app.Manager, app.Logger)
		if err := srv.ServeStdio(); err != nil {
			app.Logger.Error("MCP Server execution failed", "err", err)
			return err
		}
		return app.Manager.Save(ctx, app.Snapshot)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
