package main

import (
	"fmt"
	"os"

	"github.com/aretw0/harbor/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "harbor",
	Short: "Harbor parks ships in fixed-capacity ports",
	Long: `Harbor manages named ports sized for a drawing area, parks ships in them
and saves the whole collection as text snapshots.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("snapshot", cli.DefaultSnapshot, "Snapshot key to work on")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// newApp builds the App from the persistent flags. Callers must Close it.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	snapshot, _ := cmd.Flags().GetString("snapshot")
	logLevel, _ := cmd.Flags().GetString("log-level")
	return cli.NewApp(cli.Options{
		ConfigPath: configPath,
		Snapshot:   snapshot,
		LogLevel:   logLevel,
	})
}
