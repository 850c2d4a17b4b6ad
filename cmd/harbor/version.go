package main

import (
	"strings"

	"github.com/aretw0/harbor"
	"github.com/aretw0/harbor/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of harbor",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(harbor.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
