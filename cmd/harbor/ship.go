package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/harbor/internal/cli"
	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/harbor"
	"github.com/spf13/cobra"
)

// shipKinds maps the short CLI names onto ship kinds.
var shipKinds = map[string]domain.Kind{
	"default": domain.KindDefault,
	"motor":   domain.KindMotor,
}

var shipCmd = &cobra.Command{
	Use:   "ship",
	Short: "Park, take and list ships",
}

var shipParkCmd = &cobra.Command{
	Use:   "park <port> default|motor <fields...>",
	Short: "Park a ship in the first free place",
	Example: `  harbor ship park North default 100 200 true
  harbor ship park North motor 90 150 false true false true`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := shipKinds[args[1]]
		if !ok {
			return fmt.Errorf("unknown ship kind %q (want default or motor)", args[1])
		}
		ship, err := domain.Decode(string(kind), strings.Join(args[2:], domain.FieldSeparator))
		if err != nil {
			return err
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Mutate(cmd.Context(), func(m *harbor.Manager) error {
			idx, err := m.Park(args[0], ship)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "parked at place %d\n", idx)
			return nil
		})
	},
}

var shipTakeCmd = &cobra.Command{
	Use:   "take <port> <index>",
	Short: "Take the ship at a place; later ships move one place left",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return app.Mutate(cmd.Context(), func(m *harbor.Manager) error {
			ship, err := m.Take(args[0], idx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\n", ship.Kind(), domain.Separator, ship.Describe())
			return nil
		})
	},
}

var shipLsCmd = &cobra.Command{
	Use:   "ls <port>",
	Short: "List the ships of a port",
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
		return cli.PrintShips(cmd.OutOrStdout(), app.Manager, args[0])
	},
}

func init() {
	shipCmd.AddCommand(shipParkCmd, shipTakeCmd, shipLsCmd)
	rootCmd.AddCommand(shipCmd)
}
