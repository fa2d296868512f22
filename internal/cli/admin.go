package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/pointsrummy/internal/api/response"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin panel commands (admin accounts only)",
	}

	cmd.AddCommand(newAdminOverviewCmd())
	cmd.AddCommand(newAdminPlayersCmd())
	cmd.AddCommand(newAdminAdjustCmd("give", "Give coins to a player"))
	cmd.AddCommand(newAdminAdjustCmd("take", "Take coins from a player, never below zero"))

	return cmd
}

func newAdminOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show player, coin and round totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AdminOverview

			if err := client.Get("/api/v1/admin/overview", &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newAdminPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List every player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerList

			if err := client.Get("/api/v1/admin/players", &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newAdminAdjustCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <player-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive number, got %q", args[1])
			}

			req := map[string]int{"amount": amount}
			var result response.User

			path := fmt.Sprintf("/api/v1/admin/players/%s/%s", args[0], action)
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
