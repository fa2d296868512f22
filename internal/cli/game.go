package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/pointsrummy/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Play a round against the house opponent",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameDrawCmd())
	cmd.AddCommand(newGameDiscardCmd())
	cmd.AddCommand(newGameEndTurnCmd())
	cmd.AddCommand(newGameAbandonCmd())
	cmd.AddCommand(newGameEventsCmd())

	return cmd
}

// roundCmd builds a command that calls one round endpoint and prints the round
func roundCmd(use, short, method, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Round

			if err := client.Do(method, path, nil, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameStartCmd() *cobra.Command {
	return roundCmd("start", "Pay the entry fee and deal a new round", "POST", "/api/v1/rounds")
}

func newGameShowCmd() *cobra.Command {
	return roundCmd("show", "Show the current round", "GET", "/api/v1/rounds/current")
}

func newGameDrawCmd() *cobra.Command {
	return roundCmd("draw", "Draw the top card of the draw pile", "POST", "/api/v1/rounds/current/draw")
}

func newGameEndTurnCmd() *cobra.Command {
	return roundCmd("end-turn", "Pass the turn to the opponent", "POST", "/api/v1/rounds/current/end-turn")
}

func newGameDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard <card>",
		Short: "Discard a card from your hand, e.g. ♥-10",
		Long: `Discard a card from your hand by its ID (suit-rank, as shown by "game show").

Discarding while holding 14 cards completes the hand and wins the round;
any other discard passes the turn to the opponent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"card_id": args[0]}
			var result response.Round

			if err := client.Post("/api/v1/rounds/current/discard", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon",
		Short: "Leave the current round without a refund",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/rounds/current"); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).PrintMessage("Round abandoned")
			return nil
		},
	}
}
