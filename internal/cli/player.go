package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/acs-tournaments/internal/api/response"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerScoreCmd())
	cmd.AddCommand(newPlayerRankingCmd())

	return cmd
}

func playerPath(id string) string {
	return fmt.Sprintf("/api/v1/players/%s", url.PathEscape(id))
}

func newPlayerAddCmd() *cobra.Command {
	var (
		name   string
		tier   int
		gameID string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name": name,
				"tier": tier,
			}
			if gameID != "" {
				req["game_id"] = gameID
			}
			var result response.Player

			if err := client.Post("/api/v1/players", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().IntVar(&tier, "tier", 1, "Skill tier, 1 is strongest")
	cmd.Flags().StringVar(&gameID, "game", "", "Game the player competes in")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	var gameID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/players"
			if gameID != "" {
				path += "?" + url.Values{"game_id": {gameID}}.Encode()
			}
			var result []response.Player

			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Only list players of this game")

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Get(playerPath(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayerUpdateCmd() *cobra.Command {
	var (
		name string
		tier int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a player or change their tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("name") {
				req["name"] = name
			}
			if cmd.Flags().Changed("tier") {
				req["tier"] = tier
			}
			if len(req) == 0 {
				return fmt.Errorf("at least one of --name or --tier is required")
			}
			var result response.Player

			if err := client.Patch(playerPath(args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().IntVar(&tier, "tier", 0, "New tier")

	return cmd
}

func newPlayerScoreCmd() *cobra.Command {
	var by int

	cmd := &cobra.Command{
		Use:   "score <id>",
		Short: "Adjust a player's score",
		Long:  "Adjust a player's score by a signed amount, e.g. --by 5 or --by -3.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"adjustment": by}
			var result response.Player

			if err := client.Post(playerPath(args[0])+"/score", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&by, "by", 0, "Score delta (required)")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func newPlayerRankingCmd() *cobra.Command {
	var groupBy string

	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show the player leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/players/ranking"
			if groupBy != "" {
				path += "?" + url.Values{"group_by": {groupBy}}.Encode()
			}
			var result []response.RankingEntry

			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&groupBy, "group-by", "", "Aggregate by name or id (default name)")

	return cmd
}
